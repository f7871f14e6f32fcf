// Package prefs persists small user preferences under ~/.blogview/.
//
// Directory layout:
//
//	~/.blogview/
//	    settings.yaml    # user configuration (see internal/config)
//	    prefs.yaml       # key/value preferences written by blogview itself
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is a string key/value store.
type Store interface {
	// Get returns the stored value and whether it exists.
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Dir returns the base ~/.blogview directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".blogview"), nil
}

// File is a Store backed by a YAML map on disk. Every write rewrites the
// whole file.
type File struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// Open loads the preferences file at path. A missing file is an empty store.
func Open(path string) (*File, error) {
	f := &File{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	if f.values == nil {
		f.values = map[string]string{}
	}
	return f, nil
}

// OpenDefault opens ~/.blogview/prefs.yaml.
func OpenDefault() (*File, error) {
	base, err := Dir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(base, "prefs.yaml"))
}

// Path returns the backing file's path.
func (f *File) Path() string { return f.path }

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, had := f.values[key]
	f.values[key] = value
	if err := f.save(); err != nil {
		if had {
			f.values[key] = old
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, had := f.values[key]
	if !had {
		return nil
	}
	delete(f.values, key)
	if err := f.save(); err != nil {
		f.values[key] = old
		return err
	}
	return nil
}

// save writes the map atomically. Callers hold f.mu.
func (f *File) save() error {
	data, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
