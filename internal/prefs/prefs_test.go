package prefs_test

import (
	"os"
	"path/filepath"
	"testing"

	"blogview/internal/prefs"
)

// withTempHome redirects os.UserHomeDir to a temp directory for the duration of the test.
func withTempHome(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	return tmp
}

func TestOpenDefaultMissing(t *testing.T) {
	tmp := withTempHome(t)

	f, err := prefs.OpenDefault()
	if err != nil {
		t.Fatalf("OpenDefault: %v", err)
	}
	if want := filepath.Join(tmp, ".blogview", "prefs.yaml"); f.Path() != want {
		t.Errorf("Path = %s, want %s", f.Path(), want)
	}
	if _, ok := f.Get("blog-theme"); ok {
		t.Error("expected empty store")
	}
	// Opening must not create anything on disk.
	if _, err := os.Stat(filepath.Join(tmp, ".blogview")); !os.IsNotExist(err) {
		t.Error("OpenDefault should not create the directory")
	}
}

func TestFileSetPersists(t *testing.T) {
	withTempHome(t)

	f, _ := prefs.OpenDefault()
	if err := f.Set("blog-theme", "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := prefs.Open(f.Path())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	v, ok := reopened.Get("blog-theme")
	if !ok || v != "dark" {
		t.Errorf("Get = %q, %v; want dark, true", v, ok)
	}

	if err := reopened.Delete("blog-theme"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	again, _ := prefs.Open(f.Path())
	if _, ok := again.Get("blog-theme"); ok {
		t.Error("expected key to be deleted on disk")
	}
}

func TestOpenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("- not\n- a map\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := prefs.Open(path); err == nil {
		t.Fatal("expected error for non-map YAML")
	}
}

func TestMemory(t *testing.T) {
	m := prefs.NewMemory()
	if _, ok := m.Get("k"); ok {
		t.Fatal("expected empty")
	}
	m.Set("k", "v")
	if v, ok := m.Get("k"); !ok || v != "v" {
		t.Errorf("Get = %q, %v", v, ok)
	}
	m.Delete("k")
	if _, ok := m.Get("k"); ok {
		t.Error("expected deleted")
	}
}
