// Package config loads blogview settings from ~/.blogview/settings.yaml.
//
// Example:
//
//	site: https://someone.github.io
//	title: someone's Blog
//	search_delay: 300ms
//	comments:
//	  repo: someone/someone.github.io
//	  repo_id: R_xxx
//	  category_id: DIC_xxx
//	  lang: ko
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"blogview/internal/comments"
	"blogview/internal/prefs"
	"blogview/internal/search"
)

// Settings holds blogview configuration.
type Settings struct {
	// Site is the blog root: an http(s) URL or a local directory.
	Site string `yaml:"site"`
	// Title is appended to page titles.
	Title string `yaml:"title"`
	// SearchDelay is the typing pause before a search runs.
	SearchDelay time.Duration   `yaml:"search_delay"`
	Comments    comments.Config `yaml:"comments"`
}

// Default returns settings for a blog in the current directory.
func Default() Settings {
	return Settings{
		Site:        ".",
		Title:       "Blog",
		SearchDelay: search.DefaultDelay,
		Comments:    comments.DefaultConfig(),
	}
}

// DefaultPath returns ~/.blogview/settings.yaml.
func DefaultPath() (string, error) {
	base, err := prefs.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "settings.yaml"), nil
}

// Load reads settings from path over the defaults. A missing file yields
// the defaults, not an error.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	if s.SearchDelay <= 0 {
		s.SearchDelay = search.DefaultDelay
	}
	if err := s.Comments.Validate(); err != nil {
		return s, fmt.Errorf("%s: comments: %w", path, err)
	}
	return s, nil
}
