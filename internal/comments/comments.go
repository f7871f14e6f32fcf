// Package comments embeds the giscus discussion widget under a post and
// keeps its theme in sync.
package comments

import (
	"bytes"
	"encoding/json"
	"html/template"
	"regexp"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"blogview/internal/theme"
)

// Config identifies the discussion repository and widget behaviour.
type Config struct {
	Repo          string `yaml:"repo"`
	RepoID        string `yaml:"repo_id"`
	Category      string `yaml:"category"`
	CategoryID    string `yaml:"category_id"`
	Mapping       string `yaml:"mapping"`
	Strict        bool   `yaml:"strict"`
	Reactions     bool   `yaml:"reactions"`
	EmitMetadata  bool   `yaml:"emit_metadata"`
	InputPosition string `yaml:"input_position"`
	Lang          string `yaml:"lang"`
	Endpoint      string `yaml:"endpoint"`
	Origin        string `yaml:"origin"`
}

// DefaultConfig returns the widget defaults with no repository set.
func DefaultConfig() Config {
	return Config{
		Category:      "General",
		Mapping:       "pathname",
		Reactions:     true,
		EmitMetadata:  true,
		InputPosition: "bottom",
		Lang:          "en",
		Endpoint:      "https://giscus.app/client.js",
		Origin:        "https://giscus.app",
	}
}

// Enabled reports whether a repository is configured.
func (c Config) Enabled() bool { return c.Repo != "" }

// DiscussionsURL points at the repository's discussion list.
func (c Config) DiscussionsURL() string {
	if !c.Enabled() {
		return ""
	}
	return "https://github.com/" + c.Repo + "/discussions"
}

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// Validate checks a configured widget. A config without a repository is
// always valid.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Repo, validation.Match(repoPattern).Error("must be owner/name")),
		validation.Field(&c.RepoID, validation.Required),
		validation.Field(&c.CategoryID, validation.Required),
		validation.Field(&c.Mapping, validation.In("pathname", "url", "title", "og:title", "specific", "number")),
		validation.Field(&c.InputPosition, validation.In("top", "bottom")),
		validation.Field(&c.Endpoint, validation.Required),
		validation.Field(&c.Origin, validation.Required),
	)
}

var embedTmpl = template.Must(template.New("giscus").Funcs(template.FuncMap{
	"flag": func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	},
}).Parse(
	`<script src="{{.Endpoint}}" data-repo="{{.Repo}}" data-repo-id="{{.RepoID}}"` +
		` data-category="{{.Category}}" data-category-id="{{.CategoryID}}"` +
		` data-mapping="{{.Mapping}}" data-strict="{{flag .Strict}}"` +
		` data-reactions-enabled="{{flag .Reactions}}" data-emit-metadata="{{flag .EmitMetadata}}"` +
		` data-input-position="{{.InputPosition}}" data-theme="{{.Theme}}" data-lang="{{.Lang}}"` +
		` crossorigin="anonymous" async></script>`))

// Embed returns the script tag that loads the widget with theme t. It
// returns "" when no repository is configured.
func Embed(c Config, t theme.Theme) (template.HTML, error) {
	if !c.Enabled() {
		return "", nil
	}
	data := struct {
		Config
		Theme theme.Theme
	}{c, widgetTheme(t)}

	var buf bytes.Buffer
	if err := embedTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func widgetTheme(t theme.Theme) theme.Theme {
	if t == theme.Dark {
		return theme.Dark
	}
	return theme.Light
}

type setConfig struct {
	Giscus struct {
		SetConfig struct {
			Theme theme.Theme `json:"theme"`
		} `json:"setConfig"`
	} `json:"giscus"`
}

// ThemeMessage is the message that switches a loaded widget to theme t.
func ThemeMessage(t theme.Theme) ([]byte, error) {
	var m setConfig
	m.Giscus.SetConfig.Theme = widgetTheme(t)
	return json.Marshal(m)
}

// Poster delivers a message to an embedded frame.
type Poster interface {
	PostMessage(payload []byte, targetOrigin string) error
}

// Frame forwards theme changes to an attached widget frame. It implements
// theme.Notifier; with no frame attached it does nothing.
type Frame struct {
	origin string

	mu     sync.Mutex
	poster Poster
}

// NewFrame returns a Frame that posts to origin.
func NewFrame(origin string) *Frame {
	return &Frame{origin: origin}
}

// Attach sets the frame to notify. A nil poster detaches.
func (f *Frame) Attach(p Poster) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.poster = p
}

// ThemeChanged posts the theme message. Delivery errors are dropped. It may
// be called from any goroutine.
func (f *Frame) ThemeChanged(t theme.Theme) {
	f.mu.Lock()
	poster := f.poster
	f.mu.Unlock()
	if poster == nil {
		return
	}
	msg, err := ThemeMessage(t)
	if err != nil {
		return
	}
	_ = poster.PostMessage(msg, f.origin)
}
