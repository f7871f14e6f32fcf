// Package theme resolves, applies and persists the light/dark preference.
//
// The preferred theme is the stored choice, else the system preference,
// else light. Only an explicit user choice (Toggle or Set) is stored; while
// nothing is stored, system changes are followed.
package theme

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"blogview/internal/prefs"
)

// StorageKey is the preference key holding the explicit choice.
const StorageKey = "blog-theme"

// Theme is a visual theme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse validates s as a theme name.
func Parse(s string) (Theme, error) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// SystemPreference reports the environment's dark-mode preference.
type SystemPreference interface {
	PrefersDark() bool
}

// Root receives the applied theme; it stands for the document's theme
// attribute.
type Root interface {
	SetTheme(Theme)
}

// Notifier is told about every applied theme. Notifications are
// fire-and-forget.
type Notifier interface {
	ThemeChanged(Theme)
}

// Terminal detects a dark terminal background.
type Terminal struct{}

func (Terminal) PrefersDark() bool {
	return termenv.NewOutput(os.Stdout).HasDarkBackground()
}

// Fixed is a SystemPreference that never changes unless told to.
type Fixed bool

func (f Fixed) PrefersDark() bool { return bool(f) }

// Option configures a Controller.
type Option func(*Controller)

// WithRoot sets the attribute sink.
func WithRoot(r Root) Option {
	return func(c *Controller) { c.root = r }
}

// WithNotifier adds a listener for applied themes.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifiers = append(c.notifiers, n) }
}

// Controller owns the current theme.
type Controller struct {
	store     prefs.Store
	system    SystemPreference
	root      Root
	notifiers []Notifier

	mu      sync.Mutex
	current Theme
}

// NewController returns a controller in the light state. Call Start to
// resolve the preferred theme.
func NewController(store prefs.Store, system SystemPreference, opts ...Option) *Controller {
	if system == nil {
		system = Fixed(false)
	}
	c := &Controller{store: store, system: system, current: Light}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stored returns the explicit choice, if any. Unknown stored values are
// ignored.
func (c *Controller) Stored() (Theme, bool) {
	v, ok := c.store.Get(StorageKey)
	if !ok {
		return "", false
	}
	t, err := Parse(v)
	if err != nil {
		return "", false
	}
	return t, true
}

// Pinned reports whether an explicit choice is stored.
func (c *Controller) Pinned() bool {
	_, ok := c.Stored()
	return ok
}

// Preferred resolves stored choice, then system preference, then light.
func (c *Controller) Preferred() Theme {
	if t, ok := c.Stored(); ok {
		return t
	}
	if c.system.PrefersDark() {
		return Dark
	}
	return Light
}

// Start applies the preferred theme and returns it.
func (c *Controller) Start() Theme {
	t := c.Preferred()
	c.Apply(t)
	return t
}

// Current returns the applied theme.
func (c *Controller) Current() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Apply makes t current and tells the root and notifiers. It does not
// persist anything.
func (c *Controller) Apply(t Theme) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()

	if c.root != nil {
		c.root.SetTheme(t)
	}
	for _, n := range c.notifiers {
		n.ThemeChanged(t)
	}
}

// Set applies t as an explicit user choice and stores it.
func (c *Controller) Set(t Theme) error {
	c.Apply(t)
	if err := c.store.Set(StorageKey, string(t)); err != nil {
		return fmt.Errorf("store theme: %w", err)
	}
	return nil
}

// Toggle flips the current theme and stores the result.
func (c *Controller) Toggle() (Theme, error) {
	next := c.Current().Opposite()
	return next, c.Set(next)
}

// Reset forgets the explicit choice and falls back to the system preference.
func (c *Controller) Reset() (Theme, error) {
	if err := c.store.Delete(StorageKey); err != nil {
		return c.Current(), fmt.Errorf("clear theme: %w", err)
	}
	return c.Start(), nil
}

// SystemChanged handles a system preference change. It applies the new
// theme only when no explicit choice is stored, and reports whether it did.
func (c *Controller) SystemChanged(dark bool) bool {
	if c.Pinned() {
		return false
	}
	t := Light
	if dark {
		t = Dark
	}
	c.Apply(t)
	return true
}

// Watch polls the system preference every interval and feeds changes to
// SystemChanged until ctx is done.
func (c *Controller) Watch(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := c.system.PrefersDark()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			dark := c.system.PrefersDark()
			if dark == last {
				continue
			}
			last = dark
			c.SystemChanged(dark)
		}
	}
}
