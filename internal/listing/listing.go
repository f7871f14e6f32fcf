// Package listing owns the post list: it loads the manifest, keeps the
// active tag, and pushes tag controls and post cards to a Renderer.
package listing

import (
	"context"
	"io"
	"log"
	"slices"
	"sync"

	"blogview/internal/manifest"
	"blogview/internal/source"
)

// Renderer draws the list page.
type Renderer interface {
	// RenderTags draws the "all" control plus one control per tag, marking
	// active ("" means "all").
	RenderTags(tags []manifest.TagCount, active string)
	// RenderPosts draws cards, or the no-results placeholder when posts is
	// empty.
	RenderPosts(posts []manifest.Post)
	// RenderError shows that the manifest could not be loaded.
	RenderError(err error)
}

// Resetter clears the search field when the tag selection changes.
type Resetter interface {
	Reset()
}

// App is the list page's state owner. It is safe for concurrent use; the
// renderer is always called without App's lock held.
type App struct {
	src    source.Source
	view   Renderer
	logger *log.Logger

	mu     sync.RWMutex
	posts  []manifest.Post
	tags   []manifest.TagCount
	active string
	reset  Resetter
}

// New returns an App that loads from src and draws on view. A nil logger
// discards.
func New(src source.Source, view Renderer, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &App{src: src, view: view, logger: logger}
}

// SetResetter wires the search field reset.
func (a *App) SetResetter(r Resetter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset = r
}

// Init loads the manifest and draws the tags and cards. On failure it logs,
// draws an empty list plus the error, and returns the error.
func (a *App) Init(ctx context.Context) error {
	posts, err := manifest.Load(ctx, a.src)
	if err != nil {
		a.logger.Printf("load posts: %v", err)
		posts = []manifest.Post{}
	}
	tags := manifest.Tags(posts)

	a.mu.Lock()
	a.posts = posts
	a.tags = tags
	a.active = ""
	a.mu.Unlock()

	a.view.RenderTags(tags, "")
	a.view.RenderPosts(posts)
	if err != nil {
		a.view.RenderError(err)
	}
	return err
}

// SelectTag makes tag the active filter ("" clears it), redraws, and
// clears the search field.
func (a *App) SelectTag(tag string) {
	a.mu.Lock()
	a.active = tag
	posts := manifest.FilterByTag(a.posts, tag)
	tags := a.tags
	reset := a.reset
	a.mu.Unlock()

	a.view.RenderTags(tags, tag)
	a.view.RenderPosts(posts)
	if reset != nil {
		reset.Reset()
	}
}

// AllPosts returns a copy of the loaded posts.
func (a *App) AllPosts() []manifest.Post {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.posts)
}

// Tags returns the tag index of the loaded posts.
func (a *App) Tags() []manifest.TagCount {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.tags)
}

// ActiveTag returns the selected tag, or "".
func (a *App) ActiveTag() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.active
}

// RenderPosts draws posts through the app's renderer.
func (a *App) RenderPosts(posts []manifest.Post) {
	a.view.RenderPosts(posts)
}
