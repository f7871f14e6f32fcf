// Package search filters the post list by free text, on top of the active
// tag chosen in the listing.
package search

import (
	"strings"
	"time"

	"blogview/internal/manifest"
)

// DefaultDelay is how long typing must pause before a filter pass runs.
const DefaultDelay = 300 * time.Millisecond

// Host is the listing surface search reads from and renders through.
type Host interface {
	AllPosts() []manifest.Post
	ActiveTag() string
	RenderPosts(posts []manifest.Post)
}

// Input is the search text field.
type Input interface {
	SetValue(string)
}

// Filter narrows posts to activeTag, then to those whose title,
// description, excerpt, category or tags contain query, ignoring case. A
// blank query keeps the whole tag-narrowed set.
func Filter(posts []manifest.Post, activeTag, query string) []manifest.Post {
	posts = manifest.FilterByTag(posts, activeTag)

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return posts
	}
	out := make([]manifest.Post, 0, len(posts))
	for _, p := range posts {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p manifest.Post, q string) bool {
	for _, field := range []string{p.Title, p.Description, p.Excerpt, p.Category} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Search runs filter passes against a Host.
type Search struct {
	host     Host
	input    Input
	debounce *Debouncer
}

// New returns a Search bound to host. input may be nil; clock nil means the
// real clock; delay <= 0 means DefaultDelay.
func New(host Host, input Input, clock Clock, delay time.Duration) *Search {
	if delay <= 0 {
		delay = DefaultDelay
	}
	s := &Search{host: host, input: input}
	s.debounce = NewDebouncer(clock, delay, s.Run)
	return s
}

// Run filters the host's posts by query and renders the result.
func (s *Search) Run(query string) {
	if s.host == nil {
		return
	}
	s.host.RenderPosts(Filter(s.host.AllPosts(), s.host.ActiveTag(), query))
}

// Changed schedules a filter pass after the typing pause.
func (s *Search) Changed(query string) { s.debounce.Trigger(query) }

// Confirm filters immediately, dropping any scheduled pass.
func (s *Search) Confirm(query string) { s.debounce.Flush(query) }

// Reset clears the input field. It does not re-render.
func (s *Search) Reset() {
	if s.input != nil {
		s.input.SetValue("")
	}
}

// Stop drops any scheduled pass.
func (s *Search) Stop() { s.debounce.Stop() }
