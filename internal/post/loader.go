// Package post loads a single markdown post and renders it for the detail
// view.
package post

import (
	"context"
	"errors"
	"net/url"

	"blogview/internal/frontmatter"
	"blogview/internal/source"
)

// Param is the query-string parameter naming the post file.
const Param = "file"

// PagesDir holds the markdown files, relative to the blog root.
const PagesDir = "pages/"

// ErrNoFile is returned when no post file was named.
var ErrNoFile = errors.New("no file specified")

// LoadError wraps a failed fetch of a post.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	var se *source.StatusError
	if errors.As(e.Err, &se) || errors.Is(e.Err, source.ErrNotFound) {
		return "file not found: " + e.File
	}
	return e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// FileParam extracts the file parameter from a raw query string such as
// "file=hello.md" or "?file=hello.md".
func FileParam(rawQuery string) string {
	if len(rawQuery) > 0 && rawQuery[0] == '?' {
		rawQuery = rawQuery[1:]
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil && len(q) == 0 {
		return ""
	}
	return q.Get(Param)
}

// Loader fetches posts from a blog source.
type Loader struct {
	src source.Source
}

// NewLoader returns a Loader reading from src.
func NewLoader(src source.Source) *Loader {
	return &Loader{src: src}
}

// Load fetches pages/<file> and parses it. A failed fetch is not retried.
func (l *Loader) Load(ctx context.Context, file string) (frontmatter.Document, error) {
	if file == "" {
		return frontmatter.Document{}, ErrNoFile
	}
	data, err := source.ReadAll(ctx, l.src, PagesDir+url.PathEscape(file))
	if err != nil {
		return frontmatter.Document{}, &LoadError{File: file, Err: err}
	}
	return frontmatter.Parse(string(data)), nil
}
