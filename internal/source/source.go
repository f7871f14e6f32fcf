// Package source abstracts where a blog's static files come from.
//
// A blog is a web root (or a local directory) holding posts.json and a
// pages/ directory of markdown files. Names passed to Open are relative to
// that root and may carry percent-encoded segments, exactly as they would
// appear in a relative URL.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// ErrNotFound reports that the requested file does not exist.
var ErrNotFound = errors.New("not found")

// Source opens files relative to a blog root.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// StatusError is returned by HTTP when the server answers with a
// non-success status code.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Is makes a 404 match ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// New returns an HTTP source for http(s) URLs and a directory source for
// anything else.
func New(site string, client *http.Client) (Source, error) {
	if strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		return NewHTTP(site, client)
	}
	info, err := os.Stat(site)
	if err != nil {
		return nil, fmt.Errorf("open site %s: %w", site, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open site %s: not a directory", site)
	}
	return Dir{FS: os.DirFS(site)}, nil
}

// HTTP fetches files relative to a base URL.
type HTTP struct {
	Base   *url.URL
	Client *http.Client
}

// NewHTTP parses base and returns a source rooted at it. A nil client means
// http.DefaultClient.
func NewHTTP(base string, client *http.Client) (*HTTP, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse site url: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{Base: u, Client: client}, nil
}

// Open issues a GET for name resolved against the base URL. The caller must
// close the returned body.
func (h *HTTP) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", name, err)
	}
	target := h.Base.ResolveReference(ref).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}

// Dir reads files from a file system, typically os.DirFS of a checked-out
// blog.
type Dir struct {
	FS fs.FS
}

// Open unescapes name and opens it from the file system.
func (d Dir) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := url.PathUnescape(name)
	if err != nil {
		return nil, fmt.Errorf("unescape %q: %w", name, err)
	}
	f, err := d.FS.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, fmt.Errorf("open %s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// ReadAll opens name and reads it to the end.
func ReadAll(ctx context.Context, src Source, name string) ([]byte, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
