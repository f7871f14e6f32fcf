// Package manifest loads the blog's post index (posts.json) and derives the
// tag index from it.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"

	"blogview/internal/source"
)

// File is the manifest's name relative to the blog root.
const File = "posts.json"

// Post is one entry of the manifest.
type Post struct {
	File        string   `json:"file"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Summary returns the description, or the excerpt when there is none.
func (p Post) Summary() string {
	if p.Description != "" {
		return p.Description
	}
	return p.Excerpt
}

// HasTag reports whether tag is one of the post's tags.
func (p Post) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// UnmarshalJSON decodes a post. A "tags" value that is not an array leaves
// the post untagged; non-string entries in the array are stringified and
// nulls are skipped.
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	var raw struct {
		plain
		Tags json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Post(raw.plain)
	p.Tags = nil

	var items []any
	if len(raw.Tags) == 0 || json.Unmarshal(raw.Tags, &items) != nil {
		return nil
	}
	for _, item := range items {
		switch v := item.(type) {
		case nil:
		case string:
			p.Tags = append(p.Tags, v)
		default:
			p.Tags = append(p.Tags, fmt.Sprint(v))
		}
	}
	return nil
}

// Load fetches and decodes the manifest from src.
func Load(ctx context.Context, src source.Source) ([]Post, error) {
	rc, err := src.Open(ctx, File)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", File, err)
	}
	defer rc.Close()
	return Decode(rc)
}

// Decode reads a JSON array of posts.
func Decode(r io.Reader) ([]Post, error) {
	var posts []Post
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", File, err)
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

// TagCount is one entry of the tag index.
type TagCount struct {
	Name  string
	Count int
}

// Tags counts how many posts carry each tag. The result is sorted by name.
func Tags(posts []Post) []TagCount {
	counts := make(map[string]int)
	for _, p := range posts {
		for _, tag := range p.Tags {
			counts[tag]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, TagCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FilterByTag returns the posts tagged with tag. An empty tag selects every
// post.
func FilterByTag(posts []Post, tag string) []Post {
	if tag == "" {
		return posts
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}
