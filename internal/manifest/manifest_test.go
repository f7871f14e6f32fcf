package manifest_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"blogview/internal/manifest"
	"blogview/internal/source"
)

func samplePosts() []manifest.Post {
	return []manifest.Post{
		{File: "go.md", Title: "Go", Tags: []string{"go", "lang"}},
		{File: "rust.md", Title: "Rust", Tags: []string{"rust", "lang"}},
		{File: "notes.md", Title: "Notes"},
		{File: "tools.md", Title: "Tools", Tags: []string{"go"}},
	}
}

func TestTagsCountsAndOrder(t *testing.T) {
	posts := samplePosts()
	tags := manifest.Tags(posts)

	want := []manifest.TagCount{
		{Name: "go", Count: 2},
		{Name: "lang", Count: 2},
		{Name: "rust", Count: 1},
	}
	if len(tags) != len(want) {
		t.Fatalf("got %d tags, want %d: %+v", len(tags), len(want), tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %+v, want %+v", i, tags[i], want[i])
		}
	}

	// Every count matches the number of posts carrying the tag.
	for _, tc := range tags {
		n := 0
		for _, p := range posts {
			if p.HasTag(tc.Name) {
				n++
			}
		}
		if n != tc.Count {
			t.Errorf("tag %q: count %d, posts %d", tc.Name, tc.Count, n)
		}
	}
}

func TestTagsEmpty(t *testing.T) {
	if got := manifest.Tags(nil); len(got) != 0 {
		t.Errorf("expected no tags, got %+v", got)
	}
}

func TestFilterByTag(t *testing.T) {
	posts := samplePosts()

	tests := []struct {
		tag  string
		want []string
	}{
		{"", []string{"go.md", "rust.md", "notes.md", "tools.md"}},
		{"go", []string{"go.md", "tools.md"}},
		{"lang", []string{"go.md", "rust.md"}},
		{"missing", nil},
		// Tag matching is exact, not substring.
		{"g", nil},
	}
	for _, tc := range tests {
		got := manifest.FilterByTag(posts, tc.tag)
		var files []string
		for _, p := range got {
			files = append(files, p.File)
		}
		if strings.Join(files, ",") != strings.Join(tc.want, ",") {
			t.Errorf("FilterByTag(%q) = %v, want %v", tc.tag, files, tc.want)
		}
	}
}

func TestSummary(t *testing.T) {
	p := manifest.Post{Excerpt: "ex"}
	if p.Summary() != "ex" {
		t.Errorf("Summary = %q, want excerpt", p.Summary())
	}
	p.Description = "desc"
	if p.Summary() != "desc" {
		t.Errorf("Summary = %q, want description", p.Summary())
	}
}

func TestLoad(t *testing.T) {
	src := source.Dir{FS: fstest.MapFS{
		"posts.json": {Data: []byte(`[
			{"file":"a.md","title":"A","date":"2024-01-02","category":"dev","description":"d","tags":["x","y"]},
			{"file":"b.md","title":"B","date":"2024-01-01","excerpt":"e"}
		]`)},
	}}

	posts, err := manifest.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts", len(posts))
	}
	if posts[0].Category != "dev" || len(posts[0].Tags) != 2 {
		t.Errorf("unexpected first post: %+v", posts[0])
	}
	if posts[1].Excerpt != "e" || posts[1].Tags != nil {
		t.Errorf("unexpected second post: %+v", posts[1])
	}
}

func TestLoadMissing(t *testing.T) {
	src := source.Dir{FS: fstest.MapFS{}}
	_, err := manifest.Load(context.Background(), src)
	if !errors.Is(err, source.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := manifest.Decode(strings.NewReader(`{"not":"an array"}`)); err == nil {
		t.Error("expected error for non-array manifest")
	}
	posts, err := manifest.Decode(strings.NewReader(`null`))
	if err != nil {
		t.Fatalf("Decode(null): %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", posts)
	}
}

func TestDecodeLooseTags(t *testing.T) {
	posts, err := manifest.Decode(strings.NewReader(`[
		{"file":"a.md","title":"A","tags":"go"},
		{"file":"b.md","title":"B","tags":["go",null,2]},
		{"file":"c.md","title":"C","tags":{"go":true}},
		{"file":"d.md","title":"D","tags":null}
	]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(posts) != 4 {
		t.Fatalf("got %d posts", len(posts))
	}
	for _, i := range []int{0, 2, 3} {
		if posts[i].Tags != nil {
			t.Errorf("%s: tags = %q, want untagged", posts[i].File, posts[i].Tags)
		}
	}
	if got := strings.Join(posts[1].Tags, ","); got != "go,2" {
		t.Errorf("b.md tags = %q", got)
	}
	if posts[0].Title != "A" || posts[1].File != "b.md" {
		t.Errorf("other fields lost: %+v", posts[:2])
	}
	if tags := manifest.Tags(posts); len(tags) != 2 || tags[1].Name != "go" || tags[1].Count != 1 {
		t.Errorf("tag index = %+v", tags)
	}
}
