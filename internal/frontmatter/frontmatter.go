// Package frontmatter splits a markdown post into its metadata header and
// body.
//
// The header is a block of "key: value" lines between two "---" lines at the
// very top of the document. It is not YAML: values are single-line strings
// with optional surrounding quotes, except for "tags", which may be written
// as a bracketed list.
package frontmatter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const bom = "\ufeff"

var block = regexp.MustCompile(`^---\r?\n([\s\S]*?)\r?\n---\r?\n([\s\S]*)$`)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Value is a metadata value: either a single string or a list.
type Value struct {
	Str    string
	List   []string
	IsList bool
}

// String returns the scalar value, or the list joined with ", ".
func (v Value) String() string {
	if v.IsList {
		return strings.Join(v.List, ", ")
	}
	return v.Str
}

// Metadata maps header keys to their values.
type Metadata map[string]Value

// String returns the value for key as a string, or "" when absent.
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	return v.String()
}

// Tags returns the "tags" value when it was written as a list.
func (m Metadata) Tags() []string {
	v, ok := m["tags"]
	if !ok || !v.IsList {
		return nil
	}
	return v.List
}

// Document is a parsed post.
type Document struct {
	Meta Metadata
	Body string
}

// StripBOM removes a leading UTF-8 byte-order mark.
func StripBOM(content string) string {
	return strings.TrimPrefix(content, bom)
}

// Parse splits content into metadata and body. It never fails: content
// without a well-formed header yields empty metadata and the whole content
// as body.
func Parse(content string) Document {
	content = StripBOM(content)
	m := block.FindStringSubmatch(content)
	if m == nil {
		return Document{Meta: Metadata{}, Body: content}
	}

	meta := Metadata{}
	for _, line := range lineBreak.Split(m[1], -1) {
		colon := strings.Index(line, ":")
		if colon <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		value := unquote(strings.TrimSpace(line[colon+1:]))

		if key == "tags" && strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			meta[key] = Value{List: parseList(value), IsList: true}
			continue
		}
		meta[key] = Value{Str: value}
	}
	return Document{Meta: meta, Body: m[2]}
}

// unquote strips one pair of matching surrounding quotes.
func unquote(s string) string {
	for _, q := range []string{`"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			if len(s) < 2 {
				return ""
			}
			return s[1 : len(s)-1]
		}
	}
	return s
}

// parseList decodes a bracketed list as JSON, falling back to a plain
// comma split for lists like [go, 'rust'].
func parseList(s string) []string {
	var items []any
	if err := json.Unmarshal([]byte(s), &items); err == nil {
		out := make([]string, 0, len(items))
		for _, it := range items {
			switch v := it.(type) {
			case nil:
				out = append(out, "")
			case string:
				out = append(out, v)
			default:
				out = append(out, fmt.Sprint(v))
			}
		}
		return out
	}

	parts := strings.Split(s[1:len(s)-1], ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, `"`) || strings.HasPrefix(p, "'") {
			p = p[1:]
		}
		if strings.HasSuffix(p, `"`) || strings.HasSuffix(p, "'") {
			p = p[:len(p)-1]
		}
		out = append(out, p)
	}
	return out
}
