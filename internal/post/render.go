package post

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"blogview/internal/comments"
	"blogview/internal/frontmatter"
	"blogview/internal/theme"
)

const (
	untitled      = "Untitled"
	documentTitle = "Post"
	metaSeparator = " · "
)

// Page is a rendered post, one field per detail-page container.
type Page struct {
	Title         string
	DocumentTitle string
	Meta          string
	Tags          []string
	Body          template.HTML
	Comments      template.HTML
}

// Header fills the title, meta line and tags of a page from metadata.
func Header(meta frontmatter.Metadata, siteTitle string) Page {
	p := Page{
		Title:         meta.String("title"),
		DocumentTitle: meta.String("title"),
		Tags:          meta.Tags(),
	}
	if p.Title == "" {
		p.Title = untitled
		p.DocumentTitle = documentTitle
	}
	if siteTitle != "" {
		p.DocumentTitle += " - " + siteTitle
	}

	var parts []string
	for _, key := range []string{"date", "category"} {
		if v := meta.String(key); v != "" {
			parts = append(parts, v)
		}
	}
	p.Meta = strings.Join(parts, metaSeparator)
	return p
}

// Renderer turns posts into HTML pages.
type Renderer struct {
	md        goldmark.Markdown
	siteTitle string
	comments  comments.Config
}

// NewRenderer returns a Renderer. Fenced code blocks are highlighted with
// CSS classes; see StyleSheet.
func NewRenderer(siteTitle string, cfg comments.Config) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
	return &Renderer{md: md, siteTitle: siteTitle, comments: cfg}
}

// Render converts doc into a page. Raw HTML in the body is dropped, not
// passed through. The comment embed uses theme t.
func (r *Renderer) Render(doc frontmatter.Document, t theme.Theme) (Page, error) {
	p := Header(doc.Meta, r.siteTitle)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(doc.Body), &buf); err != nil {
		return Page{}, fmt.Errorf("render markdown: %w", err)
	}
	p.Body = template.HTML(buf.String())

	embed, err := comments.Embed(r.comments, t)
	if err != nil {
		return Page{}, fmt.Errorf("render comments: %w", err)
	}
	p.Comments = embed
	return p, nil
}

// ErrorPage is the page shown when a post cannot be loaded.
func ErrorPage(msg, siteTitle string) Page {
	p := Page{Title: "Error", DocumentTitle: "Error"}
	if siteTitle != "" {
		p.DocumentTitle += " - " + siteTitle
	}
	p.Body = template.HTML(`<p class="load-error">` + template.HTMLEscapeString(msg) + `</p>` +
		`<p><a href="index.html">&larr; Back to posts</a></p>`)
	return p
}

var pageTmpl = template.Must(template.New("post").Parse(
	`<title>{{.DocumentTitle}}</title>
<h1 id="post-title">{{.Title}}</h1>
<div id="post-meta">{{.Meta}}</div>
<div id="post-tags">{{range .Tags}}<span class="tag-btn">{{.}}</span>{{end}}</div>
<div id="post-body">{{.Body}}</div>
<div id="giscus-container">{{.Comments}}</div>
`))

// WriteTo writes the page's containers as an HTML fragment.
func (p Page) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// StyleSheet returns the CSS for highlighted code in theme t.
func StyleSheet(t theme.Theme) (string, error) {
	name := "github"
	if t == theme.Dark {
		name = "github-dark"
	}
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(name)); err != nil {
		return "", fmt.Errorf("highlight css: %w", err)
	}
	return buf.String(), nil
}

// Terminal renders a markdown body for a terminal of the given width.
func Terminal(body string, t theme.Theme, width int) (string, error) {
	if width < 40 {
		width = 40
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(t)),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return "", err
	}
	return r.Render(body)
}
