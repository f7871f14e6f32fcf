package listing

import (
	"bytes"
	"html/template"
	"io"

	"blogview/internal/manifest"
)

// AllLabel is the caption of the control that clears the tag filter.
const AllLabel = "All"

var tagsTmpl = template.Must(template.New("tags").Parse(
	`<button class="tag-btn{{if eq .Active ""}} active{{end}}">{{.All}}</button>` +
		`{{range .Tags}}<button class="tag-btn{{if eq .Name $.Active}} active{{end}}" data-tag="{{.Name}}">{{.Name}} ({{.Count}})</button>{{end}}`))

var postsTmpl = template.Must(template.New("posts").Parse(
	`{{range .}}<a href="post.html?file={{.File}}" class="post-card">` +
		`<h2 class="post-card-title">{{.Title}}</h2>` +
		`<div class="post-card-meta">{{.Date}}{{if .Category}} &middot; {{.Category}}{{end}}</div>` +
		`{{with .Summary}}<p class="post-card-description">{{.}}</p>{{end}}` +
		`{{if .Tags}}<div class="post-card-tags">{{range .Tags}}<span class="post-card-tag">{{.}}</span>{{end}}</div>{{end}}` +
		`</a>{{end}}`))

var pageTmpl = template.Must(template.New("page").Parse(
	`<div id="tags-container">{{.Tags}}</div>
{{with .Error}}<p id="load-error" class="load-error">{{.}}</p>
{{end}}<div id="posts-container"{{if .NoResults}} hidden{{end}}>{{.Posts}}</div>
<p id="no-results"{{if not .NoResults}} hidden{{end}}>No posts found.</p>
`))

// HTMLView renders the list page as HTML fragments, one per container.
// Every interpolated field is escaped.
type HTMLView struct {
	Tags      template.HTML
	Posts     template.HTML
	NoResults bool
	Error     string
}

func (v *HTMLView) RenderTags(tags []manifest.TagCount, active string) {
	v.Tags = execute(tagsTmpl, struct {
		All    string
		Tags   []manifest.TagCount
		Active string
	}{AllLabel, tags, active})
}

func (v *HTMLView) RenderPosts(posts []manifest.Post) {
	if len(posts) == 0 {
		v.Posts = ""
		v.NoResults = true
		return
	}
	v.NoResults = false
	v.Posts = execute(postsTmpl, posts)
}

func (v *HTMLView) RenderError(err error) {
	v.Error = err.Error()
}

// WriteTo writes all containers as one fragment.
func (v *HTMLView) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, v); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// execute runs a template whose data cannot fail to render.
func execute(t *template.Template, data any) template.HTML {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return template.HTML(template.HTMLEscapeString(err.Error()))
	}
	return template.HTML(buf.String())
}
