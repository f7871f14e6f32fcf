package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"blogview/internal/listing"
	"blogview/internal/manifest"
)

const (
	// postChromeHeight is the number of lines around the post viewport.
	postChromeHeight = 7
	// listChromeHeight is the number of lines around the post list.
	listChromeHeight = 9
	linesPerPost     = 3
)

func (m Model) View() string {
	if m.screen == screenPost {
		return m.viewPost()
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(m.styles.header.Render(m.siteTitle))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.viewTags())
	b.WriteString("\n\n")

	if m.listErr != nil {
		b.WriteString(m.styles.errText.Render("could not load posts: " + m.listErr.Error()))
		b.WriteString("\n")
	}

	switch {
	case m.loading:
		b.WriteString(m.styles.muted.Render("loading posts…"))
	case len(m.posts) == 0:
		b.WriteString(m.styles.empty.Render("No posts found."))
	default:
		b.WriteString(m.viewPosts())
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.styles.errText.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(listKeys(m.keys)))
	return b.String()
}

func (m Model) viewTags() string {
	parts := []string{m.tagStyle("").Render(listing.AllLabel)}
	for _, t := range m.tags {
		parts = append(parts, m.tagStyle(t.Name).Render(tagLabel(t)))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line
}

func (m Model) tagStyle(name string) lipgloss.Style {
	if name == m.active {
		return m.styles.activeTag
	}
	return m.styles.tag
}

func tagLabel(t manifest.TagCount) string {
	return t.Name + " (" + strconv.Itoa(t.Count) + ")"
}

func (m Model) viewPosts() string {
	visible := len(m.posts)
	if m.height > 0 {
		visible = max(1, (m.height-listChromeHeight)/linesPerPost)
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(len(m.posts), start+visible)

	var rows []string
	for i := start; i < end; i++ {
		rows = append(rows, m.viewCard(m.posts[i], i == m.cursor))
	}
	return strings.Join(rows, "\n")
}

func (m Model) viewCard(p manifest.Post, selected bool) string {
	marker, title := "  ", m.styles.title
	if selected {
		marker, title = "> ", m.styles.selected
	}

	meta := p.Date
	if p.Category != "" {
		meta += " · " + p.Category
	}
	if len(p.Tags) > 0 {
		meta += "  " + m.styles.chip.Render("#"+strings.Join(p.Tags, " #"))
	}

	summary := p.Summary()
	if m.width > 8 && len([]rune(summary)) > m.width-6 {
		summary = string([]rune(summary)[:m.width-7]) + "…"
	}

	return marker + title.Render(p.Title) + "\n" +
		"  " + m.styles.muted.Render(meta) + "\n" +
		"  " + m.styles.muted.Render(summary)
}

func (m Model) viewPost() string {
	var b strings.Builder

	b.WriteString(m.styles.header.Render(m.header.Title))
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(m.header.Meta))
	if len(m.header.Tags) > 0 {
		b.WriteString("  ")
		b.WriteString(m.styles.chip.Render("#" + strings.Join(m.header.Tags, " #")))
	}
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	if url := m.comments.DiscussionsURL(); url != "" && m.doc != nil {
		b.WriteString(m.styles.muted.Render("comments: " + url))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.styles.errText.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(postKeys(m.keys)))
	return b.String()
}
