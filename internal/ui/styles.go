package ui

import (
	"github.com/charmbracelet/lipgloss"

	"blogview/internal/theme"
)

type palette struct {
	text, muted, accent, accentText, errText lipgloss.Color
}

var palettes = map[theme.Theme]palette{
	theme.Light: {text: "#1f2328", muted: "#656d76", accent: "#0969da", accentText: "#ffffff", errText: "#cf222e"},
	theme.Dark:  {text: "#e6edf3", muted: "#8d96a0", accent: "#4493f8", accentText: "#0d1117", errText: "#f85149"},
}

type styles struct {
	header    lipgloss.Style
	muted     lipgloss.Style
	tag       lipgloss.Style
	activeTag lipgloss.Style
	chip      lipgloss.Style
	title     lipgloss.Style
	selected  lipgloss.Style
	errText   lipgloss.Style
	empty     lipgloss.Style
}

func newStyles(t theme.Theme) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[theme.Light]
	}
	return styles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(p.accent).MarginBottom(1),
		muted:     lipgloss.NewStyle().Foreground(p.muted),
		tag:       lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		activeTag: lipgloss.NewStyle().Foreground(p.accentText).Background(p.accent).Padding(0, 1),
		chip:      lipgloss.NewStyle().Foreground(p.accent),
		title:     lipgloss.NewStyle().Bold(true).Foreground(p.text),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		errText:   lipgloss.NewStyle().Foreground(p.errText),
		empty:     lipgloss.NewStyle().Foreground(p.muted).Italic(true).Padding(1, 2),
	}
}
