package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/worlder/internal/models"
)

var (
	darkPalette  = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")
	lightPalette = NewPalette("#4B2BBF", "#027A4B", "#B00020", "#A35200", "#8A8A8A")
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title     lipgloss.Style
	ok        lipgloss.Style
	err       lipgloss.Style
	warn      lipgloss.Style
	help      lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:     NewBold(t).MarginBottom(1),
		ok:        NewBold(s),
		err:       NewBold(e),
		warn:      NewStyle(w),
		help:      NewEm(h),
		tab:       NewStyle(h).Padding(0, 1),
		activeTab: NewBold(t).Padding(0, 1).Underline(true),
	}
}

// ThemePalette returns the palette for theme.
func ThemePalette(theme models.Theme) *Palette {
	if theme == models.ThemeLight {
		return lightPalette
	}
	return darkPalette
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
