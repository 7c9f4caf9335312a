package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Prompt        lipgloss.Style
	Dim           lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Option        lipgloss.Style
	Group         lipgloss.Style
	Selected      lipgloss.Style
	Disabled      lipgloss.Style
	Chip          lipgloss.Style
	Highlight     lipgloss.Style
	HighlightBg   lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Prompt:        lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(0, 1),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Option:        lipgloss.NewStyle(),
		Group:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Selected:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		Disabled:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true),
		Chip:          lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("78")).Padding(0, 1),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		HighlightBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
	}
}
