package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// maxChipWidth bounds a selected-option chip
const maxChipWidth = 24

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Title         string
	Input         string // rendered text input
	Chips         []string
	MenuOpen      bool
	Menu          MenuState
	StatusMessage string
	StatusIsError bool
	HelpView      string
}

// Renderer handles all view rendering
type Renderer struct {
	styles     *Styles
	menuRender *MenuRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:     styles,
		menuRender: NewMenuRenderer(styles),
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	var lines []string

	if state.Title != "" {
		lines = append(lines, r.styles.Title.Render(state.Title))
	}

	if len(state.Chips) > 0 {
		lines = append(lines, r.renderChips(state.Chips, state.Width))
	}

	lines = append(lines, state.Input)

	if state.MenuOpen {
		lines = append(lines, r.menuRender.Render(state.Menu))
	}

	if state.StatusMessage != "" {
		style := r.styles.StatusLoading
		if state.StatusIsError {
			style = r.styles.StatusError
		}
		lines = append(lines, style.Render(state.StatusMessage))
	}

	if state.HelpView != "" {
		lines = append(lines, "", r.styles.Help.Render(state.HelpView))
	}

	return r.styles.Main.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) renderChips(labels []string, width int) string {
	chips := make([]string, 0, len(labels))
	for _, label := range labels {
		chips = append(chips, r.styles.Chip.Render(runewidth.Truncate(label, maxChipWidth, "…")))
	}
	line := strings.Join(chips, " ")
	if width > 0 && lipgloss.Width(line) > width {
		return lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}
