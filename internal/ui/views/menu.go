package views

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"combobox/internal/host"
)

// MenuState is what the menu renderer needs for one frame
type MenuState struct {
	Rows        []host.OptionProps[string]
	Start, End  int // visible row range
	Width       int
	MultiSelect bool
	Loading     bool
	HasMore     bool
}

// MenuRenderer handles rendering of the option menu
type MenuRenderer struct {
	styles *Styles
}

// NewMenuRenderer creates a new menu renderer
func NewMenuRenderer(styles *Styles) *MenuRenderer {
	return &MenuRenderer{styles: styles}
}

// Render renders the visible rows with scroll indicators
func (r *MenuRenderer) Render(s MenuState) string {
	if len(s.Rows) == 0 {
		if s.Loading {
			return r.styles.StatusLoading.Render("Loading…")
		}
		return r.styles.Dim.Render("No options")
	}

	start := max(0, min(s.Start, len(s.Rows)))
	end := max(start, min(s.End, len(s.Rows)))

	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more", start)))
	}
	for _, row := range s.Rows[start:end] {
		lines = append(lines, r.RenderRow(row, s.Width, s.MultiSelect))
	}
	switch {
	case end < len(s.Rows):
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more", len(s.Rows)-end)))
	case s.Loading:
		lines = append(lines, r.styles.StatusLoading.Render("Loading…"))
	case s.HasMore:
		lines = append(lines, r.styles.Scroll.Render("↓ more available"))
	}
	return strings.Join(lines, "\n")
}

// RenderRow renders one option. Labels are cut to fit width when it is set.
func (r *MenuRenderer) RenderRow(row host.OptionProps[string], width int, multi bool) string {
	cursor := "  "
	if row.IsHighlighted {
		cursor = "> "
	}

	mark := ""
	if multi && row.Position >= 0 {
		mark = "[ ] "
		if row.IsSelected {
			mark = "[x] "
		}
	}

	prefix := cursor + strings.Repeat("  ", row.Depth) + mark
	label := row.Label
	if avail := width - runewidth.StringWidth(prefix); width > 0 && avail > 0 {
		label = runewidth.Truncate(label, avail, "…")
	}

	style := r.styles.Option
	switch {
	case row.IsDisabled:
		style = r.styles.Disabled
	case row.Position < 0:
		style = r.styles.Group
	case row.IsSelected:
		style = r.styles.Selected
	}

	if row.IsHighlighted {
		return r.styles.Highlight.Render(prefix) + style.Inherit(r.styles.HighlightBg).Render(label)
	}
	return prefix + style.Render(label)
}
