package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

var helpSections = []string{"Navigation", "Selection", "Other"}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent(keys keyMap, multiSelect bool) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("combobox Help"))
	help.WriteString("\n")

	for i, column := range keys.FullHelp() {
		help.WriteString(sectionStyle.Render(helpSections[i]))
		help.WriteString("\n")
		for _, b := range column {
			if !b.Enabled() || (b.Help().Key == keys.Remove.Help().Key && !multiSelect) {
				continue
			}
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(b.Help().Key), descStyle.Render(b.Help().Desc)))
		}
		help.WriteString("\n")
	}

	filterStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	help.WriteString(filterStyle.Render("  Type to filter options. Matching is case-sensitive."))
	if multiSelect {
		help.WriteString("\n")
		help.WriteString(filterStyle.Render("  Enter keeps the menu open; tab finishes the selection."))
	}

	return help.String()
}

// HelpOps shows help outside the Bubble Tea screen
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps() *HelpOps {
	return &HelpOps{}
}

// SetProgram sets the program reference for terminal management
func (h *HelpOps) SetProgram(p *tea.Program) {
	h.program = p
}

// Available reports whether the pager can take over the terminal
func (h *HelpOps) Available() bool {
	return h.program != nil
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return errors.New("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// showHelpPager returns a command that shows help using ov pager
func (m *Model) showHelpPager() tea.Cmd {
	content := NewHelpRenderer().RenderHelpContent(m.keys, m.multiSelect)
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.helpOps.program.Send(pauseRenderingMsg{})

		err := m.helpOps.ShowHelpInPager(content)

		// Send resume message to restart rendering
		m.helpOps.program.Send(resumeRenderingMsg{})

		return helpPagerMsg{err: err}
	}
}
