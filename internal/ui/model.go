package ui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"combobox/internal/config"
	"combobox/internal/domain"
	"combobox/internal/eventbus"
	"combobox/internal/host"
	"combobox/internal/ui/logic"
	"combobox/internal/ui/views"
)

// Model is the Bubble Tea picker around a select host
type Model struct {
	host        *host.Host[string]
	settings    config.UISettings
	multiSelect bool

	width    int
	input    textinput.Model
	help     help.Model
	keys     keyMap
	renderer *views.Renderer
	viewport *logic.Viewport
	helpOps  *HelpOps

	loading       bool
	hasMore       bool
	statusMessage string
	statusIsError bool
	inPagerMode   bool // tracks if we're currently in pager mode

	done     bool
	canceled bool
}

// NewModel creates the picker and focuses its input
func NewModel(h *host.Host[string], settings config.UISettings) *Model {
	ti := textinput.New()
	ti.Prompt = settings.Prompt
	ti.Placeholder = settings.Placeholder
	ti.Focus()

	m := &Model{
		host:        h,
		settings:    settings,
		multiSelect: h.Engine().Settings().MultiSelect,
		input:       ti,
		help:        help.New(),
		keys:        defaultKeyMap(),
		renderer:    views.NewRenderer(),
		viewport:    logic.NewViewport(settings.MaxVisible),
		helpOps:     NewHelpOps(),
	}

	h.Focus()
	m.syncInput()
	m.syncViewport()
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.helpOps.SetProgram(p)
}

// Done reports whether the user finished the selection
func (m *Model) Done() bool {
	return m.done
}

// Canceled reports whether the user quit without finishing
func (m *Model) Canceled() bool {
	return m.canceled
}

// Selected returns the final selection, nil when canceled
func (m *Model) Selected() []domain.Option[string] {
	if m.canceled {
		return nil
	}
	return m.host.SelectedOptions()
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		height := m.settings.MaxVisible
		// prompt, chips, status and help lines
		if avail := msg.Height - 6; avail > 0 && avail < height {
			height = avail
		}
		m.viewport.SetHeight(height)
		m.syncViewport()
		return m, nil

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case helpPagerMsg:
		m.inPagerMode = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Help pager failed: %v", msg.err), true)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.canceled = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.helpOps.Available() {
			m.inPagerMode = true
			return m, m.showHelpPager()
		}
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Finish):
		m.done = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Close):
		if !m.host.State().InputState.ShowMenu {
			m.canceled = true
			return m, tea.Quit
		}
		m.host.OnKeyDown(host.KeyEvent{Key: host.KeyEscape})

	case key.Matches(msg, m.keys.Up):
		m.host.OnKeyDown(host.KeyEvent{Key: host.KeyArrowUp})

	case key.Matches(msg, m.keys.Down):
		m.host.OnKeyDown(host.KeyEvent{Key: host.KeyArrowDown})

	case key.Matches(msg, m.keys.Select):
		highlighted := m.host.HighlightIndex() != -1
		m.host.OnKeyDown(host.KeyEvent{Key: host.KeyEnter})
		if highlighted && !m.multiSelect && m.host.State().HasSelection() {
			m.done = true
			m.sync()
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.Remove):
		if !m.host.OnKeyDown(host.KeyEvent{Key: host.KeyBackspace}) {
			return m.updateInput(msg)
		}

	default:
		return m.updateInput(msg)
	}

	m.sync()
	return m, nil
}

// updateInput lets the text field handle msg and reports text changes to the host
func (m *Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	prev := m.input.Value()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != prev {
		m.host.OnChange(value)
	}

	m.sync()
	return m, cmd
}

func (m *Model) handleEvent(event eventbus.DomainEvent) {
	query := m.host.State().PseudoInputValue

	switch e := event.(type) {
	case eventbus.FetchStartedEvent:
		if e.Query == query {
			m.loading = true
		}

	case eventbus.OptionsLoadedEvent:
		if e.Query != query {
			slog.Debug("ui: ignoring options for old query", "query", e.Query, "current", query)
			return
		}
		m.loading = false
		m.hasMore = e.HasMore
		m.clearStatus()
		if e.Reset {
			m.host.SetOptions(e.Options, true)
		} else {
			m.host.AppendOptions(e.Options)
		}

	case eventbus.ErrorEvent:
		m.loading = false
		m.setStatus(fmt.Sprintf("%s: %v", e.Message, e.Err), true)
	}

	m.syncViewport()
}

func (m *Model) sync() {
	m.syncInput()
	m.syncViewport()
}

// syncInput copies the host's input value into the text field
func (m *Model) syncInput() {
	value := m.host.State().InputState.Value
	if m.input.Value() != value {
		m.input.SetValue(value)
		m.input.CursorEnd()
	}
}

// syncViewport scrolls the menu to the highlighted row
func (m *Model) syncViewport() {
	rows := m.host.Rows()
	index := -1
	for i, row := range rows {
		if row.IsHighlighted {
			index = i
			break
		}
	}
	m.viewport.EnsureVisible(index, len(rows))
}

func (m *Model) setStatus(message string, isError bool) {
	m.statusMessage = message
	m.statusIsError = isError
}

func (m *Model) clearStatus() {
	m.statusMessage = ""
	m.statusIsError = false
}

// View renders the picker
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	st := m.host.State()
	rows := m.host.Rows()
	start, end, _, _ := m.viewport.Window(len(rows))

	vs := views.ViewState{
		Width:    m.width,
		Input:    m.input.View(),
		MenuOpen: st.InputState.ShowMenu,
		Menu: views.MenuState{
			Rows:        rows,
			Start:       start,
			End:         end,
			Width:       max(m.width-2, 0),
			MultiSelect: m.multiSelect,
			Loading:     m.loading,
			HasMore:     m.hasMore,
		},
		StatusMessage: m.statusMessage,
		StatusIsError: m.statusIsError,
	}
	if m.multiSelect {
		vs.Chips = st.SelectedLabels()
	}
	if m.settings.ShowHelp {
		vs.HelpView = m.help.View(m.keys)
	}
	return m.renderer.Render(vs)
}
