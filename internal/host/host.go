package host

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"combobox/internal/actions"
	"combobox/internal/domain"
	"combobox/internal/engine"
	"combobox/internal/eventbus"
	"combobox/internal/logic"
	"combobox/internal/state"
)

// Config configures a Host
type Config[V comparable] struct {
	Settings engine.Settings
	Hooks    engine.Hooks[V]
	Initial  *state.SelectState[V]
	// OnSearch receives the input text when Enter is pressed with nothing highlighted
	OnSearch func(query string)
	// Bus receives input, selection, progress and search events. Optional.
	Bus eventbus.EventBus
}

// Host owns the state of one select and serializes dispatches into its engine
type Host[V comparable] struct {
	id       string
	engine   *engine.Engine[V]
	bus      eventbus.EventBus
	onSearch func(string)

	mu    sync.Mutex
	state *state.SelectState[V]

	// display projection of displayFor
	display    []OptionProps[V]
	displayFor *state.SelectState[V]
}

// New creates a host and its initial state
func New[V comparable](cfg Config[V]) *Host[V] {
	e := engine.New(cfg.Settings, cfg.Hooks)
	h := &Host[V]{
		id:       uuid.NewString(),
		engine:   e,
		bus:      cfg.Bus,
		onSearch: cfg.OnSearch,
	}
	h.state = e.Init(cfg.Initial)
	slog.Debug("host: created", "host", h.id, "multi", cfg.Settings.MultiSelect, "options", len(h.state.Options))
	return h
}

// ID returns the host instance id
func (h *Host[V]) ID() string {
	return h.id
}

// Engine returns the engine behind the host
func (h *Host[V]) Engine() *engine.Engine[V] {
	return h.engine
}

// State returns the current state
func (h *Host[V]) State() *state.SelectState[V] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Dispatch applies action to the current state and returns the new state.
// Dispatches are applied one at a time in call order.
func (h *Host[V]) Dispatch(action actions.Action) *state.SelectState[V] {
	next, _ := h.update(func(*state.SelectState[V]) actions.Action { return action })
	return next
}

// update builds an action from the current state and applies it while still
// holding the lock, so the action never sees a state another dispatch has
// replaced. A nil action leaves the state alone and reports false.
func (h *Host[V]) update(build func(*state.SelectState[V]) actions.Action) (*state.SelectState[V], bool) {
	h.mu.Lock()
	prev := h.state
	action := build(prev)
	if action == nil {
		h.mu.Unlock()
		return prev, false
	}
	next := h.engine.Reduce(prev, action)
	h.state = next
	h.mu.Unlock()

	if next != prev {
		slog.Debug("host: dispatched", "host", h.id, "action", action.Type())
		h.publish(prev, next)
	}
	return next, true
}

// HighlightIndex returns the highlighted logical position, -1 for none
func (h *Host[V]) HighlightIndex() int {
	return h.State().HighlightIndex
}

// SelectedOptions returns the selected options
func (h *Host[V]) SelectedOptions() []domain.Option[V] {
	return h.State().SelectedOptions
}

// HighlightedOption returns the highlighted option
func (h *Host[V]) HighlightedOption() (domain.Option[V], bool) {
	st := h.State()
	return logic.At(st.VisibleOptions, st.HighlightIndex, h.engine.Settings().CanSelectGroup)
}

// HighlightCompletionPercent reports how far down the visible options the
// highlight is: 1 on the last position, 0 at the top or with no options.
func (h *Host[V]) HighlightCompletionPercent() float64 {
	st := h.State()
	return completionPercent(st.HighlightIndex, len(h.engine.Flattened(st.VisibleOptions)))
}

func completionPercent(index, length int) float64 {
	switch {
	case length == 0:
		return 0
	case index == length-1:
		return 1
	case index <= 0:
		return 0
	default:
		return float64(index) / float64(length)
	}
}

// Search hands the current input text to the search callback
func (h *Host[V]) Search() {
	query := h.State().InputState.Value
	slog.Debug("host: search", "host", h.id, "query", query)
	if h.onSearch != nil {
		h.onSearch(query)
	}
	if h.bus != nil {
		h.bus.Publish(domain.SearchRequestedEvent{HostID: h.id, Query: query})
	}
}

// Dispatch helpers

// SetOptions replaces all options
func (h *Host[V]) SetOptions(options []domain.Option[V], findLastHighlight bool) *state.SelectState[V] {
	return h.Dispatch(actions.SetOptions[V]{Options: options, AttemptFindLastHighlightIndex: findLastHighlight})
}

// AppendOptions adds a page of options
func (h *Host[V]) AppendOptions(options []domain.Option[V]) *state.SelectState[V] {
	return h.Dispatch(actions.AppendOptions[V]{Options: options})
}

// SelectOption selects option; closeMenu overrides the configured behavior when set
func (h *Host[V]) SelectOption(option domain.Option[V], closeMenu *bool) *state.SelectState[V] {
	return h.Dispatch(actions.OptionSelected[V]{Option: option, CloseMenu: closeMenu})
}

// DeselectOption removes option from the selection
func (h *Host[V]) DeselectOption(option domain.Option[V], closeMenu *bool) *state.SelectState[V] {
	return h.Dispatch(actions.OptionDeselected[V]{Option: option, CloseMenu: closeMenu})
}

// SetMenuOpen opens or closes the menu
func (h *Host[V]) SetMenuOpen(open bool) *state.SelectState[V] {
	return h.Dispatch(actions.SetMenuOpen{Open: open})
}

// UpdateState applies fn as a SET_STATE action
func (h *Host[V]) UpdateState(fn func(*state.SelectState[V]) *state.SelectState[V]) *state.SelectState[V] {
	return h.Dispatch(actions.SetState[V]{Fn: fn})
}

func (h *Host[V]) publish(prev, next *state.SelectState[V]) {
	if h.bus == nil {
		return
	}

	if prev.InputState.Value != next.InputState.Value || prev.PseudoInputValue != next.PseudoInputValue {
		h.bus.Publish(domain.InputChangedEvent{
			HostID: h.id,
			Value:  next.InputState.Value,
			Query:  next.PseudoInputValue,
		})
	}

	if !sameOptions(h.engine, prev.SelectedOptions, next.SelectedOptions) {
		h.bus.Publish(domain.SelectionChangedEvent{HostID: h.id, Labels: next.SelectedLabels()})
	}

	n := len(h.engine.Flattened(next.VisibleOptions))
	if prev.HighlightIndex != next.HighlightIndex ||
		prev.InputState.ShowMenu != next.InputState.ShowMenu ||
		len(h.engine.Flattened(prev.VisibleOptions)) != n {
		remaining := n - 1 - next.HighlightIndex
		if next.HighlightIndex < 0 {
			remaining = n
		}
		h.bus.Publish(domain.HighlightProgressEvent{
			HostID:    h.id,
			Index:     next.HighlightIndex,
			Length:    n,
			Remaining: remaining,
			Percent:   completionPercent(next.HighlightIndex, n),
			MenuOpen:  next.InputState.ShowMenu,
		})
	}
}

func sameOptions[V comparable](e *engine.Engine[V], a, b []domain.Option[V]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !e.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
