package engine

import (
	"log/slog"

	"combobox/internal/actions"
	"combobox/internal/domain"
	"combobox/internal/logic"
	"combobox/internal/state"
)

// Engine computes SelectState transitions. Reduce is deterministic for a
// given state, action and configuration; the engine only caches the
// flattened visible options between calls.
type Engine[V comparable] struct {
	settings Settings
	hooks    Hooks[V]
	cache    flatCache[V]
}

// New creates an engine
func New[V comparable](settings Settings, hooks Hooks[V]) *Engine[V] {
	return &Engine[V]{
		settings: settings,
		hooks:    hooks.withDefaults(),
	}
}

// Settings returns the engine settings
func (e *Engine[V]) Settings() Settings {
	return e.settings
}

// Equal reports whether a and b are the same option
func (e *Engine[V]) Equal(a, b domain.Option[V]) bool {
	return e.hooks.Equal(a, b)
}

// IsSelected reports whether option is in selected
func (e *Engine[V]) IsSelected(option domain.Option[V], selected []domain.Option[V]) bool {
	return e.hooks.IsSelected(option, selected, e.hooks.Equal)
}

// IsDisabled runs the configured IsDisabled hook
func (e *Engine[V]) IsDisabled(option domain.Option[V], st *state.SelectState[V]) bool {
	return e.hooks.IsDisabled != nil && e.hooks.IsDisabled(option, st)
}

// CanSelect reports whether selecting option would be accepted
func (e *Engine[V]) CanSelect(option domain.Option[V], st *state.SelectState[V]) bool {
	if e.settings.DisableSelection || option.DisableSelection {
		return false
	}
	if option.IsGroup() && !e.settings.CanSelectGroup {
		return false
	}
	return !e.IsDisabled(option, st)
}

// Flattened returns the visible options in logical position order
func (e *Engine[V]) Flattened(visible []domain.Option[V]) []domain.Option[V] {
	return e.cache.get(visible, e.settings.CanSelectGroup)
}

// Init builds the first state from a partial initial state. Visible options
// and the highlight index are always derived.
func (e *Engine[V]) Init(initial *state.SelectState[V]) *state.SelectState[V] {
	st := &state.SelectState[V]{}
	if initial != nil {
		*st = *initial
	}

	if st.PseudoInputValue == "" && !logic.MatchesAnySelected(st.InputState.Value, st.SelectedOptions) {
		st.PseudoInputValue = st.InputState.Value
	}
	e.refilter(st)

	st.HighlightIndex = -1
	if !e.settings.AllowNoHighlight {
		e.fallbackHighlight(st)
	}

	slog.Debug("engine: initialized", "options", len(st.Options), "visible", len(st.VisibleOptions), "highlight", st.HighlightIndex)
	return st
}

// Reduce returns the state following action. No-op transitions return prev itself.
func (e *Engine[V]) Reduce(prev *state.SelectState[V], action actions.Action) *state.SelectState[V] {
	if prev == nil {
		prev = e.Init(nil)
	}
	if action == nil {
		return prev
	}

	next := e.reduce(prev, action)
	slog.Debug("engine: reduce", "action", action.Type(), "changed", next != prev, "highlight", next.HighlightIndex)

	if e.hooks.OnStateChange != nil {
		if replaced := e.hooks.OnStateChange(prev, next, action); replaced != nil {
			return replaced
		}
	}
	return next
}
