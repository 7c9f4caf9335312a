package engine

import (
	"combobox/internal/actions"
	"combobox/internal/domain"
	"combobox/internal/logic"
	"combobox/internal/state"
)

// Settings are the plain engine switches, fixed for an engine's lifetime
type Settings struct {
	AllowNoHighlight     bool  `toml:"allow_no_highlight" json:"allowNoHighlight"`
	CanSelectGroup       bool  `toml:"can_select_group" json:"canSelectGroup"`
	CloseMenuOnSelection *bool `toml:"close_menu_on_selection,omitempty" json:"closeMenuOnSelection,omitempty"` // nil: close unless multi-select
	CycleHighlightIndex  bool  `toml:"cycle_highlight_index" json:"cycleHighlightIndex"`
	DisableFiltering     bool  `toml:"disable_filtering" json:"disableFiltering"`
	DisableSelection     bool  `toml:"disable_selection" json:"disableSelection"`
	// DisableRecalculateHighlightIndex resets the highlight to the first selectable
	// option on input changes instead of following the previously highlighted one
	DisableRecalculateHighlightIndex  bool `toml:"disable_recalculate_highlight_index" json:"disableRecalculateHighlightIndex"`
	FilterWhenSelected                bool `toml:"filter_when_selected" json:"filterWhenSelected"`
	IgnoreClearInputOnMultiSelect     bool `toml:"ignore_clear_input_on_multi_select" json:"ignoreClearInputOnMultiSelect"`
	MultiSelect                       bool `toml:"multi_select" json:"multiSelect"`
	ShowMenuOnFocus                   bool `toml:"show_menu_on_focus" json:"showMenuOnFocus"`
	CompletelyRemoveSelectOnBackspace bool `toml:"completely_remove_select_on_backspace" json:"completelyRemoveSelectOnBackspace"`
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		CycleHighlightIndex:               true,
		ShowMenuOnFocus:                   true,
		CompletelyRemoveSelectOnBackspace: true,
	}
}

// ShouldCloseMenuOnSelection resolves CloseMenuOnSelection
func (s Settings) ShouldCloseMenuOnSelection() bool {
	if s.CloseMenuOnSelection != nil {
		return *s.CloseMenuOnSelection
	}
	return !s.MultiSelect
}

// Hooks are the pluggable functions of an engine. Nil fields use the defaults.
type Hooks[V comparable] struct {
	// Filter narrows Options to VisibleOptions. Default: logic.FilterBySubstring.
	Filter logic.FilterFunc[V]
	// IsDisabled marks options that can be neither highlighted nor selected
	IsDisabled func(option domain.Option[V], st *state.SelectState[V]) bool
	// Equal decides option identity. Default: logic.ValueEqual.
	Equal logic.EqualityFunc[V]
	// IsSelected decides whether an option is already selected. Default: logic.IsSelected.
	IsSelected logic.SelectedFunc[V]
	// OnStateChange may replace the next state; returning nil keeps it
	OnStateChange func(prev, next *state.SelectState[V], action actions.Action) *state.SelectState[V]
}

func (h Hooks[V]) withDefaults() Hooks[V] {
	if h.Filter == nil {
		h.Filter = logic.FilterBySubstring[V]
	}
	if h.Equal == nil {
		h.Equal = logic.ValueEqual[V]
	}
	if h.IsSelected == nil {
		h.IsSelected = logic.IsSelected[V]
	}
	return h
}
