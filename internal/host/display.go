package host

import (
	"combobox/internal/actions"
	"combobox/internal/domain"
	"combobox/internal/state"
)

// OptionProps is the presentation record of one visible option
type OptionProps[V comparable] struct {
	Option        domain.Option[V]
	Label         string // accessible label
	Depth         int
	Position      int // logical position, -1 for a group that cannot be selected
	IsHighlighted bool
	IsSelected    bool
	IsDisabled    bool
	GroupOptions  []OptionProps[V]

	// OnSelect and OnDeselect dispatch into the owning host. closeMenu
	// overrides the configured menu behavior when set.
	OnSelect   func(closeMenu *bool)
	OnDeselect func(closeMenu *bool)
}

// DisplayOptions returns the visible options annotated for rendering. The
// projection is rebuilt once per state change.
func (h *Host[V]) DisplayOptions() []OptionProps[V] {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.displayFor != h.state || h.display == nil {
		pos := 0
		h.display = h.project(h.state, h.state.VisibleOptions, 0, &pos)
		h.displayFor = h.state
	}
	return h.display
}

// Rows returns DisplayOptions flattened depth first, group headers included
func (h *Host[V]) Rows() []OptionProps[V] {
	var rows []OptionProps[V]
	var walk func([]OptionProps[V])
	walk = func(props []OptionProps[V]) {
		for _, p := range props {
			rows = append(rows, p)
			walk(p.GroupOptions)
		}
	}
	walk(h.DisplayOptions())
	return rows
}

func (h *Host[V]) project(st *state.SelectState[V], options []domain.Option[V], depth int, pos *int) []OptionProps[V] {
	canSelectGroup := h.engine.Settings().CanSelectGroup
	out := make([]OptionProps[V], 0, len(options))

	for _, o := range options {
		option := o
		p := OptionProps[V]{
			Option:     option,
			Label:      option.DisplayLabel(),
			Depth:      depth,
			Position:   -1,
			IsDisabled: option.DisableSelection || h.engine.IsDisabled(option, st),
			OnSelect:   func(*bool) {},
			OnDeselect: func(closeMenu *bool) {
				h.Dispatch(actions.OptionDeselected[V]{Option: option, CloseMenu: closeMenu})
			},
		}

		if !option.IsGroup() || canSelectGroup {
			p.Position = *pos
			p.IsHighlighted = *pos == st.HighlightIndex
			p.IsSelected = h.engine.IsSelected(option, st.SelectedOptions)
			p.OnSelect = func(closeMenu *bool) {
				h.Dispatch(actions.OptionSelected[V]{Option: option, CloseMenu: closeMenu})
			}
			*pos++
		}
		if option.IsGroup() {
			p.GroupOptions = h.project(st, option.Options, depth+1, pos)
		}
		out = append(out, p)
	}
	return out
}
