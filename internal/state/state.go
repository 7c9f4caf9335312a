package state

import (
	"combobox/internal/domain"
)

// InputState holds the text field and menu flags
type InputState struct {
	Value          string `json:"value"`
	IsInputFocused bool   `json:"isInputFocused"`
	ShowMenu       bool   `json:"showMenu"`
}

// SelectState contains the whole state of one select. It is replaced, never
// mutated, on every transition.
type SelectState[V comparable] struct {
	Options          []domain.Option[V] `json:"options"`        // unfiltered
	VisibleOptions   []domain.Option[V] `json:"visibleOptions"` // filtered view of Options
	HighlightIndex   int                `json:"highlightIndex"` // logical position in VisibleOptions, -1 for none
	SelectedOptions  []domain.Option[V] `json:"selectedOptions"`
	PseudoInputValue string             `json:"pseudoInputValue"` // filter text
	InputState       InputState         `json:"inputState"`
}

// NewSelectState creates a state holding options
func NewSelectState[V comparable](options []domain.Option[V]) *SelectState[V] {
	return &SelectState[V]{
		Options:        options,
		VisibleOptions: options,
		HighlightIndex: -1,
	}
}

// Clone returns a shallow copy. Slices are shared and must not be written to.
func (s *SelectState[V]) Clone() *SelectState[V] {
	c := *s
	return &c
}

// HasSelection reports whether anything is selected
func (s *SelectState[V]) HasSelection() bool {
	return len(s.SelectedOptions) > 0
}

// LastSelected returns the most recently selected option
func (s *SelectState[V]) LastSelected() (domain.Option[V], bool) {
	if len(s.SelectedOptions) == 0 {
		var zero domain.Option[V]
		return zero, false
	}
	return s.SelectedOptions[len(s.SelectedOptions)-1], true
}

// SelectedLabels returns the display labels of the selected options
func (s *SelectState[V]) SelectedLabels() []string {
	out := make([]string, 0, len(s.SelectedOptions))
	for _, o := range s.SelectedOptions {
		out = append(out, o.DisplayLabel())
	}
	return out
}
