package actions

import (
	"combobox/internal/domain"
	"combobox/internal/state"
)

// ActionType discriminates actions
type ActionType string

const (
	InputChangeType             ActionType = "INPUT_CHANGE"
	OptionSelectedType          ActionType = "OPTION_SELECTED"
	OptionDeselectedType        ActionType = "OPTION_DESELECTED"
	IncrementHighlightIndexType ActionType = "INCREMENT_HIGHLIGHT_INDEX"
	DecrementHighlightIndexType ActionType = "DECREMENT_HIGHLIGHT_INDEX"
	SetOptionsType              ActionType = "SET_OPTIONS"
	AppendOptionsType           ActionType = "APPEND_OPTIONS"
	SetMenuOpenType             ActionType = "SET_MENU_OPEN"
	SetInputFocusedType         ActionType = "SET_INPUT_FOCUSED"
	SetStateType                ActionType = "SET_STATE"
)

// Action is a request to transition a SelectState. The set is closed: only
// types in this package implement it.
type Action interface {
	Type() ActionType
	isAction()
}

// InputChange updates the input text
type InputChange struct {
	Value    string `json:"value"`
	ShowMenu *bool  `json:"showMenu,omitempty"` // defaults to false
}

func (a InputChange) Type() ActionType { return InputChangeType }
func (InputChange) isAction()            {}

// OptionSelected selects an option
type OptionSelected[V comparable] struct {
	Option                        domain.Option[V] `json:"option"`
	CloseMenu                     *bool            `json:"closeMenu,omitempty"`
	IgnoreClearInputOnMultiSelect bool             `json:"ignoreClearInputOnMultiSelect,omitempty"`
}

func (a OptionSelected[V]) Type() ActionType { return OptionSelectedType }
func (OptionSelected[V]) isAction()          {}

// OptionDeselected removes an option from the selection
type OptionDeselected[V comparable] struct {
	Option    domain.Option[V] `json:"option"`
	CloseMenu *bool            `json:"closeMenu,omitempty"`
}

func (a OptionDeselected[V]) Type() ActionType { return OptionDeselectedType }
func (OptionDeselected[V]) isAction()          {}

// IncrementHighlightIndex moves the highlight forward Value steps (at least one)
type IncrementHighlightIndex struct {
	Value int `json:"value,omitempty"`
}

func (a IncrementHighlightIndex) Type() ActionType { return IncrementHighlightIndexType }
func (IncrementHighlightIndex) isAction()          {}

// DecrementHighlightIndex moves the highlight back Value steps (at least one)
type DecrementHighlightIndex struct {
	Value int `json:"value,omitempty"`
}

func (a DecrementHighlightIndex) Type() ActionType { return DecrementHighlightIndexType }
func (DecrementHighlightIndex) isAction()          {}

// SetOptions replaces all options
type SetOptions[V comparable] struct {
	Options                       []domain.Option[V] `json:"options"`
	AttemptFindLastHighlightIndex bool               `json:"attemptFindLastHighlightIndex,omitempty"`
	IgnoreHighlightIndexReset     bool               `json:"ignoreHighlightIndexReset,omitempty"`
}

func (a SetOptions[V]) Type() ActionType { return SetOptionsType }
func (SetOptions[V]) isAction()          {}

// AppendOptions adds options after the existing ones
type AppendOptions[V comparable] struct {
	Options []domain.Option[V] `json:"options"`
}

func (a AppendOptions[V]) Type() ActionType { return AppendOptionsType }
func (AppendOptions[V]) isAction()          {}

// SetMenuOpen opens or closes the menu
type SetMenuOpen struct {
	Open bool `json:"open"`
}

func (a SetMenuOpen) Type() ActionType { return SetMenuOpenType }
func (SetMenuOpen) isAction()          {}

// SetInputFocused records input focus. MenuOpen overrides the menu state
// derived from focus.
type SetInputFocused struct {
	Focused  bool  `json:"focused"`
	MenuOpen *bool `json:"menuOpen,omitempty"`
}

func (a SetInputFocused) Type() ActionType { return SetInputFocusedType }
func (SetInputFocused) isAction()          {}

// SetState replaces the state with the result of Fn
type SetState[V comparable] struct {
	Fn func(*state.SelectState[V]) *state.SelectState[V] `json:"-"`
}

func (a SetState[V]) Type() ActionType { return SetStateType }
func (SetState[V]) isAction()          {}

// Bool returns a pointer to b, for the optional payload fields
func Bool(b bool) *bool {
	return &b
}
