package host

import (
	"log/slog"

	"combobox/internal/actions"
	"combobox/internal/logic"
	"combobox/internal/state"
)

// Key names the keys the host reacts to
type Key string

const (
	KeyArrowDown Key = "ArrowDown"
	KeyArrowUp   Key = "ArrowUp"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
	KeyBackspace Key = "Backspace"
)

// KeyEvent is a key press in the input field
type KeyEvent struct {
	Key   Key
	Shift bool
}

// OnKeyDown handles a key press and reports whether it was consumed.
// Unconsumed keys belong to the text field.
func (h *Host[V]) OnKeyDown(ev KeyEvent) bool {
	if ev.Shift {
		return false
	}

	settings := h.engine.Settings()

	switch ev.Key {
	case KeyBackspace:
		_, consumed := h.update(func(st *state.SelectState[V]) actions.Action {
			if !settings.MultiSelect || st.InputState.Value != "" {
				return nil
			}
			if last, ok := st.LastSelected(); ok {
				return actions.OptionDeselected[V]{Option: last}
			}
			return nil
		})
		return consumed

	case KeyArrowDown, KeyArrowUp:
		h.update(func(st *state.SelectState[V]) actions.Action {
			switch {
			case !st.InputState.ShowMenu:
				return actions.SetMenuOpen{Open: true}
			case ev.Key == KeyArrowDown:
				return actions.IncrementHighlightIndex{}
			default:
				return actions.DecrementHighlightIndex{}
			}
		})
		return true

	case KeyEnter:
		search := false
		h.update(func(st *state.SelectState[V]) actions.Action {
			if st.HighlightIndex == -1 {
				search = true
				return nil
			}
			option, ok := logic.At(st.VisibleOptions, st.HighlightIndex, settings.CanSelectGroup)
			if !ok {
				slog.Debug("host: enter on missing option", "host", h.id, "index", st.HighlightIndex)
				return nil
			}
			return actions.OptionSelected[V]{Option: option}
		})
		if search {
			h.Search()
		}
		return true

	case KeyEscape:
		h.Dispatch(actions.SetMenuOpen{Open: false})
		return true
	}
	return false
}

// OnChange records text typed into the input field
func (h *Host[V]) OnChange(text string) {
	h.update(func(st *state.SelectState[V]) actions.Action {
		return actions.InputChange{Value: text, ShowMenu: actions.Bool(st.InputState.IsInputFocused)}
	})
}

// SetInputValue syncs a value controlled from outside into the input field
func (h *Host[V]) SetInputValue(text string) {
	h.update(func(st *state.SelectState[V]) actions.Action {
		if st.InputState.Value == text {
			return nil
		}
		return actions.InputChange{Value: text, ShowMenu: actions.Bool(st.InputState.ShowMenu)}
	})
}

// Focus marks the input focused
func (h *Host[V]) Focus() {
	h.Dispatch(actions.SetInputFocused{Focused: true})
}

// Blur marks the input unfocused and closes the menu, unless the pointer is
// inside the menu
func (h *Host[V]) Blur(pointerInMenu bool) {
	if pointerInMenu {
		return
	}
	h.Dispatch(actions.SetInputFocused{Focused: false, MenuOpen: actions.Bool(false)})
}

// OpenMenu opens the menu, as a press on the input does
func (h *Host[V]) OpenMenu() {
	h.Dispatch(actions.SetMenuOpen{Open: true})
}

// Increment moves the highlight forward
func (h *Host[V]) Increment() {
	h.Dispatch(actions.IncrementHighlightIndex{})
}

// Decrement moves the highlight back
func (h *Host[V]) Decrement() {
	h.Dispatch(actions.DecrementHighlightIndex{})
}
