package engine

import (
	"strings"
	"unicode/utf8"

	"combobox/internal/actions"
	"combobox/internal/domain"
	"combobox/internal/logic"
	"combobox/internal/state"
)

func (e *Engine[V]) reduce(prev *state.SelectState[V], action actions.Action) *state.SelectState[V] {
	switch a := action.(type) {
	case actions.InputChange:
		next := prev.Clone()
		showMenu := a.ShowMenu != nil && *a.ShowMenu
		e.inputChange(next, a.Value, showMenu, false, true)
		return next

	case actions.OptionSelected[V]:
		return e.selectOption(prev, a)

	case actions.OptionDeselected[V]:
		return e.deselectOption(prev, a)

	case actions.IncrementHighlightIndex:
		return e.stepHighlight(prev, a.Value, true)

	case actions.DecrementHighlightIndex:
		return e.stepHighlight(prev, a.Value, false)

	case actions.SetOptions[V]:
		next := prev.Clone()
		next.Options = a.Options
		e.refilter(next)
		if a.IgnoreHighlightIndexReset {
			e.clampHighlight(next)
		} else {
			e.reconcile(next, prev.VisibleOptions, prev.HighlightIndex, a.AttemptFindLastHighlightIndex)
		}
		return next

	case actions.AppendOptions[V]:
		if len(a.Options) == 0 {
			return prev
		}
		next := prev.Clone()
		next.Options = concat(prev.Options, a.Options)
		e.refilter(next)
		if prev.HighlightIndex != -1 || !e.settings.AllowNoHighlight {
			e.reconcile(next, prev.VisibleOptions, prev.HighlightIndex, true)
		}
		return next

	case actions.SetMenuOpen:
		if prev.InputState.ShowMenu == a.Open {
			return prev
		}
		next := prev.Clone()
		next.InputState.ShowMenu = a.Open
		return next

	case actions.SetInputFocused:
		showMenu := a.Focused && e.settings.ShowMenuOnFocus
		if a.MenuOpen != nil {
			showMenu = *a.MenuOpen
		}
		if prev.InputState.IsInputFocused == a.Focused && prev.InputState.ShowMenu == showMenu {
			return prev
		}
		next := prev.Clone()
		next.InputState.IsInputFocused = a.Focused
		next.InputState.ShowMenu = showMenu
		return next

	case actions.SetState[V]:
		if a.Fn == nil {
			return prev
		}
		if next := a.Fn(prev); next != nil {
			return next
		}
		return prev

	default:
		return prev
	}
}

// inputChange applies new input text to next: backspace over a single
// selection, filtering, then highlight reconciliation.
func (e *Engine[V]) inputChange(next *state.SelectState[V], value string, showMenu, fromSelection, findPrevious bool) {
	prevValue := next.InputState.Value
	prevVisible := next.VisibleOptions
	prevHighlight := next.HighlightIndex

	if !fromSelection && !e.settings.MultiSelect && len(next.SelectedOptions) > 0 && isBackspace(prevValue, value) {
		n := len(next.SelectedOptions) - 1
		next.SelectedOptions = next.SelectedOptions[:n:n]
		if e.settings.CompletelyRemoveSelectOnBackspace {
			value = ""
		}
	}

	next.InputState.ShowMenu = showMenu
	next.InputState.Value = value
	if fromSelection {
		next.PseudoInputValue = ""
	} else {
		next.PseudoInputValue = value
	}
	e.refilter(next)

	if e.settings.DisableRecalculateHighlightIndex {
		findPrevious = false
	}
	e.reconcile(next, prevVisible, prevHighlight, findPrevious)
}

func (e *Engine[V]) selectOption(prev *state.SelectState[V], a actions.OptionSelected[V]) *state.SelectState[V] {
	if !e.CanSelect(a.Option, prev) {
		return prev
	}

	closeMenu := e.settings.ShouldCloseMenuOnSelection()
	if a.CloseMenu != nil {
		closeMenu = *a.CloseMenu
	}

	next := prev.Clone()
	if e.settings.MultiSelect {
		if e.IsSelected(a.Option, prev.SelectedOptions) {
			if !closeMenu || !prev.InputState.ShowMenu {
				return prev
			}
			next.InputState.ShowMenu = false
			return next
		}
		next.SelectedOptions = concat(prev.SelectedOptions, []domain.Option[V]{a.Option})
		if !a.IgnoreClearInputOnMultiSelect && !e.settings.IgnoreClearInputOnMultiSelect {
			e.inputChange(next, "", next.InputState.ShowMenu, true, false)
		}
		e.resetHighlight(next)
	} else {
		next.SelectedOptions = []domain.Option[V]{a.Option}
		e.inputChange(next, a.Option.DisplayLabel(), next.InputState.ShowMenu, true, true)
	}

	if closeMenu {
		next.InputState.ShowMenu = false
	}
	return next
}

func (e *Engine[V]) deselectOption(prev *state.SelectState[V], a actions.OptionDeselected[V]) *state.SelectState[V] {
	idx := -1
	for i, o := range prev.SelectedOptions {
		if e.hooks.Equal(o, a.Option) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return prev
	}

	next := prev.Clone()
	removed := prev.SelectedOptions[idx]
	next.SelectedOptions = removeAt(prev.SelectedOptions, idx)
	if a.CloseMenu != nil && *a.CloseMenu {
		next.InputState.ShowMenu = false
	}
	if !e.settings.MultiSelect && !removed.IsGroup() && next.InputState.Value != "" {
		next.InputState.Value = ""
		next.PseudoInputValue = ""
		e.refilter(next)
		e.reconcile(next, prev.VisibleOptions, prev.HighlightIndex, true)
	}
	return next
}

// refilter recomputes VisibleOptions from Options and the filter text
func (e *Engine[V]) refilter(next *state.SelectState[V]) {
	switch {
	case e.settings.DisableFiltering:
		next.VisibleOptions = next.Options
	case !e.settings.FilterWhenSelected && logic.MatchesAnySelected(next.InputState.Value, next.SelectedOptions):
		next.VisibleOptions = next.Options
	default:
		next.VisibleOptions = e.hooks.Filter(next.PseudoInputValue, next.Options)
	}
}

// isBackspace reports whether value is prev with its last character removed
func isBackspace(prev, value string) bool {
	return utf8.RuneCountInString(value) == utf8.RuneCountInString(prev)-1 && strings.HasPrefix(prev, value)
}

func concat[V comparable](a, b []domain.Option[V]) []domain.Option[V] {
	out := make([]domain.Option[V], 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func removeAt[V comparable](options []domain.Option[V], i int) []domain.Option[V] {
	out := make([]domain.Option[V], 0, len(options)-1)
	out = append(out, options[:i]...)
	return append(out, options[i+1:]...)
}
