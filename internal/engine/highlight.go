package engine

import (
	"combobox/internal/domain"
	"combobox/internal/logic"
	"combobox/internal/state"
)

// stepHighlight moves the highlight steps positions (at least one)
func (e *Engine[V]) stepHighlight(prev *state.SelectState[V], steps int, increment bool) *state.SelectState[V] {
	if steps < 1 {
		steps = 1
	}

	next := prev.Clone()
	flat := e.Flattened(next.VisibleOptions)
	for i := 0; i < steps; i++ {
		e.move(next, len(flat), next.HighlightIndex, increment, false)
	}
	if next.HighlightIndex == prev.HighlightIndex {
		return prev
	}
	return next
}

// move sets st.HighlightIndex one position away from current over a
// flattened view of n options. didCycle marks the single permitted wrap:
// current is then taken as the candidate itself.
func (e *Engine[V]) move(st *state.SelectState[V], n, current int, increment, didCycle bool) {
	if n == 0 {
		st.HighlightIndex = -1
		return
	}

	first := 0
	if e.settings.AllowNoHighlight {
		first = -1
	}

	if !didCycle {
		if increment && current >= n-1 {
			if e.settings.CycleHighlightIndex {
				e.move(st, n, 0, true, true)
			}
			return
		}
		if !increment && current <= first {
			if e.settings.CycleHighlightIndex {
				e.move(st, n, n-1, false, true)
			}
			return
		}
	}

	candidate := current
	if !didCycle {
		if increment {
			candidate++
		} else {
			candidate--
		}
	}

	if e.hooks.IsDisabled == nil {
		st.HighlightIndex = candidate
		return
	}

	flat := e.Flattened(st.VisibleOptions)
	if increment {
		for i := max(candidate, 0); i < n; i++ {
			if !e.hooks.IsDisabled(flat[i], st) {
				st.HighlightIndex = i
				return
			}
		}
		if !didCycle && e.settings.CycleHighlightIndex {
			e.move(st, n, 0, true, true)
		}
		return
	}

	for i := min(candidate, n-1); i >= 0; i-- {
		if !e.hooks.IsDisabled(flat[i], st) {
			st.HighlightIndex = i
			return
		}
	}
	if !didCycle && e.settings.CycleHighlightIndex {
		e.move(st, n, n-1, false, true)
	}
}

// fallbackHighlight lands on the first selectable position, scanning forward
// as if incrementing from -1. It is -1 when nothing can be highlighted.
func (e *Engine[V]) fallbackHighlight(st *state.SelectState[V]) {
	st.HighlightIndex = -1
	e.move(st, len(e.Flattened(st.VisibleOptions)), -1, true, false)
}

// reconcile re-derives the highlight after VisibleOptions changed. With
// findPrevious the option highlighted in prevVisible keeps the highlight
// when it is still visible.
func (e *Engine[V]) reconcile(next *state.SelectState[V], prevVisible []domain.Option[V], prevHighlight int, findPrevious bool) {
	if findPrevious {
		canSelectGroup := e.settings.CanSelectGroup
		if opt, ok := logic.At(prevVisible, prevHighlight, canSelectGroup); ok {
			if idx := logic.IndexOf(next.VisibleOptions, opt, canSelectGroup, e.hooks.Equal); idx >= 0 {
				next.HighlightIndex = idx
				return
			}
		}
	}
	e.fallbackHighlight(next)
}

// clampHighlight keeps the current index when it is still valid
func (e *Engine[V]) clampHighlight(next *state.SelectState[V]) {
	n := len(e.Flattened(next.VisibleOptions))
	switch {
	case n == 0:
		next.HighlightIndex = -1
	case next.HighlightIndex >= n, next.HighlightIndex < -1:
		e.fallbackHighlight(next)
	case next.HighlightIndex == -1 && !e.settings.AllowNoHighlight:
		e.fallbackHighlight(next)
	}
}

// resetHighlight puts the highlight back to where a fresh menu starts
func (e *Engine[V]) resetHighlight(next *state.SelectState[V]) {
	if e.settings.AllowNoHighlight {
		next.HighlightIndex = -1
		return
	}
	e.fallbackHighlight(next)
}
