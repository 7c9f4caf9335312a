package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combobox/internal/actions"
	"combobox/internal/domain"
)

func labelsOf(options []domain.Option[string]) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.DisplayLabel())
	}
	return out
}

func TestSetMenuOpen(t *testing.T) {
	calls := 0
	hooks := Hooks[string]{
		OnStateChange: func(prev, next *selectState, _ actions.Action) *selectState {
			calls++
			return nil
		},
	}
	e, st := initEngine(DefaultSettings(), hooks, testOptions())

	same := e.Reduce(st, actions.SetMenuOpen{Open: st.InputState.ShowMenu})
	assert.Same(t, st, same)
	assert.Equal(t, 1, calls)

	opened := e.Reduce(st, actions.SetMenuOpen{Open: true})
	assert.NotSame(t, st, opened)
	assert.True(t, opened.InputState.ShowMenu)
	assert.False(t, st.InputState.ShowMenu)
	assert.Equal(t, 2, calls)
}

func TestOnStateChangeReplacesState(t *testing.T) {
	hooks := Hooks[string]{
		OnStateChange: func(prev, next *selectState, action actions.Action) *selectState {
			if action.Type() == actions.SetMenuOpenType {
				return prev
			}
			return nil
		},
	}
	e, st := initEngine(DefaultSettings(), hooks, testOptions())

	assert.Same(t, st, e.Reduce(st, actions.SetMenuOpen{Open: true}))
	assert.Equal(t, 1, e.Reduce(st, actions.IncrementHighlightIndex{}).HighlightIndex)
}

func TestInputChange(t *testing.T) {
	t.Run("filters groups", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())

		st = apply(e, st, actions.InputChange{Value: "four."})
		require.Len(t, st.VisibleOptions, 1)
		assert.Equal(t, "four", st.VisibleOptions[0].GroupLabel)
		assert.Len(t, st.VisibleOptions[0].Options, 4)
		assert.Equal(t, "four.1", highlighted(t, e, st))

		st = apply(e, st, actions.InputChange{Value: "four.4"})
		require.Len(t, st.VisibleOptions, 1)
		assert.Equal(t, []string{"four.4"}, labelsOf(st.VisibleOptions[0].Options))
		assert.Equal(t, "four.4", highlighted(t, e, st))
		assert.Len(t, st.Options, 5)
	})

	t.Run("keeps highlighted option", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st, actions.IncrementHighlightIndex{Value: 2})
		require.Equal(t, "three", highlighted(t, e, st))

		st = apply(e, st, actions.InputChange{Value: "t", ShowMenu: actions.Bool(true)})
		assert.Equal(t, []string{"two", "three"}, labelsOf(st.VisibleOptions))
		assert.Equal(t, 1, st.HighlightIndex)
		assert.True(t, st.InputState.ShowMenu)
		assert.Equal(t, "t", st.PseudoInputValue)
	})

	t.Run("no matches", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st, actions.InputChange{Value: "zzz"})
		assert.Empty(t, st.VisibleOptions)
		assert.Equal(t, -1, st.HighlightIndex)
	})

	t.Run("filtering disabled", func(t *testing.T) {
		settings := DefaultSettings()
		settings.DisableFiltering = true
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		st = apply(e, st, actions.InputChange{Value: "zzz"})
		assert.Len(t, st.VisibleOptions, 5)
	})

	t.Run("custom filter", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{Filter: func(string, []domain.Option[string]) []domain.Option[string] {
			return []domain.Option[string]{leaf("only")}
		}}, testOptions())
		st = apply(e, st, actions.InputChange{Value: "x"})
		assert.Equal(t, []string{"only"}, labelsOf(st.VisibleOptions))
	})

	t.Run("recalculation disabled", func(t *testing.T) {
		settings := DefaultSettings()
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		st = apply(e, st, actions.IncrementHighlightIndex{Value: 2}, actions.InputChange{Value: "e"})
		assert.Equal(t, []string{"one", "three", "five"}, labelsOf(st.VisibleOptions))
		assert.Equal(t, 1, st.HighlightIndex)

		settings.DisableRecalculateHighlightIndex = true
		e, st = initEngine(settings, Hooks[string]{}, testOptions())
		st = apply(e, st, actions.IncrementHighlightIndex{Value: 2}, actions.InputChange{Value: "e"})
		assert.Equal(t, "one", highlighted(t, e, st))

		st = apply(e, st, actions.IncrementHighlightIndex{}, actions.InputChange{Value: "ee"})
		assert.Equal(t, []string{"three"}, labelsOf(st.VisibleOptions))
		assert.Equal(t, 0, st.HighlightIndex)

		st = apply(e, st, actions.InputChange{Value: "zz"})
		assert.Equal(t, -1, st.HighlightIndex)
	})
}

func TestBackspaceOverSelection(t *testing.T) {
	t.Run("clears input", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st, actions.OptionSelected[string]{Option: leaf("two")})
		require.Equal(t, "two", st.InputState.Value)
		require.Len(t, st.SelectedOptions, 1)

		st = apply(e, st, actions.InputChange{Value: "tw"})
		assert.Empty(t, st.SelectedOptions)
		assert.Equal(t, "", st.InputState.Value)
		assert.Len(t, st.VisibleOptions, 5)
	})

	t.Run("keeps partial text", func(t *testing.T) {
		settings := DefaultSettings()
		settings.CompletelyRemoveSelectOnBackspace = false
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		st = apply(e, st, actions.OptionSelected[string]{Option: leaf("two")}, actions.InputChange{Value: "tw"})

		assert.Empty(t, st.SelectedOptions)
		assert.Equal(t, "tw", st.InputState.Value)
		assert.Equal(t, []string{"two"}, labelsOf(st.VisibleOptions))
	})

	t.Run("typing is not backspace", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st, actions.OptionSelected[string]{Option: leaf("two")}, actions.InputChange{Value: "twoo"})
		assert.Len(t, st.SelectedOptions, 1)
		assert.Equal(t, "twoo", st.InputState.Value)
	})

	t.Run("multi-select ignores it", func(t *testing.T) {
		settings := DefaultSettings()
		settings.MultiSelect = true
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		st = apply(e, st,
			actions.OptionSelected[string]{Option: leaf("two")},
			actions.InputChange{Value: "ab"},
			actions.InputChange{Value: "a"},
		)
		assert.Len(t, st.SelectedOptions, 1)
		assert.Equal(t, "a", st.InputState.Value)
	})
}

func TestSelectSingle(t *testing.T) {
	e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
	st = apply(e, st, actions.SetMenuOpen{Open: true}, actions.InputChange{Value: "th", ShowMenu: actions.Bool(true)})
	require.Equal(t, "three", highlighted(t, e, st))

	st = apply(e, st, actions.OptionSelected[string]{Option: leaf("three")})
	assert.Equal(t, []string{"three"}, labelsOf(st.SelectedOptions))
	assert.Equal(t, "three", st.InputState.Value)
	assert.Empty(t, st.PseudoInputValue)
	assert.Len(t, st.VisibleOptions, 5)
	assert.False(t, st.InputState.ShowMenu)
	assert.Equal(t, "three", highlighted(t, e, st))

	st = apply(e, st, actions.OptionSelected[string]{Option: leaf("one"), CloseMenu: actions.Bool(false)})
	assert.Equal(t, []string{"one"}, labelsOf(st.SelectedOptions))
	assert.Equal(t, "one", st.InputState.Value)

	t.Run("filter when selected", func(t *testing.T) {
		settings := DefaultSettings()
		settings.FilterWhenSelected = true
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		st = apply(e, st, actions.OptionSelected[string]{Option: leaf("two")})
		assert.Len(t, st.VisibleOptions, 5)

		st = apply(e, st, actions.InputChange{Value: "two"})
		assert.Equal(t, []string{"two"}, labelsOf(st.VisibleOptions))

		e, st = initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st, actions.OptionSelected[string]{Option: leaf("two")}, actions.InputChange{Value: "two"})
		assert.Len(t, st.VisibleOptions, 5)
	})
}

func TestSelectMulti(t *testing.T) {
	settings := DefaultSettings()
	settings.MultiSelect = true
	e, st := initEngine(settings, Hooks[string]{}, testOptions())
	st = apply(e, st, actions.SetMenuOpen{Open: true}, actions.InputChange{Value: "o", ShowMenu: actions.Bool(true)})

	st = apply(e, st, actions.OptionSelected[string]{Option: leaf("one")})
	assert.Equal(t, []string{"one"}, labelsOf(st.SelectedOptions))
	assert.Equal(t, "", st.InputState.Value)
	assert.True(t, st.InputState.ShowMenu)
	assert.Equal(t, 0, st.HighlightIndex)

	again := e.Reduce(st, actions.OptionSelected[string]{Option: leaf("one")})
	assert.Same(t, st, again)
	assert.Len(t, again.SelectedOptions, 1)

	st = apply(e, st, actions.OptionSelected[string]{Option: leaf("five"), CloseMenu: actions.Bool(true)})
	assert.Equal(t, []string{"one", "five"}, labelsOf(st.SelectedOptions))
	assert.False(t, st.InputState.ShowMenu)

	t.Run("no highlight after selection", func(t *testing.T) {
		settings := DefaultSettings()
		settings.MultiSelect = true
		settings.AllowNoHighlight = true
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		st = apply(e, st, actions.IncrementHighlightIndex{Value: 3}, actions.OptionSelected[string]{Option: leaf("three")})
		assert.Equal(t, -1, st.HighlightIndex)
	})

	t.Run("first selectable after selection", func(t *testing.T) {
		e, st := initEngine(settings, Hooks[string]{IsDisabled: disabledLabels("one")}, testOptions())
		st = apply(e, st, actions.IncrementHighlightIndex{Value: 2}, actions.OptionSelected[string]{Option: leaf("four.1")})
		assert.Equal(t, "two", highlighted(t, e, st))
	})

	t.Run("keep input", func(t *testing.T) {
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		st = apply(e, st,
			actions.InputChange{Value: "t"},
			actions.OptionSelected[string]{Option: leaf("two"), IgnoreClearInputOnMultiSelect: true},
		)
		assert.Equal(t, "t", st.InputState.Value)
		assert.Equal(t, []string{"two", "three"}, labelsOf(st.VisibleOptions))
		assert.Equal(t, 0, st.HighlightIndex)
	})

	t.Run("selection does not alias", func(t *testing.T) {
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		base := apply(e, st, actions.OptionSelected[string]{Option: leaf("one")})
		a := e.Reduce(base, actions.OptionSelected[string]{Option: leaf("two")})
		b := e.Reduce(base, actions.OptionSelected[string]{Option: leaf("three")})
		assert.Equal(t, []string{"one", "two"}, labelsOf(a.SelectedOptions))
		assert.Equal(t, []string{"one", "three"}, labelsOf(b.SelectedOptions))
		assert.Equal(t, []string{"one"}, labelsOf(base.SelectedOptions))
	})
}

func TestSelectRejected(t *testing.T) {
	group := domain.NewGroup[string]("four", "4")

	tests := []struct {
		name     string
		settings func(*Settings)
		hooks    Hooks[string]
		option   domain.Option[string]
	}{
		{"option flag", nil, Hooks[string]{}, domain.Option[string]{Label: "x", Value: "x", DisableSelection: true}},
		{"engine flag", func(s *Settings) { s.DisableSelection = true }, Hooks[string]{}, leaf("one")},
		{"disabled hook", nil, Hooks[string]{IsDisabled: disabledLabels("one")}, leaf("one")},
		{"group without group selection", nil, Hooks[string]{}, group},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			if tt.settings != nil {
				tt.settings(&settings)
			}
			e, st := initEngine(settings, tt.hooks, testOptions())
			assert.Same(t, st, e.Reduce(st, actions.OptionSelected[string]{Option: tt.option}))
		})
	}

	t.Run("group with group selection", func(t *testing.T) {
		settings := DefaultSettings()
		settings.CanSelectGroup = true
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		st = apply(e, st, actions.OptionSelected[string]{Option: group})
		assert.Equal(t, []string{"four"}, labelsOf(st.SelectedOptions))
		assert.Equal(t, "four", st.InputState.Value)
	})
}

func TestDeselect(t *testing.T) {
	t.Run("single clears input", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st, actions.OptionSelected[string]{Option: leaf("two")})

		st = apply(e, st, actions.OptionDeselected[string]{Option: leaf("two")})
		assert.Empty(t, st.SelectedOptions)
		assert.Equal(t, "", st.InputState.Value)
	})

	t.Run("single group keeps input", func(t *testing.T) {
		settings := DefaultSettings()
		settings.CanSelectGroup = true
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		group := domain.NewGroup[string]("four", "4")
		st = apply(e, st, actions.OptionSelected[string]{Option: group}, actions.OptionDeselected[string]{Option: group})
		assert.Empty(t, st.SelectedOptions)
		assert.Equal(t, "four", st.InputState.Value)
	})

	t.Run("multi keeps order", func(t *testing.T) {
		settings := DefaultSettings()
		settings.MultiSelect = true
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		st = apply(e, st,
			actions.SetMenuOpen{Open: true},
			actions.OptionSelected[string]{Option: leaf("one")},
			actions.OptionSelected[string]{Option: leaf("three")},
			actions.OptionSelected[string]{Option: leaf("five")},
			actions.OptionDeselected[string]{Option: leaf("three"), CloseMenu: actions.Bool(true)},
		)
		assert.Equal(t, []string{"one", "five"}, labelsOf(st.SelectedOptions))
		assert.False(t, st.InputState.ShowMenu)
	})

	t.Run("not selected", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		assert.Same(t, st, e.Reduce(st, actions.OptionDeselected[string]{Option: leaf("one")}))
	})
}

func TestSetOptions(t *testing.T) {
	replacement := []domain.Option[string]{leaf("zero"), leaf("one"), leaf("two"), leaf("three")}

	t.Run("finds last highlight", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st, actions.IncrementHighlightIndex{Value: 2})

		st = apply(e, st, actions.SetOptions[string]{Options: replacement, AttemptFindLastHighlightIndex: true})
		assert.Equal(t, 3, st.HighlightIndex)
		assert.Len(t, st.VisibleOptions, 4)
	})

	t.Run("falls back to first", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st, actions.IncrementHighlightIndex{Value: 2}, actions.SetOptions[string]{Options: replacement})
		assert.Equal(t, 0, st.HighlightIndex)
	})

	t.Run("ignores reset", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st, actions.IncrementHighlightIndex{Value: 2})

		kept := e.Reduce(st, actions.SetOptions[string]{Options: replacement, IgnoreHighlightIndexReset: true})
		assert.Equal(t, 2, kept.HighlightIndex)

		clamped := e.Reduce(st, actions.SetOptions[string]{Options: replacement[:1], IgnoreHighlightIndexReset: true})
		assert.Equal(t, 0, clamped.HighlightIndex)
	})

	t.Run("refilters with input", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st,
			actions.InputChange{Value: "t"},
			actions.SetOptions[string]{Options: []domain.Option[string]{leaf("ten"), leaf("eleven")}},
		)
		assert.Equal(t, []string{"ten"}, labelsOf(st.VisibleOptions))
		assert.Len(t, st.Options, 2)
	})

	t.Run("empty", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st, actions.SetOptions[string]{})
		assert.Empty(t, st.VisibleOptions)
		assert.Equal(t, -1, st.HighlightIndex)
	})
}

func TestAppendOptions(t *testing.T) {
	e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
	st = apply(e, st, actions.IncrementHighlightIndex{Value: 4})
	require.Equal(t, "four.2", highlighted(t, e, st))

	next := apply(e, st, actions.AppendOptions[string]{Options: []domain.Option[string]{leaf("six"), leaf("seven")}})
	assert.Len(t, next.Options, 7)
	assert.Len(t, st.Options, 5)
	assert.Equal(t, 4, next.HighlightIndex)

	assert.Same(t, st, e.Reduce(st, actions.AppendOptions[string]{}))

	t.Run("no highlight stays", func(t *testing.T) {
		settings := DefaultSettings()
		settings.AllowNoHighlight = true
		e, st := initEngine(settings, Hooks[string]{}, testOptions())
		st = apply(e, st, actions.AppendOptions[string]{Options: []domain.Option[string]{leaf("six")}})
		assert.Equal(t, -1, st.HighlightIndex)
	})

	t.Run("first page into empty", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, nil)
		st = apply(e, st, actions.AppendOptions[string]{Options: testOptions()})
		assert.Equal(t, 0, st.HighlightIndex)
	})

	t.Run("filtered", func(t *testing.T) {
		e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())
		st = apply(e, st,
			actions.InputChange{Value: "s"},
			actions.AppendOptions[string]{Options: []domain.Option[string]{leaf("six"), leaf("ten")}},
		)
		assert.Equal(t, []string{"six"}, labelsOf(st.VisibleOptions))
	})
}

func TestSetInputFocused(t *testing.T) {
	e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())

	focused := e.Reduce(st, actions.SetInputFocused{Focused: true})
	assert.True(t, focused.InputState.IsInputFocused)
	assert.True(t, focused.InputState.ShowMenu)
	assert.Same(t, focused, e.Reduce(focused, actions.SetInputFocused{Focused: true}))

	quiet := e.Reduce(st, actions.SetInputFocused{Focused: true, MenuOpen: actions.Bool(false)})
	assert.False(t, quiet.InputState.ShowMenu)

	blurred := e.Reduce(focused, actions.SetInputFocused{Focused: false})
	assert.False(t, blurred.InputState.IsInputFocused)
	assert.False(t, blurred.InputState.ShowMenu)

	settings := DefaultSettings()
	settings.ShowMenuOnFocus = false
	e, st = initEngine(settings, Hooks[string]{}, testOptions())
	st = e.Reduce(st, actions.SetInputFocused{Focused: true})
	assert.True(t, st.InputState.IsInputFocused)
	assert.False(t, st.InputState.ShowMenu)
}

func TestSetState(t *testing.T) {
	e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())

	replaced := e.Reduce(st, actions.SetState[string]{Fn: func(prev *selectState) *selectState {
		next := prev.Clone()
		next.InputState.Value = "manual"
		return next
	}})
	assert.Equal(t, "manual", replaced.InputState.Value)
	assert.Equal(t, "", st.InputState.Value)

	assert.Same(t, st, e.Reduce(st, actions.SetState[string]{}))
}

func TestUnknownActionIsNoOp(t *testing.T) {
	e, st := initEngine(DefaultSettings(), Hooks[string]{}, testOptions())

	assert.Same(t, st, e.Reduce(st, actions.OptionSelected[int]{Option: domain.NewOption("one", 1)}))
	assert.Same(t, st, e.Reduce(st, nil))
}

func TestFlattenedIsCached(t *testing.T) {
	settings := DefaultSettings()
	settings.CanSelectGroup = true
	e, st := initEngine(settings, Hooks[string]{}, testOptions())

	a := e.Flattened(st.VisibleOptions)
	b := e.Flattened(st.VisibleOptions)
	require.Len(t, a, 9)
	assert.Same(t, &a[0], &b[0])

	next := e.Reduce(st, actions.InputChange{Value: "f"})
	assert.Len(t, e.Flattened(next.VisibleOptions), 6)
}
