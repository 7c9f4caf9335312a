package logic

import (
	"strings"

	"combobox/internal/domain"
)

// FilterFunc narrows options down to the ones matching query
type FilterFunc[V comparable] func(query string, options []domain.Option[V]) []domain.Option[V]

// FilterBySubstring keeps options whose label contains query (case-sensitive).
// A group whose own label matches is kept whole; otherwise it keeps only its
// matching children and is dropped when none match.
func FilterBySubstring[V comparable](query string, options []domain.Option[V]) []domain.Option[V] {
	if query == "" {
		return options
	}

	out := make([]domain.Option[V], 0, len(options))
	for _, o := range options {
		if !o.IsGroup() {
			if strings.Contains(o.Label, query) {
				out = append(out, o)
			}
			continue
		}
		if strings.Contains(o.GroupLabel, query) {
			out = append(out, o)
			continue
		}
		if children := FilterBySubstring(query, o.Options); len(children) > 0 {
			out = append(out, o.WithChildren(children))
		}
	}
	return out
}

// NoFilter returns options unchanged. Use it for sources that filter server side.
func NoFilter[V comparable](_ string, options []domain.Option[V]) []domain.Option[V] {
	return options
}

// MatchesAnySelected reports whether text equals the label of a selected option
func MatchesAnySelected[V comparable](text string, selected []domain.Option[V]) bool {
	for _, o := range selected {
		if o.DisplayLabel() == text {
			return true
		}
	}
	return false
}
