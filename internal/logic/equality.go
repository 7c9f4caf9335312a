package logic

import "combobox/internal/domain"

// EqualityFunc decides whether two options are the same option
type EqualityFunc[V comparable] func(a, b domain.Option[V]) bool

// SelectedFunc decides whether option is among selected
type SelectedFunc[V comparable] func(option domain.Option[V], selected []domain.Option[V], equal EqualityFunc[V]) bool

// ValueEqual compares options by value
func ValueEqual[V comparable](a, b domain.Option[V]) bool {
	return a.Value == b.Value
}

// EqualByKey builds an EqualityFunc comparing a derived key
func EqualByKey[V comparable, K comparable](key func(domain.Option[V]) K) EqualityFunc[V] {
	return func(a, b domain.Option[V]) bool {
		return key(a) == key(b)
	}
}

// IsSelected reports whether any selected option equals option
func IsSelected[V comparable](option domain.Option[V], selected []domain.Option[V], equal EqualityFunc[V]) bool {
	if equal == nil {
		equal = ValueEqual[V]
	}
	for _, s := range selected {
		if equal(option, s) {
			return true
		}
	}
	return false
}
