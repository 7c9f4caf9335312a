package logic

import "combobox/internal/domain"

// Logical positions: a leaf takes one position; a group takes one only when
// canSelectGroup is set, followed by the positions of its children.

// Length counts the addressable positions in options
func Length[V comparable](options []domain.Option[V], canSelectGroup bool) int {
	n := 0
	for _, o := range options {
		if o.IsGroup() {
			if canSelectGroup {
				n++
			}
			n += Length(o.Options, canSelectGroup)
			continue
		}
		n++
	}
	return n
}

// At returns the option at a logical position. ok is false when index is out of range.
func At[V comparable](options []domain.Option[V], index int, canSelectGroup bool) (opt domain.Option[V], ok bool) {
	if index < 0 {
		return opt, false
	}
	pos := 0
	return at(options, index, canSelectGroup, &pos)
}

func at[V comparable](options []domain.Option[V], index int, canSelectGroup bool, pos *int) (domain.Option[V], bool) {
	for _, o := range options {
		if !o.IsGroup() {
			if *pos == index {
				return o, true
			}
			*pos++
			continue
		}
		if canSelectGroup {
			if *pos == index {
				return o, true
			}
			*pos++
		}
		// skip whole subtrees that end before index
		if size := Length(o.Options, canSelectGroup); *pos+size <= index {
			*pos += size
			continue
		}
		if found, ok := at(o.Options, index, canSelectGroup, pos); ok {
			return found, true
		}
	}
	var zero domain.Option[V]
	return zero, false
}

// IndexOf returns the logical position of target, or -1 if it is not addressable
func IndexOf[V comparable](options []domain.Option[V], target domain.Option[V], canSelectGroup bool, equal EqualityFunc[V]) int {
	if equal == nil {
		equal = ValueEqual[V]
	}
	pos := 0
	return indexOf(options, target, canSelectGroup, equal, &pos)
}

func indexOf[V comparable](options []domain.Option[V], target domain.Option[V], canSelectGroup bool, equal EqualityFunc[V], pos *int) int {
	for _, o := range options {
		if !o.IsGroup() {
			if equal(o, target) {
				return *pos
			}
			*pos++
			continue
		}
		if canSelectGroup {
			if equal(o, target) {
				return *pos
			}
			*pos++
		}
		if idx := indexOf(o.Options, target, canSelectGroup, equal, pos); idx >= 0 {
			return idx
		}
	}
	return -1
}

// Flatten lays options out in logical position order. When options holds no
// groups the input slice is returned as is.
func Flatten[V comparable](options []domain.Option[V], canSelectGroup bool) []domain.Option[V] {
	if !hasGroup(options) {
		return options
	}
	out := make([]domain.Option[V], 0, Length(options, canSelectGroup))
	return flattenInto(out, options, canSelectGroup)
}

func flattenInto[V comparable](out, options []domain.Option[V], canSelectGroup bool) []domain.Option[V] {
	for _, o := range options {
		if !o.IsGroup() {
			out = append(out, o)
			continue
		}
		if canSelectGroup {
			out = append(out, o)
		}
		out = flattenInto(out, o.Options, canSelectGroup)
	}
	return out
}

func hasGroup[V comparable](options []domain.Option[V]) bool {
	for _, o := range options {
		if o.IsGroup() {
			return true
		}
	}
	return false
}
