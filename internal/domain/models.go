package domain

// Option is one entry of a select's data source. It is a group when
// GroupLabel is set (or it carries children) and a leaf otherwise.
type Option[V comparable] struct {
	Label            string         `json:"label,omitempty"`
	GroupLabel       string         `json:"groupLabel,omitempty"`
	Value            V              `json:"value"`
	Options          []Option[V]    `json:"options,omitempty"` // children of a group
	DisableSelection bool           `json:"disableSelection,omitempty"`
	Extra            map[string]any `json:"extra,omitempty"` // caller-defined extension fields
}

// NewOption creates a leaf option
func NewOption[V comparable](label string, value V) Option[V] {
	return Option[V]{Label: label, Value: value}
}

// NewGroup creates a group option holding the given children
func NewGroup[V comparable](label string, value V, children ...Option[V]) Option[V] {
	if children == nil {
		children = []Option[V]{}
	}
	return Option[V]{GroupLabel: label, Value: value, Options: children}
}

// IsGroup reports whether the option is a group
func (o Option[V]) IsGroup() bool {
	return o.GroupLabel != "" || o.Options != nil
}

// DisplayLabel returns the group label for groups and the label for leaves
func (o Option[V]) DisplayLabel() string {
	if o.IsGroup() {
		return o.GroupLabel
	}
	return o.Label
}

// WithChildren returns a copy of the group with its children replaced
func (o Option[V]) WithChildren(children []Option[V]) Option[V] {
	o.Options = children
	return o
}
