package engine

import (
	"sync"

	"combobox/internal/domain"
	"combobox/internal/logic"
)

// flatCache memoizes the flattened view of the last visible options slice it
// saw, keyed by slice identity. Option slices held by states are never
// written to, so identity stands in for content.
type flatCache[V comparable] struct {
	mu             sync.Mutex
	head           *domain.Option[V]
	n              int
	canSelectGroup bool
	flat           []domain.Option[V]
}

func (c *flatCache[V]) get(options []domain.Option[V], canSelectGroup bool) []domain.Option[V] {
	if len(options) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.head == &options[0] && c.n == len(options) && c.canSelectGroup == canSelectGroup {
		return c.flat
	}
	c.head = &options[0]
	c.n = len(options)
	c.canSelectGroup = canSelectGroup
	c.flat = logic.Flatten(options, canSelectGroup)
	return c.flat
}
