package source

import (
	"context"
	"sync"

	"combobox/internal/domain"
	"combobox/internal/logic"
)

// MemorySource is an in-memory Source
type MemorySource struct {
	mu      sync.RWMutex
	options []domain.Option[string]
}

// NewMemorySource creates a memory source holding options
func NewMemorySource(options []domain.Option[string]) *MemorySource {
	return &MemorySource{options: options}
}

// All returns every option
func (s *MemorySource) All() []domain.Option[string] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return a copy to prevent external modification
	out := make([]domain.Option[string], len(s.options))
	copy(out, s.options)
	return out
}

// Set replaces the options
func (s *MemorySource) Set(options []domain.Option[string]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = options
}

// Add appends options
func (s *MemorySource) Add(options ...domain.Option[string]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = append(s.options[:len(s.options):len(s.options)], options...)
}

// Fetch filters by substring and slices out the requested page
func (s *MemorySource) Fetch(ctx context.Context, req Request) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	s.mu.RLock()
	filtered := logic.FilterBySubstring(req.Query, s.options)
	s.mu.RUnlock()

	if req.PageSize <= 0 {
		return Page{Options: filtered}, nil
	}

	start := req.Offset()
	if start >= len(filtered) {
		return Page{}, nil
	}
	end := min(start+req.PageSize, len(filtered))

	page := make([]domain.Option[string], end-start)
	copy(page, filtered[start:end])
	return Page{Options: page, HasMore: end < len(filtered)}, nil
}
