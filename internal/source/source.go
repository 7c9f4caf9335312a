package source

import (
	"context"
	"errors"

	"combobox/internal/domain"
)

var ErrUnknownSource = errors.New("unknown option source")

// Request asks a source for one page of top-level options matching Query
type Request struct {
	Query    string
	Page     int // zero based
	PageSize int // 0 means everything in one page
}

// Offset returns the index of the first top-level option of the page
func (r Request) Offset() int {
	if r.PageSize <= 0 {
		return 0
	}
	return r.Page * r.PageSize
}

// Page is a page of options
type Page struct {
	Options []domain.Option[string]
	HasMore bool
}

// Source provides filtered, paged option trees
type Source interface {
	Fetch(ctx context.Context, req Request) (Page, error)
}
