// Package pager splits a snapshot of items into fixed-size pages that are
// handed out one at a time, front to back.
package pager

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned for page sizes below one.
var ErrInvalidSize = errors.New("page size must be at least 1")

// Pager yields successive pages of at most Size items. It never rewinds.
type Pager[T any] struct {
	items  []T
	size   int
	offset int
	served int
}

// Chunks returns a pager over items with pages of n elements. The final
// page holds the remainder when len(items) is not a multiple of n.
func Chunks[T any](items []T, n int) (*Pager[T], error) {
	if n < 1 {
		return nil, fmt.Errorf("chunk size %d: %w", n, ErrInvalidSize)
	}
	return &Pager[T]{items: items, size: n}, nil
}

// Next returns the next page and true, or nil and false once every item
// has been served.
func (p *Pager[T]) Next() ([]T, bool) {
	if p.offset >= len(p.items) {
		return nil, false
	}
	end := min(p.offset+p.size, len(p.items))
	page := p.items[p.offset:end:end]
	p.offset = end
	p.served++
	return page, true
}

// Size is the configured page size.
func (p *Pager[T]) Size() int {
	return p.size
}

// Pages is the total number of pages the snapshot splits into.
func (p *Pager[T]) Pages() int {
	return (len(p.items) + p.size - 1) / p.size
}

// Served counts pages returned by Next so far.
func (p *Pager[T]) Served() int {
	return p.served
}

// Remaining counts items not yet served.
func (p *Pager[T]) Remaining() int {
	return len(p.items) - p.offset
}
