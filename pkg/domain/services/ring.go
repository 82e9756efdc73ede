package services

import (
	"fmt"
	"slices"

	"github.com/Surya-0/SCM-Builder/pkg/domain/entities"
)

// Ring hands out fixed-size slices of a pool in round-robin order so that
// every element is reused at most once more than any other.
type Ring[T any] struct {
	items []T
	next  int
	usage []int
}

// NewRing creates a ring over a non-empty pool
func NewRing[T any](items []T) (*Ring[T], error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: ring pool is empty", entities.ErrPoolTooSmall)
	}
	return &Ring[T]{
		items: slices.Clone(items),
		usage: make([]int, len(items)),
	}, nil
}

// Take returns the next k elements, wrapping around the pool
func (r *Ring[T]) Take(k int) ([]T, error) {
	if k > len(r.items) {
		return nil, fmt.Errorf("%w: slice of %d exceeds ring pool of %d", entities.ErrPoolTooSmall, k, len(r.items))
	}
	result := make([]T, 0, k)
	for i := 0; i < k; i++ {
		result = append(result, r.items[r.next])
		r.usage[r.next]++
		r.next = (r.next + 1) % len(r.items)
	}
	return result, nil
}

// Len returns the pool size
func (r *Ring[T]) Len() int {
	return len(r.items)
}

// Usage returns how often each pool element has been handed out
func (r *Ring[T]) Usage() []int {
	return slices.Clone(r.usage)
}
