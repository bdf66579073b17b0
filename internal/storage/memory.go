package storage

import (
	"context"
	"sync"
)

// MemoryCollection keeps a collection in process memory only
type MemoryCollection[T any] struct {
	name  string
	mu    sync.RWMutex
	items []T
}

// NewMemoryCollection creates a new in-memory collection seeded with items
func NewMemoryCollection[T any](name string, items ...T) *MemoryCollection[T] {
	return &MemoryCollection[T]{name: name, items: cloneSlice(items)}
}

// Name returns the collection name
func (c *MemoryCollection[T]) Name() string {
	return c.name
}

// All returns a copy of the collection
func (c *MemoryCollection[T]) All(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneSlice(c.items), nil
}

// ReplaceAll replaces the collection with a copy of items
func (c *MemoryCollection[T]) ReplaceAll(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = cloneSlice(items)
	return nil
}
