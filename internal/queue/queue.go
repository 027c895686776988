// Package queue holds the ordered, append-only list a session keeps its
// captures in. Readers always get a snapshot; the backing slice never leaks.
package queue

import (
	"sync"
)

// Queue is a generic thread-safe append-only queue.
type Queue[T any] struct {
	mu    sync.RWMutex
	items []T
}

// New creates a new empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0),
	}
}

// Push appends items to the queue and returns the new length.
func (q *Queue[T]) Push(items ...T) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
	return len(q.items)
}

// Items returns a copy of the queue in insertion order.
func (q *Queue[T]) Items() []T {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}
