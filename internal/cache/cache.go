// Package cache memoizes built tensors keyed by kind, order and dimension.
//
// Stores hand out copies: a tensor returned by Get is owned by the caller and
// a tensor passed to Put may be reused by the caller afterwards.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lbtheory/isoortho/internal/tensor"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("cache: store is closed")

// Key identifies one built tensor.
type Key struct {
	Kind  string // "isotropic" or "orthogonal"
	Order int
	Dim   int
}

// String renders the key as kind/n=order/d=dim.
func (k Key) String() string {
	return fmt.Sprintf("%s/n=%d/d=%d", k.Kind, k.Order, k.Dim)
}

// Store is a tensor memoization backend.
type Store interface {
	Get(ctx context.Context, key Key) (*tensor.Tensor, bool, error)
	Put(ctx context.Context, key Key, t *tensor.Tensor) error
	Close() error
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[Key]*tensor.Tensor
	closed  bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[Key]*tensor.Tensor)}
}

// Get returns a copy of the cached tensor for key.
func (m *Memory) Get(_ context.Context, key Key) (*tensor.Tensor, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	t, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return t.Clone(), true, nil
}

// Put stores a copy of t under key, replacing any previous entry.
func (m *Memory) Put(_ context.Context, key Key, t *tensor.Tensor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.entries[key] = t.Clone()
	return nil
}

// Len returns the number of cached tensors.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close drops all entries. Further calls fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.entries = nil
	return nil
}
