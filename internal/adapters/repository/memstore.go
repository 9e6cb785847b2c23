package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/pkg/logger"
	"github.com/sideout/sideout/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultCapacity = 1024
)

// node is one retained generation in insertion order.
type node struct {
	id   string
	gen  *model.Generation
	next *node
}

// MemoryStore implements Store with a bounded map plus an
// insertion-ordered linked list: head is the oldest entry and gets
// evicted first once the capacity is reached. Re-saving an existing id
// updates the value without refreshing its age.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string]*node
	head     *node // oldest
	tail     *node // newest
	capacity int
	closed   bool

	logger logger.Logger
}

// NewMemoryStore creates a bounded in-memory store with options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		capacity: defaultCapacity,
		logger:   logger.Get().Named("store"),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.items = make(map[string]*node, s.capacity)

	metrics.UpdateStoreCapacity(s.capacity)
	metrics.UpdateStoreAssignments(0)

	return s
}

// Save retains a deep copy of the generation, evicting the oldest
// entry when the store is full.
func (s *MemoryStore) Save(ctx context.Context, gen *model.Generation) error {
	if gen == nil || gen.Assignment == nil || gen.Assignment.ID == "" {
		return ErrNilGeneration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	id := gen.Assignment.ID
	if existing, ok := s.items[id]; ok {
		existing.gen = gen.Clone()
		return nil
	}

	if len(s.items) >= s.capacity {
		s.evictOldest()
	}

	n := &node{id: id, gen: gen.Clone()}
	if s.tail == nil {
		s.head = n
	} else {
		s.tail.next = n
	}
	s.tail = n
	s.items[id] = n

	metrics.UpdateStoreAssignments(len(s.items))
	return nil
}

// Get returns a deep copy of the stored generation.
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	n, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return n.gen.Clone(), nil
}

// Mutate applies fn to the stored generation under the write lock and
// returns a deep copy of the mutated state.
func (s *MemoryStore) Mutate(ctx context.Context, id string, fn func(*model.Generation) error) (*model.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	n, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := fn(n.gen); err != nil {
		return nil, err
	}
	return n.gen.Clone(), nil
}

// Len returns the number of retained generations.
func (s *MemoryStore) Len(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close releases the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.items = nil
	s.head = nil
	s.tail = nil
	return nil
}

// evictOldest drops the head entry. Must be called with s.mu held.
func (s *MemoryStore) evictOldest() {
	if s.head == nil {
		return
	}
	victim := s.head
	s.head = victim.next
	if s.head == nil {
		s.tail = nil
	}
	delete(s.items, victim.id)

	s.logger.Debug(context.Background(), "evicted oldest assignment", logger.String("id", victim.id))

	metrics.RecordStoreEviction()
	metrics.UpdateStoreAssignments(len(s.items))
}
