// Package repository defines the assignment store interface and errors.
package repository

import "github.com/sideout/sideout/pkg/logger"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity sets how many generations the store retains before the
// oldest insertion is evicted.
func WithCapacity(capacity int) Option {
	return func(s *MemoryStore) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(log logger.Logger) Option {
	return func(s *MemoryStore) {
		if log != nil {
			s.logger = log
		}
	}
}
