// Package repository defines the assignment store interface and errors.
package repository

import (
	"context"

	"github.com/sideout/sideout/internal/domain/model"
)

// Store retains generation results so later mutation requests (swap,
// lock, reshuffle) can find the assignment they target.
type Store interface {
	// Save retains a generation keyed by its assignment id, replacing
	// any previous generation under the same id.
	Save(ctx context.Context, gen *model.Generation) error

	// Get returns a deep copy of the stored generation.
	// Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*model.Generation, error)

	// Mutate applies fn to the stored generation under the store lock
	// and returns a deep copy of the result. fn returning an error
	// aborts nothing already applied; callers keep fn idempotent or
	// all-or-nothing themselves.
	Mutate(ctx context.Context, id string, fn func(*model.Generation) error) (*model.Generation, error)

	// Len returns the number of retained generations.
	Len(ctx context.Context) int

	// Close releases the store. Further calls fail with ErrClosed.
	Close() error
}
