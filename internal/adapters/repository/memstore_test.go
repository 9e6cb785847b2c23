package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func gen(id string, score float64) *model.Generation {
	return &model.Generation{
		Assignment: &model.Assignment{
			ID: id,
			Teams: []model.Team{
				{ID: "t1", Players: []model.PlayerSlot{{PlayerID: "p1", Score: score}}, TotalScore: score},
			},
		},
		Weights: model.DefaultSkillWeights(),
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if n := store.Len(ctx); n != 0 {
		t.Fatalf("expected empty store, got %d", n)
	}

	if err := store.Save(ctx, gen("a1", 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Assignment.ID != "a1" || got.Assignment.Teams[0].TotalScore != 10 {
		t.Errorf("stored generation came back wrong: %+v", got)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Save(ctx, gen("a1", 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, _ := store.Get(ctx, "a1")
	first.Assignment.Teams[0].TotalScore = 999

	second, _ := store.Get(ctx, "a1")
	if second.Assignment.Teams[0].TotalScore != 10 {
		t.Error("mutating a returned copy must not touch the stored state")
	}
}

func TestMemoryStore_SaveReplacesExisting(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_ = store.Save(ctx, gen("a1", 10))
	_ = store.Save(ctx, gen("a1", 20))

	if n := store.Len(ctx); n != 1 {
		t.Fatalf("re-save must not grow the store, got %d", n)
	}
	got, _ := store.Get(ctx, "a1")
	if got.Assignment.Teams[0].TotalScore != 20 {
		t.Error("re-save must replace the stored value")
	}
}

func TestMemoryStore_SaveRejectsNil(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Save(ctx, nil); !errors.Is(err, ErrNilGeneration) {
		t.Errorf("expected ErrNilGeneration, got %v", err)
	}
	if err := store.Save(ctx, &model.Generation{}); !errors.Is(err, ErrNilGeneration) {
		t.Errorf("expected ErrNilGeneration for missing assignment, got %v", err)
	}
}

func TestMemoryStore_EvictsOldestInsertion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithCapacity(3))

	for i := 1; i <= 4; i++ {
		if err := store.Save(ctx, gen(fmt.Sprintf("a%d", i), float64(i))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if n := store.Len(ctx); n != 3 {
		t.Fatalf("expected capacity-bounded store of 3, got %d", n)
	}
	if _, err := store.Get(ctx, "a1"); !errors.Is(err, ErrNotFound) {
		t.Error("oldest insertion must be evicted first")
	}
	for _, id := range []string{"a2", "a3", "a4"} {
		if _, err := store.Get(ctx, id); err != nil {
			t.Errorf("expected %s retained, got %v", id, err)
		}
	}
}

func TestMemoryStore_Mutate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Save(ctx, gen("a1", 10))

	got, err := store.Mutate(ctx, "a1", func(g *model.Generation) error {
		g.Assignment.Teams[0].TotalScore = 42
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Assignment.Teams[0].TotalScore != 42 {
		t.Error("mutate must return the mutated state")
	}

	stored, _ := store.Get(ctx, "a1")
	if stored.Assignment.Teams[0].TotalScore != 42 {
		t.Error("mutation must persist")
	}

	if _, err := store.Mutate(ctx, "missing", func(*model.Generation) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	wantErr := errors.New("refused")
	if _, err := store.Mutate(ctx, "a1", func(*model.Generation) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("fn errors must surface, got %v", err)
	}
}

func TestMemoryStore_Close(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Save(ctx, gen("a1", 10))

	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("double close must be a no-op, got %v", err)
	}

	if err := store.Save(ctx, gen("a2", 5)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on save, got %v", err)
	}
	if _, err := store.Get(ctx, "a1"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on get, got %v", err)
	}
	if _, err := store.Mutate(ctx, "a1", func(*model.Generation) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on mutate, got %v", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithCapacity(64))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := fmt.Sprintf("a%d-%d", worker, j)
				_ = store.Save(ctx, gen(id, float64(j)))
				_, _ = store.Get(ctx, id)
				_, _ = store.Mutate(ctx, id, func(g *model.Generation) error {
					g.Assignment.Teams[0].TotalScore++
					return nil
				})
			}
		}(i)
	}
	wg.Wait()

	if n := store.Len(ctx); n > 64 {
		t.Errorf("store exceeded its capacity: %d", n)
	}
}
