package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sideout/sideout/internal/domain/model"
)

func job(id string) Job {
	return Job{
		ID:         id,
		Players:    []model.Player{{ID: "p1", Skills: model.Uniform(5), Available: true}},
		NumTeams:   2,
		Weights:    model.DefaultSkillWeights(),
		EnqueuedAt: time.Now(),
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, job("j1")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	jobChan := q.Dequeue(ctx)
	got := <-jobChan
	if got.ID != "j1" {
		t.Errorf("expected j1, got %v", got.ID)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("j1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, job("j2")) {
		t.Error("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, job("j3")) {
		t.Error("expected enqueue to fail when at capacity")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("j1")) {
		t.Error("expected enqueue to succeed")
	}

	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("double close must be a no-op, got %v", err)
	}

	if q.Enqueue(ctx, job("j2")) {
		t.Error("expected enqueue to fail after close")
	}

	// Drain remaining jobs, then expect the channel to close.
	jobChan := q.Dequeue(ctx)
	got, ok := <-jobChan
	if !ok || got.ID != "j1" {
		t.Errorf("expected to drain j1, got %v ok=%v", got.ID, ok)
	}
	if _, ok := <-jobChan; ok {
		t.Error("expected dequeue channel to close after drain")
	}
}

func TestInMemoryQueue_DequeueOrder(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if !q.Enqueue(ctx, job(fmt.Sprintf("j%d", i))) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	_ = q.Close()

	jobChan := q.Dequeue(ctx)
	for i := 0; i < 5; i++ {
		got := <-jobChan
		if want := fmt.Sprintf("j%d", i); got.ID != want {
			t.Errorf("expected %s, got %s", want, got.ID)
		}
	}
}

func TestInMemoryQueue_DequeueRespectsContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())

	jobChan := q.Dequeue(ctx)

	if !q.Enqueue(context.Background(), job("j1")) {
		t.Error("expected enqueue to succeed")
	}
	cancel()

	// The forwarding goroutine stops on cancel; eventually the wrapped
	// channel closes without further deliveries.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-jobChan:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("expected dequeue channel to close after cancel")
		}
	}
}
