package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeQueue struct {
	jobs chan Job
}

func newFakeQueue(jobs ...Job) *fakeQueue {
	q := &fakeQueue{jobs: make(chan Job, len(jobs)+1)}
	for _, j := range jobs {
		q.jobs <- j
	}
	return q
}

func (q *fakeQueue) Dequeue(_ context.Context) <-chan Job {
	return q.jobs
}

func (q *fakeQueue) Close() error {
	close(q.jobs)
	return nil
}

type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (g *fakeGenerator) Generate(_ context.Context, players []model.Player, numTeams, _ int, _ model.SkillWeights) (*model.Generation, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	teams := make([]model.Team, numTeams)
	for i := range teams {
		teams[i] = model.Team{ID: "t", Name: "Team"}
	}
	for i, p := range players {
		t := &teams[i%numTeams]
		t.Players = append(t.Players, model.PlayerSlot{PlayerID: p.ID, Skills: p.Skills})
	}
	return &model.Generation{
		Assignment: &model.Assignment{ID: "engine-generated", Teams: teams},
	}, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeSaver struct {
	mu    sync.Mutex
	saved map[string]*model.Generation
	err   error
}

func newFakeSaver() *fakeSaver {
	return &fakeSaver{saved: make(map[string]*model.Generation)}
}

func (s *fakeSaver) Save(_ context.Context, gen *model.Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved[gen.Assignment.ID] = gen
	return nil
}

func (s *fakeSaver) get(id string) *model.Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[id]
}

func testJob(id string, playerCount int) Job {
	players := make([]model.Player, playerCount)
	for i := range players {
		players[i] = model.Player{ID: string(rune('a' + i)), Skills: model.Uniform(5), Available: true}
	}
	return Job{
		ID:         id,
		Players:    players,
		NumTeams:   2,
		Weights:    model.DefaultSkillWeights(),
		EnqueuedAt: time.Now(),
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWorkerProcessesJob(t *testing.T) {
	q := newFakeQueue(testJob("job-1", 4))
	gen := &fakeGenerator{}
	saver := newFakeSaver()

	w := NewInMemoryWorker(q, gen, saver)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	waitFor(t, func() bool { return saver.get("job-1") != nil })

	got := saver.get("job-1")
	if got.Assignment.ID != "job-1" {
		t.Errorf("expected result stored under job id, got %q", got.Assignment.ID)
	}
	total := 0
	for _, team := range got.Assignment.Teams {
		total += len(team.Players)
	}
	if total != 4 {
		t.Errorf("expected 4 assigned players, got %d", total)
	}
}

func TestWorkerContinuesAfterGenerationError(t *testing.T) {
	q := newFakeQueue()
	gen := &fakeGenerator{err: errors.New("boom")}
	saver := newFakeSaver()

	w := NewInMemoryWorker(q, gen, saver)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	q.jobs <- testJob("bad-1", 2)
	waitFor(t, func() bool { return gen.callCount() == 1 })

	// Worker must keep consuming after a failed job.
	gen.mu.Lock()
	gen.err = nil
	gen.mu.Unlock()
	q.jobs <- testJob("good-1", 2)
	waitFor(t, func() bool { return saver.get("good-1") != nil })

	if saver.get("bad-1") != nil {
		t.Error("failed job must not be saved")
	}
}

func TestWorkerShutdown(t *testing.T) {
	q := newFakeQueue()
	w := NewInMemoryWorker(q, &fakeGenerator{}, newFakeSaver())

	ctx := context.Background()
	go w.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := w.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}

func TestWorkerStopsWhenQueueCloses(t *testing.T) {
	q := newFakeQueue(testJob("job-1", 2))
	saver := newFakeSaver()
	w := NewInMemoryWorker(q, &fakeGenerator{}, saver)

	go w.Run(context.Background())
	waitFor(t, func() bool { return saver.get("job-1") != nil })

	_ = q.Close()
	select {
	case <-w.done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after queue close")
	}
}

func TestPoolProcessesJobs(t *testing.T) {
	q := newFakeQueue()
	gen := &fakeGenerator{}
	saver := newFakeSaver()

	pool := NewPool(3, q, gen, saver)
	if len(pool.workers) != 3 {
		t.Fatalf("expected 3 workers, got %d", len(pool.workers))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	ids := []string{"j1", "j2", "j3", "j4", "j5"}
	for _, id := range ids {
		q.jobs <- testJob(id, 4)
	}

	waitFor(t, func() bool {
		for _, id := range ids {
			if saver.get(id) == nil {
				return false
			}
		}
		return true
	})

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelShutdown()
	if err := pool.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}

func TestPoolDefaultsWorkerCount(t *testing.T) {
	pool := NewPool(0, newFakeQueue(), &fakeGenerator{}, newFakeSaver())
	if len(pool.workers) < 1 {
		t.Fatal("expected pool to default to a positive worker count")
	}
}
