package service_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	jobqueue "github.com/sideout/sideout/internal/adapters/mq/queue"
	"github.com/sideout/sideout/internal/adapters/repository"
	service "github.com/sideout/sideout/internal/app"
	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/internal/templates"
	"github.com/sideout/sideout/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func pool(ratings ...float64) []model.Player {
	players := make([]model.Player, len(ratings))
	for i, r := range ratings {
		players[i] = model.Player{
			ID:        "p" + string(rune('a'+i)),
			Name:      "Player " + string(rune('A'+i)),
			Skills:    model.Uniform(r),
			Available: true,
		}
	}
	return players
}

func startedService(opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldBeFalse)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(100),
			service.WithStoreCapacity(16),
			service.WithMaxPoolSize(50),
			service.WithTimeBudget(50*time.Millisecond),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 4)
			So(stats["queueSize"], ShouldEqual, 100)
			So(stats["storeCapacity"], ShouldEqual, 16)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats()["started"], ShouldBeTrue)
			})

			Convey("And starting twice should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stopping should mark it stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldBeFalse)

				Convey("And stopping twice should be safe", func() {
					svc.Stop()
				})
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("Then business calls report not started", func() {
			_, err := svc.GenerateTeams(context.Background(), pool(5, 5), 2, 0, model.SkillWeights{})
			So(err, ShouldWrap, service.ErrNotStarted)

			_, err = svc.GetAssignment(context.Background(), "x")
			So(err, ShouldWrap, service.ErrNotStarted)
		})
	})
}

func TestService_GenerateTeams(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(service.WithWorkerCount(2))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When generating teams from a rated pool", func() {
			gen, err := svc.GenerateTeams(ctx, pool(10, 9, 8, 7, 6, 5), 2, 0, model.SkillWeights{})

			Convey("Then a balanced assignment is produced and stored", func() {
				So(err, ShouldBeNil)
				So(gen.Assignment.ID, ShouldNotBeEmpty)
				So(len(gen.Assignment.Teams), ShouldEqual, 2)
				So(len(gen.Assignment.Teams[0].Players), ShouldEqual, 3)
				So(len(gen.Assignment.Teams[1].Players), ShouldEqual, 3)

				stored, err := svc.GetAssignment(ctx, gen.Assignment.ID)
				So(err, ShouldBeNil)
				So(stored.Assignment.ID, ShouldEqual, gen.Assignment.ID)
			})
		})

		Convey("When the pool mixes available and unavailable players", func() {
			players := pool(10, 9, 8, 7)
			players[0].Available = false
			gen, err := svc.GenerateTeams(ctx, players, 2, 0, model.SkillWeights{})

			Convey("Then only available players are assigned", func() {
				So(err, ShouldBeNil)
				total := 0
				for _, team := range gen.Assignment.Teams {
					total += len(team.Players)
					for _, slot := range team.Players {
						So(slot.PlayerID, ShouldNotEqual, players[0].ID)
					}
				}
				So(total, ShouldEqual, 3)
			})
		})

		Convey("When every player is unavailable", func() {
			players := pool(5, 5)
			players[0].Available = false
			players[1].Available = false
			_, err := svc.GenerateTeams(ctx, players, 2, 0, model.SkillWeights{})

			Convey("Then the request is rejected", func() {
				So(err, ShouldWrap, service.ErrNoEligiblePlayers)
			})
		})
	})

	Convey("Given a service with a small pool limit", t, func() {
		svc := startedService(service.WithWorkerCount(1), service.WithMaxPoolSize(3))
		defer svc.Stop()

		Convey("When the eligible pool exceeds the limit", func() {
			_, err := svc.GenerateTeams(context.Background(), pool(5, 5, 5, 5), 2, 0, model.SkillWeights{})

			Convey("Then the request is rejected", func() {
				So(err, ShouldWrap, service.ErrPoolTooLarge)
			})
		})
	})
}

func TestService_EnqueueGeneration(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(service.WithWorkerCount(2))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When enqueuing a generation job", func() {
			jobID, err := svc.EnqueueGeneration(ctx, pool(9, 8, 7, 6), 2, 0, model.SkillWeights{})

			Convey("Then the result becomes retrievable under the job id", func() {
				So(err, ShouldBeNil)
				So(jobID, ShouldNotBeEmpty)

				var gen *model.Generation
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					gen, err = svc.GetAssignment(ctx, jobID)
					if err == nil {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}
				So(err, ShouldBeNil)
				So(gen.Assignment.ID, ShouldEqual, jobID)
				So(len(gen.Assignment.Teams), ShouldEqual, 2)
			})
		})

		Convey("When the pool has no eligible players", func() {
			players := pool(5)
			players[0].Available = false
			_, err := svc.EnqueueGeneration(ctx, players, 2, 0, model.SkillWeights{})
			So(err, ShouldWrap, service.ErrNoEligiblePlayers)
		})
	})

	Convey("Given a service whose queue no longer accepts jobs", t, func() {
		q := jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(1))
		So(q.Close(), ShouldBeNil)
		svc := startedService(service.WithWorkerCount(1), service.WithQueue(q))
		defer svc.Stop()

		Convey("When enqueuing a generation job", func() {
			_, err := svc.EnqueueGeneration(context.Background(), pool(5, 5), 2, 0, model.SkillWeights{})

			Convey("Then backpressure is reported", func() {
				So(err, ShouldWrap, service.ErrQueueFull)
			})
		})
	})
}

func TestService_Mutations(t *testing.T) {
	Convey("Given a stored assignment", t, func() {
		svc := startedService(service.WithWorkerCount(1))
		defer svc.Stop()
		ctx := context.Background()

		gen, err := svc.GenerateTeams(ctx, pool(10, 9, 8, 7, 6, 5), 2, 0, model.SkillWeights{})
		So(err, ShouldBeNil)
		id := gen.Assignment.ID
		movedID := gen.Assignment.Teams[0].Players[0].PlayerID

		Convey("When swapping a player to the other team", func() {
			updated, err := svc.SwapPlayer(ctx, id, movedID, 0, 1)

			Convey("Then the move persists with fresh scores", func() {
				So(err, ShouldBeNil)
				So(len(updated.Assignment.Teams[0].Players), ShouldEqual, 2)
				So(len(updated.Assignment.Teams[1].Players), ShouldEqual, 4)

				stored, err := svc.GetAssignment(ctx, id)
				So(err, ShouldBeNil)
				teamIdx, _, ok := stored.Assignment.FindPlayer(movedID)
				So(ok, ShouldBeTrue)
				So(teamIdx, ShouldEqual, 1)
			})
		})

		Convey("When swapping a locked player", func() {
			_, err := svc.LockPlayer(ctx, id, movedID, true)
			So(err, ShouldBeNil)

			_, err = svc.SwapPlayer(ctx, id, movedID, 0, 1)

			Convey("Then the swap is rejected without mutation", func() {
				So(err, ShouldWrap, service.ErrSwapRejected)

				stored, err := svc.GetAssignment(ctx, id)
				So(err, ShouldBeNil)
				teamIdx, _, ok := stored.Assignment.FindPlayer(movedID)
				So(ok, ShouldBeTrue)
				So(teamIdx, ShouldEqual, 0)
			})
		})

		Convey("When locking an unknown player", func() {
			_, err := svc.LockPlayer(ctx, id, "ghost", true)
			So(err, ShouldWrap, service.ErrPlayerNotFound)
		})

		Convey("When mutating an unknown assignment", func() {
			_, err := svc.SwapPlayer(ctx, "nope", movedID, 0, 1)
			So(err, ShouldWrap, repository.ErrNotFound)

			_, err = svc.LockPlayer(ctx, "nope", movedID, true)
			So(err, ShouldWrap, repository.ErrNotFound)

			_, err = svc.Reshuffle(ctx, "nope", nil)
			So(err, ShouldWrap, repository.ErrNotFound)
		})
	})
}

func TestService_Reshuffle(t *testing.T) {
	Convey("Given a stored assignment", t, func() {
		svc := startedService(service.WithWorkerCount(1))
		defer svc.Stop()
		ctx := context.Background()

		gen, err := svc.GenerateTeams(ctx, pool(10, 9, 8, 7, 6, 5, 4, 3), 2, 0, model.SkillWeights{})
		So(err, ShouldBeNil)
		id := gen.Assignment.ID
		before := gen.Assignment.MembershipSets()

		Convey("When reshuffling with a seed", func() {
			seed := int64(7)
			next, err := svc.Reshuffle(ctx, id, &seed)

			Convey("Then a divergent arrangement of the same players persists", func() {
				So(err, ShouldBeNil)
				So(next.Assignment.ID, ShouldEqual, id)

				after := next.Assignment.MembershipSets()
				So(len(after), ShouldEqual, len(before))

				seen := make(map[string]bool)
				for _, team := range next.Assignment.Teams {
					for _, slot := range team.Players {
						seen[slot.PlayerID] = true
					}
				}
				So(len(seen), ShouldEqual, 8)

				stored, err := svc.GetAssignment(ctx, id)
				So(err, ShouldBeNil)
				So(stored.Assignment.ID, ShouldEqual, id)
			})
		})

		Convey("When reshuffling a roster with locked players", func() {
			lockedID := gen.Assignment.Teams[0].Players[0].PlayerID
			_, err := svc.LockPlayer(ctx, id, lockedID, true)
			So(err, ShouldBeNil)

			seed := int64(11)
			next, err := svc.Reshuffle(ctx, id, &seed)

			Convey("Then the lock flag survives the rearrangement", func() {
				So(err, ShouldBeNil)
				ti, si, ok := next.Assignment.FindPlayer(lockedID)
				So(ok, ShouldBeTrue)
				So(next.Assignment.Teams[ti].Players[si].Locked, ShouldBeTrue)
			})
		})
	})
}

func TestService_Templates(t *testing.T) {
	Convey("Given a service with loaded templates", t, func() {
		presets := []templates.Template{
			{Name: "indoor-sixes", Weights: map[string]float64{"serve": 1}},
			{Name: "beach-doubles", Weights: map[string]float64{"defense": 2}},
		}
		svc := service.New(service.WithTemplates(presets))

		Convey("When listing templates", func() {
			got := svc.Templates(context.Background())

			Convey("Then a copy of the presets is returned", func() {
				So(len(got), ShouldEqual, 2)
				got[0].Name = "mutated"
				So(svc.Templates(context.Background())[0].Name, ShouldEqual, "indoor-sixes")
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(service.WithWorkerCount(2), service.WithQueueSize(64))
		defer svc.Stop()

		Convey("When reading stats", func() {
			stats := svc.GetStats()

			Convey("Then operational figures are exposed", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["workerCount"], ShouldEqual, 2)
				So(stats["queueSize"], ShouldEqual, 64)
				So(stats, ShouldContainKey, "queueLength")
				So(stats, ShouldContainKey, "storedAssignments")
			})
		})
	})
}
