package service

import (
	"time"

	jobqueue "github.com/sideout/sideout/internal/adapters/mq/queue"
	"github.com/sideout/sideout/internal/adapters/repository"
	"github.com/sideout/sideout/internal/domain/engine"
	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/internal/templates"
	"github.com/sideout/sideout/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStoreCapacity sets the bound of the assignment store.
func WithStoreCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.storeCapacity = capacity
		}
	}
}

// WithMaxPoolSize caps how many eligible players a single request may
// carry. Zero disables the guard.
func WithMaxPoolSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.maxPoolSize = size
		}
	}
}

// WithTeamCap sets how many top scores count toward a team total.
func WithTeamCap(teamCap int) Option {
	return func(s *Service) {
		if teamCap > 0 {
			s.teamCap = teamCap
		}
	}
}

// WithMaxPasses bounds the optimizer's improvement passes.
func WithMaxPasses(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPasses = n
		}
	}
}

// WithTimeBudget bounds the optimizer's wall-clock time.
func WithTimeBudget(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeBudget = d
		}
	}
}

// WithDefaultWeights sets the weights used when a request carries none.
func WithDefaultWeights(w model.SkillWeights) Option {
	return func(s *Service) {
		s.defaultWeights = w
	}
}

// WithReshuffleRetries sets the number of randomized reshuffle attempts.
func WithReshuffleRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.reshuffleRetries = n
		}
	}
}

// WithReshuffleMinDiff sets the required membership divergence of a
// reshuffle result.
func WithReshuffleMinDiff(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.reshuffleMinDiff = n
		}
	}
}

// WithTemplates sets the loaded weight presets.
func WithTemplates(presets []templates.Template) Option {
	return func(s *Service) {
		s.presets = presets
	}
}

// WithStore injects a prebuilt assignment store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithQueue injects a prebuilt job queue.
func WithQueue(q jobqueue.Queue) Option {
	return func(s *Service) {
		if q != nil {
			s.queue = q
		}
	}
}

// WithEngine injects a prebuilt engine.
func WithEngine(e *engine.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}
