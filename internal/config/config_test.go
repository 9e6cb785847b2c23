package config_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/sideout/sideout/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.StoreCapacity, convey.ShouldEqual, 1024)
			convey.So(cfg.MaxPoolSize, convey.ShouldEqual, 500)
			convey.So(cfg.MaxPasses, convey.ShouldEqual, 200)
			convey.So(cfg.TimeBudgetMS, convey.ShouldEqual, 200)
			convey.So(cfg.TeamCap, convey.ShouldEqual, 6)
			convey.So(cfg.ReshuffleRetries, convey.ShouldEqual, 5)
			convey.So(cfg.ReshuffleMinDiff, convey.ShouldEqual, 2)
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the time budget converts to a duration", func() {
			convey.So(cfg.TimeBudget(), convey.ShouldEqual, 200*time.Millisecond)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid field each", t, func() {
		breakers := map[string]func(*config.Config){
			"empty addr":          func(c *config.Config) { c.Addr = "" },
			"zero queue size":     func(c *config.Config) { c.QueueSize = 0 },
			"zero workers":        func(c *config.Config) { c.WorkerCount = 0 },
			"zero store capacity": func(c *config.Config) { c.StoreCapacity = 0 },
			"zero pool size":      func(c *config.Config) { c.MaxPoolSize = 0 },
			"zero passes":         func(c *config.Config) { c.MaxPasses = 0 },
			"zero budget":         func(c *config.Config) { c.TimeBudgetMS = 0 },
			"zero team cap":       func(c *config.Config) { c.TeamCap = 0 },
			"zero retries":        func(c *config.Config) { c.ReshuffleRetries = 0 },
			"zero min diff":       func(c *config.Config) { c.ReshuffleMinDiff = 0 },
			"negative weight": func(c *config.Config) {
				c.DefaultWeights = map[string]float64{"serve": -1}
			},
		}

		for label, corrupt := range breakers {
			convey.Convey("When validating a config with "+label, func() {
				cfg := config.New()
				corrupt(cfg)

				convey.Convey("Then it should fail with the invalid-config sentinel", func() {
					convey.So(cfg.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
				})
			})
		}
	})
}
