package scoring_test

import (
	"testing"

	model "github.com/sideout/sideout/internal/domain/model"
	scoring "github.com/sideout/sideout/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScore(t *testing.T) {
	Convey("Given the package scoring function", t, func() {
		Convey("When scoring uniform skills with default weights", func() {
			got := scoring.Score(model.Uniform(8), model.DefaultSkillWeights())

			Convey("Then the score should equal the uniform rating", func() {
				So(got, ShouldAlmostEqual, 8.0, 1e-9)
			})
		})

		Convey("When scoring with a single-skill weight", func() {
			skills := model.Skills{Serve: 1, Set: 2, Block: 3, Receive: 4, Attack: 5, Defense: 6}
			weights := model.SkillWeights{Attack: 1}

			got := scoring.Score(skills, weights)

			Convey("Then only that skill should contribute", func() {
				So(got, ShouldAlmostEqual, 5.0, 1e-9)
			})
		})

		Convey("When scoring with mixed weights", func() {
			skills := model.Skills{Serve: 10, Set: 0, Block: 0, Receive: 0, Attack: 4, Defense: 2}
			weights := model.SkillWeights{Serve: 0.5, Attack: 0.25, Defense: 0.25}

			got := scoring.Score(skills, weights)

			Convey("Then the weighted sum should be exact", func() {
				So(got, ShouldAlmostEqual, 10*0.5+4*0.25+2*0.25, 1e-9)
			})
		})

		Convey("When scoring with zero weights", func() {
			got := scoring.Score(model.Uniform(10), model.SkillWeights{})

			Convey("Then the score should be zero, no normalization happens", func() {
				So(got, ShouldEqual, 0)
			})
		})

		Convey("When weights do not sum to one", func() {
			got := scoring.Score(model.Uniform(5), model.SkillWeights{
				Serve: 1, Set: 1, Block: 1, Receive: 1, Attack: 1, Defense: 1,
			})

			Convey("Then the raw weighted sum should come back unscaled", func() {
				So(got, ShouldAlmostEqual, 30.0, 1e-9)
			})
		})
	})
}

func TestLinearScorer(t *testing.T) {
	Convey("Given a linear scorer with default configuration", t, func() {
		s := scoring.NewLinearScorer()

		Convey("When scoring with explicit weights", func() {
			got := s.Score(model.Uniform(6), model.SkillWeights{Serve: 1})

			Convey("Then explicit weights should win", func() {
				So(got, ShouldAlmostEqual, 6.0, 1e-9)
			})
		})

		Convey("When scoring with the zero-value weights", func() {
			got := s.Score(model.Uniform(6), model.SkillWeights{})

			Convey("Then the fallback default weights should apply", func() {
				So(got, ShouldAlmostEqual, 6.0, 1e-9)
			})
		})
	})

	Convey("Given a linear scorer with custom fallback weights", t, func() {
		s := scoring.NewLinearScorer(
			scoring.WithFallbackWeights(model.SkillWeights{Attack: 1}),
		)

		Convey("When scoring with zero-value weights", func() {
			skills := model.Skills{Attack: 7, Serve: 3}
			got := s.Score(skills, model.SkillWeights{})

			Convey("Then the custom fallback should apply", func() {
				So(got, ShouldAlmostEqual, 7.0, 1e-9)
			})
		})

		Convey("When the fallback option receives the zero value", func() {
			zeroFallback := scoring.NewLinearScorer(
				scoring.WithFallbackWeights(model.SkillWeights{}),
			)
			got := zeroFallback.Score(model.Uniform(6), model.SkillWeights{})

			Convey("Then the default fallback should be kept", func() {
				So(got, ShouldAlmostEqual, 6.0, 1e-9)
			})
		})
	})
}

func TestAverageScore(t *testing.T) {
	Convey("Given groups of player slots", t, func() {
		weights := model.DefaultSkillWeights()

		Convey("When the group is empty", func() {
			got := scoring.AverageScore(nil, weights)

			Convey("Then the average should be zero", func() {
				So(got, ShouldEqual, 0)
			})
		})

		Convey("When the group has two uniform players", func() {
			slots := []model.PlayerSlot{
				{PlayerID: "a", Skills: model.Uniform(4)},
				{PlayerID: "b", Skills: model.Uniform(8)},
			}

			got := scoring.AverageScore(slots, weights)

			Convey("Then the average should be the mean of individual scores", func() {
				So(got, ShouldAlmostEqual, 6.0, 1e-9)
			})
		})

		Convey("When slot score caches are stale", func() {
			slots := []model.PlayerSlot{
				{PlayerID: "a", Skills: model.Uniform(4), Score: 999},
			}

			got := scoring.AverageScore(slots, weights)

			Convey("Then the average should be computed fresh from skills", func() {
				So(got, ShouldAlmostEqual, 4.0, 1e-9)
			})
		})
	})
}
