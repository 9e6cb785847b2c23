package loadtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/sideout/sideout/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	ratingProfileCount = 5
)

// Constants for rating generation ranges.
const (
	recreationalMin   = 1.0
	recreationalRange = 3.0
	intermediateMin   = 3.5
	intermediateRange = 3.0
	competitiveMin    = 6.0
	competitiveRange  = 2.5
	eliteMin          = 8.0
	eliteRange        = 2.0
	wideMin           = 0.5
	wideRange         = 9.5
)

// Constants for rating profile cases.
const (
	caseRecreational = 0
	caseIntermediate = 1
	caseCompetitive  = 2
	caseElite        = 3
	caseWide         = 4
)

// The six rated skills of the generation endpoint.
var skillNames = []string{"serve", "set", "block", "receive", "attack", "defense"} //nolint:gochecknoglobals // fixed wire schema

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generatePools creates the configured number of player pools with
// unique player IDs.
func generatePools(ctx context.Context, config *Config, stats *Stats) ([]Pool, error) {
	logger.Get().Info(ctx, "generating player pools",
		logger.Int("numPools", config.NumPools),
		logger.Int("poolSize", config.PoolSize))

	pools := make([]Pool, config.NumPools)

	type poolResult struct {
		index int
		pool  Pool
		err   error
	}

	resultChan := make(chan poolResult, config.NumPools)

	// Use worker pool for pool generation
	workerCount := minInt(config.Workers, config.NumPools)
	poolsPerWorker := config.NumPools / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * poolsPerWorker
		end := start + poolsPerWorker
		if worker == workerCount-1 {
			end = config.NumPools // Last worker gets remaining pools
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- poolResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- poolResult{index: i, pool: generateSinglePool(config)}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumPools; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during pool generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate pool %d: %w", result.index, result.err)
			}
			pools[result.index] = result.pool
		}
	}

	stats.PoolsGenerated = len(pools)
	logger.Get().Info(ctx, "generated pools successfully", logger.Int("count", len(pools)))

	return pools, nil
}

// generateSinglePool creates one pool of rated players.
func generateSinglePool(config *Config) Pool {
	players := make([]PoolPlayer, config.PoolSize)
	for i := range players {
		id := uuid.New().String()
		players[i] = PoolPlayer{
			ID:        id,
			Name:      "player-" + id[:8],
			Skills:    generateSkillRatings(),
			Available: true,
		}
	}
	return Pool{
		Players:  players,
		NumTeams: config.NumTeams,
	}
}

// generateSkillRatings draws six ratings around a per-player profile,
// so pools contain a realistic mix of levels.
func generateSkillRatings() map[string]float64 {
	profile, _ := rand.Int(rand.Reader, big.NewInt(ratingProfileCount))

	ratings := make(map[string]float64, len(skillNames))
	for _, skill := range skillNames {
		var v float64
		switch profile.Int64() {
		case caseRecreational:
			v = recreationalMin + getRandomFloat()*recreationalRange
		case caseIntermediate:
			v = intermediateMin + getRandomFloat()*intermediateRange
		case caseCompetitive:
			v = competitiveMin + getRandomFloat()*competitiveRange
		case caseElite:
			v = eliteMin + getRandomFloat()*eliteRange
		case caseWide:
			v = wideMin + getRandomFloat()*wideRange
		default:
			v = wideMin + getRandomFloat()*wideRange
		}
		if v > 10 {
			v = 10
		}
		ratings[skill] = v
	}
	return ratings
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
