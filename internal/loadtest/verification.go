package loadtest

import (
	"fmt"
	"log"
)

// Reshuffle verification constants.
const (
	reshuffleSampleSize = 10
	reshuffleMinDiff    = 2
)

// verifyResults checks every generation against its request pool.
func verifyResults(config *Config, results []submission, stats *Stats) error {
	log.Println("verifying results...")

	if len(results) == 0 {
		return fmt.Errorf("no results to verify")
	}

	for _, s := range results {
		if err := verifyGeneration(s.pool, s.result); err != nil {
			stats.ConservationFailures++
			if config.Verbose {
				log.Printf("verification failed for %s: %v", s.result.Assignment.ID, err)
			}
		}
	}

	if stats.ConservationFailures > 0 {
		return fmt.Errorf("%d of %d generations failed verification", stats.ConservationFailures, len(results))
	}

	log.Println("result verification completed")
	return nil
}

// verifyGeneration checks conservation and shape: every available
// player assigned exactly once, nobody else, the requested number of
// teams, and no locks on a fresh assignment.
func verifyGeneration(pool Pool, result generationResult) error {
	if got := len(result.Assignment.Teams); got != pool.NumTeams {
		return fmt.Errorf("expected %d teams, got %d", pool.NumTeams, got)
	}

	want := make(map[string]bool, len(pool.Players))
	for _, p := range pool.Players {
		if p.Available {
			want[p.ID] = true
		}
	}

	seen := make(map[string]bool)
	for _, team := range result.Assignment.Teams {
		for _, slot := range team.Players {
			if seen[slot.PlayerID] {
				return fmt.Errorf("player %s assigned twice", slot.PlayerID)
			}
			seen[slot.PlayerID] = true
			if !want[slot.PlayerID] {
				return fmt.Errorf("unexpected player %s in assignment", slot.PlayerID)
			}
			if slot.Locked {
				return fmt.Errorf("fresh assignment has locked player %s", slot.PlayerID)
			}
		}
	}

	if len(seen) != len(want) {
		return fmt.Errorf("expected %d assigned players, got %d", len(want), len(seen))
	}
	return nil
}

// verifyReshuffle checks that a reshuffle keeps the player set and
// actually diverges from the previous arrangement.
func verifyReshuffle(prev, next generationResult) error {
	if len(next.Assignment.Teams) != len(prev.Assignment.Teams) {
		return fmt.Errorf("team count changed from %d to %d",
			len(prev.Assignment.Teams), len(next.Assignment.Teams))
	}

	prevSet := make(map[string]bool)
	for _, team := range prev.Assignment.Teams {
		for _, slot := range team.Players {
			prevSet[slot.PlayerID] = true
		}
	}
	nextSet := make(map[string]bool)
	for _, team := range next.Assignment.Teams {
		for _, slot := range team.Players {
			nextSet[slot.PlayerID] = true
		}
	}
	if len(prevSet) != len(nextSet) {
		return fmt.Errorf("player count changed from %d to %d", len(prevSet), len(nextSet))
	}
	for id := range prevSet {
		if !nextSet[id] {
			return fmt.Errorf("player %s lost in reshuffle", id)
		}
	}

	// Per-team symmetric difference against the matching team index.
	diff := 0
	for i := range prev.Assignment.Teams {
		before := make(map[string]bool)
		for _, slot := range prev.Assignment.Teams[i].Players {
			before[slot.PlayerID] = true
		}
		for _, slot := range next.Assignment.Teams[i].Players {
			if !before[slot.PlayerID] {
				diff++
			} else {
				delete(before, slot.PlayerID)
			}
		}
		diff += len(before)
	}
	if diff < reshuffleMinDiff {
		return fmt.Errorf("reshuffle diverged by %d memberships, expected at least %d", diff, reshuffleMinDiff)
	}
	return nil
}
