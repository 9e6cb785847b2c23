package loadtest

import "time"

// Config holds configuration for the pool load test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumPools   int           // Number of player pools to generate
	PoolSize   int           // Players per pool
	NumTeams   int           // Teams per generation request
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for generated pools
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Pool is one generation request payload.
type Pool struct {
	Players        []PoolPlayer `json:"players"`
	NumTeams       int          `json:"num_teams"`
	PlayersPerTeam int          `json:"players_per_team,omitempty"`
}

// PoolPlayer mirrors the player schema of the generation endpoint.
type PoolPlayer struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Skills    map[string]float64 `json:"skills"`
	Available bool               `json:"available"`
}

// Stats holds test statistics
type Stats struct {
	PoolsGenerated       int
	PoolsSubmitted       int
	PoolsSuccessful      int
	PoolsFailed          int
	ConservationFailures int
	ReshufflesChecked    int
	ReshuffleFailures    int
	TotalSpread          float64
	MinLatency           time.Duration
	MaxLatency           time.Duration
	TotalLatency         time.Duration
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
