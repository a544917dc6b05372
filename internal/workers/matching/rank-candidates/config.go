// internal/workers/matching/rank-candidates/config.go
package rankcandidates

import "time"

type Config struct {
	Timeout       time.Duration
	MaxCandidates int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		MaxCandidates: 200,
	}
}
