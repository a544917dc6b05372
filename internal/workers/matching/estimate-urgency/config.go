// internal/workers/matching/estimate-urgency/config.go
package estimateurgency

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
