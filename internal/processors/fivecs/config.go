// internal/processors/fivecs/config.go
package fivecs

import "time"

type Config struct {
	Timeout         time.Duration
	Temperature     float64
	MaxOutputTokens int
	PromptPath      string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         60 * time.Second,
		Temperature:     0.1,
		MaxOutputTokens: 2000,
	}
}
