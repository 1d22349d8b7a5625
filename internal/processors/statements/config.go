// internal/processors/statements/config.go
package statements

import "time"

type Config struct {
	BedrockModelID string
	BedrockTimeout time.Duration
	GeminiTimeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BedrockTimeout: 30 * time.Second,
		GeminiTimeout:  30 * time.Second,
	}
}
