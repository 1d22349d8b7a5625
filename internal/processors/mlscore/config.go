// internal/processors/mlscore/config.go
package mlscore

type Config struct {
	ArtifactPath string
}

func LoadConfig() *Config {
	return &Config{}
}
