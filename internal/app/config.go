package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // strata.hcl file or a directory holding one

	LogFormat   string
	LogLevel    string
	Parallelism int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	if cfg.Parallelism < 0 {
		return nil, errors.New("Parallelism cannot be negative")
	}

	return &cfg, nil
}
