package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPaths []string // .hcl, .yaml and .yml graph files or directories
	DataPath   string   // YAML data file
	Coords     []string

	KeepAliases bool
	KeepDims    bool
	// Parallel transforms dataset members concurrently.
	Parallel bool
	// Show prints the graph needed for Coords in DOT format instead of
	// transforming the data.
	Show   bool
	Format string

	LogFormat string
	LogLevel  string
}

// Output formats.
const (
	FormatYAML = "yaml"
	FormatSpew = "spew"
)

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.GraphPaths) == 0 {
		return nil, errors.New("at least one graph path is required")
	}
	if cfg.DataPath == "" {
		return nil, errors.New("DataPath is a required configuration field and cannot be empty")
	}
	if len(cfg.Coords) == 0 {
		return nil, errors.New("at least one target coordinate is required")
	}
	switch cfg.Format {
	case "":
		cfg.Format = FormatYAML
	case FormatYAML, FormatSpew:
	default:
		return nil, fmt.Errorf("unknown output format '%s'", cfg.Format)
	}
	return &cfg, nil
}
