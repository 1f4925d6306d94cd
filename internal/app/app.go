package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/coordgraph/internal/config"
	"github.com/specialistvlad/coordgraph/internal/ctxlog"
	"github.com/specialistvlad/coordgraph/internal/graph"
	"github.com/specialistvlad/coordgraph/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	graph    *graph.Graph
}

// NewApp is the constructor for the main application. Results are written
// to outW and logs to logW. Every loader reads cfg.GraphPaths and their
// rules are merged into one graph. When no modules are given the core
// modules are registered.
func NewApp(outW, logW io.Writer, cfg *Config, loaders []config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Create and populate the registry with Go functions.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "functions", reg.Names())

	g, err := loadGraph(ctx, cfg.GraphPaths, loaders, reg)
	if err != nil {
		return nil, err
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		graph:    g,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Graph returns the conversion graph built from the graph files.
func (a *App) Graph() *graph.Graph {
	return a.graph
}

func loadGraph(ctx context.Context, paths []string, loaders []config.Loader, reg *registry.Registry) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	model := &config.Model{}
	for _, loader := range loaders {
		m, err := loader.Load(ctx, paths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load graph files: %w", err)
		}
		model.Merge(m)
	}
	if len(model.Rules) == 0 {
		return nil, fmt.Errorf("no rules found in %v", paths)
	}
	logger.Debug("Graph files loaded and translated into unified model.", "rules", len(model.Rules))

	g, err := config.Build(ctx, model, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to build conversion graph: %w", err)
	}
	return g, nil
}
