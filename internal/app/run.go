package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/coordgraph/internal/ctxlog"
	"github.com/specialistvlad/coordgraph/internal/datafile"
	"github.com/specialistvlad/coordgraph/internal/transform"
)

// Run loads the data file and either transforms it or, with Show set,
// prints the graph needed for the requested coordinates.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	content, err := datafile.LoadFile(a.config.DataPath)
	if err != nil {
		return err
	}

	if a.config.Show {
		return a.show(ctx, content)
	}

	var opts []transform.Option
	if a.config.KeepAliases {
		opts = append(opts, transform.KeepAliases())
	}
	if a.config.KeepDims {
		opts = append(opts, transform.KeepDims())
	}
	if a.config.Parallel {
		opts = append(opts, transform.Concurrent())
	}

	out := &datafile.Content{}
	if content.Array != nil {
		out.Array, err = transform.Coords(ctx, content.Array, a.config.Coords, a.graph, opts...)
	} else {
		out.Dataset, err = transform.DatasetCoords(ctx, content.Dataset, a.config.Coords, a.graph, opts...)
	}
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}
	a.logger.Info("Coordinates computed.", "coords", a.config.Coords)

	if err := a.write(out); err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// show writes the graph reduced to what the data needs for the requested
// coordinates. For a dataset the first member decides which names are
// already present.
func (a *App) show(ctx context.Context, content *datafile.Content) error {
	da := content.Array
	if da == nil {
		names := content.Dataset.Names()
		if len(names) == 0 {
			return fmt.Errorf("dataset in %s is empty", a.config.DataPath)
		}
		da, _ = content.Dataset.Get(names[0])
	}
	sub, err := a.graph.GraphFor(ctx, da, a.config.Coords)
	if err != nil {
		return err
	}
	return sub.WriteDOT(a.outW, false)
}
