package transform

import (
	"context"
	"fmt"

	"github.com/specialistvlad/coordgraph/internal/array"
	"github.com/specialistvlad/coordgraph/internal/ctxlog"
	"github.com/specialistvlad/coordgraph/internal/graph"
	"golang.org/x/sync/errgroup"
)

// Options controls Finalize.
type Options struct {
	// RemoveAliases drops names produced by rename rules from attrs.
	RemoveAliases bool
	// RenameDims renames dimensions converted one-to-one.
	RenameDims bool
	// Concurrent transforms dataset members in parallel. Kernels are then
	// called from several goroutines and must be safe for that.
	Concurrent bool
}

// Option modifies Options.
type Option func(*Options)

// KeepAliases keeps intermediate aliases in attrs.
func KeepAliases() Option { return func(o *Options) { o.RemoveAliases = false } }

// KeepDims disables dimension renaming.
func KeepDims() Option { return func(o *Options) { o.RenameDims = false } }

// Concurrent lets DatasetCoords process members in parallel.
func Concurrent() Option { return func(o *Options) { o.Concurrent = true } }

func newOptions(opts []Option) Options {
	o := Options{RemoveAliases: true, RenameDims: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Coords returns a copy of da with the targets computed from g and attached
// as coords. Existing data and metadata are shared with da, which is left
// untouched. On error nothing is returned.
func Coords(ctx context.Context, da *array.DataArray, targets []string, g *graph.Graph, opts ...Option) (*array.DataArray, error) {
	o := newOptions(opts)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Transforming coords.", "data_array", da.Name(), "targets", targets)

	t := NewCoordTransform(ctx, da, g)
	for _, name := range targets {
		if err := t.Resolve(name); err != nil {
			return nil, err
		}
	}
	out, err := t.Finalize(o.RemoveAliases, o.RenameDims)
	if err != nil {
		return nil, err
	}
	logger.Debug("Coords transformed.", "data_array", da.Name(), "dims", out.Dims(), "coords", out.Coords().Names())
	return out, nil
}

// DatasetCoords applies Coords to every member of ds. Each member gets its
// own transform and nothing is shared between members, since they may carry
// different metadata. Members are processed one after another unless the
// Concurrent option is given. The first error fails the whole call.
func DatasetCoords(ctx context.Context, ds *array.Dataset, targets []string, g *graph.Graph, opts ...Option) (*array.Dataset, error) {
	names := ds.Names()
	results := make([]*array.DataArray, len(names))

	member := func(i int) error {
		da, _ := ds.Get(names[i])
		out, err := Coords(ctxlog.With(ctx, "item", names[i]), da, targets, g, opts...)
		if err != nil {
			return fmt.Errorf("item '%s': %w", names[i], err)
		}
		results[i] = out
		return nil
	}

	if newOptions(opts).Concurrent {
		var eg errgroup.Group
		for i := range names {
			eg.Go(func() error { return member(i) })
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range names {
			if err := member(i); err != nil {
				return nil, err
			}
		}
	}
	return array.NewDataset(results...)
}
