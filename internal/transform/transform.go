package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/specialistvlad/coordgraph/internal/array"
	"github.com/specialistvlad/coordgraph/internal/ctxlog"
	"github.com/specialistvlad/coordgraph/internal/graph"
	"github.com/specialistvlad/coordgraph/internal/rule"
)

// CoordTransform resolves coordinates on a private copy of a DataArray. It
// is created per call, driven by Resolve and consumed by Finalize.
type CoordTransform struct {
	obj    *array.DataArray
	graph  *graph.Graph
	logger *slog.Logger

	// rename records, per dependency tuple, the outputs computed from it.
	rename []provenance
	// aliases lists names produced by rename rules.
	aliases []string
	// inFlight holds names whose rule is being resolved.
	inFlight map[string]struct{}
}

type provenance struct {
	deps    []string
	outputs []string
}

// frame is one entry of the explicit resolution stack.
type frame struct {
	name string
	// consume is set for dependencies, which end up in attrs. Requested
	// targets are promoted to coords instead.
	consume bool
	rule    rule.Rule
	deps    []string
	next    int
}

// NewCoordTransform prepares a transform of da using g. da itself is never
// modified; all work happens on a shallow copy.
func NewCoordTransform(ctx context.Context, da *array.DataArray, g *graph.Graph) *CoordTransform {
	return &CoordTransform{
		obj:      da.ShallowCopy(),
		graph:    g,
		logger:   ctxlog.FromContext(ctx),
		inFlight: make(map[string]struct{}),
	}
}

// Resolve makes name a coord of the working copy, computing whatever it
// depends on first. A name that is already present is promoted to coords
// and never recomputed.
func (t *CoordTransform) Resolve(name string) error {
	stack := []*frame{{name: name}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if f.rule == nil {
			if t.obj.HasMeta(f.name) {
				t.take(f)
				stack = stack[:len(stack)-1]
				continue
			}
			if _, busy := t.inFlight[f.name]; busy {
				return &graph.CycleError{Name: f.name, Path: cyclePath(stack)}
			}
			r, ok := t.graph.Rule(f.name)
			if !ok {
				return &graph.NotFoundError{Name: f.name}
			}
			t.inFlight[f.name] = struct{}{}
			f.rule = r
			f.deps = r.Dependencies()
		}

		if f.next < len(f.deps) {
			dep := f.deps[f.next]
			f.next++
			stack = append(stack, &frame{name: dep, consume: true})
			continue
		}

		if err := t.apply(f.name, f.rule); err != nil {
			return err
		}
		delete(t.inFlight, f.name)
		stack = stack[:len(stack)-1]
		if f.consume {
			t.obj.Consume(f.name)
		}
	}
	return nil
}

func (t *CoordTransform) take(f *frame) {
	if f.consume {
		t.obj.Consume(f.name)
		return
	}
	t.obj.Produce(f.name)
}

func cyclePath(stack []*frame) []string {
	top := stack[len(stack)-1].name
	var path []string
	for _, f := range stack[:len(stack)-1] {
		if f.name == top || len(path) > 0 {
			path = append(path, f.name)
		}
	}
	return append(path, top)
}

func (t *CoordTransform) apply(name string, r rule.Rule) error {
	var (
		dense  map[string]*array.Variable
		events map[string]*array.Variable
		deps   = r.Dependencies()
		bins   = t.obj.Bins()
		order  = r.Outputs()
	)

	switch r := r.(type) {
	case *rule.RenameRule:
		t.logger.Debug("Renaming coordinate.", "name", name, "from", r.From())
		t.aliases = append(t.aliases, name)
		v, ok := t.obj.Meta(r.From())
		if !ok {
			return &graph.NotFoundError{Name: r.From()}
		}
		dense = map[string]*array.Variable{name: v}
		if bins != nil {
			if ev, ok := bins.Consume(r.From()); ok {
				events = map[string]*array.Variable{name: ev}
			}
		}
		order = []string{name}

	case *rule.ComputeRule:
		t.logger.Debug("Computing coordinate.", "name", name, "rule", r.String())
		args := make(rule.Args, len(deps))
		for _, dep := range deps {
			v, ok := t.obj.Meta(dep)
			if !ok {
				return &graph.NotFoundError{Name: dep}
			}
			args[dep] = v
		}
		var err error
		if dense, err = r.Apply(name, args); err != nil {
			return fmt.Errorf("computing '%s': %w", name, err)
		}
		if _, ok := dense[name]; !ok {
			return fmt.Errorf("computing '%s': %s produced no value for it", name, r.Name())
		}
		if bins != nil {
			if events, err = t.applyEvents(name, r, args); err != nil {
				return fmt.Errorf("computing event coord '%s': %w", name, err)
			}
		}
		if !slices.Contains(order, name) {
			order = append(order, name)
		}

	case *rule.FetchRule:
		return &graph.NotFoundError{Name: name}

	default:
		return fmt.Errorf("unsupported rule for '%s': %T", name, r)
	}

	produced := orderedKeys(dense, order)
	t.record(deps, produced)
	for _, key := range produced {
		t.obj.Coords().Set(key, dense[key])
	}
	for _, key := range orderedKeys(events, order) {
		// Dense results of the event-level call duplicate the dense pass.
		if !events[key].Binned() {
			continue
		}
		if err := t.addEventCoord(key, events[key]); err != nil {
			return err
		}
	}
	return nil
}

// applyEvents calls the kernel a second time, with every input that exists
// at the event level replaced by its event-level value. Inputs without an
// event-level counterpart are passed in their dense form. When no input
// exists at the event level the kernel is not called again.
func (t *CoordTransform) applyEvents(name string, r *rule.ComputeRule, dense rule.Args) (map[string]*array.Variable, error) {
	args := make(rule.Args, len(dense))
	found := false
	for dep, v := range dense {
		args[dep] = v
		if ev, ok := t.obj.Bins().Consume(dep); ok {
			args[dep] = ev
			found = true
		}
	}
	if !found {
		return nil, nil
	}
	return r.Apply(name, args)
}

// addEventCoord attaches an event-level coord. Bins that view a slice of a
// larger buffer reject the write; in that case the buffer is copied into a
// compact private one and the write retried once.
func (t *CoordTransform) addEventCoord(key string, v *array.Variable) error {
	bins := t.obj.Bins()
	err := bins.SetCoord(key, v)
	if errors.Is(err, array.ErrMisaligned) {
		t.logger.Debug("Event coord does not match bin layout, copying event buffer.", "name", key)
		bins.Compact()
		err = bins.SetCoord(key, v)
	}
	return err
}

func (t *CoordTransform) record(deps, outputs []string) {
	for i := range t.rename {
		if slices.Equal(t.rename[i].deps, deps) {
			t.rename[i].outputs = append(t.rename[i].outputs, outputs...)
			return
		}
	}
	t.rename = append(t.rename, provenance{deps: slices.Clone(deps), outputs: slices.Clone(outputs)})
}

// Finalize removes aliases from attrs and renames dimensions that were
// converted one-to-one, then returns the transformed DataArray.
//
// A dimension is renamed to the output of a rule when the rule produced a
// single output and exactly one of its inputs is a dimension, unless that
// dimension feeds more than one rule.
func (t *CoordTransform) Finalize(removeAliases, renameDims bool) (*array.DataArray, error) {
	if removeAliases {
		for _, name := range t.aliases {
			t.obj.Attrs().Delete(name)
		}
	}
	if !renameDims {
		return t.obj, nil
	}

	splitting := splittingNodes(t.rename)
	for _, p := range t.rename {
		var found []string
		for _, dep := range p.deps {
			if t.obj.HasDim(dep) {
				found = append(found, dep)
			}
		}
		if len(p.outputs) != 1 || len(found) != 1 {
			continue
		}
		if _, ambiguous := splitting[found[0]]; ambiguous {
			continue
		}
		renamed, err := t.obj.RenameDims(found[0], p.outputs[0])
		if err != nil {
			return nil, fmt.Errorf("renaming dim '%s' to '%s': %w", found[0], p.outputs[0], err)
		}
		t.logger.Debug("Renamed dimension.", "from", found[0], "to", p.outputs[0])
		t.obj = renamed
	}
	return t.obj, nil
}

// splittingNodes returns the names that are inputs of more than one
// recorded dependency tuple.
func splittingNodes(rename []provenance) map[string]struct{} {
	uses := make(map[string]int)
	for _, p := range rename {
		for _, dep := range p.deps {
			uses[dep]++
		}
	}
	out := make(map[string]struct{})
	for name, n := range uses {
		if n > 1 {
			out[name] = struct{}{}
		}
	}
	return out
}

// orderedKeys returns the keys of m, those listed in order first.
func orderedKeys(m map[string]*array.Variable, order []string) []string {
	keys := make([]string, 0, len(m))
	for _, k := range order {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range m {
		if !slices.Contains(keys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}
