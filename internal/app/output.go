package app

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/specialistvlad/coordgraph/internal/array"
	"github.com/specialistvlad/coordgraph/internal/datafile"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Summary is the spew output form of a transformed DataArray.
type Summary struct {
	Name   string
	Dims   []string
	Coords map[string]VariableSummary
	Attrs  map[string]VariableSummary
	Events map[string]VariableSummary
}

type VariableSummary struct {
	Dims   []string
	Unit   string
	Values []float64
}

func (a *App) write(c *datafile.Content) error {
	switch a.config.Format {
	case FormatSpew:
		var items []Summary
		if c.Array != nil {
			items = append(items, summarize(c.Array))
		} else {
			for _, name := range c.Dataset.Names() {
				da, _ := c.Dataset.Get(name)
				items = append(items, summarize(da))
			}
		}
		dumper.Fdump(a.outW, items)
		return nil
	default:
		data, err := datafile.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		_, err = a.outW.Write(data)
		return err
	}
}

func summarize(da *array.DataArray) Summary {
	s := Summary{
		Name:   da.Name(),
		Dims:   da.Dims(),
		Coords: summarizeMeta(da.Coords()),
		Attrs:  summarizeMeta(da.Attrs()),
	}
	if b := da.Bins(); b != nil {
		s.Events = make(map[string]VariableSummary)
		for _, name := range append(b.CoordNames(), b.AttrNames()...) {
			v, _ := b.Meta(name)
			s.Events[name] = summarizeVariable(v)
		}
	}
	return s
}

func summarizeMeta(m *array.Meta) map[string]VariableSummary {
	out := make(map[string]VariableSummary, m.Len())
	for _, name := range m.Names() {
		v, _ := m.Get(name)
		out[name] = summarizeVariable(v)
	}
	return out
}

func summarizeVariable(v *array.Variable) VariableSummary {
	return VariableSummary{Dims: v.Dims(), Unit: v.Unit(), Values: v.Values()}
}
