package datafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/coordgraph/internal/array"
	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a data file from the given path.
func LoadFile(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML data document. Unknown keys of the array and bins
// mappings are rejected.
func Parse(data []byte) (*Content, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("data document is empty")
		}
		return nil, fmt.Errorf("failed to parse data YAML: %w", err)
	}

	if len(doc.Items) == 0 {
		da, err := doc.arrayDoc.build()
		if err != nil {
			return nil, err
		}
		return &Content{Array: da}, nil
	}

	if doc.Name != "" || doc.Values != nil {
		return nil, errors.New("a document with 'items' cannot also describe a data array")
	}
	ds, _ := array.NewDataset()
	for i, item := range doc.Items {
		da, err := item.build()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if err := ds.Add(da); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return &Content{Dataset: ds}, nil
}

// Marshal serializes c to YAML.
func Marshal(c *Content) ([]byte, error) {
	switch {
	case c.Array != nil:
		doc := fromDataArray(c.Array)
		return yaml.Marshal(&doc)
	case c.Dataset != nil:
		var doc datasetDoc
		for _, name := range c.Dataset.Names() {
			da, _ := c.Dataset.Get(name)
			doc.Items = append(doc.Items, fromDataArray(da))
		}
		return yaml.Marshal(&doc)
	}
	return nil, errors.New("nothing to marshal")
}

// WriteFile writes c to the given path.
func WriteFile(c *Content, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write data file %s: %w", path, err)
	}
	return nil
}

func (d *arrayDoc) build() (*array.DataArray, error) {
	if d.Values == nil {
		return nil, errors.New("data array has no 'values'")
	}
	data, err := d.variableDoc.build()
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	da := array.NewDataArray(d.Name, data)
	for _, ns := range []struct {
		meta *array.Meta
		docs metaDoc
	}{{da.Coords(), d.Coords}, {da.Attrs(), d.Attrs}} {
		for _, e := range ns.docs {
			v, err := e.doc.build()
			if err != nil {
				return nil, fmt.Errorf("'%s': %w", e.name, err)
			}
			ns.meta.Set(e.name, v)
		}
	}
	if d.Bins != nil {
		bins, err := d.Bins.build()
		if err != nil {
			return nil, fmt.Errorf("bins: %w", err)
		}
		if err := da.SetBins(bins); err != nil {
			return nil, fmt.Errorf("bins: %w", err)
		}
	}
	return da, nil
}

// build applies the shape defaults: a single dim spans all values and no
// dims means a scalar.
func (d *variableDoc) build() (*array.Variable, error) {
	shape := d.Shape
	if shape == nil {
		switch len(d.Dims) {
		case 0:
			shape = []int{}
		case 1:
			shape = []int{len(d.Values)}
		default:
			return nil, fmt.Errorf("'shape' is required for %d-d values", len(d.Dims))
		}
	}
	dims := d.Dims
	if dims == nil {
		dims = []string{}
	}
	return array.New(dims, shape, d.Values, d.Unit)
}

func (d *binsDoc) build() (*array.Bins, error) {
	var (
		bins   *array.Bins
		buffer bool
		err    error
	)
	switch {
	case d.Sizes != nil && (d.Begin != nil || d.End != nil):
		return nil, errors.New("'sizes' cannot be combined with 'begin' and 'end'")
	case d.Sizes != nil:
		bins = array.NewBins(d.Sizes)
	case d.Begin != nil:
		if bins, err = array.NewBinsFromRanges(d.Begin, d.End, d.BufferLen); err != nil {
			return nil, err
		}
		buffer = true
	default:
		return nil, errors.New("bins need 'sizes' or 'begin' and 'end'")
	}

	for _, e := range d.Coords {
		if buffer {
			err = bins.SetBufferCoord(e.name, e.doc.Values, e.doc.Unit)
		} else {
			err = setEvents(bins.SetCoord, e.name, e.doc, d.Sizes)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, e := range d.Attrs {
		if buffer {
			err = bins.SetBufferAttr(e.name, e.doc.Values, e.doc.Unit)
		} else {
			err = setEvents(bins.SetAttr, e.name, e.doc, d.Sizes)
		}
		if err != nil {
			return nil, err
		}
	}
	return bins, nil
}

func setEvents(set func(string, *array.Variable) error, name string, col columnDoc, sizes []int) error {
	v, err := array.Events(sizes, col.Values, col.Unit)
	if err != nil {
		return fmt.Errorf("event column '%s': %w", name, err)
	}
	return set(name, v)
}

func fromVariable(v *array.Variable) variableDoc {
	doc := variableDoc{
		Dims:   v.Dims(),
		Values: v.Values(),
		Unit:   v.Unit(),
	}
	if len(doc.Dims) > 1 {
		doc.Shape = v.Shape()
	}
	return doc
}

func fromDataArray(da *array.DataArray) arrayDoc {
	doc := arrayDoc{Name: da.Name(), variableDoc: fromVariable(da.Data())}
	for _, name := range da.Coords().Names() {
		v, _ := da.Coords().Get(name)
		doc.Coords = append(doc.Coords, entry[variableDoc]{name, fromVariable(v)})
	}
	for _, name := range da.Attrs().Names() {
		v, _ := da.Attrs().Get(name)
		doc.Attrs = append(doc.Attrs, entry[variableDoc]{name, fromVariable(v)})
	}
	if b := da.Bins(); b != nil {
		bd := &binsDoc{Sizes: b.Sizes()}
		for _, name := range b.CoordNames() {
			v, _ := b.Coord(name)
			bd.Coords = append(bd.Coords, entry[columnDoc]{name, columnDoc{Values: v.Values(), Unit: v.Unit()}})
		}
		for _, name := range b.AttrNames() {
			v, _ := b.Attr(name)
			bd.Attrs = append(bd.Attrs, entry[columnDoc]{name, columnDoc{Values: v.Values(), Unit: v.Unit()}})
		}
		doc.Bins = bd
	}
	return doc
}
