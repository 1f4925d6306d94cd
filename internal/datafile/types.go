package datafile

import (
	"fmt"

	"github.com/specialistvlad/coordgraph/internal/array"
	"gopkg.in/yaml.v3"
)

// Content is the decoded form of a data file. Exactly one field is set.
type Content struct {
	Array   *array.DataArray
	Dataset *array.Dataset
}

type document struct {
	arrayDoc `yaml:",inline"`
	Items    []arrayDoc `yaml:"items,omitempty"`
}

type datasetDoc struct {
	Items []arrayDoc `yaml:"items"`
}

type arrayDoc struct {
	Name        string `yaml:"name,omitempty"`
	variableDoc `yaml:",inline"`
	Coords      metaDoc  `yaml:"coords,omitempty"`
	Attrs       metaDoc  `yaml:"attrs,omitempty"`
	Bins        *binsDoc `yaml:"bins,omitempty"`
}

type variableDoc struct {
	Dims   []string  `yaml:"dims,flow,omitempty"`
	Shape  []int     `yaml:"shape,flow,omitempty"`
	Values []float64 `yaml:"values,flow"`
	Unit   string    `yaml:"unit,omitempty"`
}

type binsDoc struct {
	Sizes     []int      `yaml:"sizes,flow,omitempty"`
	Begin     []int      `yaml:"begin,flow,omitempty"`
	End       []int      `yaml:"end,flow,omitempty"`
	BufferLen int        `yaml:"buffer_len,omitempty"`
	Coords    columnsDoc `yaml:"coords,omitempty"`
	Attrs     columnsDoc `yaml:"attrs,omitempty"`
}

type columnDoc struct {
	Values []float64 `yaml:"values,flow"`
	Unit   string    `yaml:"unit,omitempty"`
}

type entry[T any] struct {
	name string
	doc  T
}

// metaDoc is an ordered mapping. Plain Go maps would lose the order of
// coordinates in the file.
type metaDoc []entry[variableDoc]

func (m *metaDoc) UnmarshalYAML(node *yaml.Node) error {
	entries, err := decodeOrdered[variableDoc](node)
	*m = entries
	return err
}

func (m metaDoc) MarshalYAML() (any, error) { return encodeOrdered([]entry[variableDoc](m)) }

// columnsDoc is the ordered mapping of event columns.
type columnsDoc []entry[columnDoc]

func (m *columnsDoc) UnmarshalYAML(node *yaml.Node) error {
	entries, err := decodeOrdered[columnDoc](node)
	*m = entries
	return err
}

func (m columnsDoc) MarshalYAML() (any, error) { return encodeOrdered([]entry[columnDoc](m)) }

func decodeOrdered[T any](node *yaml.Node) ([]entry[T], error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	out := make([]entry[T], 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var e entry[T]
		if err := node.Content[i].Decode(&e.name); err != nil {
			return nil, err
		}
		if err := node.Content[i+1].Decode(&e.doc); err != nil {
			return nil, fmt.Errorf("'%s': %w", e.name, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func encodeOrdered[T any](entries []entry[T]) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		value := &yaml.Node{}
		if err := value.Encode(e.doc); err != nil {
			return nil, fmt.Errorf("'%s': %w", e.name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.name},
			value,
		)
	}
	return node, nil
}
