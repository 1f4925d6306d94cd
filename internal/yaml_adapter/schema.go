package yaml_adapter

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

type fileRoot struct {
	Rules []ruleNode `yaml:"rules"`
}

type ruleNode struct {
	Outputs stringOrArray     `yaml:"outputs"`
	From    string            `yaml:"from,omitempty"`
	Func    string            `yaml:"func,omitempty"`
	Args    map[string]string `yaml:"args,omitempty"`
	Expr    string            `yaml:"expr,omitempty"`
	Unit    string            `yaml:"unit,omitempty"`

	line int
}

var ruleKeys = []string{"outputs", "from", "func", "args", "expr", "unit"}

// UnmarshalYAML records the line of the rule for error messages. Decoding
// through the node drops the decoder's KnownFields setting, so keys are
// checked here.
func (r *ruleNode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i < len(node.Content); i += 2 {
			if key := node.Content[i].Value; !slices.Contains(ruleKeys, key) {
				return fmt.Errorf("line %d: field %s not found in rule", node.Content[i].Line, key)
			}
		}
	}
	type plain ruleNode
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = ruleNode(p)
	r.line = node.Line
	return nil
}

// stringOrArray accepts either a single string or a list of strings.
type stringOrArray []string

func (s *stringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}
		if str != "" {
			*s = stringOrArray{str}
		} else {
			*s = stringOrArray{}
		}
		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}
		*s = arr
		return nil

	default:
		return fmt.Errorf("line %d: expected string or array", node.Line)
	}
}
