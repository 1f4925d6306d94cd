package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Renames  []*renameBlock  `hcl:"rename,block"`
	Computes []*computeBlock `hcl:"compute,block"`
}

// renameBlock is `rename "<name>" { from = "<source>" }`. outputs, when set,
// declares several aliases sharing the rule and replaces the label.
type renameBlock struct {
	Name    string   `hcl:"name,label"`
	From    string   `hcl:"from"`
	Outputs []string `hcl:"outputs,optional"`
}

// computeBlock is `compute "<name>" { ... }` with either an inline
// expression or a registered function.
type computeBlock struct {
	Name    string            `hcl:"name,label"`
	Outputs []string          `hcl:"outputs,optional"`
	Func    string            `hcl:"func,optional"`
	Args    map[string]string `hcl:"args,optional"`
	Expr    hcl.Expression    `hcl:"expr,optional"`
	Unit    string            `hcl:"unit,optional"`
}
