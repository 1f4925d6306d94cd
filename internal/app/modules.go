package app

import (
	"github.com/specialistvlad/coordgraph/internal/registry"
)

// coreModules is the definitive list of all function modules that are
// compiled into the coordgraph binary.
var coreModules = []registry.Module{
	registry.Builtins{},
}
