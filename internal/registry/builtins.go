package registry

import (
	"math"

	"github.com/specialistvlad/coordgraph/internal/array"
	"github.com/specialistvlad/coordgraph/internal/rule"
)

// Builtins registers the general purpose kernels available to every graph
// file.
type Builtins struct{}

func (Builtins) Register(r *Registry) {
	r.Register(&Function{
		Name:   "identity",
		Params: []string{"x"},
		Kernel: func(a rule.Args) (*array.Variable, error) { return a["x"], nil },
	})
	r.Register(&Function{
		Name:   "sqrt",
		Params: []string{"x"},
		Kernel: func(a rule.Args) (*array.Variable, error) { return a["x"].Sqrt(), nil },
	})
	r.Register(&Function{
		Name:   "difference",
		Params: []string{"a", "b"},
		Kernel: func(a rule.Args) (*array.Variable, error) { return a["a"].Sub(a["b"]) },
	})
	r.Register(&Function{
		Name:   "ratio",
		Params: []string{"a", "b"},
		Kernel: func(a rule.Args) (*array.Variable, error) { return a["a"].Div(a["b"]) },
	})
	r.Register(&Function{
		Name:   "norm",
		Params: []string{"x", "y", "z"},
		Kernel: norm,
	})
	r.Register(&Function{
		Name:    "polar",
		Params:  []string{"x", "y"},
		Outputs: []string{"r", "phi"},
		Multi:   polar,
	})
}

func norm(a rule.Args) (*array.Variable, error) {
	sum := a["x"].Map(func(v float64) float64 { return v * v })
	for _, name := range []string{"y", "z"} {
		sq := a[name].Map(func(v float64) float64 { return v * v })
		var err error
		if sum, err = sum.Add(sq); err != nil {
			return nil, err
		}
	}
	return sum.Map(math.Sqrt).WithUnit(a["x"].Unit()), nil
}

func polar(a rule.Args) (map[string]*array.Variable, error) {
	x, y := a["x"], a["y"]
	r, err := array.Binary(x, y, x.Unit(), math.Hypot)
	if err != nil {
		return nil, err
	}
	phi, err := array.Binary(y, x, "rad", math.Atan2)
	if err != nil {
		return nil, err
	}
	return map[string]*array.Variable{"r": r, "phi": phi}, nil
}
