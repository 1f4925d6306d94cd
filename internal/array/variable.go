package array

import (
	"fmt"
	"math"
	"slices"
)

// EventDim is the dimension label of event-level (binned) variables.
const EventDim = "event"

// Variable is an immutable labeled array of float64 values. Operations never
// modify a Variable in place; they return a new one, so variables can be
// shared freely between copies of a DataArray.
type Variable struct {
	dims   []string
	shape  []int
	values []float64
	unit   string
	// sizes holds the number of events per bin for event-level variables.
	// It is nil for dense variables.
	sizes []int
}

// New creates a dense variable. The product of shape must match the number
// of values and every dimension label must be unique.
func New(dims []string, shape []int, values []float64, unit string) (*Variable, error) {
	if len(dims) != len(shape) {
		return nil, fmt.Errorf("%w: %d dims but %d extents", ErrShape, len(dims), len(shape))
	}
	n := 1
	for i, extent := range shape {
		if extent < 0 {
			return nil, fmt.Errorf("%w: negative extent for dim '%s'", ErrShape, dims[i])
		}
		if slices.Index(dims, dims[i]) != i {
			return nil, fmt.Errorf("%w: duplicate dim '%s'", ErrDim, dims[i])
		}
		n *= extent
	}
	if n != len(values) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrShape, shape, n, len(values))
	}
	return &Variable{
		dims:   slices.Clone(dims),
		shape:  slices.Clone(shape),
		values: slices.Clone(values),
		unit:   unit,
	}, nil
}

// Vector creates a 1-d dense variable along dim.
func Vector(dim string, values []float64, unit string) *Variable {
	return &Variable{
		dims:   []string{dim},
		shape:  []int{len(values)},
		values: slices.Clone(values),
		unit:   unit,
	}
}

// Scalar creates a 0-d variable.
func Scalar(value float64, unit string) *Variable {
	return &Variable{values: []float64{value}, unit: unit}
}

// Events creates an event-level variable. sizes holds the number of events
// in each bin and must sum to len(values).
func Events(sizes []int, values []float64, unit string) (*Variable, error) {
	total := 0
	for _, s := range sizes {
		if s < 0 {
			return nil, fmt.Errorf("%w: negative bin size", ErrShape)
		}
		total += s
	}
	if total != len(values) {
		return nil, fmt.Errorf("%w: bin sizes sum to %d, got %d events", ErrShape, total, len(values))
	}
	return &Variable{
		dims:   []string{EventDim},
		shape:  []int{len(values)},
		values: slices.Clone(values),
		unit:   unit,
		sizes:  slices.Clone(sizes),
	}, nil
}

func (v *Variable) Dims() []string { return slices.Clone(v.dims) }

func (v *Variable) Shape() []int { return slices.Clone(v.shape) }

// Len returns the total number of elements (events, for binned variables).
func (v *Variable) Len() int { return len(v.values) }

func (v *Variable) Unit() string { return v.unit }

func (v *Variable) Values() []float64 { return slices.Clone(v.values) }

func (v *Variable) At(i int) float64 { return v.values[i] }

// Binned reports whether v holds event-level values.
func (v *Variable) Binned() bool { return v.sizes != nil }

// BinSizes returns the number of events per bin, or nil for dense variables.
func (v *Variable) BinSizes() []int { return slices.Clone(v.sizes) }

// HasDim reports whether dim labels one of v's dimensions.
func (v *Variable) HasDim(dim string) bool { return slices.Contains(v.dims, dim) }

// Equal reports whether two variables hold identical dims, shape, unit, bin
// layout and values.
func (v *Variable) Equal(o *Variable) bool {
	if v == o {
		return true
	}
	if v == nil || o == nil {
		return false
	}
	return v.unit == o.unit &&
		slices.Equal(v.dims, o.dims) &&
		slices.Equal(v.shape, o.shape) &&
		slices.Equal(v.sizes, o.sizes) &&
		slices.Equal(v.values, o.values)
}

// WithUnit returns a copy of v with a different unit. Values are shared.
func (v *Variable) WithUnit(unit string) *Variable {
	out := *v
	out.unit = unit
	return &out
}

// WithValues returns a variable with v's layout holding values instead.
func (v *Variable) WithValues(values []float64, unit string) (*Variable, error) {
	if len(values) != len(v.values) {
		return nil, fmt.Errorf("%w: layout holds %d values, got %d", ErrShape, len(v.values), len(values))
	}
	out := *v
	out.values = slices.Clone(values)
	out.unit = unit
	return &out, nil
}

// Map applies f to every element.
func (v *Variable) Map(f func(float64) float64) *Variable {
	out := *v
	out.values = make([]float64, len(v.values))
	for i, x := range v.values {
		out.values[i] = f(x)
	}
	return &out
}

// Scale multiplies every element by factor.
func (v *Variable) Scale(factor float64) *Variable {
	return v.Map(func(x float64) float64 { return x * factor })
}

// Sqrt returns the elementwise square root.
func (v *Variable) Sqrt() *Variable {
	out := v.Map(math.Sqrt)
	if v.unit != "" {
		out.unit = "sqrt(" + v.unit + ")"
	}
	return out
}

func (v *Variable) Add(o *Variable) (*Variable, error) {
	return Binary(v, o, additiveUnit(v, o), func(a, b float64) float64 { return a + b })
}

func (v *Variable) Sub(o *Variable) (*Variable, error) {
	return Binary(v, o, additiveUnit(v, o), func(a, b float64) float64 { return a - b })
}

func (v *Variable) Mul(o *Variable) (*Variable, error) {
	return Binary(v, o, joinUnit(v.unit, "*", o.unit), func(a, b float64) float64 { return a * b })
}

func (v *Variable) Div(o *Variable) (*Variable, error) {
	return Binary(v, o, joinUnit(v.unit, "/", o.unit), func(a, b float64) float64 { return a / b })
}

// Binary combines a and b elementwise. Supported layouts are identical
// layouts, scalar broadcast in either direction, and broadcast of a dense
// per-bin variable onto the events of a binned one.
func Binary(a, b *Variable, unit string, op func(x, y float64) float64) (*Variable, error) {
	tmpl, ai, bi, err := alignIndex(a, b)
	if err != nil {
		return nil, err
	}
	out := *tmpl
	out.unit = unit
	out.values = make([]float64, tmpl.Len())
	for i := range out.values {
		out.values[i] = op(a.values[ai(i)], b.values[bi(i)])
	}
	return &out, nil
}

// BroadcastIndex returns the layout that results from combining vars and,
// for each input, a function mapping an output element index to the index
// of the input element it reads. Callers use it to evaluate n-ary
// elementwise functions.
func BroadcastIndex(vars ...*Variable) (*Variable, []func(int) int, error) {
	if len(vars) == 0 {
		return Scalar(0, ""), nil, nil
	}
	tmpl := vars[0]
	for _, v := range vars[1:] {
		t, _, _, err := alignIndex(tmpl, v)
		if err != nil {
			return nil, nil, err
		}
		tmpl = t
	}
	index := make([]func(int) int, len(vars))
	for i, v := range vars {
		_, _, vi, err := alignIndex(tmpl, v)
		if err != nil {
			return nil, nil, err
		}
		index[i] = vi
	}
	return tmpl, index, nil
}

func identity(i int) int { return i }
func zero(int) int { return 0 }

func alignIndex(a, b *Variable) (*Variable, func(int) int, func(int) int, error) {
	switch {
	case sameLayout(a, b):
		return a, identity, identity, nil
	case isScalar(b):
		return a, identity, zero, nil
	case isScalar(a):
		return b, zero, identity, nil
	case a.Binned() && !b.Binned() && b.Len() == len(a.sizes):
		return a, identity, eventToBin(a.sizes), nil
	case b.Binned() && !a.Binned() && a.Len() == len(b.sizes):
		return b, eventToBin(b.sizes), identity, nil
	}
	return nil, nil, nil, fmt.Errorf("%w: cannot combine %s with %s", ErrShape, a.layout(), b.layout())
}

func eventToBin(sizes []int) func(int) int {
	bin := make([]int, 0)
	for i, s := range sizes {
		for range s {
			bin = append(bin, i)
		}
	}
	return func(i int) int { return bin[i] }
}

func sameLayout(a, b *Variable) bool {
	return slices.Equal(a.dims, b.dims) && slices.Equal(a.shape, b.shape) && slices.Equal(a.sizes, b.sizes)
}

// isScalar reports whether v is 0-d. A length-1 variable with a dimension
// is not a scalar and does not broadcast.
func isScalar(v *Variable) bool {
	return !v.Binned() && len(v.dims) == 0
}

func (v *Variable) layout() string {
	if v.Binned() {
		return fmt.Sprintf("binned(%d bins, %d events)", len(v.sizes), len(v.values))
	}
	return fmt.Sprintf("dims %v shape %v", v.dims, v.shape)
}

func additiveUnit(a, b *Variable) string {
	if a.unit != "" {
		return a.unit
	}
	return b.unit
}

func joinUnit(a, op, b string) string {
	switch {
	case a == "":
		if op == "/" && b != "" {
			return "1/" + b
		}
		return b
	case b == "":
		return a
	}
	return a + op + b
}

// renameDim returns v with dim old relabeled to new. Values are shared.
func (v *Variable) renameDim(old, new string) (*Variable, error) {
	i := slices.Index(v.dims, old)
	if i < 0 {
		return v, nil
	}
	if slices.Contains(v.dims, new) {
		return nil, fmt.Errorf("%w: cannot rename '%s' to existing dim '%s'", ErrDim, old, new)
	}
	out := *v
	out.dims = slices.Clone(v.dims)
	out.dims[i] = new
	return &out, nil
}

// slice returns the sub-range [start, end) of v along dim. Variables that
// do not depend on dim are returned unchanged.
func (v *Variable) slice(dim string, start, end int) (*Variable, error) {
	axis := slices.Index(v.dims, dim)
	if axis < 0 {
		return v, nil
	}
	if v.Binned() {
		return nil, fmt.Errorf("%w: cannot slice event dim directly", ErrDim)
	}
	if start < 0 || end > v.shape[axis] || start > end {
		return nil, fmt.Errorf("%w: slice [%d:%d] out of range for dim '%s' of extent %d", ErrShape, start, end, dim, v.shape[axis])
	}
	inner := 1
	for _, extent := range v.shape[axis+1:] {
		inner *= extent
	}
	outer := 1
	for _, extent := range v.shape[:axis] {
		outer *= extent
	}
	stride := v.shape[axis] * inner
	values := make([]float64, 0, outer*(end-start)*inner)
	for o := range outer {
		base := o * stride
		values = append(values, v.values[base+start*inner:base+end*inner]...)
	}
	out := *v
	out.shape = slices.Clone(v.shape)
	out.shape[axis] = end - start
	out.values = values
	return &out, nil
}
