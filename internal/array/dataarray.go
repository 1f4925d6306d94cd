package array

import (
	"fmt"
	"slices"
)

// DataArray is a data variable with coordinate metadata. Coords are the
// primary namespace and take part in alignment; attrs are auxiliary.
type DataArray struct {
	name   string
	data   *Variable
	coords *Meta
	attrs  *Meta
	bins   *Bins
}

// NewDataArray creates a DataArray without metadata.
func NewDataArray(name string, data *Variable) *DataArray {
	return &DataArray{
		name:   name,
		data:   data,
		coords: NewMeta(),
		attrs:  NewMeta(),
	}
}

func (da *DataArray) Name() string { return da.name }

func (da *DataArray) Data() *Variable { return da.data }

func (da *DataArray) Dims() []string { return da.data.Dims() }

// Coords returns the primary namespace. It is owned by da and mutable.
func (da *DataArray) Coords() *Meta { return da.coords }

// Attrs returns the auxiliary namespace. It is owned by da and mutable.
func (da *DataArray) Attrs() *Meta { return da.attrs }

// Bins returns the event-level content, or nil for dense data.
func (da *DataArray) Bins() *Bins { return da.bins }

// HasDim reports whether dim labels one of the data dimensions.
func (da *DataArray) HasDim(dim string) bool { return da.data.HasDim(dim) }

// Meta looks name up in coords, then attrs.
func (da *DataArray) Meta(name string) (*Variable, bool) {
	if v, ok := da.coords.Get(name); ok {
		return v, true
	}
	return da.attrs.Get(name)
}

func (da *DataArray) HasMeta(name string) bool {
	return da.coords.Has(name) || da.attrs.Has(name)
}

// MetaNames returns coord names followed by attr names.
func (da *DataArray) MetaNames() []string {
	return append(da.coords.Names(), da.attrs.Names()...)
}

// SetBins attaches event-level content. The number of bins must match the
// number of data elements.
func (da *DataArray) SetBins(b *Bins) error {
	if b != nil && b.Len() != da.data.Len() {
		return fmt.Errorf("%w: %d bins for %d data elements", ErrShape, b.Len(), da.data.Len())
	}
	da.bins = b
	return nil
}

// Consume moves name from coords to attrs, if it is a coord, and returns it.
func (da *DataArray) Consume(name string) (*Variable, bool) {
	da.coords.move(name, da.attrs)
	return da.attrs.Get(name)
}

// Produce moves name from attrs to coords, if it is an attr, and returns it.
func (da *DataArray) Produce(name string) (*Variable, bool) {
	da.attrs.move(name, da.coords)
	return da.coords.Get(name)
}

// ShallowCopy returns a DataArray that owns its namespaces but shares every
// variable and the event buffer with da. Changing metadata of the copy
// never affects da.
func (da *DataArray) ShallowCopy() *DataArray {
	out := &DataArray{
		name:   da.name,
		data:   da.data,
		coords: da.coords.Clone(),
		attrs:  da.attrs.Clone(),
	}
	if da.bins != nil {
		out.bins = da.bins.clone()
	}
	return out
}

// RenameDims returns a copy of da with dimension old relabeled to new in the
// data and all metadata.
func (da *DataArray) RenameDims(old, new string) (*DataArray, error) {
	if !da.HasDim(old) {
		return nil, fmt.Errorf("%w: '%s' is not a dimension of %v", ErrDim, old, da.Dims())
	}
	out := da.ShallowCopy()
	var err error
	if out.data, err = da.data.renameDim(old, new); err != nil {
		return nil, err
	}
	for _, m := range []*Meta{out.coords, out.attrs} {
		for _, name := range m.Names() {
			v, _ := m.Get(name)
			renamed, err := v.renameDim(old, new)
			if err != nil {
				return nil, fmt.Errorf("metadata '%s': %w", name, err)
			}
			m.Set(name, renamed)
		}
	}
	return out, nil
}

// Slice returns the range [start, end) of da along dim. Event-level content
// is not copied: the result views the same buffer, so its bins are no
// longer compacted unless the slice covers everything.
func (da *DataArray) Slice(dim string, start, end int) (*DataArray, error) {
	if !da.HasDim(dim) {
		return nil, fmt.Errorf("%w: '%s' is not a dimension of %v", ErrDim, dim, da.Dims())
	}
	out := da.ShallowCopy()
	var err error
	if out.data, err = da.data.slice(dim, start, end); err != nil {
		return nil, err
	}
	for _, m := range []*Meta{out.coords, out.attrs} {
		for _, name := range m.Names() {
			v, _ := m.Get(name)
			sliced, err := sliceCoord(v, dim, start, end, da.data)
			if err != nil {
				return nil, fmt.Errorf("metadata '%s': %w", name, err)
			}
			m.Set(name, sliced)
		}
	}
	if da.bins != nil {
		if len(da.data.dims) != 1 {
			return nil, fmt.Errorf("%w: slicing binned data requires 1-d data", ErrDim)
		}
		out.bins = da.bins.slice(start, end)
	}
	return out, nil
}

// sliceCoord slices a coordinate. Bin-edge coords carry one more element
// than the data along dim and keep the closing edge.
func sliceCoord(v *Variable, dim string, start, end int, data *Variable) (*Variable, error) {
	axis := slices.Index(v.dims, dim)
	if axis < 0 {
		return v, nil
	}
	extent := data.shape[slices.Index(data.dims, dim)]
	if v.shape[axis] == extent+1 {
		return v.slice(dim, start, end+1)
	}
	return v.slice(dim, start, end)
}
