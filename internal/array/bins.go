package array

import (
	"fmt"
	"slices"
)

// Bins holds the event-level content of a binned DataArray. Each dense
// element owns the range [begin, end) of a shared event buffer. The buffer
// columns are split into coords and attrs namespaces like the dense level.
type Bins struct {
	begin  []int
	end    []int
	bufLen int
	coords *Meta
	attrs  *Meta
}

// NewBins creates compact, empty bins holding sizes[i] events in bin i.
func NewBins(sizes []int) *Bins {
	b := &Bins{
		begin:  make([]int, len(sizes)),
		end:    make([]int, len(sizes)),
		coords: NewMeta(),
		attrs:  NewMeta(),
	}
	offset := 0
	for i, s := range sizes {
		b.begin[i] = offset
		offset += s
		b.end[i] = offset
	}
	b.bufLen = offset
	return b
}

// NewBinsFromRanges creates bins viewing [begin[i], end[i]) of a buffer of
// bufLen events. Ranges need not cover the buffer.
func NewBinsFromRanges(begin, end []int, bufLen int) (*Bins, error) {
	if len(begin) != len(end) {
		return nil, fmt.Errorf("%w: %d begin indices but %d end indices", ErrShape, len(begin), len(end))
	}
	for i := range begin {
		if begin[i] < 0 || begin[i] > end[i] || end[i] > bufLen {
			return nil, fmt.Errorf("%w: bin %d range [%d, %d) outside buffer of %d events", ErrShape, i, begin[i], end[i], bufLen)
		}
	}
	return &Bins{
		begin:  slices.Clone(begin),
		end:    slices.Clone(end),
		bufLen: bufLen,
		coords: NewMeta(),
		attrs:  NewMeta(),
	}, nil
}

// Len returns the number of bins.
func (b *Bins) Len() int { return len(b.begin) }

// BufferLen returns the length of the underlying event buffer.
func (b *Bins) BufferLen() int { return b.bufLen }

// Ranges returns copies of the begin and end indices.
func (b *Bins) Ranges() ([]int, []int) { return slices.Clone(b.begin), slices.Clone(b.end) }

// Sizes returns the number of events in each bin.
func (b *Bins) Sizes() []int {
	sizes := make([]int, len(b.begin))
	for i := range b.begin {
		sizes[i] = b.end[i] - b.begin[i]
	}
	return sizes
}

// Compacted reports whether the bins cover their buffer contiguously and in
// order. Only compacted bins accept new event coords.
func (b *Bins) Compacted() bool {
	offset := 0
	for i := range b.begin {
		if b.begin[i] != offset {
			return false
		}
		offset = b.end[i]
	}
	return offset == b.bufLen
}

func (b *Bins) Coord(name string) (*Variable, bool) { return b.view(b.coords, name) }

func (b *Bins) Attr(name string) (*Variable, bool) { return b.view(b.attrs, name) }

// Meta looks name up in coords, then attrs.
func (b *Bins) Meta(name string) (*Variable, bool) {
	if v, ok := b.Coord(name); ok {
		return v, true
	}
	return b.Attr(name)
}

func (b *Bins) HasMeta(name string) bool {
	return b.coords.Has(name) || b.attrs.Has(name)
}

func (b *Bins) CoordNames() []string { return b.coords.Names() }

func (b *Bins) AttrNames() []string { return b.attrs.Names() }

// SetCoord attaches an event-level coord. It fails with ErrMisaligned if the
// bins are not compacted or v's bin sizes differ from the bins.
func (b *Bins) SetCoord(name string, v *Variable) error {
	col, err := b.column(v)
	if err != nil {
		return fmt.Errorf("event coord '%s': %w", name, err)
	}
	b.coords.Set(name, col)
	return nil
}

// SetAttr is SetCoord for the attrs namespace.
func (b *Bins) SetAttr(name string, v *Variable) error {
	col, err := b.column(v)
	if err != nil {
		return fmt.Errorf("event attr '%s': %w", name, err)
	}
	b.attrs.Set(name, col)
	return nil
}

func (b *Bins) DeleteAttr(name string) { b.attrs.Delete(name) }

// SetBufferCoord attaches a raw buffer column holding BufferLen events,
// regardless of the bin ranges. It rebuilds bins that view part of their
// buffer, such as bins read back from a file.
func (b *Bins) SetBufferCoord(name string, values []float64, unit string) error {
	col, err := b.bufferColumn(values, unit)
	if err != nil {
		return fmt.Errorf("event coord '%s': %w", name, err)
	}
	b.coords.Set(name, col)
	return nil
}

// SetBufferAttr is SetBufferCoord for the attrs namespace.
func (b *Bins) SetBufferAttr(name string, values []float64, unit string) error {
	col, err := b.bufferColumn(values, unit)
	if err != nil {
		return fmt.Errorf("event attr '%s': %w", name, err)
	}
	b.attrs.Set(name, col)
	return nil
}

func (b *Bins) bufferColumn(values []float64, unit string) (*Variable, error) {
	if len(values) != b.bufLen {
		return nil, fmt.Errorf("%w: buffer holds %d events, got %d", ErrShape, b.bufLen, len(values))
	}
	return &Variable{
		dims:   []string{EventDim},
		shape:  []int{len(values)},
		values: slices.Clone(values),
		unit:   unit,
	}, nil
}

// Consume moves name from coords to attrs, if it is a coord, and returns its
// event-level value.
func (b *Bins) Consume(name string) (*Variable, bool) {
	b.coords.move(name, b.attrs)
	return b.Attr(name)
}

// Compact replaces the buffer with a private, contiguous copy holding only
// the events referenced by the bins. Columns shared with other DataArrays
// are not modified.
func (b *Bins) Compact() {
	if b.Compacted() {
		return
	}
	sizes := b.Sizes()
	gatherAll := func(m *Meta) *Meta {
		out := NewMeta()
		for _, name := range m.Names() {
			col, _ := m.Get(name)
			out.Set(name, b.gather(col))
		}
		return out
	}
	b.coords = gatherAll(b.coords)
	b.attrs = gatherAll(b.attrs)
	compact := NewBins(sizes)
	b.begin, b.end, b.bufLen = compact.begin, compact.end, compact.bufLen
}

func (b *Bins) column(v *Variable) (*Variable, error) {
	if !v.Binned() {
		return nil, fmt.Errorf("%w: dense variable cannot be attached to bins", ErrShape)
	}
	if !b.Compacted() || !slices.Equal(v.sizes, b.Sizes()) {
		return nil, ErrMisaligned
	}
	return &Variable{
		dims:   []string{EventDim},
		shape:  []int{len(v.values)},
		values: v.values,
		unit:   v.unit,
	}, nil
}

// gather returns the events referenced by the bins as a dense buffer column.
func (b *Bins) gather(col *Variable) *Variable {
	values := make([]float64, 0)
	for i := range b.begin {
		values = append(values, col.values[b.begin[i]:b.end[i]]...)
	}
	return &Variable{
		dims:   []string{EventDim},
		shape:  []int{len(values)},
		values: values,
		unit:   col.unit,
	}
}

func (b *Bins) view(m *Meta, name string) (*Variable, bool) {
	col, ok := m.Get(name)
	if !ok {
		return nil, false
	}
	values := col.values
	if !b.Compacted() {
		values = b.gather(col).values
	}
	return &Variable{
		dims:   []string{EventDim},
		shape:  []int{len(values)},
		values: values,
		unit:   col.unit,
		sizes:  b.Sizes(),
	}, true
}

// clone returns bins sharing the buffer columns but owning their namespaces.
func (b *Bins) clone() *Bins {
	return &Bins{
		begin:  b.begin,
		end:    b.end,
		bufLen: b.bufLen,
		coords: b.coords.Clone(),
		attrs:  b.attrs.Clone(),
	}
}

func (b *Bins) slice(start, end int) *Bins {
	out := b.clone()
	out.begin = slices.Clone(b.begin[start:end])
	out.end = slices.Clone(b.end[start:end])
	return out
}
