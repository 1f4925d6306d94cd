package array

import "slices"

// Meta is an insertion-ordered namespace of named variables, used for
// coords and attrs of both dense and event-level data.
type Meta struct {
	names []string
	vars  map[string]*Variable
}

// NewMeta creates an empty namespace.
func NewMeta() *Meta {
	return &Meta{vars: make(map[string]*Variable)}
}

func (m *Meta) Get(name string) (*Variable, bool) {
	v, ok := m.vars[name]
	return v, ok
}

func (m *Meta) Has(name string) bool {
	_, ok := m.vars[name]
	return ok
}

// Set inserts or replaces name. Replacing keeps the original position.
func (m *Meta) Set(name string, v *Variable) {
	if _, ok := m.vars[name]; !ok {
		m.names = append(m.names, name)
	}
	m.vars[name] = v
}

func (m *Meta) Delete(name string) {
	if _, ok := m.vars[name]; !ok {
		return
	}
	delete(m.vars, name)
	m.names = slices.DeleteFunc(m.names, func(n string) bool { return n == name })
}

// Names returns the names in insertion order.
func (m *Meta) Names() []string { return slices.Clone(m.names) }

func (m *Meta) Len() int { return len(m.names) }

// Clone returns a new namespace holding the same variables.
func (m *Meta) Clone() *Meta {
	out := &Meta{
		names: slices.Clone(m.names),
		vars:  make(map[string]*Variable, len(m.vars)),
	}
	for k, v := range m.vars {
		out.vars[k] = v
	}
	return out
}

// move transfers name from m to dst, returning the variable.
func (m *Meta) move(name string, dst *Meta) (*Variable, bool) {
	v, ok := m.vars[name]
	if !ok {
		return nil, false
	}
	m.Delete(name)
	dst.Set(name, v)
	return v, true
}
