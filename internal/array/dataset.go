package array

import (
	"fmt"
	"slices"
)

// Dataset is an ordered collection of named DataArrays. Members keep their
// own metadata; nothing is shared between them.
type Dataset struct {
	names []string
	items map[string]*DataArray
}

// NewDataset creates a dataset from members with unique names.
func NewDataset(items ...*DataArray) (*Dataset, error) {
	ds := &Dataset{items: make(map[string]*DataArray, len(items))}
	for _, da := range items {
		if err := ds.Add(da); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Add appends a member. Its name must not be taken.
func (ds *Dataset) Add(da *DataArray) error {
	if _, exists := ds.items[da.Name()]; exists {
		return fmt.Errorf("dataset already contains an item named '%s'", da.Name())
	}
	ds.names = append(ds.names, da.Name())
	ds.items[da.Name()] = da
	return nil
}

func (ds *Dataset) Get(name string) (*DataArray, bool) {
	da, ok := ds.items[name]
	return da, ok
}

// Names returns member names in insertion order.
func (ds *Dataset) Names() []string { return slices.Clone(ds.names) }

func (ds *Dataset) Len() int { return len(ds.names) }
