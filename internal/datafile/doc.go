// Package datafile reads and writes DataArrays and Datasets as YAML.
//
// A document holds either a single DataArray or, under `items`, the members
// of a Dataset:
//
//	name: counts
//	dims: [pixel]
//	shape: [2]
//	values: [3, 1]
//	unit: counts
//	coords:
//	  position: {dims: [pixel], values: [0.5, 1.5], unit: m}
//	bins:
//	  sizes: [2, 1]
//	  coords:
//	    time: {values: [10, 12, 11], unit: ns}
//
// Bins are given either by `sizes` or by `begin`, `end` and `buffer_len`; in
// the second form event columns hold the whole buffer. Files are always
// written in the first form.
package datafile
