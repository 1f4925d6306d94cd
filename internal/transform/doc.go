// Package transform derives coordinates of a DataArray from a conversion
// graph.
//
// Coords resolves every requested name recursively: names present on the
// input are taken as they are, all others are produced by their rule after
// the rule's own inputs have been resolved. Requested names end up as
// coords, the inputs consumed along the way are moved to attrs. Binned data
// is handled by calling compute kernels a second time with the event-level
// inputs, so kernels must accept both dense and event-level values and must
// be free of side effects.
//
// Resolution runs on an explicit stack, so deep graphs do not grow the Go
// call stack. A name that is revisited while its rule is still being
// resolved fails with a *graph.CycleError.
package transform
