// Package registry maps function names used in graph files to compiled Go
// kernels.
//
// A graph file refers to a kernel by name and binds the kernel's parameters
// to coordinate names. The registry holds the kernels and turns such a
// binding into a graph.Entry. Modules register their functions once at
// startup; registering a name twice is a programmer error and panics.
package registry
