// Package config defines the format-agnostic model of a graph file, along
// with the Loader interface implemented by the HCL and YAML adapters.
//
// The `config.Model` is the single source of truth for building a
// graph.Graph; Build resolves function names through the registry and
// compiles expressions into kernels.
package config
