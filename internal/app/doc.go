// Package app contains the core application logic. It wires the graph file
// loaders, the function registry and the data codec around the transform
// package, decoupled from any specific entrypoint like a CLI.
package app
