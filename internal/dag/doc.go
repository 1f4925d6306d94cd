// Package dag is a small directed-graph primitive: string nodes, dependency
// edges, cycle detection and a deterministic topological sort. The
// coordinate graph uses it to order rules by their dependencies.
package dag
