// Package yaml_adapter loads conversion graphs written in YAML:
//
//	rules:
//	  - outputs: tof
//	    from: time
//	  - outputs: r
//	    expr: sqrt(x * x + y * y)
//	    unit: m
//	  - outputs: [rho, phi]
//	    func: polar
//	    args: {x: pos_x}
//
// A rule with `from` is a rename; any other rule is a compute rule built from
// either `expr` or `func`. Expressions use the same syntax as in HCL files.
package yaml_adapter
