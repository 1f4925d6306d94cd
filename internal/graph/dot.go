package graph

import (
	"bufio"
	"fmt"
	"io"

	"github.com/specialistvlad/coordgraph/internal/rule"
)

// WriteDOT renders the graph in Graphviz DOT format. Renames are dashed
// edges. Compute rules get an ellipse node named after their kernel unless
// simplified is set, in which case inputs point straight at the outputs.
func (g *Graph) WriteDOT(w io.Writer, simplified bool) error {
	bw := bufio.NewWriter(w)
	seen := make(map[string]struct{})
	line := func(format string, args ...any) {
		s := fmt.Sprintf(format, args...)
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		fmt.Fprintln(bw, s)
	}

	fmt.Fprintln(bw, "strict digraph {")
	line("  node [shape=box height=0.1]")
	for _, out := range g.order {
		switch r := g.rules[out].(type) {
		case *rule.RenameRule:
			line("  %q -> %q [style=dashed]", r.From(), out)
		case *rule.ComputeRule:
			target := out
			if !simplified {
				target = r.Name() + "(...)"
				line("  %q [shape=ellipse style=filled color=lightgrey]", target)
				line("  %q -> %q", target, out)
			}
			for _, dep := range r.Dependencies() {
				line("  %q -> %q", dep, target)
			}
		case *rule.FetchRule:
			line("  %q", out)
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
