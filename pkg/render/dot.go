// Package render converts graphs to Graphviz DOT and renders them to SVG
// for file export.
//
// This covers export artifacts only - the interactive canvas lives in the
// surrounding UI and is out of scope here. Rendering uses the graph's
// layered structure (rankdir=TB) so the exported picture matches the
// auto-layout ordering.
package render

import (
	"bytes"
	"fmt"

	"github.com/dagboard/dagboard/pkg/dag"
)

// Options configures DOT generation.
type Options struct {
	// Detailed appends the node ID to the label, useful when labels are
	// not unique.
	Detailed bool

	// HighlightInvalid draws self-referential edges in red. Exporting an
	// invalid in-progress graph is allowed; the defect should be visible.
	HighlightInvalid bool
}

// ToDOT converts a graph to Graphviz DOT format.
// The resulting DOT string can be rendered with [SVG].
func ToDOT(g *dag.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := n.DisplayLabel()
		if opts.Detailed && n.Label != "" && n.Label != n.ID {
			label = fmt.Sprintf("%s\n(%s)", n.Label, n.ID)
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, label)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if opts.HighlightInvalid && e.IsSelfLoop() {
			fmt.Fprintf(&buf, "  %q -> %q [color=red];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}
