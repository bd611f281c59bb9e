package cli

import (
	"github.com/spf13/cobra"

	"github.com/dagboard/dagboard/pkg/graph"
	"github.com/dagboard/dagboard/pkg/layout"
)

// newLayoutCmd creates the layout command, which computes layered
// positions for every node in a graph file.
func newLayoutCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Compute layered positions for a graph file",
		Long: `Layout assigns every node a position on a layered grid.

Nodes with no incoming edges form the top layer; each remaining node is
placed one layer below its deepest parent. Nodes trapped in cycles are
parked on an extra bottom layer so every node still gets a position.
The laid-out graph is written back as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to overwriting the input)")

	return cmd
}

func runLayout(cmd *cobra.Command, path, output string) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	gj, err := graph.ReadFile(path)
	if err != nil {
		return err
	}
	g, err := graph.ToGraph(gj)
	if err != nil {
		return err
	}

	positions := layout.Compute(g)
	for _, n := range g.Nodes() {
		if pos, ok := positions[n.ID]; ok {
			n.X = pos.X
			n.Y = pos.Y
		}
	}
	prog.done("layout computed")

	if output == "" {
		output = path
	}
	out := graph.FromGraph(g, gj.GraphName, gj.Timestamp)
	if err := graph.WriteFile(out, output); err != nil {
		return err
	}

	printSuccess("laid out %d nodes", g.NodeCount())
	printFile(output)
	return nil
}
