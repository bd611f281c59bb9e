package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dagboard/dagboard/pkg/dag"
	"github.com/dagboard/dagboard/pkg/graph"
)

// newValidateCmd creates the validate command, which checks a graph file
// against the DAG rules and prints the validation report.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a graph file against the DAG rules",
		Long: `Validate reads a graph JSON file and reports structural problems.

Cycles and self-referential edges are errors. Too few nodes, missing
connections, and disconnected nodes are warnings. The command exits with
a non-zero status when the graph has errors; warnings alone do not fail
the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0])
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, path string) error {
	logger := loggerFromContext(cmd.Context())

	gj, err := graph.ReadFile(path)
	if err != nil {
		return err
	}
	g, err := graph.ToGraph(gj)
	if err != nil {
		return err
	}
	logger.Debug("graph loaded", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	report := dag.Validate(g)
	printReport(report, g.NodeCount(), g.EdgeCount())

	if !report.Valid {
		return fmt.Errorf("%s: graph is not a valid DAG", path)
	}
	return nil
}

// printReport prints a validation report with styled error and warning
// lines.
func printReport(r dag.Report, nodeCount, edgeCount int) {
	if r.Valid {
		printSuccess("graph is a valid DAG")
	} else {
		printError("graph is not a valid DAG")
	}
	printStats(nodeCount, edgeCount, false)

	for _, e := range r.Errors {
		printError("%s", e)
	}
	for _, w := range r.Warnings {
		printWarning("%s", w)
	}
}
