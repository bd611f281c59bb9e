package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dagboard/dagboard/pkg/editor"
	"github.com/dagboard/dagboard/pkg/graph"
	"github.com/dagboard/dagboard/pkg/history"
)

// newEditCmd creates the edit command, which opens a graph in the
// interactive terminal editor.
func newEditCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a graph interactively in the terminal",
		Long: `Edit opens an interactive terminal editor for building a graph.

Nodes and edges are added, connected, and deleted with single keystrokes.
Every change is validated immediately; edges that would close a cycle are
rejected before they touch the graph. The session keeps an undo/redo
history. When a file argument is given the graph is loaded from it on
start and saved back to it with the save key.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runEdit(cmd, path, name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "untitled", "graph name for a new session")

	return cmd
}

func runEdit(cmd *cobra.Command, path, name string) error {
	session := editor.New(name)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			gj, err := graph.ReadFile(path)
			if err != nil {
				return err
			}
			g, err := graph.ToGraph(gj)
			if err != nil {
				return err
			}
			if gj.GraphName != "" {
				session.SetName(gj.GraphName)
			}
			session.Load(g)
		}
	}

	hist := history.NewBuffer(history.DefaultLimit)
	hist.Push(session.Snapshot())

	model := newEditModel(session, hist, path)
	final, err := tea.NewProgram(model, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	if m, ok := final.(editModel); ok && m.saveErr != nil {
		return m.saveErr
	}
	return nil
}
