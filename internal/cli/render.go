package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dagboard/dagboard/pkg/cache"
	"github.com/dagboard/dagboard/pkg/graph"
	"github.com/dagboard/dagboard/pkg/render"
)

// newRenderCmd creates the render command, which exports a graph file as
// DOT or SVG.
func newRenderCmd() *cobra.Command {
	var (
		format    string
		output    string
		cacheDir  string
		detailed  bool
		highlight bool
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Export a graph file as DOT or SVG",
		Long: `Render converts a graph JSON file into Graphviz DOT or an SVG image.

SVG rendering is deterministic in the graph content, so results can be
cached with --cache-dir to skip repeated Graphviz runs for unchanged
graphs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], format, output, cacheDir, render.Options{
				Detailed:         detailed,
				HighlightInvalid: highlight,
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to stdout)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache rendered SVGs in this directory")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node positions in labels")
	cmd.Flags().BoolVar(&highlight, "highlight-invalid", false, "color self-referential edges red")

	return cmd
}

func runRender(cmd *cobra.Command, path, format, output, cacheDir string, opts render.Options) error {
	logger := loggerFromContext(cmd.Context())

	gj, err := graph.ReadFile(path)
	if err != nil {
		return err
	}
	g, err := graph.ToGraph(gj)
	if err != nil {
		return err
	}

	dot := render.ToDOT(g, opts)

	var (
		data   []byte
		cached bool
	)
	switch strings.ToLower(format) {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, cached, err = renderSVG(cmd, dot, cacheDir)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want dot or svg)", format)
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("rendered %s", format)
	printStats(g.NodeCount(), g.EdgeCount(), cached)
	printFile(output)
	logger.Debug("render complete", "format", format, "bytes", len(data))
	return nil
}

// renderSVG renders the DOT source to SVG, consulting the file cache when
// a cache directory is configured.
func renderSVG(cmd *cobra.Command, dot, cacheDir string) (data []byte, cached bool, err error) {
	ctx := cmd.Context()

	if cacheDir == "" {
		data, err = render.SVG(ctx, dot)
		return data, false, err
	}

	c, err := cache.NewFileCache(cacheDir)
	if err != nil {
		return nil, false, err
	}
	defer c.Close()

	key := cache.SVGKey(cache.Hash([]byte(dot)))
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	data, err = render.SVG(ctx, dot)
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, 0); err != nil {
		loggerFromContext(ctx).Warn("caching svg", "error", err)
	}
	return data, false, nil
}
