package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlindner/coursemap/pkg/render"
	"github.com/mlindner/coursemap/pkg/roadmap"
	"github.com/mlindner/coursemap/pkg/roadmap/layout"
)

// Output formats for the layout command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

// newLayoutCmd creates the layout command for computing roadmap layouts.
func newLayoutCmd() *cobra.Command {
	var (
		output string
		format string
		opts   layout.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [roadmap.json]",
		Short: "Compute node positions for a roadmap",
		Long: `Compute node positions for a roadmap.

The layout command takes a roadmap JSON file and computes deterministic 2D
positions for every node: modules stack vertically, lessons indent under
their module, and sibling groups spread horizontally under their parent.

Output formats:
  json  positions and edges ready for a diagram renderer (default)
  dot   Graphviz DOT with pinned positions
  svg   rendered SVG via Graphviz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, args[0], output, format, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json (default), dot, svg")
	cmd.Flags().Float64Var(&opts.RowStep, "row-step", 0, "vertical distance between rows")
	cmd.Flags().Float64Var(&opts.IndentStep, "indent-step", 0, "child indent in vertical mode")
	cmd.Flags().Float64Var(&opts.SiblingGap, "sibling-gap", 0, "horizontal spacing between siblings")

	return cmd
}

// runLayout loads the roadmap, computes the layout, and writes output.
func runLayout(cmd *cobra.Command, input, output, format string, opts layout.Options) error {
	logger := loggerFromContext(cmd.Context())

	rm, err := roadmap.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load roadmap %s: %w", input, err)
	}

	prog := newProgress(logger)
	res := layout.Layout(rm.Flatten(), opts)
	prog.done(fmt.Sprintf("Positioned %d nodes", len(res.Positions)))

	for _, w := range res.Warnings {
		printWarning("skipped node %q: %s", w.NodeID, w.Reason)
	}

	var body []byte
	switch format {
	case formatJSON:
		body, err = layout.MarshalDiagram(layout.Export(res))
	case formatDOT:
		body = []byte(render.ToDOT(res, rm))
	case formatSVG:
		body, err = render.RenderSVG(render.ToDOT(res, rm))
	default:
		return fmt.Errorf("unknown format %q (want json, dot, or svg)", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout." + format
	}
	if err := os.WriteFile(outputPath, body, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(res.Positions), len(res.Edges), len(res.Warnings))

	return nil
}
