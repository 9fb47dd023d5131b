package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	kerrors "github.com/matzehuels/kinship/pkg/errors"
	"github.com/matzehuels/kinship/pkg/pipeline"
	"github.com/matzehuels/kinship/pkg/render/nodelink"
)

// Output formats accepted by the render command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string  // output file path
	format    string  // dot, svg, pdf or png; derived from output when empty
	detailed  bool    // add generations and life dates to labels
	scale     float64 // PNG scale factor
	storePath string
	refresh   bool
	noCache   bool
}

// renderCommand creates the render command, which draws family units ranked
// by generation.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "render [file.ged|people.json]",
		Short: "Draw the family tree as a graph of family units",
		Long: `Render family units as a top-down graph with one rank per generation.

Without an argument the configured store is rendered. The format follows
the output file extension unless --format is given. PDF and PNG output
require rsvg-convert (librsvg).

Examples:
  kinship render family.ged                     # family.svg
  kinship render -o tree.pdf
  kinship render family.ged -f dot -o family.dot --detailed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			opts.format = renderFormat(opts.format, opts.output)
			if err := kerrors.ValidateChoice("format", opts.format, formatDOT, formatSVG, formatPDF, formatPNG); err != nil {
				return err
			}
			if opts.output == "" {
				opts.output = baseName(arg, appName) + "." + opts.format
			}
			return c.runRender(cmd.Context(), arg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), dot, pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show generations and life dates")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.storePath, "store", "", "file store path (overrides configuration)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// renderFormat returns format when set, else the extension of output, else svg.
func renderFormat(format, output string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return formatSVG
}

func (c *CLI) runRender(ctx context.Context, arg string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	people, err := c.loadPeople(ctx, runner, arg, peopleSource{storePath: opts.storePath, refresh: opts.refresh})
	if err != nil {
		return err
	}
	a, err := runner.Analyze(ctx, people, pipeline.AnalyzeOptions{Refresh: opts.refresh})
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	dot := nodelink.ToDOT(a.Lineage, people, nodelink.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(dot)
	case formatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	case formatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, opts.scale)
	default:
		data, err = nodelink.RenderSVG(ctx, dot)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	prog.debug("Rendered " + opts.format)

	printSuccess("Rendered %d family units", len(a.Lineage.Units))
	printFile(opts.output)
	return nil
}
