package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kinship/pkg/gedcom"
	"github.com/matzehuels/kinship/pkg/pipeline"
	"github.com/matzehuels/kinship/pkg/record"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output  string // output file path (stdout if empty)
	raw     bool   // emit people and families as parsed, without linking
	refresh bool   // bypass the parse cache
	noCache bool   // disable caching entirely
}

// parseCommand creates the parse command, which converts a GEDCOM file to a
// JSON person list.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <file.ged>",
		Short: "Convert a GEDCOM file to JSON",
		Long: `Parse a GEDCOM file and write its people as JSON.

By default family records are applied to the people: children get their
parent IDs and couples list each other as spouses, all keyed by the GEDCOM
pointers (@I1@). With --raw the people and families are written as parsed.

Examples:
  kinship parse family.ged                  # Linked people to stdout
  kinship parse family.ged -o people.json   # Write to a file
  kinship parse family.ged --raw            # People and families, unlinked`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "write parsed people and families without linking")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, path string, opts parseOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, hit, err := runner.Parse(ctx, data, pipeline.ParseOptions{Source: filepath.Base(path), Refresh: opts.refresh})
	if err != nil {
		return err
	}
	prog.debug(fmt.Sprintf("Parsed %d people", len(res.People)))

	write := func(w io.Writer) error {
		if opts.raw {
			return writeResult(res, w)
		}
		return record.WritePeople(gedcom.Link(res), w)
	}

	if opts.output == "" {
		return write(stdout)
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	printSuccess("Parsed %s", filepath.Base(path))
	printStats(hit, stat{len(res.People), "people"}, stat{len(res.Families), "families"})
	printFile(opts.output)
	return nil
}

// writeResult writes res as indented JSON.
func writeResult(res gedcom.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
