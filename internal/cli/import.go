package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kinship/pkg/match"
	"github.com/matzehuels/kinship/pkg/pipeline"
)

// importOpts holds the command-line flags for the import command.
type importOpts struct {
	label     string  // prefix for external IDs
	threshold float64 // overrides the configured threshold when the flag is set
	storePath string  // file store path, overriding the configuration
	dryRun    bool
	decisions bool // print one row per parsed person
	json      bool // print the report as JSON
	refresh   bool
	noCache   bool
}

// importCommand creates the import command, which merges a GEDCOM file into
// the person store.
func (c *CLI) importCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import <file.ged>",
		Short: "Merge a GEDCOM file into the family tree store",
		Long: `Import the people and families of a GEDCOM file into the store.

Each parsed person is matched against the stored people. A match whose score
reaches the threshold, or that shares an external ID, is treated as the same
person: fields the stored record lacks are filled in, nothing is overwritten.
Everyone else is created with a new ID. Families then link spouses and fill
missing parent references.

Imported people keep their GEDCOM pointer as external ID, prefixed with the
--source label. Without --source the prefix is derived from the file
content, so importing the same file again merges every person while the
pointers of other files (every export has an @I1@) never collide.

Examples:
  kinship import family.ged
  kinship import family.ged --source ancestry --dry-run --decisions
  kinship import family.ged --store tree.json --threshold 6`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				opts.threshold = c.Config.Match.Threshold
			}
			return c.runImport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.label, "source", "", "label prefixed to external IDs (e.g. ancestry)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", match.DefaultThreshold, "minimum score to merge with a stored person")
	cmd.Flags().StringVar(&opts.storePath, "store", "", "file store path (overrides configuration)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "resolve without writing to the store")
	cmd.Flags().BoolVar(&opts.decisions, "decisions", false, "print the match decision for every person")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the import report as JSON")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runImport(cmd *cobra.Command, path string, opts importOpts) error {
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

	st, err := c.openStore(ctx, opts.storePath)
	if err != nil {
		return err
	}
	defer st.Close()

	prog := newProgress(logger)
	report, err := runner.Import(ctx, st, pipeline.ImportOptions{
		Data:     data,
		Source:   filepath.Base(path),
		Label:    opts.label,
		Resolver: c.Config.Resolver(),
		Policy:   match.Policy{Threshold: opts.threshold},
		DryRun:   opts.dryRun,
		Refresh:  opts.refresh,
	})
	if err != nil {
		return err
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	prog.debug("Import finished")

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printImportReport(report, opts.decisions)
	return nil
}

func printImportReport(r *pipeline.ImportReport, decisions bool) {
	if r.DryRun {
		printWarning("Dry run: nothing was written")
	}
	printSuccess("Imported %s", r.Source)
	printStats(r.ParseHit, stat{r.Parsed, "people"}, stat{r.Families, "families"})
	printKeyValue("Label", r.Label)
	printKeyValue("Created", strconv.Itoa(r.Created))
	printKeyValue("Merged", strconv.Itoa(r.Merged))
	printKeyValue("Updated", strconv.Itoa(r.Updated))
	if r.SkippedFamilies > 0 {
		printWarning("%d families had no known members and were skipped", r.SkippedFamilies)
	}

	if !decisions || len(r.Decisions) == 0 {
		return
	}
	rows := make([][]string, 0, len(r.Decisions))
	for _, d := range r.Decisions {
		action := "created"
		if d.Merged {
			action = "merged"
		}
		score := ""
		if d.Candidate != "" {
			score = formatScore(match.Result{Score: d.Score, ExactID: d.ExactID})
		}
		rows = append(rows, []string{d.SourceID, d.Name, action, d.PersonID, score})
	}
	printTable([]string{"Record", "Name", "Action", "Person", "Score"}, rows)
}
