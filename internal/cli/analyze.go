package cli

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kinship/pkg/pipeline"
	"github.com/matzehuels/kinship/pkg/record"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	storePath string
	json      bool // print the analysis as JSON
	limit     int  // maximum table rows, 0 for all
	refresh   bool
	noCache   bool
}

// analyzeCommand creates the analyze command, which prints generations and
// per-person metrics.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze [file.ged|people.json]",
		Short: "Show generations and metrics for a family tree",
		Long: `Group people into family units, assign each unit a generation and
compute every person's child count and ancestry depth.

Without an argument the configured store is analyzed. A GEDCOM file is
analyzed directly, with its families applied, without importing it.

Examples:
  kinship analyze
  kinship analyze family.ged
  kinship analyze people.json --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			return c.runAnalyze(cmd, arg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.storePath, "store", "", "file store path (overrides configuration)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the analysis as JSON")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum number of people listed (0 for all)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, arg string, opts analyzeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	src := peopleSource{storePath: opts.storePath, refresh: opts.refresh}
	people, err := c.loadPeople(ctx, runner, arg, src)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	a, err := runner.Analyze(ctx, people, pipeline.AnalyzeOptions{Refresh: opts.refresh})
	if err != nil {
		return err
	}
	prog.debug(fmt.Sprintf("Analyzed %d people", a.People))

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	printSuccess("Analyzed %s", baseName(arg, "store"))
	printStats(a.CacheHit,
		stat{a.People, "people"},
		stat{len(a.Lineage.Units), "units"},
		stat{a.Generations(), "generations"})
	if a.Lineage.CyclicEdges > 0 {
		printWarning("%d parent links form a cycle; %d units could not be leveled",
			a.Lineage.CyclicEdges, a.Lineage.Unresolved)
	}
	printTable([]string{"Person", "Name", "Gen", "Children", "Depth"}, analysisRows(a, people, opts.limit))
	return nil
}

// analysisRows lists analyzed people by generation, then name, then ID.
func analysisRows(a *pipeline.Analysis, people []record.Person, limit int) [][]string {
	byID := make(map[string]record.Person, len(people))
	for _, p := range people {
		if _, dup := byID[p.ID]; !dup && p.ID != "" {
			byID[p.ID] = p
		}
	}

	ids := make([]string, 0, len(a.Metrics))
	for id := range a.Metrics {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(x, y string) int {
		return cmp.Or(
			cmp.Compare(a.Lineage.Generations[x], a.Lineage.Generations[y]),
			cmp.Compare(byID[x].FullName(), byID[y].FullName()),
			cmp.Compare(x, y),
		)
	})
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		m := a.Metrics[id]
		rows = append(rows, []string{
			id,
			displayName(byID[id]),
			strconv.Itoa(a.Lineage.Generations[id]),
			strconv.Itoa(m.ChildCount),
			strconv.Itoa(m.AncestryDepth),
		})
	}
	return rows
}
