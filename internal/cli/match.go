package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	kerrors "github.com/matzehuels/kinship/pkg/errors"
	"github.com/matzehuels/kinship/pkg/gedcom"
	"github.com/matzehuels/kinship/pkg/match"
	"github.com/matzehuels/kinship/pkg/record"
)

// matchOpts holds the command-line flags for the match command.
type matchOpts struct {
	first      string
	last       string
	maiden     string
	born       string
	place      string
	externalID string

	storePath string
	threshold float64 // overrides the configured threshold when the flag is set
}

// matchCommand creates the match command, which looks up the stored person
// most likely to be the described individual.
func (c *CLI) matchCommand() *cobra.Command {
	var opts matchOpts

	cmd := &cobra.Command{
		Use:   "match [people.json|file.ged]",
		Short: "Find the stored person best matching a description",
		Long: `Score a described person against a set of people and print the best
candidate, its score and whether it reaches the merge threshold.

Candidates come from the configured store unless a JSON person list or a
GEDCOM file is given.

Examples:
  kinship match --first Anna --last Miller --born 1880
  kinship match --last Miller --born "ABT 1880" --place Boston people.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				opts.threshold = c.Config.Match.Threshold
			}
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			return c.runMatch(cmd, arg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.first, "first", "", "first name")
	cmd.Flags().StringVar(&opts.last, "last", "", "last name")
	cmd.Flags().StringVar(&opts.maiden, "maiden", "", "maiden name")
	cmd.Flags().StringVar(&opts.born, "born", "", "date of birth (YYYY-MM-DD, \"2 MAR 1880\" or free text such as \"ABT 1880\")")
	cmd.Flags().StringVar(&opts.place, "place", "", "place of birth")
	cmd.Flags().StringVar(&opts.externalID, "external-id", "", "identifier from another system")
	cmd.Flags().StringVar(&opts.storePath, "store", "", "file store path (overrides configuration)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", match.DefaultThreshold, "minimum score to treat the match as the same person")

	return cmd
}

// candidate builds the person described by the flags.
func (o matchOpts) candidate() record.Person {
	p := record.Person{
		FirstName:    o.first,
		LastName:     o.last,
		MaidenName:   o.maiden,
		PlaceOfBirth: o.place,
		ExternalID:   o.externalID,
	}
	if iso, ok := gedcom.NormalizeDate(o.born); ok {
		p.DateOfBirth = iso
	} else {
		p.BirthApprox = o.born
	}
	return p
}

func (c *CLI) runMatch(cmd *cobra.Command, arg string, opts matchOpts) error {
	ctx := cmd.Context()

	if opts.first == "" && opts.last == "" && opts.maiden == "" && opts.externalID == "" {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "describe the person with at least one of --first, --last, --maiden or --external-id")
	}
	if err := kerrors.ValidateThreshold(opts.threshold); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	people, err := c.loadPeople(ctx, runner, arg, peopleSource{storePath: opts.storePath})
	if err != nil {
		return err
	}

	cand := opts.candidate()
	res := c.Config.Resolver().FindBestMatch(cand, people)
	if res.Match == nil {
		printWarning("No candidate among %d people", len(people))
		return nil
	}

	policy := match.Policy{Threshold: opts.threshold}
	printKeyValue("Match", fmt.Sprintf("%s (%s)", displayName(*res.Match), res.Match.Key()))
	if born := firstNonEmpty(res.Match.DateOfBirth, res.Match.BirthApprox); born != "" {
		printKeyValue("Born", born)
	}
	printKeyValue("Score", formatScore(res))
	printKeyValue("Threshold", strconv.FormatFloat(opts.threshold, 'g', -1, 64))
	if policy.Accept(res) {
		printSuccess("Same person")
	} else {
		printInfo("Below threshold, would be created as a new person")
	}
	return nil
}

// formatScore renders a match score, marking external ID hits.
func formatScore(res match.Result) string {
	s := strconv.FormatFloat(res.Score, 'f', 1, 64)
	if res.ExactID {
		s += " (external ID)"
	}
	return s
}

// displayName returns the person's full name or a placeholder.
func displayName(p record.Person) string {
	if name := p.FullName(); name != "" {
		return name
	}
	return "(unnamed)"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
