// Package pipeline orchestrates kinship's import and analysis flows.
//
// This package ties the pure core packages (gedcom, match, lineage, metrics)
// to the outside world: a [store.Store] holding the family tree and a
// [cache.Cache] holding parse and analysis results. The CLI and any other
// front end go through a [Runner] so caching and logging behave the same
// everywhere.
//
// # Stages
//
//  1. Parse: GEDCOM text into people and families, cached by input hash
//  2. Import: resolve parsed people against the store, merge or create them,
//     link families and persist
//  3. Analyze: group people into family units, level generations and
//     compute per-person metrics, cached by a hash of the people snapshot
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	report, err := runner.Import(ctx, st, pipeline.ImportOptions{
//	    Data:   gedcomBytes,
//	    Source: "ancestry",
//	    Policy: match.Policy{Threshold: match.DefaultThreshold},
//	})
//
//	people, _ := st.People(ctx)
//	analysis, err := runner.Analyze(ctx, people, pipeline.AnalyzeOptions{})
package pipeline

import (
	"time"

	"github.com/matzehuels/kinship/pkg/lineage"
	"github.com/matzehuels/kinship/pkg/match"
	"github.com/matzehuels/kinship/pkg/metrics"
	"github.com/matzehuels/kinship/pkg/record"
)

// AnalysisVersion identifies the analysis output format in cache keys.
const AnalysisVersion = 1

// =============================================================================
// Options
// =============================================================================

// ParseOptions configures [Runner.Parse].
type ParseOptions struct {
	// Source names the input in logs and hooks, typically the file name.
	Source string

	// Refresh bypasses the cache read; the fresh result is still stored.
	Refresh bool
}

// ImportOptions configures [Runner.Import].
type ImportOptions struct {
	// Data is the GEDCOM document.
	Data []byte

	// Source is the file name used in logs.
	Source string

	// Label prefixes the external IDs of imported people ("label:@I1@").
	// Importing the same file with the same label again then resolves every
	// person by external ID. Empty derives "doc-<hash>" from Data, which only
	// the same document content reproduces.
	Label string

	// Resolver scores candidates. Nil uses [match.DefaultWeights].
	Resolver *match.Resolver

	// Policy decides which matches are merged.
	Policy match.Policy

	// DryRun resolves and links without writing to the store.
	DryRun bool

	// Refresh bypasses the parse cache.
	Refresh bool
}

// AnalyzeOptions configures [Runner.Analyze].
type AnalyzeOptions struct {
	// Refresh bypasses the cache read; the fresh result is still stored.
	Refresh bool
}

// =============================================================================
// Results
// =============================================================================

// Decision records how one parsed person was resolved.
type Decision struct {
	SourceID  string  `json:"sourceId"`
	Name      string  `json:"name"`
	PersonID  string  `json:"personId"`            // store ID the person ended up as
	Candidate string  `json:"candidate,omitempty"` // best match, accepted or not
	Score     float64 `json:"score"`
	ExactID   bool    `json:"exactId,omitempty"`
	Merged    bool    `json:"merged"`
}

// ImportReport summarizes an import.
type ImportReport struct {
	Source   string `json:"source"`
	Label    string `json:"label"` // external ID prefix actually used
	Parsed   int    `json:"parsed"`
	Families int    `json:"families"`

	Created int `json:"created"`
	Merged  int `json:"merged"`
	// Updated counts stored people that changed, through merging or linking.
	Updated int `json:"updated"`

	// SkippedFamilies counts families none of whose members were found.
	SkippedFamilies int `json:"skippedFamilies"`

	Decisions []Decision `json:"decisions"`

	// People is the resolved working set: stored people followed by the
	// newly created ones, including all changes.
	People []record.Person `json:"-"`

	DryRun   bool          `json:"dryRun"`
	ParseHit bool          `json:"-"`
	Duration time.Duration `json:"-"`
}

// Analysis is the output of [Runner.Analyze].
type Analysis struct {
	People  int                       `json:"people"`
	Lineage lineage.Result            `json:"lineage"`
	Metrics map[string]metrics.Person `json:"metrics"`

	CacheHit bool          `json:"-"`
	Duration time.Duration `json:"-"`
}

// Generations returns the number of distinct generation levels.
func (a *Analysis) Generations() int {
	maxGen := -1
	for _, u := range a.Lineage.Units {
		maxGen = max(maxGen, u.Generation)
	}
	return maxGen + 1
}
