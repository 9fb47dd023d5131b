package cache

import "fmt"

// Keyer builds cache keys for each cached stage.
type Keyer interface {
	// ParseKey returns the key for a parsed GEDCOM document.
	ParseKey(inputHash string) string

	// AnalysisKey returns the key for an analysis of a people snapshot.
	AnalysisKey(peopleHash string, opts AnalysisKeyOpts) string
}

// AnalysisKeyOpts holds what besides the input changes an analysis result.
type AnalysisKeyOpts struct {
	// Version is bumped whenever the analysis output format changes.
	Version int `json:"version"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ParseKey returns "parse:<hash>".
func (DefaultKeyer) ParseKey(inputHash string) string {
	return fmt.Sprintf("parse:%s", inputHash)
}

// AnalysisKey hashes the people hash together with the options.
func (DefaultKeyer) AnalysisKey(peopleHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", peopleHash, opts)
}
