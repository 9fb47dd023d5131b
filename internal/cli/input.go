package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/kinship/pkg/gedcom"
	"github.com/matzehuels/kinship/pkg/pipeline"
	"github.com/matzehuels/kinship/pkg/record"
)

// Input kinds recognized by loadPeople.
const (
	inputGEDCOM = "gedcom"
	inputJSON   = "json"
	inputStore  = "store"
)

// inputKind classifies a command's people argument. An empty argument reads
// the configured store; ".json" files are person lists; anything else is
// treated as GEDCOM.
func inputKind(arg string) string {
	switch {
	case arg == "":
		return inputStore
	case strings.EqualFold(filepath.Ext(arg), ".json"):
		return inputJSON
	default:
		return inputGEDCOM
	}
}

// peopleSource carries the options shared by the commands that read people.
type peopleSource struct {
	storePath string // file store location, overriding the configuration
	refresh   bool   // bypass cache reads
}

// loadPeople reads people from a GEDCOM file, a JSON person list or the
// store. GEDCOM families are projected onto the parsed people so they can be
// analyzed without importing them first.
func (c *CLI) loadPeople(ctx context.Context, runner *pipeline.Runner, arg string, src peopleSource) ([]record.Person, error) {
	switch inputKind(arg) {
	case inputGEDCOM:
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
		res, _, err := runner.Parse(ctx, data, pipeline.ParseOptions{Source: filepath.Base(arg), Refresh: src.refresh})
		if err != nil {
			return nil, err
		}
		return gedcom.Link(res), nil
	case inputJSON:
		return record.ReadPeopleFile(arg)
	default:
		st, err := c.openStore(ctx, src.storePath)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.People(ctx)
	}
}

// baseName returns the file name of path without its extension, or
// fallback when path is empty.
func baseName(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
