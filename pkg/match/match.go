package match

import (
	"strconv"
	"strings"

	"github.com/matzehuels/kinship/pkg/record"
)

// Weights are the point values of each scoring signal.
type Weights struct {
	LastName       float64 `toml:"last_name"`
	MaidenName     float64 `toml:"maiden_name"`
	FirstName      float64 `toml:"first_name"`
	BirthYearExact float64 `toml:"birth_year_exact"`
	BirthYearNear  float64 `toml:"birth_year_near"`  // one year apart
	BirthYearClose float64 `toml:"birth_year_close"` // two or three years apart
	Place          float64 `toml:"place"`
	ExternalID     float64 `toml:"external_id"`
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		LastName:       3,
		MaidenName:     3,
		FirstName:      2,
		BirthYearExact: 2,
		BirthYearNear:  1.5,
		BirthYearClose: 1,
		Place:          1,
		ExternalID:     100,
	}
}

// Result is the outcome of [Resolver.FindBestMatch].
type Result struct {
	// Match points into the slice passed to FindBestMatch; nil when nothing
	// scored above zero.
	Match *record.Person
	// Index is the position of Match in that slice, or -1.
	Index int
	Score float64
	// ExactID is set when Match was found through a shared ExternalID.
	ExactID bool
}

// Resolver scores candidates with a fixed set of weights. The zero value is
// not useful; use [NewResolver].
type Resolver struct {
	Weights Weights
}

// NewResolver returns a resolver using w.
func NewResolver(w Weights) *Resolver {
	return &Resolver{Weights: w}
}

// FindBestMatch is shorthand for a resolver with [DefaultWeights].
func FindBestMatch(candidate record.Person, existing []record.Person) Result {
	return NewResolver(DefaultWeights()).FindBestMatch(candidate, existing)
}

// FindBestMatch returns the existing person with the strictly highest score.
// Ties keep the earliest record. A shared ExternalID returns immediately.
func (r *Resolver) FindBestMatch(candidate record.Person, existing []record.Person) Result {
	best := Result{Index: -1}
	c := newProfile(candidate)
	for i := range existing {
		if candidate.ExternalID != "" && candidate.ExternalID == existing[i].ExternalID {
			return Result{Match: &existing[i], Index: i, Score: r.Weights.ExternalID, ExactID: true}
		}
		if s := r.score(c, newProfile(existing[i])); s > best.Score {
			best = Result{Match: &existing[i], Index: i, Score: s}
		}
	}
	return best
}

// Score returns the composite score of a against b, ignoring ExternalID.
// It is not symmetric: a's last name is compared to b's maiden name.
func (r *Resolver) Score(a, b record.Person) float64 {
	return r.score(newProfile(a), newProfile(b))
}

// profile caches the lower-cased fields of one person.
type profile struct {
	first, last, maiden, place string
	year                       int
	hasYear                    bool
}

func newProfile(p record.Person) profile {
	year, ok := BirthYear(p)
	return profile{
		first:   strings.ToLower(strings.TrimSpace(p.FirstName)),
		last:    strings.ToLower(strings.TrimSpace(p.LastName)),
		maiden:  strings.ToLower(strings.TrimSpace(p.MaidenName)),
		place:   strings.ToLower(strings.TrimSpace(p.PlaceOfBirth)),
		year:    year,
		hasYear: ok,
	}
}

func (r *Resolver) score(c, e profile) float64 {
	var s float64
	switch {
	case c.last != "" && c.last == e.last:
		s += r.Weights.LastName
	case c.last != "" && c.last == e.maiden:
		s += r.Weights.MaidenName
	}

	s += r.Weights.FirstName * similarity(c.first, e.first)

	if c.hasYear && e.hasYear {
		switch d := abs(c.year - e.year); {
		case d == 0:
			s += r.Weights.BirthYearExact
		case d == 1:
			s += r.Weights.BirthYearNear
		case d <= 3:
			s += r.Weights.BirthYearClose
		}
	}

	s += r.Weights.Place * similarity(c.place, e.place)
	return s
}

// BirthYear returns the first run of four digits in DateOfBirth, falling back
// to BirthApprox.
func BirthYear(p record.Person) (int, bool) {
	if y, ok := leadingYear(p.DateOfBirth); ok {
		return y, true
	}
	return leadingYear(p.BirthApprox)
}

func leadingYear(s string) (int, bool) {
	run := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			run = 0
			continue
		}
		if run++; run == 4 {
			y, err := strconv.Atoi(s[i-3 : i+1])
			return y, err == nil
		}
	}
	return 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
