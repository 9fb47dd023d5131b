package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/kinship/pkg/cache"
	kerrors "github.com/matzehuels/kinship/pkg/errors"
	"github.com/matzehuels/kinship/pkg/match"
	"github.com/matzehuels/kinship/pkg/observability"
	"github.com/matzehuels/kinship/pkg/record"
	"github.com/matzehuels/kinship/pkg/store"
)

// Import parses opts.Data and merges its people into st.
//
// Every parsed person is resolved against the stored people not yet claimed
// by an earlier record of the same document. Accepted matches only fill
// fields the stored person is missing; unmatched people are created with a
// fresh UUID. Families are then applied as spouse links in both
// directions and as parent references on children whose slot is still
// empty.
func (r *Runner) Import(ctx context.Context, st store.Store, opts ImportOptions) (*ImportReport, error) {
	if err := kerrors.ValidateThreshold(opts.Policy.Threshold); err != nil {
		return nil, err
	}
	if err := kerrors.ValidateSourceLabel(opts.Label); err != nil {
		return nil, err
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = match.NewResolver(match.DefaultWeights())
	}

	start := time.Now()
	report, err := r.runImport(ctx, st, resolver, opts)
	created, merged := 0, 0
	if report != nil {
		created, merged = report.Created, report.Merged
	}
	observability.Pipeline().OnImportComplete(ctx, opts.Source, created, merged, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)

	r.Logger.Info("imported",
		"source", opts.Source,
		"created", report.Created,
		"merged", report.Merged,
		"updated", report.Updated,
		"dry_run", opts.DryRun,
		"duration", report.Duration)
	return report, nil
}

func (r *Runner) runImport(ctx context.Context, st store.Store, resolver *match.Resolver, opts ImportOptions) (*ImportReport, error) {
	parsed, parseHit, err := r.Parse(ctx, opts.Data, ParseOptions{Source: opts.Source, Refresh: opts.Refresh})
	if err != nil {
		return nil, err
	}

	loadStart := time.Now()
	existing, err := st.People(ctx)
	observability.Store().OnLoad(ctx, len(existing), time.Since(loadStart), err)
	if err != nil {
		return nil, fmt.Errorf("load people: %w", err)
	}
	r.Logger.Debug("loaded store", "people", len(existing), "duration", time.Since(loadStart))

	label := opts.Label
	if label == "" {
		label = documentLabel(opts.Data)
	}

	m := newMerger(existing)
	report := &ImportReport{
		Source:   opts.Source,
		Label:    label,
		Parsed:   len(parsed.People),
		Families: len(parsed.Families),
		DryRun:   opts.DryRun,
		ParseHit: parseHit,
	}

	for _, p := range parsed.People {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candidate := p.Clone()
		candidate.ExternalID = externalID(label, p.SourceID)

		res := resolver.FindBestMatch(candidate, m.open)
		d := Decision{
			SourceID: p.SourceID,
			Name:     p.FullName(),
			Score:    res.Score,
			ExactID:  res.ExactID,
		}
		if res.Match != nil {
			d.Candidate = res.Match.ID
		}

		if opts.Policy.Accept(res) {
			d.PersonID = m.claim(res.Index, candidate)
			d.Merged = true
			report.Merged++
		} else {
			d.PersonID = m.create(candidate)
			report.Created++
		}
		m.bySource[p.SourceID] = d.PersonID
		report.Decisions = append(report.Decisions, d)

		r.Logger.Debug("resolved person",
			"source_id", d.SourceID,
			"name", d.Name,
			"person", d.PersonID,
			"score", d.Score,
			"merged", d.Merged)
	}

	for _, f := range parsed.Families {
		if !m.link(f) {
			report.SkippedFamilies++
			r.Logger.Warn("family has no known members", "family", f.SourceID)
		}
	}

	report.Updated = len(m.dirty)
	report.People = m.pool
	if opts.DryRun {
		return report, nil
	}
	if err := m.persist(ctx, st); err != nil {
		return nil, err
	}
	return report, nil
}

// externalID builds the external identifier of a parsed person. GEDCOM
// pointers are only unique within their document, so the ID is always
// qualified by a label.
func externalID(label, sourceID string) string {
	if sourceID == "" {
		return ""
	}
	return label + ":" + sourceID
}

// documentLabel derives a label from the document content, so re-importing
// the same file resolves by external ID while unrelated files never share one.
func documentLabel(data []byte) string {
	return "doc-" + cache.Hash(data)[:12]
}

// merger holds the working set of an import. pool[:stored] are people loaded
// from the store, the rest are created during this import. open lists the
// stored people still available for matching; openPos maps them into pool.
type merger struct {
	pool     []record.Person
	stored   int
	open     []record.Person
	openPos  []int
	pos      map[string]int    // person ID -> pool index
	bySource map[string]string // parsed source ID -> person ID
	dirty    map[int]bool      // stored pool indexes that changed
}

func newMerger(existing []record.Person) *merger {
	m := &merger{
		pool:     make([]record.Person, 0, len(existing)),
		pos:      make(map[string]int, len(existing)),
		bySource: make(map[string]string),
		dirty:    make(map[int]bool),
	}
	for _, p := range existing {
		if p.ID == "" {
			continue
		}
		if _, dup := m.pos[p.ID]; dup {
			continue
		}
		m.pos[p.ID] = len(m.pool)
		m.pool = append(m.pool, p.Clone())
	}
	m.stored = len(m.pool)
	m.open = make([]record.Person, len(m.pool))
	m.openPos = make([]int, len(m.pool))
	for i, p := range m.pool {
		m.open[i] = p
		m.openPos[i] = i
	}
	return m
}

func (m *merger) create(p record.Person) string {
	p.ID = uuid.NewString()
	m.pos[p.ID] = len(m.pool)
	m.pool = append(m.pool, p)
	return p.ID
}

// claim merges src into the open person at index j and withdraws that
// person from further matching.
func (m *merger) claim(j int, src record.Person) string {
	i := m.openPos[j]
	m.open = slices.Delete(m.open, j, j+1)
	m.openPos = slices.Delete(m.openPos, j, j+1)
	if fillEmpty(&m.pool[i], src) {
		m.touch(i)
	}
	return m.pool[i].ID
}

// link applies a family. It reports false when no member resolved.
func (m *merger) link(f record.Family) bool {
	h, hasH := m.resolve(f.HusbandID)
	w, hasW := m.resolve(f.WifeID)
	found := hasH || hasW

	if hasH && hasW && h != w {
		if m.pool[h].AddSpouse(m.pool[w].ID) {
			m.touch(h)
		}
		if m.pool[w].AddSpouse(m.pool[h].ID) {
			m.touch(w)
		}
	}

	for _, cid := range f.ChildIDs {
		c, ok := m.resolve(cid)
		if !ok {
			continue
		}
		found = true
		if hasH && c != h && m.pool[c].FatherID == "" {
			m.pool[c].FatherID = m.pool[h].ID
			m.touch(c)
		}
		if hasW && c != w && m.pool[c].MotherID == "" {
			m.pool[c].MotherID = m.pool[w].ID
			m.touch(c)
		}
	}
	return found
}

func (m *merger) resolve(sourceID string) (int, bool) {
	id, ok := m.bySource[sourceID]
	if !ok {
		return 0, false
	}
	i, ok := m.pos[id]
	return i, ok
}

func (m *merger) touch(i int) {
	if i < m.stored {
		m.dirty[i] = true
	}
}

// persist creates new people first so updates never reference an ID the
// store has not seen. On failure a buffering store drops the partial write;
// write-through stores keep whatever succeeded.
func (m *merger) persist(ctx context.Context, st store.Store) error {
	if err := m.write(ctx, st); err != nil {
		if d, ok := st.(store.Discarder); ok {
			d.Discard()
		}
		return err
	}
	return nil
}

func (m *merger) write(ctx context.Context, st store.Store) error {
	hooks := observability.Store()
	for _, p := range m.pool[m.stored:] {
		_, err := st.Create(ctx, p)
		hooks.OnWrite(ctx, "create", p.ID, err)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.ID, err)
		}
	}
	for i := 0; i < m.stored; i++ {
		if !m.dirty[i] {
			continue
		}
		p := m.pool[i]
		err := st.Update(ctx, p)
		hooks.OnWrite(ctx, "update", p.ID, err)
		if err != nil {
			return fmt.Errorf("update %s: %w", p.ID, err)
		}
	}
	return nil
}

// fillEmpty copies every field of src into dst that dst leaves empty.
// Identity and relationship fields are not touched. It reports whether dst
// changed.
func fillEmpty(dst *record.Person, src record.Person) bool {
	changed := false
	fill := func(d *string, s string) {
		if *d == "" && s != "" {
			*d = s
			changed = true
		}
	}
	fill(&dst.SourceID, src.SourceID)
	fill(&dst.ExternalID, src.ExternalID)
	fill(&dst.FirstName, src.FirstName)
	fill(&dst.LastName, src.LastName)
	fill(&dst.MaidenName, src.MaidenName)
	fill(&dst.PlaceOfBirth, src.PlaceOfBirth)
	// A date and its approximation are never both set.
	if dst.DateOfBirth == "" && dst.BirthApprox == "" {
		fill(&dst.DateOfBirth, src.DateOfBirth)
		fill(&dst.BirthApprox, src.BirthApprox)
	}
	if dst.DateOfDeath == "" && dst.DeathApprox == "" {
		fill(&dst.DateOfDeath, src.DateOfDeath)
		fill(&dst.DeathApprox, src.DeathApprox)
	}
	if dst.Gender == record.GenderUnknown && src.Gender != record.GenderUnknown {
		dst.Gender = src.Gender
		changed = true
	}
	return changed
}
