package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/kinship/pkg/cache"
	"github.com/matzehuels/kinship/pkg/lineage"
	"github.com/matzehuels/kinship/pkg/metrics"
	"github.com/matzehuels/kinship/pkg/observability"
	"github.com/matzehuels/kinship/pkg/record"
)

// Analyze groups people into family units, assigns generations and computes
// per-person metrics. Grouping and metrics read the same snapshot and run
// concurrently. Results are cached by a hash of the snapshot.
func (r *Runner) Analyze(ctx context.Context, people []record.Person, opts AnalyzeOptions) (*Analysis, error) {
	data, err := record.MarshalPeople(people)
	if err != nil {
		return nil, fmt.Errorf("hash people: %w", err)
	}
	key := r.Keyer.AnalysisKey(cache.Hash(data), cache.AnalysisKeyOpts{Version: AnalysisVersion})

	if !opts.Refresh {
		var cached Analysis
		if r.loadCached(ctx, "analysis", key, &cached) {
			cached.CacheHit = true
			r.Logger.Debug("analysis cache hit", "people", cached.People)
			return &cached, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, len(people))
	start := time.Now()

	a := &Analysis{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		a.Lineage = lineage.Analyze(people)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		res := metrics.Compute(people)
		a.People = len(res.People)
		a.Metrics = res.Metrics
		return nil
	})
	if err := g.Wait(); err != nil {
		hooks.OnAnalyzeComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	a.Duration = time.Since(start)
	hooks.OnAnalyzeComplete(ctx, len(a.Lineage.Units), a.Lineage.CyclicEdges, a.Duration, nil)

	if a.Lineage.CyclicEdges > 0 {
		r.Logger.Warn("family graph contains cycles",
			"cyclic_edges", a.Lineage.CyclicEdges,
			"unresolved_units", a.Lineage.Unresolved)
	}
	r.Logger.Info("analyzed",
		"people", a.People,
		"units", len(a.Lineage.Units),
		"generations", a.Generations(),
		"duration", a.Duration)

	r.storeCached(ctx, "analysis", key, a, cache.TTLAnalysis)
	return a, nil
}
