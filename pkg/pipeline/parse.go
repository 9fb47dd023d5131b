package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/kinship/pkg/cache"
	kerrors "github.com/matzehuels/kinship/pkg/errors"
	"github.com/matzehuels/kinship/pkg/gedcom"
	"github.com/matzehuels/kinship/pkg/observability"
)

// Parse parses a GEDCOM document, using the cache when possible. The second
// return value reports a cache hit.
func (r *Runner) Parse(ctx context.Context, data []byte, opts ParseOptions) (gedcom.Result, bool, error) {
	key := r.Keyer.ParseKey(cache.Hash(data))

	if !opts.Refresh {
		var cached gedcom.Result
		if r.loadCached(ctx, "parse", key, &cached) {
			r.Logger.Debug("parse cache hit", "source", opts.Source)
			return cached, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Source, len(data))
	start := time.Now()

	res, err := gedcom.ParseReader(bytes.NewReader(data))
	if err != nil {
		err = kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "parse %s", opts.Source)
		hooks.OnParseComplete(ctx, opts.Source, 0, 0, time.Since(start), err)
		return gedcom.Result{}, false, err
	}
	hooks.OnParseComplete(ctx, opts.Source, len(res.People), len(res.Families), time.Since(start), nil)

	r.Logger.Info("parsed GEDCOM",
		"source", opts.Source,
		"people", len(res.People),
		"families", len(res.Families),
		"duration", time.Since(start))

	r.storeCached(ctx, "parse", key, res, cache.TTLParse)
	return res, false, nil
}
