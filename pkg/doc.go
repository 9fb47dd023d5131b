// Package pkg holds the kinship libraries.
//
// # Overview
//
// Kinship turns genealogy exports into a deduplicated family tree and
// describes its shape. The packages fall into three groups:
//
//  1. Core - pure, total algorithms with no I/O: [gedcom], [match],
//     [lineage] (built on [dag] and dag/transform) and [metrics], all
//     operating on the [record] types.
//  2. Infrastructure - [store] (file, MongoDB, Neo4j), [cache] (file, Redis),
//     [config], [errors] and [observability].
//  3. Orchestration - [pipeline] ties the core to a store and a cache, and
//     render/nodelink draws the result.
//
// # Data Flow
//
//	GEDCOM file
//	     ↓
//	[gedcom] parse → people + families
//	     ↓
//	[match] resolve each person against the store
//	     ↓
//	[store] create / fill in people, link families
//	     ↓
//	[lineage] family units + generations, [metrics] child counts + depths
//	     ↓
//	render/nodelink → DOT / SVG / PDF / PNG
//
// # Quick Start
//
//	res := gedcom.Parse(text)
//	people := gedcom.Link(res)
//
//	units := lineage.Analyze(people)
//	stats := metrics.Compute(people)
//
//	best := match.FindBestMatch(candidate, people)
//	if (match.Policy{Threshold: match.DefaultThreshold}).Accept(best) {
//	    // same person
//	}
//
// The command-line tool in cmd/kinship wraps these packages; see
// [pipeline.Runner] for the cached import and analysis flows.
package pkg
