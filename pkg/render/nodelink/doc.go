// Package nodelink draws family-unit graphs as node-link diagrams.
//
// Each family unit becomes one box listing its members; an arrow runs from
// a parents' unit to a children's unit. Units of the same generation share a
// rank, so the diagram reads top to bottom from the oldest generation.
//
// # Usage
//
//	res := lineage.Analyze(people)
//	dot := nodelink.ToDOT(res, people, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: adds the generation number and life dates to each box
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
