// Package render exports family-unit graphs as images.
//
// The [nodelink] subpackage produces Graphviz DOT and SVG. [ToPDF] and
// [ToPNG] convert any SVG to other formats using the external rsvg-convert
// tool (from librsvg).
//
//	dot := nodelink.ToDOT(analysis.Lineage, people, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/kinship/pkg/render/nodelink
package render
