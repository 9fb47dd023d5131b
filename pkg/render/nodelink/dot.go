package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kinship/pkg/lineage"
	"github.com/matzehuels/kinship/pkg/record"
	"github.com/matzehuels/kinship/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the generation and life dates to unit labels.
	Detailed bool
}

// ToDOT converts grouped units to Graphviz DOT. people supplies names for
// the member IDs; members missing from people are labeled by ID.
//
// Parallel edges between the same two units are drawn once.
func ToDOT(res lineage.Result, people []record.Person, opts Options) string {
	byID := make(map[string]record.Person, len(people))
	for _, p := range people {
		if _, dup := byID[p.ID]; !dup && p.ID != "" {
			byID[p.ID] = p
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, u := range res.Units {
		label := fmtLabel(u, byID, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [label=%q];\n", unitID(u.ID), label)
	}

	byGen := make(map[int][]int)
	for _, u := range res.Units {
		byGen[u.Generation] = append(byGen[u.Generation], u.ID)
	}
	if len(byGen) > 1 {
		buf.WriteString("\n")
		for _, gen := range slices.Sorted(maps.Keys(byGen)) {
			ids := make([]string, len(byGen[gen]))
			for i, id := range byGen[gen] {
				ids[i] = strconv.Quote(unitID(id))
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
		}
	}

	buf.WriteString("\n")
	seen := make(map[lineage.Edge]bool, len(res.Edges))
	for _, e := range res.Edges {
		if seen[e] {
			continue
		}
		seen[e] = true
		fmt.Fprintf(&buf, "  %q -> %q;\n", unitID(e.From), unitID(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func unitID(id int) string { return "u" + strconv.Itoa(id) }

func fmtLabel(u lineage.Unit, byID map[string]record.Person, detailed bool) string {
	lines := make([]string, 0, len(u.Members)+1)
	for _, id := range u.Members {
		p, ok := byID[id]
		name := p.FullName()
		if !ok || name == "" {
			name = id
		}
		if detailed {
			if span := lifespan(p); span != "" {
				name += " (" + span + ")"
			}
		}
		lines = append(lines, name)
	}
	if detailed {
		lines = append(lines, fmt.Sprintf("generation %d", u.Generation))
	}
	return strings.Join(lines, "\n")
}

// lifespan formats birth and death as "1850 - 1910", "b. 1850" or "d. 1910".
func lifespan(p record.Person) string {
	birth := firstNonEmpty(p.DateOfBirth, p.BirthApprox)
	death := firstNonEmpty(p.DateOfDeath, p.DeathApprox)
	switch {
	case birth != "" && death != "":
		return birth + " - " + death
	case birth != "":
		return "b. " + birth
	case death != "":
		return "d. " + death
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// whose viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
