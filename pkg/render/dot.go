// Package render converts roadmap layouts to DOT and SVG.
//
// The layout engine already decides every node position, so the DOT output
// pins coordinates (pos="x,y!") and rendering uses the neato engine in
// no-op layout mode rather than letting Graphviz re-place nodes.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/mlindner/coursemap/pkg/roadmap"
	"github.com/mlindner/coursemap/pkg/roadmap/layout"
)

// dotScale converts layout user units to Graphviz points.
const dotScale = 1.0

// ToDOT converts a layout result to Graphviz DOT with pinned positions.
// Node labels come from the roadmap titles; branch nodes are drawn filled
// to distinguish modules from leaf lessons. Graphviz's y axis points up,
// so layout y values are negated.
func ToDOT(res layout.Result, rm roadmap.Roadmap) string {
	titles := make(map[string]string, len(rm.Nodes))
	for _, n := range roadmap.Flatten(rm.Nodes) {
		titles[n.ID] = n.Title
	}

	var buf bytes.Buffer
	buf.WriteString("digraph roadmap {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, p := range res.Positions {
		label := titles[p.ID]
		if label == "" {
			label = p.ID
		}
		attrs := fmt.Sprintf("label=%q, pos=\"%.2f,%.2f!\"", label, p.X*dotScale, -p.Y*dotScale)
		if p.Kind == layout.KindBranch {
			attrs += ", style=\"rounded,filled\", fillcolor=lightgoldenrod"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, attrs)
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.SourceID, e.TargetID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	gv.SetLayout(graphviz.NEATO)

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

// normalizeViewBox rewrites the SVG root so the viewBox starts at the
// origin and explicit pixel dimensions are set, which embeds cleanly.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
