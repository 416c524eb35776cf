package render

import (
	"strings"
	"testing"

	"github.com/mlindner/coursemap/pkg/roadmap"
	"github.com/mlindner/coursemap/pkg/roadmap/layout"
)

func sampleRoadmap() roadmap.Roadmap {
	return roadmap.Roadmap{
		Title: "Intro",
		Nodes: []roadmap.Node{
			{ID: "m1", Title: "Module One", Order: 0},
			{ID: "l1", ParentID: "m1", Title: "Lesson One", Order: 0},
		},
	}
}

func TestToDOT(t *testing.T) {
	rm := sampleRoadmap()
	res := layout.Layout(rm.Flatten(), layout.Options{})

	dot := ToDOT(res, rm)

	if !strings.HasPrefix(dot, "digraph roadmap {") {
		t.Errorf("dot does not open a digraph:\n%s", dot)
	}
	for _, want := range []string{
		`"m1" [label="Module One"`,
		`"l1" [label="Lesson One"`,
		`"m1" -> "l1";`,
		`pos="0.00,-0.00!"`, // m1 pinned at the origin
		"fillcolor=lightgoldenrod",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("dot missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTFallsBackToIDLabel(t *testing.T) {
	rm := roadmap.Roadmap{Nodes: []roadmap.Node{{ID: "n1", Title: "N1"}}}
	res := layout.Result{
		Positions: []layout.PositionedNode{{ID: "unknown", Kind: layout.KindLeaf}},
	}

	dot := ToDOT(res, rm)
	if !strings.Contains(dot, `"unknown" [label="unknown"`) {
		t.Errorf("missing ID fallback label:\n%s", dot)
	}
}

func TestToDOTDeterminism(t *testing.T) {
	rm := sampleRoadmap()
	res := layout.Layout(rm.Flatten(), layout.Options{})

	if ToDOT(res, rm) != ToDOT(res, rm) {
		t.Error("ToDOT must be deterministic")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 100.50 60.25" xmlns="http://www.w3.org/2000/svg">body</svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.50 60.25"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="101"`) && !strings.Contains(out, `width="100"`) {
		t.Errorf("width not rewritten: %s", out)
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	in := []byte("<svg>no viewbox</svg>")
	if got := string(normalizeViewBox(in)); got != "<svg>no viewbox</svg>" {
		t.Errorf("unmatched svg must pass through, got %s", got)
	}
}
