package roadmap

import (
	"path/filepath"
	"testing"
)

func TestUnmarshalParentKeyForms(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "snake_case",
			json: `{"nodes":[{"id":"l1","parent_id":"m1","title":"L1","order":0}]}`,
			want: "m1",
		},
		{
			name: "camelCase",
			json: `{"nodes":[{"id":"l1","parentId":"m1","title":"L1","order":0}]}`,
			want: "m1",
		},
		{
			name: "snake_case wins over camelCase",
			json: `{"nodes":[{"id":"l1","parent_id":"m1","parentId":"m2","title":"L1","order":0}]}`,
			want: "m1",
		},
		{
			name: "absent",
			json: `{"nodes":[{"id":"m1","title":"M1","order":0}]}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Unmarshal([]byte(tt.json))
			if err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if len(r.Nodes) != 1 {
				t.Fatalf("got %d nodes, want 1", len(r.Nodes))
			}
			if got := r.Nodes[0].ParentID; got != tt.want {
				t.Errorf("ParentID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnmarshalBareNodeList(t *testing.T) {
	data := []byte(`[{"id":"m1","title":"M1","order":0},{"id":"l1","parent_id":"m1","title":"L1","order":0}]`)
	r, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if len(r.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(r.Nodes))
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []Node
		wantIDs []string
		parents map[string]string
	}{
		{
			name: "flat input unchanged",
			nodes: []Node{
				{ID: "m1", Title: "M1"},
				{ID: "l1", ParentID: "m1", Title: "L1"},
			},
			wantIDs: []string{"m1", "l1"},
			parents: map[string]string{"m1": "", "l1": "m1"},
		},
		{
			name: "nested children lifted",
			nodes: []Node{
				{ID: "m1", Title: "M1", Children: []Node{
					{ID: "l1", Title: "L1", Children: []Node{
						{ID: "x1", Title: "X1"},
					}},
					{ID: "l2", Title: "L2"},
				}},
			},
			wantIDs: []string{"m1", "l1", "x1", "l2"},
			parents: map[string]string{"m1": "", "l1": "m1", "x1": "l1", "l2": "m1"},
		},
		{
			name: "explicit parent wins over structural",
			nodes: []Node{
				{ID: "m1", Title: "M1", Children: []Node{
					{ID: "l1", ParentID: "other", Title: "L1"},
				}},
			},
			wantIDs: []string{"m1", "l1"},
			parents: map[string]string{"m1": "", "l1": "other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flat := Flatten(tt.nodes)
			if len(flat) != len(tt.wantIDs) {
				t.Fatalf("got %d nodes, want %d", len(flat), len(tt.wantIDs))
			}
			for i, n := range flat {
				if n.ID != tt.wantIDs[i] {
					t.Errorf("node[%d].ID = %q, want %q", i, n.ID, tt.wantIDs[i])
				}
				if n.Children != nil {
					t.Errorf("node %s still has nested children", n.ID)
				}
				if want := tt.parents[n.ID]; n.ParentID != want {
					t.Errorf("node %s ParentID = %q, want %q", n.ID, n.ParentID, want)
				}
			}
		})
	}
}

func TestRoundTripFile(t *testing.T) {
	r := Roadmap{
		ID:    "r1",
		Title: "Intro Course",
		Nodes: []Node{
			{ID: "m1", Title: "M1", Order: 0},
			{ID: "l1", ParentID: "m1", Title: "L1", Order: 1},
		},
	}

	path := filepath.Join(t.TempDir(), "roadmap.json")
	if err := WriteFile(r, path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if got.ID != r.ID || got.Title != r.Title {
		t.Errorf("header = %q/%q, want %q/%q", got.ID, got.Title, r.ID, r.Title)
	}
	if len(got.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(got.Nodes))
	}
	if got.Nodes[1].ParentID != "m1" {
		t.Errorf("ParentID = %q, want m1", got.Nodes[1].ParentID)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want bool
	}{
		{"complete", Node{ID: "n1", Title: "N1"}, true},
		{"missing id", Node{Title: "N1"}, false},
		{"missing title", Node{ID: "n1"}, false},
		{"empty", Node{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
