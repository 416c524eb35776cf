package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mlindner/coursemap/pkg/cache"
	"github.com/mlindner/coursemap/pkg/roadmap"
	"github.com/mlindner/coursemap/pkg/roadmap/layout"
	"github.com/mlindner/coursemap/pkg/store"
	"github.com/mlindner/coursemap/pkg/transcript"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	s := store.NewMemoryStore()
	logger := log.New(bytes.NewBuffer(nil))
	return New(s, cache.NewNullCache(), time.Minute, logger), s
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRoadmapCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	rm := roadmap.Roadmap{
		Title: "Intro",
		Nodes: []roadmap.Node{
			{ID: "m1", Title: "Module One"},
			{ID: "l1", ParentID: "m1", Title: "Lesson One"},
		},
	}

	rec := doJSON(t, srv, http.MethodPost, "/roadmaps/", rm)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created roadmap.Roadmap
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("created roadmap has no ID")
	}

	rec = doJSON(t, srv, http.MethodGet, "/roadmaps/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got roadmap.Roadmap
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "Intro" || len(got.Nodes) != 2 {
		t.Errorf("roadmap = %+v", got)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/roadmaps/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/roadmaps/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "ROADMAP_NOT_FOUND" {
		t.Errorf("error code = %q", code)
	}
}

func TestRoadmapNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/roadmaps/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "ROADMAP_NOT_FOUND" {
		t.Errorf("error code = %q", code)
	}
}

func TestRoadmapRejectsBadJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/roadmaps/", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "INVALID_ROADMAP" {
		t.Errorf("error code = %q", code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	srv, st := newTestServer(t)

	rm := &roadmap.Roadmap{
		Title: "Intro",
		Nodes: []roadmap.Node{
			{ID: "m1", Title: "Module One"},
			{ID: "l1", ParentID: "m1", Title: "Lesson One"},
			{ID: "l2", ParentID: "m1", Title: "Lesson Two", Order: 1},
		},
	}
	if err := st.SaveRoadmap(context.Background(), rm); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, srv, http.MethodGet, "/roadmaps/"+rm.ID+"/layout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var d layout.Diagram
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if len(d.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(d.Nodes))
	}
	if len(d.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(d.Edges))
	}
}

func TestLayoutUsesCache(t *testing.T) {
	st := store.NewMemoryStore()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := New(st, fc, time.Minute, log.New(bytes.NewBuffer(nil)))

	rm := &roadmap.Roadmap{Nodes: []roadmap.Node{{ID: "m1", Title: "M1"}}}
	if err := st.SaveRoadmap(context.Background(), rm); err != nil {
		t.Fatal(err)
	}

	first := doJSON(t, srv, http.MethodGet, "/roadmaps/"+rm.ID+"/layout", nil)
	second := doJSON(t, srv, http.MethodGet, "/roadmaps/"+rm.ID+"/layout", nil)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status = %d, %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached layout differs from computed layout")
	}
}

func TestTranscriptRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	tr := transcript.Transcript{
		VideoID: "v1",
		Segments: []transcript.Segment{
			{StartTime: 0, EndTime: 5, Text: "hello"},
			{StartTime: 5, EndTime: 10, Text: "world"},
		},
	}

	rec := doJSON(t, srv, http.MethodPost, "/transcripts/", tr)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created transcript.Transcript
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	rec = doJSON(t, srv, http.MethodGet, "/transcripts/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got transcript.Transcript
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.VideoID != "v1" || len(got.Segments) != 2 {
		t.Errorf("transcript = %+v", got)
	}
}

func TestTranscriptRejectsInvalidSegments(t *testing.T) {
	srv, _ := newTestServer(t)

	tr := transcript.Transcript{
		Segments: []transcript.Segment{{StartTime: 5, EndTime: 2, Text: "backwards"}},
	}
	rec := doJSON(t, srv, http.MethodPost, "/transcripts/", tr)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "INVALID_SEGMENT" {
		t.Errorf("error code = %q", code)
	}
}

func TestTranscriptNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/transcripts/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "TRANSCRIPT_NOT_FOUND" {
		t.Errorf("error code = %q", code)
	}
}
