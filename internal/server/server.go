// Package server exposes roadmaps, layouts, and transcripts over HTTP.
//
// Endpoints return JSON; errors carry a machine-readable code in the body:
//
//	{"error": {"code": "ROADMAP_NOT_FOUND", "message": "roadmap abc not found"}}
//
// Layout results are cached keyed by a hash of the roadmap content, so a
// re-saved roadmap invalidates its cached layout automatically.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mlindner/coursemap/pkg/cache"
	apperrors "github.com/mlindner/coursemap/pkg/errors"
	"github.com/mlindner/coursemap/pkg/observability"
	"github.com/mlindner/coursemap/pkg/roadmap"
	"github.com/mlindner/coursemap/pkg/roadmap/layout"
	"github.com/mlindner/coursemap/pkg/store"
	"github.com/mlindner/coursemap/pkg/transcript"
)

// Server is the HTTP API for roadmap layout and transcript retrieval.
type Server struct {
	store    store.Store
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *log.Logger
	router   chi.Router
}

// New builds a Server around the given store and cache.
func New(s store.Store, c cache.Cache, ttl time.Duration, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	srv := &Server{store: s, cache: c, cacheTTL: ttl, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", srv.handleHealth)

	r.Route("/roadmaps", func(r chi.Router) {
		r.Post("/", srv.handleSaveRoadmap)
		r.Get("/{id}", srv.handleGetRoadmap)
		r.Delete("/{id}", srv.handleDeleteRoadmap)
		r.Get("/{id}/layout", srv.handleLayout)
	})

	r.Route("/transcripts", func(r chi.Router) {
		r.Post("/", srv.handleSaveTranscript)
		r.Get("/{id}", srv.handleGetTranscript)
	})

	srv.router = r
	return srv
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSaveRoadmap(w http.ResponseWriter, r *http.Request) {
	var rm roadmap.Roadmap
	if err := json.NewDecoder(r.Body).Decode(&rm); err != nil {
		s.writeError(w, http.StatusBadRequest,
			apperrors.Wrap(apperrors.ErrCodeInvalidRoadmap, err, "invalid roadmap body"))
		return
	}

	if err := s.store.SaveRoadmap(r.Context(), &rm); err != nil {
		s.writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeStorage, err, "save roadmap"))
		return
	}

	s.logger.Info("roadmap saved", "id", rm.ID, "nodes", len(rm.Nodes))
	writeJSON(w, http.StatusCreated, rm)
}

func (s *Server) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rm, err := s.store.GetRoadmap(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound,
			apperrors.New(apperrors.ErrCodeRoadmapNotFound, "roadmap %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeStorage, err, "load roadmap %s", id))
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

func (s *Server) handleDeleteRoadmap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.DeleteRoadmap(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound,
			apperrors.New(apperrors.ErrCodeRoadmapNotFound, "roadmap %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeStorage, err, "delete roadmap %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rm, err := s.store.GetRoadmap(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound,
			apperrors.New(apperrors.ErrCodeRoadmapNotFound, "roadmap %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeStorage, err, "load roadmap %s", id))
		return
	}

	body, err := s.layoutFor(ctx, rm)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeInternal, err, "compute layout for %s", id))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// layoutFor returns the serialized diagram for a roadmap, consulting the
// cache first. Cache failures degrade to recomputation, never to errors.
func (s *Server) layoutFor(ctx context.Context, rm *roadmap.Roadmap) ([]byte, error) {
	raw, err := roadmap.Marshal(*rm)
	if err != nil {
		return nil, err
	}
	key := cache.Key("layout", raw)

	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "layout")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	nodes := roadmap.Flatten(rm.Nodes)
	observability.Layout().OnLayoutStart(ctx, len(nodes))
	start := time.Now()
	res := layout.Layout(nodes, layout.Options{})
	observability.Layout().OnLayoutComplete(ctx, len(res.Positions), len(res.Warnings), time.Since(start))

	for _, warn := range res.Warnings {
		s.logger.Warn("layout input warning", "roadmap", rm.ID, "node", warn.NodeID, "reason", warn.Reason)
	}

	body, err := layout.MarshalDiagram(layout.Export(res))
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, body, s.cacheTTL); err != nil {
		s.logger.Warn("layout cache write failed", "roadmap", rm.ID, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "layout", len(body))
	}
	return body, nil
}

func (s *Server) handleSaveTranscript(w http.ResponseWriter, r *http.Request) {
	var tr transcript.Transcript
	if err := json.NewDecoder(r.Body).Decode(&tr); err != nil {
		s.writeError(w, http.StatusBadRequest,
			apperrors.Wrap(apperrors.ErrCodeInvalidTranscript, err, "invalid transcript body"))
		return
	}
	if err := tr.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.store.SaveTranscript(r.Context(), &tr); err != nil {
		s.writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeStorage, err, "save transcript"))
		return
	}

	s.logger.Info("transcript saved", "id", tr.ID, "segments", len(tr.Segments))
	writeJSON(w, http.StatusCreated, tr)
}

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tr, err := s.store.GetTranscript(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound,
			apperrors.New(apperrors.ErrCodeTranscriptNotFound, "transcript %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeStorage, err, "load transcript %s", id))
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	var body errorBody
	body.Error.Code = string(apperrors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(apperrors.ErrCodeInternal)
	}
	body.Error.Message = apperrors.UserMessage(err)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
