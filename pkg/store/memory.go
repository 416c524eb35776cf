package store

import (
	"context"
	"sync"

	"github.com/mlindner/coursemap/pkg/roadmap"
	"github.com/mlindner/coursemap/pkg/transcript"
)

// MemoryStore is an in-process store for development and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	roadmaps    map[string]roadmap.Roadmap
	transcripts map[string]transcript.Transcript
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		roadmaps:    make(map[string]roadmap.Roadmap),
		transcripts: make(map[string]transcript.Transcript),
	}
}

func (s *MemoryStore) SaveRoadmap(ctx context.Context, r *roadmap.Roadmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = ensureID(r.ID)
	s.roadmaps[r.ID] = *r
	return nil
}

func (s *MemoryStore) GetRoadmap(ctx context.Context, id string) (*roadmap.Roadmap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roadmaps[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) DeleteRoadmap(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roadmaps[id]; !ok {
		return ErrNotFound
	}
	delete(s.roadmaps, id)
	return nil
}

func (s *MemoryStore) SaveTranscript(ctx context.Context, t *transcript.Transcript) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = ensureID(t.ID)
	s.transcripts[t.ID] = *t
	return nil
}

func (s *MemoryStore) GetTranscript(ctx context.Context, id string) (*transcript.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transcripts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
