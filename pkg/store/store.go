// Package store provides persistence for roadmaps and transcripts.
//
// Two backends implement the [Store] interface:
//
//   - memory: in-process storage for development and tests
//   - mongo: MongoDB-backed storage for server deployments
//
// Roadmaps saved without an ID are assigned a UUID; the assigned ID is
// written back to the passed struct so callers can return it.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mlindner/coursemap/pkg/roadmap"
	"github.com/mlindner/coursemap/pkg/transcript"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// Store is the interface for persistence backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// SaveRoadmap creates or replaces a roadmap, assigning an ID if empty.
	SaveRoadmap(ctx context.Context, r *roadmap.Roadmap) error

	// GetRoadmap retrieves a roadmap by ID. Returns ErrNotFound if absent.
	GetRoadmap(ctx context.Context, id string) (*roadmap.Roadmap, error)

	// DeleteRoadmap removes a roadmap. Returns ErrNotFound if absent.
	DeleteRoadmap(ctx context.Context, id string) error

	// SaveTranscript creates or replaces a transcript, assigning an ID if empty.
	SaveTranscript(ctx context.Context, t *transcript.Transcript) error

	// GetTranscript retrieves a transcript by ID. Returns ErrNotFound if absent.
	GetTranscript(ctx context.Context, id string) (*transcript.Transcript, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// ensureID assigns a fresh UUID when id is empty.
func ensureID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
