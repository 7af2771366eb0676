package ports

import (
	"context"

	"github.com/eliasvillacis/vaya/pkg/domain"
)

// MemoryStore persists the cross-turn subset of a session (conversation
// memory and last-known slots) keyed by session ID.
//
// Load returns domain.ErrSessionNotFound when no snapshot exists for the
// session.
type MemoryStore interface {
	Save(ctx context.Context, snap domain.Snapshot) error
	Load(ctx context.Context, sessionID string) (domain.Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}
