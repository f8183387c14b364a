package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuditEntry struct {
	ID         uuid.UUID      `json:"id"`
	BoardID    uuid.UUID      `json:"board_id"`
	ActorID    uuid.UUID      `json:"actor_id"`
	Action     string         `json:"action"` // "created", "updated", "moved", "deleted"
	Resource   string         `json:"resource"`
	ResourceID uuid.UUID      `json:"resource_id"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

type AuditRepository interface {
	Record(ctx context.Context, e *AuditEntry) error
	ListByBoard(ctx context.Context, boardID uuid.UUID, limit, offset int) ([]*AuditEntry, error)
	ListByResource(ctx context.Context, boardID uuid.UUID, resource string, resourceID uuid.UUID) ([]*AuditEntry, error)
}
