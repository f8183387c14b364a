package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CardPriority string

const (
	PriorityLow    CardPriority = "low"
	PriorityMedium CardPriority = "medium"
	PriorityHigh   CardPriority = "high"
)

func (p CardPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Card is a positioned entity scoped to its column: positions of a column's
// cards are dense and zero-based, maintained by the transactional move and
// delete operations.
type Card struct {
	ID          uuid.UUID    `json:"id"`
	ColumnID    uuid.UUID    `json:"column_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Priority    CardPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	AssigneeID  *uuid.UUID   `json:"assignee_id,omitempty"`
	Position    int          `json:"position"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CardMove is the client-facing reposition request: a destination column on
// the same board and a target index within it.
type CardMove struct {
	NewColumnID uuid.UUID
	NewPosition int
}

type CardRepository interface {
	// Create appends the card at the end of its column's ordering.
	Create(ctx context.Context, c *Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*Card, error)
	ListByColumn(ctx context.Context, columnID uuid.UUID) ([]*Card, error)
	Update(ctx context.Context, c *Card) error
	Assign(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID) error

	// Move repositions the card within its column or into another column of
	// the same board, shifting siblings in both scopes atomically. A
	// destination column on a different board yields ErrInvalidMove with no
	// writes performed. The requested position is clamped to the valid range;
	// moving a card onto its current slot is a no-op.
	Move(ctx context.Context, id uuid.UUID, mv CardMove) (*Card, error)

	// Delete removes the card and closes the position gap it leaves.
	Delete(ctx context.Context, id uuid.UUID) error
}
