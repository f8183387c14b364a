package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Column is an ordered list of cards on a board. Position is dense and
// zero-based among the columns of one board: after every committed write the
// positions of a board's columns are exactly {0..n-1}.
type Column struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"board_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ColumnRepository interface {
	// Create appends the column at the end of its board's ordering.
	Create(ctx context.Context, c *Column) error
	GetByID(ctx context.Context, id uuid.UUID) (*Column, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Column, error)
	Rename(ctx context.Context, id uuid.UUID, title string) error

	// Move repositions the column within its board, shifting siblings so the
	// dense position invariant holds. The whole reindex is one transaction.
	// The requested position is clamped to the valid range.
	Move(ctx context.Context, id uuid.UUID, newPosition int) (*Column, error)

	// Delete removes the column, its cards, and closes the position gap.
	Delete(ctx context.Context, id uuid.UUID) error
}
