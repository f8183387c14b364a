package domain

import (
	"context"

	"github.com/google/uuid"
)

type Label struct {
	ID      uuid.UUID `json:"id"`
	BoardID uuid.UUID `json:"board_id"`
	Name    string    `json:"name"`
	Color   string    `json:"color"`
}

type LabelRepository interface {
	Create(ctx context.Context, l *Label) error
	GetByID(ctx context.Context, id uuid.UUID) (*Label, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Label, error)
	Update(ctx context.Context, l *Label) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Attach/Detach manage the card<->label relation. Attach is idempotent.
	Attach(ctx context.Context, cardID, labelID uuid.UUID) error
	Detach(ctx context.Context, cardID, labelID uuid.UUID) error
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*Label, error)
}
