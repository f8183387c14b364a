package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Attachment records file metadata only; blob storage lives outside this
// service and is referenced by URL.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	CardID      uuid.UUID `json:"card_id"`
	UploaderID  uuid.UUID `json:"uploader_id"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type AttachmentRepository interface {
	Create(ctx context.Context, a *Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Attachment, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
