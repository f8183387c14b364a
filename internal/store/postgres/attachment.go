package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboard/corkboard/internal/domain"
)

type AttachmentRepo struct {
	pool *pgxpool.Pool
}

func NewAttachmentRepo(pool *pgxpool.Pool) *AttachmentRepo {
	return &AttachmentRepo{pool: pool}
}

func (r *AttachmentRepo) Create(ctx context.Context, a *domain.Attachment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attachments (id, card_id, uploader_id, file_name, url, content_type, size, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.CardID, a.UploaderID, a.FileName, a.URL, a.ContentType, a.Size, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("attachmentRepo.Create: %w", err)
	}

	return nil
}

func (r *AttachmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	var a domain.Attachment

	err := r.pool.QueryRow(ctx,
		`SELECT id, card_id, uploader_id, file_name, url, content_type, size, created_at
		 FROM attachments WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.CardID, &a.UploaderID, &a.FileName, &a.URL, &a.ContentType, &a.Size, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("attachmentRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("attachmentRepo.GetByID: %w", err)
	}

	return &a, nil
}

func (r *AttachmentRepo) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.Attachment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, card_id, uploader_id, file_name, url, content_type, size, created_at
		 FROM attachments WHERE card_id = $1
		 ORDER BY created_at`,
		cardID,
	)
	if err != nil {
		return nil, fmt.Errorf("attachmentRepo.ListByCard: %w", err)
	}
	defer rows.Close()

	var attachments []*domain.Attachment
	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.ID, &a.CardID, &a.UploaderID, &a.FileName, &a.URL, &a.ContentType, &a.Size, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("attachmentRepo.ListByCard: scan: %w", err)
		}
		attachments = append(attachments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("attachmentRepo.ListByCard: rows: %w", err)
	}

	return attachments, nil
}

func (r *AttachmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM attachments WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("attachmentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attachmentRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
