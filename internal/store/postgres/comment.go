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

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO comments (id, card_id, author_id, body, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.CardID, c.AuthorID, c.Body, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("commentRepo.Create: %w", err)
	}

	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var c domain.Comment

	err := r.pool.QueryRow(ctx,
		`SELECT id, card_id, author_id, body, created_at, updated_at FROM comments WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.CardID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("commentRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("commentRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *CommentRepo) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, card_id, author_id, body, created_at, updated_at
		 FROM comments WHERE card_id = $1
		 ORDER BY created_at`,
		cardID,
	)
	if err != nil {
		return nil, fmt.Errorf("commentRepo.ListByCard: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.CardID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("commentRepo.ListByCard: scan: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("commentRepo.ListByCard: rows: %w", err)
	}

	return comments, nil
}

func (r *CommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comments SET body = $1, updated_at = now() WHERE id = $2`,
		c.Body, c.ID,
	)
	if err != nil {
		return fmt.Errorf("commentRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("commentRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM comments WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("commentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("commentRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
