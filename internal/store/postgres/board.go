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

type BoardRepo struct {
	pool *pgxpool.Pool
}

func NewBoardRepo(pool *pgxpool.Pool) *BoardRepo {
	return &BoardRepo{pool: pool}
}

const boardColumns = `id, project_id, owner_id, title, description, visibility, created_at, updated_at`

func (r *BoardRepo) Create(ctx context.Context, b *domain.Board) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO boards (id, project_id, owner_id, title, description, visibility, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.ProjectID, b.OwnerID, b.Title, b.Description, b.Visibility, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Create: %w", err)
	}

	return nil
}

func (r *BoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var b domain.Board

	err := r.pool.QueryRow(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.ProjectID, &b.OwnerID, &b.Title, &b.Description, &b.Visibility, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", err)
	}

	return &b, nil
}

// ListByUser returns the boards the user is a member of, most recently
// updated first.
func (r *BoardRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.id, b.project_id, b.owner_id, b.title, b.description, b.visibility, b.created_at, b.updated_at
		 FROM boards b
		 JOIN board_members m ON m.board_id = b.id
		 WHERE m.user_id = $1
		 ORDER BY b.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	return scanBoards(rows, "boardRepo.ListByUser")
}

func (r *BoardRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Board, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE project_id = $1 ORDER BY created_at`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.ListByProject: %w", err)
	}
	defer rows.Close()

	return scanBoards(rows, "boardRepo.ListByProject")
}

func (r *BoardRepo) Update(ctx context.Context, b *domain.Board) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE boards SET title = $1, description = $2, visibility = $3, updated_at = now()
		 WHERE id = $4`,
		b.Title, b.Description, b.Visibility, b.ID,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the board and everything under it. Presence keys in redis
// are purged separately by the caller.
func (r *BoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("boardRepo.Delete: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`DELETE FROM cards WHERE column_id IN (SELECT id FROM columns WHERE board_id = $1)`, id,
	); err != nil {
		return fmt.Errorf("boardRepo.Delete: cards: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM columns WHERE board_id = $1`, id); err != nil {
		return fmt.Errorf("boardRepo.Delete: columns: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM labels WHERE board_id = $1`, id); err != nil {
		return fmt.Errorf("boardRepo.Delete: labels: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM board_members WHERE board_id = $1`, id); err != nil {
		return fmt.Errorf("boardRepo.Delete: members: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("boardRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Delete: %w", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("boardRepo.Delete: commit: %w", err)
	}

	return nil
}

func scanBoards(rows pgx.Rows, caller string) ([]*domain.Board, error) {
	var boards []*domain.Board
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(
			&b.ID, &b.ProjectID, &b.OwnerID, &b.Title, &b.Description,
			&b.Visibility, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		boards = append(boards, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return boards, nil
}
