package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboard/corkboard/internal/domain"
	"github.com/corkboard/corkboard/internal/reorder"
)

type ColumnRepo struct {
	pool *pgxpool.Pool
}

func NewColumnRepo(pool *pgxpool.Pool) *ColumnRepo {
	return &ColumnRepo{pool: pool}
}

const columnColumns = `id, board_id, title, position, created_at, updated_at`

// Create appends the column at the end of its board's ordering.
func (r *ColumnRepo) Create(ctx context.Context, c *domain.Column) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("columnRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	err = tx.QueryRow(ctx,
		`INSERT INTO columns (id, board_id, title, position, created_at, updated_at)
		 VALUES ($1, $2, $3,
		         (SELECT COALESCE(MAX(position) + 1, 0) FROM columns WHERE board_id = $2),
		         $4, $5)
		 RETURNING position`,
		c.ID, c.BoardID, c.Title, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.Position)
	if err != nil {
		return fmt.Errorf("columnRepo.Create: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("columnRepo.Create: commit: %w", err)
	}

	return nil
}

func (r *ColumnRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	var c domain.Column

	err := r.pool.QueryRow(ctx,
		`SELECT `+columnColumns+` FROM columns WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.BoardID, &c.Title, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("columnRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("columnRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *ColumnRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columnColumns+` FROM columns WHERE board_id = $1 ORDER BY position`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("columnRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	var columns []*domain.Column
	for rows.Next() {
		var c domain.Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Title, &c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("columnRepo.ListByBoard: scan: %w", err)
		}
		columns = append(columns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("columnRepo.ListByBoard: rows: %w", err)
	}

	return columns, nil
}

func (r *ColumnRepo) Rename(ctx context.Context, id uuid.UUID, title string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE columns SET title = $1, updated_at = now() WHERE id = $2`,
		title, id,
	)
	if err != nil {
		return fmt.Errorf("columnRepo.Rename: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("columnRepo.Rename: %w", domain.ErrNotFound)
	}

	return nil
}

// Move repositions a column within its board. The board is the topmost
// scope, so only the same-scope branch of the reorder plan ever applies;
// shifted siblings and the moved column commit in one serializable
// transaction.
func (r *ColumnRepo) Move(ctx context.Context, id uuid.UUID, newPosition int) (*domain.Column, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("columnRepo.Move: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var cur reorder.Slot
	err = tx.QueryRow(ctx,
		`SELECT board_id, position FROM columns WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&cur.Parent, &cur.Index)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("columnRepo.Move: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("columnRepo.Move: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM columns WHERE board_id = $1`,
		cur.Parent,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("columnRepo.Move: count siblings: %w", err)
	}

	shifts, final, ok := reorder.Plan(cur, cur.Parent, newPosition, count)
	if !ok {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			return nil, fmt.Errorf("columnRepo.Move: rollback no-op: %w", err)
		}
		return r.GetByID(ctx, id)
	}

	if err := applyShifts(ctx, tx, "columns", "board_id", shifts); err != nil {
		return nil, fmt.Errorf("columnRepo.Move: %w", err)
	}

	var c domain.Column
	err = tx.QueryRow(ctx,
		`UPDATE columns SET position = $1, updated_at = now()
		 WHERE id = $2
		 RETURNING `+columnColumns,
		final.Index, id,
	).Scan(&c.ID, &c.BoardID, &c.Title, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("columnRepo.Move: update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("columnRepo.Move: commit: %w", err)
	}

	return &c, nil
}

// Delete removes the column together with its cards and closes the position
// gap among the remaining columns.
func (r *ColumnRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("columnRepo.Delete: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM cards WHERE column_id = $1`, id); err != nil {
		return fmt.Errorf("columnRepo.Delete: cards: %w", err)
	}

	var slot reorder.Slot
	err = tx.QueryRow(ctx,
		`DELETE FROM columns WHERE id = $1 RETURNING board_id, position`,
		id,
	).Scan(&slot.Parent, &slot.Index)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("columnRepo.Delete: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("columnRepo.Delete: %w", err)
	}

	if err := applyShifts(ctx, tx, "columns", "board_id", []reorder.Shift{reorder.Removal(slot)}); err != nil {
		return fmt.Errorf("columnRepo.Delete: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("columnRepo.Delete: commit: %w", err)
	}

	return nil
}
