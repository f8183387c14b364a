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

type CardRepo struct {
	pool *pgxpool.Pool
}

func NewCardRepo(pool *pgxpool.Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

const cardColumns = `id, column_id, title, description, priority, due_date, assignee_id, position, created_at, updated_at`

// Create appends the card at the end of its column. The position subquery
// and the insert run in one serializable transaction so two concurrent
// creates cannot claim the same slot.
func (r *CardRepo) Create(ctx context.Context, c *domain.Card) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("cardRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	err = tx.QueryRow(ctx,
		`INSERT INTO cards (id, column_id, title, description, priority, due_date, assignee_id, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7,
		         (SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE column_id = $2),
		         $8, $9)
		 RETURNING position`,
		c.ID, c.ColumnID, c.Title, c.Description, c.Priority, c.DueDate, c.AssigneeID,
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.Position)
	if err != nil {
		return fmt.Errorf("cardRepo.Create: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("cardRepo.Create: commit: %w", err)
	}

	return nil
}

func (r *CardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var c domain.Card

	err := r.pool.QueryRow(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.ColumnID, &c.Title, &c.Description, &c.Priority, &c.DueDate,
		&c.AssigneeID, &c.Position, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *CardRepo) ListByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE column_id = $1 ORDER BY position`,
		columnID,
	)
	if err != nil {
		return nil, fmt.Errorf("cardRepo.ListByColumn: %w", err)
	}
	defer rows.Close()

	return scanCards(rows, "cardRepo.ListByColumn")
}

func (r *CardRepo) Update(ctx context.Context, c *domain.Card) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET title = $1, description = $2, priority = $3, due_date = $4, updated_at = now()
		 WHERE id = $5`,
		c.Title, c.Description, c.Priority, c.DueDate, c.ID,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CardRepo) Assign(ctx context.Context, id uuid.UUID, assigneeID *uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET assignee_id = $1, updated_at = now() WHERE id = $2`,
		assigneeID, id,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Assign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.Assign: %w", domain.ErrNotFound)
	}

	return nil
}

// Move repositions a card within its column or into another column of the
// same board. The sibling reindex in both scopes and the card's own update
// commit atomically: on any failure nothing is written. Serializable
// isolation makes concurrent moves on overlapping scopes serialize instead
// of interleaving their read-shift-write steps; a serialization failure
// surfaces as an error and the whole move is safe to retry.
func (r *CardRepo) Move(ctx context.Context, id uuid.UUID, mv domain.CardMove) (*domain.Card, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("cardRepo.Move: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var cur reorder.Slot
	err = tx.QueryRow(ctx,
		`SELECT column_id, position FROM cards WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&cur.Parent, &cur.Index)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cardRepo.Move: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cardRepo.Move: %w", err)
	}

	if mv.NewColumnID != cur.Parent {
		// Cross-column move: destination must exist on the same board.
		var curBoard, dstBoard uuid.UUID

		err = tx.QueryRow(ctx, `SELECT board_id FROM columns WHERE id = $1`, cur.Parent).Scan(&curBoard)
		if err != nil {
			return nil, fmt.Errorf("cardRepo.Move: source column: %w", err)
		}

		err = tx.QueryRow(ctx, `SELECT board_id FROM columns WHERE id = $1`, mv.NewColumnID).Scan(&dstBoard)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("cardRepo.Move: destination column: %w", domain.ErrInvalidMove)
		}
		if err != nil {
			return nil, fmt.Errorf("cardRepo.Move: destination column: %w", err)
		}

		if curBoard != dstBoard {
			return nil, fmt.Errorf("cardRepo.Move: cross-board: %w", domain.ErrInvalidMove)
		}
	}

	var dstCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM cards WHERE column_id = $1`,
		mv.NewColumnID,
	).Scan(&dstCount)
	if err != nil {
		return nil, fmt.Errorf("cardRepo.Move: count siblings: %w", err)
	}

	shifts, final, ok := reorder.Plan(cur, mv.NewColumnID, mv.NewPosition, dstCount)
	if !ok {
		// No-op move: return the card untouched, zero writes.
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			return nil, fmt.Errorf("cardRepo.Move: rollback no-op: %w", err)
		}
		return r.GetByID(ctx, id)
	}

	if err := applyShifts(ctx, tx, "cards", "column_id", shifts); err != nil {
		return nil, fmt.Errorf("cardRepo.Move: %w", err)
	}

	var c domain.Card
	err = tx.QueryRow(ctx,
		`UPDATE cards SET column_id = $1, position = $2, updated_at = now()
		 WHERE id = $3
		 RETURNING `+cardColumns,
		final.Parent, final.Index, id,
	).Scan(
		&c.ID, &c.ColumnID, &c.Title, &c.Description, &c.Priority, &c.DueDate,
		&c.AssigneeID, &c.Position, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("cardRepo.Move: update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("cardRepo.Move: commit: %w", err)
	}

	return &c, nil
}

// Delete removes the card and shifts the siblings above it down one slot so
// the column's ordering stays dense.
func (r *CardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("cardRepo.Delete: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var slot reorder.Slot
	err = tx.QueryRow(ctx,
		`DELETE FROM cards WHERE id = $1 RETURNING column_id, position`,
		id,
	).Scan(&slot.Parent, &slot.Index)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("cardRepo.Delete: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("cardRepo.Delete: %w", err)
	}

	if err := applyShifts(ctx, tx, "cards", "column_id", []reorder.Shift{reorder.Removal(slot)}); err != nil {
		return fmt.Errorf("cardRepo.Delete: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("cardRepo.Delete: commit: %w", err)
	}

	return nil
}

func scanCards(rows pgx.Rows, caller string) ([]*domain.Card, error) {
	var cards []*domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(
			&c.ID, &c.ColumnID, &c.Title, &c.Description, &c.Priority, &c.DueDate,
			&c.AssigneeID, &c.Position, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		cards = append(cards, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return cards, nil
}
