package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/corkboard/corkboard/internal/reorder"
)

// applyShifts executes a reorder plan's sibling shifts inside the caller's
// transaction. table and parentCol are compile-time constants supplied by the
// card and column repos ("cards"/"column_id", "columns"/"board_id") and are
// never user input.
func applyShifts(ctx context.Context, tx pgx.Tx, table, parentCol string, shifts []reorder.Shift) error {
	for _, sh := range shifts {
		var err error
		if sh.Hi == reorder.Unbounded {
			//nolint:gosec // G201: identifiers are package constants
			_, err = tx.Exec(ctx,
				fmt.Sprintf(`UPDATE %s SET position = position + $1 WHERE %s = $2 AND position >= $3`, table, parentCol),
				sh.Delta, sh.Parent, sh.Lo,
			)
		} else {
			//nolint:gosec // G201: identifiers are package constants
			_, err = tx.Exec(ctx,
				fmt.Sprintf(`UPDATE %s SET position = position + $1 WHERE %s = $2 AND position >= $3 AND position <= $4`, table, parentCol),
				sh.Delta, sh.Parent, sh.Lo, sh.Hi,
			)
		}
		if err != nil {
			return fmt.Errorf("applyShifts(%s): %w", table, err)
		}
	}
	return nil
}
