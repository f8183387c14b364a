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

type MemberRepo struct {
	pool *pgxpool.Pool
}

func NewMemberRepo(pool *pgxpool.Pool) *MemberRepo {
	return &MemberRepo{pool: pool}
}

func (r *MemberRepo) Add(ctx context.Context, m *domain.BoardMember) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO board_members (id, board_id, user_id, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (board_id, user_id) DO UPDATE SET role = EXCLUDED.role`,
		m.ID, m.BoardID, m.UserID, m.Role, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("memberRepo.Add: %w", err)
	}

	return nil
}

func (r *MemberRepo) Remove(ctx context.Context, boardID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM board_members WHERE board_id = $1 AND user_id = $2`,
		boardID, userID,
	)
	if err != nil {
		return fmt.Errorf("memberRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("memberRepo.Remove: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *MemberRepo) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.BoardMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, board_id, user_id, role, created_at
		 FROM board_members WHERE board_id = $1
		 ORDER BY created_at`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("memberRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	var members []*domain.BoardMember
	for rows.Next() {
		var m domain.BoardMember
		if err := rows.Scan(&m.ID, &m.BoardID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("memberRepo.ListByBoard: scan: %w", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("memberRepo.ListByBoard: rows: %w", err)
	}

	return members, nil
}

// GetRole is the authorization check guarding every board-scoped operation:
// non-membership maps to ErrForbidden, not ErrNotFound.
func (r *MemberRepo) GetRole(ctx context.Context, boardID, userID uuid.UUID) (domain.MemberRole, error) {
	var role domain.MemberRole

	err := r.pool.QueryRow(ctx,
		`SELECT role FROM board_members WHERE board_id = $1 AND user_id = $2`,
		boardID, userID,
	).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("memberRepo.GetRole: %w", domain.ErrForbidden)
	}
	if err != nil {
		return "", fmt.Errorf("memberRepo.GetRole: %w", err)
	}

	return role, nil
}
