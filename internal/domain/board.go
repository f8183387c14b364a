package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type BoardVisibility string

const (
	BoardPrivate BoardVisibility = "private"
	BoardTeam    BoardVisibility = "team"
	BoardPublic  BoardVisibility = "public"
)

// Valid reports whether v is one of the supported visibility levels.
func (v BoardVisibility) Valid() bool {
	switch v {
	case BoardPrivate, BoardTeam, BoardPublic:
		return true
	default:
		return false
	}
}

type Board struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   *uuid.UUID      `json:"project_id,omitempty"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Visibility  BoardVisibility `json:"visibility"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MemberRole is the per-board authorization level. Viewers may read but
// never mutate board contents.
type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
	RoleViewer MemberRole = "viewer"
)

func (r MemberRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	default:
		return false
	}
}

// CanEdit reports whether the role may mutate board contents (columns,
// cards, labels, comments).
func (r MemberRole) CanEdit() bool {
	return r == RoleAdmin || r == RoleMember
}

type BoardMember struct {
	ID        uuid.UUID  `json:"id"`
	BoardID   uuid.UUID  `json:"board_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Role      MemberRole `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

type BoardRepository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*Board, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Board, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Board, error)
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MemberRepository interface {
	Add(ctx context.Context, m *BoardMember) error
	Remove(ctx context.Context, boardID, userID uuid.UUID) error
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*BoardMember, error)

	// GetRole returns ErrForbidden when the user is not a member of the board.
	GetRole(ctx context.Context, boardID, userID uuid.UUID) (MemberRole, error)
}
