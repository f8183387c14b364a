package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/corkboard/corkboard/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Projects() domain.ProjectRepository
	Boards() domain.BoardRepository
	Members() domain.MemberRepository
	Columns() domain.ColumnRepository
	Cards() domain.CardRepository
	Labels() domain.LabelRepository
	Comments() domain.CommentRepository
	Attachments() domain.AttachmentRepository
	Audit() domain.AuditRepository
}

// BoardCache abstracts the redis board cache for handler testing.
// *redis.Store satisfies this interface.
type BoardCache interface {
	CacheBoard(ctx context.Context, boardID uuid.UUID, data []byte) error
	CachedBoard(ctx context.Context, boardID uuid.UUID) ([]byte, error)
	InvalidateBoard(ctx context.Context, boardID uuid.UUID) error
	CleanupBoard(ctx context.Context, boardID uuid.UUID) error
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}
