package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkboard/corkboard/internal/auth"
	"github.com/corkboard/corkboard/internal/domain"
)

// memUserRepo is a minimal in-memory UserRepository for auth tests.
type memUserRepo struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    map[uuid.UUID]*domain.User{},
		byEmail: map[string]*domain.User{},
	}
}

func (m *memUserRepo) Create(_ context.Context, u *domain.User) error {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("memUserRepo.GetByID: %w", domain.ErrNotFound)
	}
	return u, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("memUserRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	return u, nil
}

func (m *memUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUserRepo) Update(_ context.Context, u *domain.User) error {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if u, ok := m.byID[id]; ok {
		delete(m.byEmail, u.Email)
		delete(m.byID, id)
	}
	return nil
}

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(repo domain.UserRepository) *auth.Service {
	return auth.NewService(repo, testSecret, 15*time.Minute, 24*time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("register hashes password", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(newMemUserRepo())
		user, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotContains(t, user.PasswordHash, "hunter22")
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(newMemUserRepo())
		_, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "ada@example.com", "other", "Ada Again")
		assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
	})

	t.Run("login issues tokens", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(newMemUserRepo())
		user, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
		require.NoError(t, err)

		access, refresh, err := svc.Login(ctx, "ada@example.com", "hunter22")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		claims, err := auth.ValidateToken(testSecret, access)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(newMemUserRepo())
		_, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(newMemUserRepo())
		_, _, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		repo := newMemUserRepo()
		svc := newTestService(repo)
		user, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
		require.NoError(t, err)

		_, refresh, err := svc.Login(ctx, "ada@example.com", "hunter22")
		require.NoError(t, err)

		access, err := svc.RefreshToken(ctx, refresh)
		require.NoError(t, err)

		claims, err := auth.ValidateToken(testSecret, access)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(newMemUserRepo())
		_, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
		require.NoError(t, err)

		access, _, err := svc.Login(ctx, "ada@example.com", "hunter22")
		require.NoError(t, err)

		_, err = svc.RefreshToken(ctx, access)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("deleted user cannot refresh", func(t *testing.T) {
		t.Parallel()

		repo := newMemUserRepo()
		svc := newTestService(repo)
		user, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada")
		require.NoError(t, err)

		_, refresh, err := svc.Login(ctx, "ada@example.com", "hunter22")
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, user.ID))

		_, err = svc.RefreshToken(ctx, refresh)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		tok, err := auth.IssueAccessToken(testSecret, userID, time.Minute)
		require.NoError(t, err)

		claims, err := auth.ValidateToken(testSecret, tok)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		tok, err := auth.IssueAccessToken(testSecret, userID, time.Minute)
		require.NoError(t, err)

		_, err = auth.ValidateToken("another-secret-another-secret-yes", tok)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		tok, err := auth.IssueAccessToken(testSecret, userID, -time.Minute)
		require.NoError(t, err)

		_, err = auth.ValidateToken(testSecret, tok)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()

		_, err := auth.ValidateToken(testSecret, "not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
