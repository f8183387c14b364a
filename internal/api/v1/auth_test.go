package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/corkboard/corkboard/internal/api/v1"
	"github.com/corkboard/corkboard/internal/auth"
	"github.com/corkboard/corkboard/internal/domain"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		_, api := humatest.New(t)
		svc := &mockAuthService{
			registerFunc: func(_ context.Context, email, password, name string) (*domain.User, error) {
				assert.Equal(t, "ada@example.com", email)
				assert.Equal(t, "Ada", name)
				return &domain.User{ID: userID, Email: email, Name: name, PasswordHash: "secret"}, nil
			},
			loginFunc: func(_ context.Context, _, _ string) (string, string, error) {
				return "access-token", "refresh-token", nil
			},
		}
		v1.RegisterAuthRoutes(api, newMockStore(), svc)

		resp := api.Post("/auth/register", map[string]any{
			"email":    "ada@example.com",
			"password": "hunter2hunter2",
			"name":     "Ada",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			User         *domain.User `json:"user"`
			AccessToken  string       `json:"access_token"`
			RefreshToken string       `json:"refresh_token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, userID, body.User.ID)
		assert.Empty(t, body.User.PasswordHash, "password hash must never leave the server")
		assert.Equal(t, "access-token", body.AccessToken)
		assert.Equal(t, "refresh-token", body.RefreshToken)
	})

	t.Run("duplicate_email", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			registerFunc: func(_ context.Context, _, _, _ string) (*domain.User, error) {
				return nil, auth.ErrUserAlreadyExists
			},
		}
		v1.RegisterAuthRoutes(api, newMockStore(), svc)

		resp := api.Post("/auth/register", map[string]any{
			"email":    "taken@example.com",
			"password": "hunter2hunter2",
			"name":     "Dup",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("short_password_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterAuthRoutes(api, newMockStore(), &mockAuthService{})

		resp := api.Post("/auth/register", map[string]any{
			"email":    "a@example.com",
			"password": "short",
			"name":     "A",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			loginFunc: func(_ context.Context, email, password string) (string, string, error) {
				assert.Equal(t, "ada@example.com", email)
				assert.Equal(t, "hunter2hunter2", password)
				return "access-token", "refresh-token", nil
			},
		}
		v1.RegisterAuthRoutes(api, newMockStore(), svc)

		resp := api.Post("/auth/login", map[string]any{
			"email":    "ada@example.com",
			"password": "hunter2hunter2",
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("invalid_credentials", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			loginFunc: func(_ context.Context, _, _ string) (string, string, error) {
				return "", "", auth.ErrInvalidCredentials
			},
		}
		v1.RegisterAuthRoutes(api, newMockStore(), svc)

		resp := api.Post("/auth/login", map[string]any{
			"email":    "ada@example.com",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			refreshTokenFunc: func(_ context.Context, refreshToken string) (string, error) {
				assert.Equal(t, "valid-refresh", refreshToken)
				return "new-access", nil
			},
		}
		v1.RegisterAuthRoutes(api, newMockStore(), svc)

		resp := api.Post("/auth/refresh", map[string]any{
			"refresh_token": "valid-refresh",
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("invalid_token", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			refreshTokenFunc: func(_ context.Context, _ string) (string, error) {
				return "", auth.ErrInvalidToken
			},
		}
		v1.RegisterAuthRoutes(api, newMockStore(), svc)

		resp := api.Post("/auth/refresh", map[string]any{
			"refresh_token": "garbage",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestGetMe(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := newMockStore()
		store.users = &mockUserRepo{
			getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
				assert.Equal(t, userID, id)
				return &domain.User{ID: userID, Email: "ada@example.com", Name: "Ada", PasswordHash: "secret"}, nil
			},
		}
		v1.RegisterMeRoute(api, store)

		resp := api.GetCtx(userCtx(userID), "/me")

		require.Equal(t, http.StatusOK, resp.Code)
		var body domain.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, userID, body.ID)
		assert.Empty(t, body.PasswordHash)
	})

	t.Run("no_user_context", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterMeRoute(api, newMockStore())

		resp := api.Get("/me")

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}
