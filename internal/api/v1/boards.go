package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboard/corkboard/internal/domain"
)

type CreateBoardInput struct {
	Body struct {
		Title       string     `json:"title" minLength:"1" maxLength:"255" doc:"Board title"`
		Description string     `json:"description,omitempty" maxLength:"2000" doc:"Board description"`
		ProjectID   *uuid.UUID `json:"project_id,omitempty" doc:"Optional parent project ID"`
		Visibility  string     `json:"visibility,omitempty" enum:"private,team,public" doc:"Board visibility"`
	}
}

type CreateBoardOutput struct {
	Body *domain.Board
}

type ListBoardsOutput struct {
	Body []*domain.Board
}

type GetBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

// ColumnWithCards is one column of a board snapshot with its cards in
// position order.
type ColumnWithCards struct {
	*domain.Column
	Cards []*domain.Card `json:"cards"`
}

// BoardSnapshot is the full board state the client renders: the board, its
// columns in position order, and each column's cards in position order.
type BoardSnapshot struct {
	Board   *domain.Board      `json:"board"`
	Columns []*ColumnWithCards `json:"columns"`
}

type GetBoardOutput struct {
	Body *BoardSnapshot
}

type UpdateBoardInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		Title       string `json:"title,omitempty" maxLength:"255" doc:"Board title"`
		Description string `json:"description,omitempty" maxLength:"2000" doc:"Board description"`
		Visibility  string `json:"visibility,omitempty" enum:"private,team,public" doc:"Board visibility"`
	}
}

type UpdateBoardOutput struct {
	Body *domain.Board
}

type DeleteBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type AddMemberInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	Body    struct {
		UserID uuid.UUID `json:"user_id" doc:"User to add"`
		Role   string    `json:"role" enum:"admin,member,viewer" doc:"Member role"`
	}
}

type AddMemberOutput struct {
	Body *domain.BoardMember
}

type RemoveMemberInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	UserID  uuid.UUID `path:"userID" doc:"User to remove"`
}

type ListMembersInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
}

type ListMembersOutput struct {
	Body []*domain.BoardMember
}

func RegisterBoardRoutes(api huma.API, store DataStore, cache BoardCache) {
	huma.Register(api, huma.Operation{
		OperationID: "create-board",
		Method:      http.MethodPost,
		Path:        "/boards",
		Summary:     "Create a new board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *CreateBoardInput) (*CreateBoardOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		if input.Body.ProjectID != nil {
			p, err := store.Projects().GetByID(ctx, *input.Body.ProjectID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("project not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate project")
			}
			if p.OwnerID != userID {
				return nil, huma.Error403Forbidden("not the project owner")
			}
		}

		visibility := domain.BoardVisibility(input.Body.Visibility)
		if visibility == "" {
			visibility = domain.BoardPrivate
		}
		if !visibility.Valid() {
			return nil, huma.Error400BadRequest("unknown visibility: " + input.Body.Visibility)
		}

		now := time.Now()
		b := &domain.Board{
			ID:          uuid.New(),
			ProjectID:   input.Body.ProjectID,
			OwnerID:     userID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Visibility:  visibility,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Boards().Create(ctx, b); err != nil {
			return nil, huma.Error500InternalServerError("failed to create board", err)
		}

		// The creator administers the board.
		member := &domain.BoardMember{
			ID:        uuid.New(),
			BoardID:   b.ID,
			UserID:    userID,
			Role:      domain.RoleAdmin,
			CreatedAt: now,
		}
		if err := store.Members().Add(ctx, member); err != nil {
			return nil, huma.Error500InternalServerError("failed to add board creator as member", err)
		}

		recordAudit(ctx, store, b.ID, userID, "created", "board", b.ID, nil)

		return &CreateBoardOutput{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "List boards the caller belongs to",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*ListBoardsOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		boards, err := store.Boards().ListByUser(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list boards", err)
		}

		return &ListBoardsOutput{Body: boards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/boards/{id}",
		Summary:     "Get a board with its columns and cards",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := memberRole(ctx, store, input.ID, userID); err != nil {
			return nil, err
		}

		// Cache-aside: serve the snapshot from redis when present.
		if cached, err := cache.CachedBoard(ctx, input.ID); err == nil {
			var snap BoardSnapshot
			if err := json.Unmarshal(cached, &snap); err == nil {
				return &GetBoardOutput{Body: &snap}, nil
			}
		}

		snap, err := buildSnapshot(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(snap); err == nil {
			// Best effort; a cold cache just means the next read hits postgres.
			_ = cache.CacheBoard(ctx, input.ID, data)
		}

		return &GetBoardOutput{Body: snap}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-board",
		Method:      http.MethodPut,
		Path:        "/boards/{id}",
		Summary:     "Update a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *UpdateBoardInput) (*UpdateBoardOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if err := requireAdmin(ctx, store, input.ID, userID); err != nil {
			return nil, err
		}

		existing, err := store.Boards().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}

		if input.Body.Title != "" {
			existing.Title = input.Body.Title
		}
		if input.Body.Description != "" {
			existing.Description = input.Body.Description
		}
		if input.Body.Visibility != "" {
			visibility := domain.BoardVisibility(input.Body.Visibility)
			if !visibility.Valid() {
				return nil, huma.Error400BadRequest("unknown visibility: " + input.Body.Visibility)
			}
			existing.Visibility = visibility
		}
		existing.UpdatedAt = time.Now()

		if err := store.Boards().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update board", err)
		}

		_ = cache.InvalidateBoard(ctx, input.ID)
		recordAudit(ctx, store, input.ID, userID, "updated", "board", input.ID, nil)

		return &UpdateBoardOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-board",
		Method:      http.MethodDelete,
		Path:        "/boards/{id}",
		Summary:     "Delete a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *DeleteBoardInput) (*struct{}, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if err := requireAdmin(ctx, store, input.ID, userID); err != nil {
			return nil, err
		}

		if err := store.Boards().Delete(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete board", err)
		}

		// Drop the board's presence set and cache alongside its rows.
		_ = cache.CleanupBoard(ctx, input.ID)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-board-member",
		Method:      http.MethodPost,
		Path:        "/boards/{boardID}/members",
		Summary:     "Add or update a board member",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *AddMemberInput) (*AddMemberOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if err := requireAdmin(ctx, store, input.BoardID, userID); err != nil {
			return nil, err
		}

		role := domain.MemberRole(input.Body.Role)
		if !role.Valid() {
			return nil, huma.Error400BadRequest("unknown role: " + input.Body.Role)
		}
		if _, err := store.Users().GetByID(ctx, input.Body.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to validate user")
		}

		member := &domain.BoardMember{
			ID:        uuid.New(),
			BoardID:   input.BoardID,
			UserID:    input.Body.UserID,
			Role:      role,
			CreatedAt: time.Now(),
		}
		if err := store.Members().Add(ctx, member); err != nil {
			return nil, huma.Error500InternalServerError("failed to add member", err)
		}

		recordAudit(ctx, store, input.BoardID, userID, "updated", "member", input.Body.UserID, map[string]any{"role": string(role)})

		return &AddMemberOutput{Body: member}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-board-member",
		Method:      http.MethodDelete,
		Path:        "/boards/{boardID}/members/{userID}",
		Summary:     "Remove a board member",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *RemoveMemberInput) (*struct{}, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if err := requireAdmin(ctx, store, input.BoardID, userID); err != nil {
			return nil, err
		}

		board, err := store.Boards().GetByID(ctx, input.BoardID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to get board", err)
		}
		if board.OwnerID == input.UserID {
			return nil, huma.Error409Conflict("cannot remove the board owner")
		}

		if err := store.Members().Remove(ctx, input.BoardID, input.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("member not found")
			}
			return nil, huma.Error500InternalServerError("failed to remove member", err)
		}

		recordAudit(ctx, store, input.BoardID, userID, "deleted", "member", input.UserID, nil)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-board-members",
		Method:      http.MethodGet,
		Path:        "/boards/{boardID}/members",
		Summary:     "List board members",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := memberRole(ctx, store, input.BoardID, userID); err != nil {
			return nil, err
		}

		members, err := store.Members().ListByBoard(ctx, input.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list members", err)
		}

		return &ListMembersOutput{Body: members}, nil
	})
}

// buildSnapshot loads a board with its columns and cards in position order.
func buildSnapshot(ctx context.Context, store DataStore, boardID uuid.UUID) (*BoardSnapshot, error) {
	board, err := store.Boards().GetByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("board not found")
		}
		return nil, huma.Error500InternalServerError("failed to get board", err)
	}

	columns, err := store.Columns().ListByBoard(ctx, boardID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list columns", err)
	}

	snap := &BoardSnapshot{Board: board, Columns: make([]*ColumnWithCards, 0, len(columns))}
	for _, col := range columns {
		cards, err := store.Cards().ListByColumn(ctx, col.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list cards", err)
		}
		snap.Columns = append(snap.Columns, &ColumnWithCards{Column: col, Cards: cards})
	}

	return snap, nil
}
