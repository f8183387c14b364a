package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboard/corkboard/internal/domain"
)

type CreateColumnInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	Body    struct {
		Title string `json:"title" minLength:"1" maxLength:"255" doc:"Column title"`
	}
}

type CreateColumnOutput struct {
	Body *domain.Column
}

type ListColumnsInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
}

type ListColumnsOutput struct {
	Body []*domain.Column
}

type RenameColumnInput struct {
	ID   uuid.UUID `path:"id" doc:"Column ID"`
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"255" doc:"Column title"`
	}
}

type RenameColumnOutput struct {
	Body *domain.Column
}

type MoveColumnInput struct {
	ID   uuid.UUID `path:"id" doc:"Column ID"`
	Body struct {
		NewPosition int `json:"new_position" doc:"Destination index; clamped to the board's column count"`
	}
}

type MoveColumnOutput struct {
	Body *domain.Column
}

type DeleteColumnInput struct {
	ID uuid.UUID `path:"id" doc:"Column ID"`
}

func RegisterColumnRoutes(api huma.API, store DataStore, cache BoardCache) {
	huma.Register(api, huma.Operation{
		OperationID: "create-column",
		Method:      http.MethodPost,
		Path:        "/boards/{boardID}/columns",
		Summary:     "Create a column at the end of a board",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *CreateColumnInput) (*CreateColumnOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, input.BoardID, userID); err != nil {
			return nil, err
		}

		now := time.Now()
		col := &domain.Column{
			ID:        uuid.New(),
			BoardID:   input.BoardID,
			Title:     input.Body.Title,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Columns().Create(ctx, col); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("board not found")
			}
			return nil, huma.Error500InternalServerError("failed to create column", err)
		}

		_ = cache.InvalidateBoard(ctx, input.BoardID)
		recordAudit(ctx, store, input.BoardID, userID, "created", "column", col.ID, nil)

		return &CreateColumnOutput{Body: col}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-columns",
		Method:      http.MethodGet,
		Path:        "/boards/{boardID}/columns",
		Summary:     "List a board's columns in position order",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *ListColumnsInput) (*ListColumnsOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := memberRole(ctx, store, input.BoardID, userID); err != nil {
			return nil, err
		}

		columns, err := store.Columns().ListByBoard(ctx, input.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list columns", err)
		}

		return &ListColumnsOutput{Body: columns}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "rename-column",
		Method:      http.MethodPatch,
		Path:        "/columns/{id}",
		Summary:     "Rename a column",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *RenameColumnInput) (*RenameColumnOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		boardID, err := boardOfColumn(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		if err := store.Columns().Rename(ctx, input.ID, input.Body.Title); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("column not found")
			}
			return nil, huma.Error500InternalServerError("failed to rename column", err)
		}

		col, err := store.Columns().GetByID(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to reload column", err)
		}

		_ = cache.InvalidateBoard(ctx, boardID)
		recordAudit(ctx, store, boardID, userID, "updated", "column", input.ID, nil)

		return &RenameColumnOutput{Body: col}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-column",
		Method:      http.MethodPost,
		Path:        "/columns/{id}/move",
		Summary:     "Move a column to a new position on its board",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *MoveColumnInput) (*MoveColumnOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		boardID, err := boardOfColumn(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		col, err := store.Columns().Move(ctx, input.ID, input.Body.NewPosition)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("column not found")
			}
			return nil, huma.Error500InternalServerError("failed to move column", err)
		}

		_ = cache.InvalidateBoard(ctx, boardID)
		recordAudit(ctx, store, boardID, userID, "moved", "column", input.ID, map[string]any{"position": col.Position})

		return &MoveColumnOutput{Body: col}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-column",
		Method:      http.MethodDelete,
		Path:        "/columns/{id}",
		Summary:     "Delete a column and its cards",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *DeleteColumnInput) (*struct{}, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		boardID, err := boardOfColumn(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		if err := store.Columns().Delete(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("column not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete column", err)
		}

		_ = cache.InvalidateBoard(ctx, boardID)
		recordAudit(ctx, store, boardID, userID, "deleted", "column", input.ID, nil)

		return nil, nil
	})
}
