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

type CreateCardInput struct {
	ColumnID uuid.UUID `path:"columnID" doc:"Column ID"`
	Body     struct {
		Title       string     `json:"title" minLength:"1" maxLength:"500" doc:"Card title"`
		Description string     `json:"description,omitempty" maxLength:"10000" doc:"Card description"`
		Priority    string     `json:"priority,omitempty" enum:"low,medium,high" doc:"Card priority"`
		DueDate     *time.Time `json:"due_date,omitempty" doc:"Due date"`
		AssigneeID  *uuid.UUID `json:"assignee_id,omitempty" doc:"Assigned user ID"`
	}
}

type CreateCardOutput struct {
	Body *domain.Card
}

type ListCardsInput struct {
	ColumnID uuid.UUID `path:"columnID" doc:"Column ID"`
}

type ListCardsOutput struct {
	Body []*domain.Card
}

type GetCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

type GetCardOutput struct {
	Body *domain.Card
}

type UpdateCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		Title       string     `json:"title,omitempty" maxLength:"500" doc:"Card title"`
		Description *string    `json:"description,omitempty" maxLength:"10000" doc:"Card description"`
		Priority    string     `json:"priority,omitempty" enum:"low,medium,high" doc:"Card priority"`
		DueDate     *time.Time `json:"due_date,omitempty" doc:"Due date"`
	}
}

type UpdateCardOutput struct {
	Body *domain.Card
}

type AssignCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		AssigneeID *uuid.UUID `json:"assignee_id" doc:"User to assign, or null to unassign"`
	}
}

type AssignCardOutput struct {
	Body *domain.Card
}

type MoveCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		NewColumnID uuid.UUID `json:"new_column_id" doc:"Destination column; may be the card's current column"`
		NewPosition int       `json:"new_position" doc:"Destination index; clamped to the destination column's card count"`
	}
}

type MoveCardOutput struct {
	Body *domain.Card
}

type DeleteCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

func RegisterCardRoutes(api huma.API, store DataStore, cache BoardCache) {
	huma.Register(api, huma.Operation{
		OperationID: "create-card",
		Method:      http.MethodPost,
		Path:        "/columns/{columnID}/cards",
		Summary:     "Create a card at the end of a column",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *CreateCardInput) (*CreateCardOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		boardID, err := boardOfColumn(ctx, store, input.ColumnID)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		priority := domain.CardPriority(input.Body.Priority)
		if priority == "" {
			priority = domain.PriorityMedium
		}
		if !priority.Valid() {
			return nil, huma.Error400BadRequest("unknown priority: " + input.Body.Priority)
		}

		now := time.Now()
		c := &domain.Card{
			ID:          uuid.New(),
			ColumnID:    input.ColumnID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Priority:    priority,
			DueDate:     input.Body.DueDate,
			AssigneeID:  input.Body.AssigneeID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Cards().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create card", err)
		}

		_ = cache.InvalidateBoard(ctx, boardID)
		recordAudit(ctx, store, boardID, userID, "created", "card", c.ID, nil)

		return &CreateCardOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-cards",
		Method:      http.MethodGet,
		Path:        "/columns/{columnID}/cards",
		Summary:     "List a column's cards in position order",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *ListCardsInput) (*ListCardsOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		boardID, err := boardOfColumn(ctx, store, input.ColumnID)
		if err != nil {
			return nil, err
		}
		if _, err := memberRole(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		cards, err := store.Cards().ListByColumn(ctx, input.ColumnID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list cards", err)
		}

		return &ListCardsOutput{Body: cards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-card",
		Method:      http.MethodGet,
		Path:        "/cards/{id}",
		Summary:     "Get a card by ID",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *GetCardInput) (*GetCardOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		card, boardID, err := boardOfCard(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}
		if _, err := memberRole(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		return &GetCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-card",
		Method:      http.MethodPut,
		Path:        "/cards/{id}",
		Summary:     "Update a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *UpdateCardInput) (*UpdateCardOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		existing, boardID, err := boardOfCard(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		if input.Body.Title != "" {
			existing.Title = input.Body.Title
		}
		if input.Body.Description != nil {
			existing.Description = *input.Body.Description
		}
		if input.Body.Priority != "" {
			priority := domain.CardPriority(input.Body.Priority)
			if !priority.Valid() {
				return nil, huma.Error400BadRequest("unknown priority: " + input.Body.Priority)
			}
			existing.Priority = priority
		}
		if input.Body.DueDate != nil {
			existing.DueDate = input.Body.DueDate
		}
		existing.UpdatedAt = time.Now()

		if err := store.Cards().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update card", err)
		}

		_ = cache.InvalidateBoard(ctx, boardID)
		recordAudit(ctx, store, boardID, userID, "updated", "card", input.ID, nil)

		return &UpdateCardOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-card",
		Method:      http.MethodPatch,
		Path:        "/cards/{id}/assignee",
		Summary:     "Assign or unassign a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *AssignCardInput) (*AssignCardOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		existing, boardID, err := boardOfCard(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		if input.Body.AssigneeID != nil {
			// Only board members can be assigned.
			if _, err := memberRole(ctx, store, boardID, *input.Body.AssigneeID); err != nil {
				return nil, huma.Error400BadRequest("assignee is not a board member")
			}
		}

		if err := store.Cards().Assign(ctx, input.ID, input.Body.AssigneeID); err != nil {
			return nil, huma.Error500InternalServerError("failed to assign card", err)
		}
		existing.AssigneeID = input.Body.AssigneeID

		_ = cache.InvalidateBoard(ctx, boardID)
		recordAudit(ctx, store, boardID, userID, "updated", "card", input.ID, map[string]any{"assignee": input.Body.AssigneeID})

		return &AssignCardOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-card",
		Method:      http.MethodPost,
		Path:        "/cards/{id}/move",
		Summary:     "Move a card within or across columns",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *MoveCardInput) (*MoveCardOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		_, boardID, err := boardOfCard(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		card, err := store.Cards().Move(ctx, input.ID, domain.CardMove{
			NewColumnID: input.Body.NewColumnID,
			NewPosition: input.Body.NewPosition,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("card not found")
			case errors.Is(err, domain.ErrInvalidMove):
				return nil, huma.Error422UnprocessableEntity("destination column is not on the card's board")
			default:
				return nil, huma.Error500InternalServerError("failed to move card", err)
			}
		}

		_ = cache.InvalidateBoard(ctx, boardID)
		recordAudit(ctx, store, boardID, userID, "moved", "card", input.ID, map[string]any{
			"column_id": card.ColumnID,
			"position":  card.Position,
		})

		return &MoveCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-card",
		Method:      http.MethodDelete,
		Path:        "/cards/{id}",
		Summary:     "Delete a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *DeleteCardInput) (*struct{}, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		_, boardID, err := boardOfCard(ctx, store, input.ID)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		if err := store.Cards().Delete(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("card not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete card", err)
		}

		_ = cache.InvalidateBoard(ctx, boardID)
		recordAudit(ctx, store, boardID, userID, "deleted", "card", input.ID, nil)

		return nil, nil
	})
}
