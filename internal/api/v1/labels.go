package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboard/corkboard/internal/domain"
)

type CreateLabelInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	Body    struct {
		Name  string `json:"name" minLength:"1" maxLength:"100" doc:"Label name"`
		Color string `json:"color" pattern:"^#[0-9a-fA-F]{6}$" doc:"Label color as #rrggbb"`
	}
}

type CreateLabelOutput struct {
	Body *domain.Label
}

type ListLabelsInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
}

type ListLabelsOutput struct {
	Body []*domain.Label
}

type UpdateLabelInput struct {
	ID   uuid.UUID `path:"id" doc:"Label ID"`
	Body struct {
		Name  string `json:"name,omitempty" maxLength:"100" doc:"Label name"`
		Color string `json:"color,omitempty" pattern:"^#[0-9a-fA-F]{6}$" doc:"Label color as #rrggbb"`
	}
}

type UpdateLabelOutput struct {
	Body *domain.Label
}

type DeleteLabelInput struct {
	ID uuid.UUID `path:"id" doc:"Label ID"`
}

type AttachLabelInput struct {
	CardID  uuid.UUID `path:"cardID" doc:"Card ID"`
	LabelID uuid.UUID `path:"labelID" doc:"Label ID"`
}

type CardLabelsInput struct {
	CardID uuid.UUID `path:"cardID" doc:"Card ID"`
}

type CardLabelsOutput struct {
	Body []*domain.Label
}

func RegisterLabelRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-label",
		Method:      http.MethodPost,
		Path:        "/boards/{boardID}/labels",
		Summary:     "Create a board label",
		Tags:        []string{"Labels"},
	}, func(ctx context.Context, input *CreateLabelInput) (*CreateLabelOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, input.BoardID, userID); err != nil {
			return nil, err
		}

		l := &domain.Label{
			ID:      uuid.New(),
			BoardID: input.BoardID,
			Name:    input.Body.Name,
			Color:   input.Body.Color,
		}
		if err := store.Labels().Create(ctx, l); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("label name already in use on this board")
			}
			return nil, huma.Error500InternalServerError("failed to create label", err)
		}

		recordAudit(ctx, store, input.BoardID, userID, "created", "label", l.ID, nil)

		return &CreateLabelOutput{Body: l}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-labels",
		Method:      http.MethodGet,
		Path:        "/boards/{boardID}/labels",
		Summary:     "List a board's labels",
		Tags:        []string{"Labels"},
	}, func(ctx context.Context, input *ListLabelsInput) (*ListLabelsOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := memberRole(ctx, store, input.BoardID, userID); err != nil {
			return nil, err
		}

		labels, err := store.Labels().ListByBoard(ctx, input.BoardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list labels", err)
		}

		return &ListLabelsOutput{Body: labels}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-label",
		Method:      http.MethodPut,
		Path:        "/labels/{id}",
		Summary:     "Update a label",
		Tags:        []string{"Labels"},
	}, func(ctx context.Context, input *UpdateLabelInput) (*UpdateLabelOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Labels().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("label not found")
			}
			return nil, huma.Error500InternalServerError("failed to get label", err)
		}
		if err := requireEditor(ctx, store, existing.BoardID, userID); err != nil {
			return nil, err
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Color != "" {
			existing.Color = input.Body.Color
		}

		if err := store.Labels().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update label", err)
		}

		return &UpdateLabelOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-label",
		Method:      http.MethodDelete,
		Path:        "/labels/{id}",
		Summary:     "Delete a label",
		Tags:        []string{"Labels"},
	}, func(ctx context.Context, input *DeleteLabelInput) (*struct{}, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Labels().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("label not found")
			}
			return nil, huma.Error500InternalServerError("failed to get label", err)
		}
		if err := requireEditor(ctx, store, existing.BoardID, userID); err != nil {
			return nil, err
		}

		if err := store.Labels().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete label", err)
		}

		recordAudit(ctx, store, existing.BoardID, userID, "deleted", "label", input.ID, nil)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "attach-label",
		Method:      http.MethodPut,
		Path:        "/cards/{cardID}/labels/{labelID}",
		Summary:     "Attach a label to a card",
		Tags:        []string{"Labels"},
	}, func(ctx context.Context, input *AttachLabelInput) (*struct{}, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		_, boardID, err := boardOfCard(ctx, store, input.CardID)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		label, err := store.Labels().GetByID(ctx, input.LabelID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("label not found")
			}
			return nil, huma.Error500InternalServerError("failed to get label", err)
		}
		if label.BoardID != boardID {
			return nil, huma.Error422UnprocessableEntity("label belongs to a different board")
		}

		if err := store.Labels().Attach(ctx, input.CardID, input.LabelID); err != nil {
			return nil, huma.Error500InternalServerError("failed to attach label", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "detach-label",
		Method:      http.MethodDelete,
		Path:        "/cards/{cardID}/labels/{labelID}",
		Summary:     "Detach a label from a card",
		Tags:        []string{"Labels"},
	}, func(ctx context.Context, input *AttachLabelInput) (*struct{}, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		_, boardID, err := boardOfCard(ctx, store, input.CardID)
		if err != nil {
			return nil, err
		}
		if err := requireEditor(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		if err := store.Labels().Detach(ctx, input.CardID, input.LabelID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("label not attached")
			}
			return nil, huma.Error500InternalServerError("failed to detach label", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-card-labels",
		Method:      http.MethodGet,
		Path:        "/cards/{cardID}/labels",
		Summary:     "List a card's labels",
		Tags:        []string{"Labels"},
	}, func(ctx context.Context, input *CardLabelsInput) (*CardLabelsOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		_, boardID, err := boardOfCard(ctx, store, input.CardID)
		if err != nil {
			return nil, err
		}
		if _, err := memberRole(ctx, store, boardID, userID); err != nil {
			return nil, err
		}

		labels, err := store.Labels().ListByCard(ctx, input.CardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list card labels", err)
		}

		return &CardLabelsOutput{Body: labels}, nil
	})
}
