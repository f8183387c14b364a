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

type CreateCommentInput struct {
	CardID uuid.UUID `path:"cardID" doc:"Card ID"`
	Body   struct {
		Body string `json:"body" minLength:"1" maxLength:"10000" doc:"Comment text"`
	}
}

type CreateCommentOutput struct {
	Body *domain.Comment
}

type ListCommentsInput struct {
	CardID uuid.UUID `path:"cardID" doc:"Card ID"`
}

type ListCommentsOutput struct {
	Body []*domain.Comment
}

type UpdateCommentInput struct {
	ID   uuid.UUID `path:"id" doc:"Comment ID"`
	Body struct {
		Body string `json:"body" minLength:"1" maxLength:"10000" doc:"Comment text"`
	}
}

type UpdateCommentOutput struct {
	Body *domain.Comment
}

type DeleteCommentInput struct {
	ID uuid.UUID `path:"id" doc:"Comment ID"`
}

func RegisterCommentRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-comment",
		Method:      http.MethodPost,
		Path:        "/cards/{cardID}/comments",
		Summary:     "Comment on a card",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *CreateCommentInput) (*CreateCommentOutput, error) {
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

		now := time.Now()
		c := &domain.Comment{
			ID:        uuid.New(),
			CardID:    input.CardID,
			AuthorID:  userID,
			Body:      input.Body.Body,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.Comments().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create comment", err)
		}

		return &CreateCommentOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-comments",
		Method:      http.MethodGet,
		Path:        "/cards/{cardID}/comments",
		Summary:     "List a card's comments",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *ListCommentsInput) (*ListCommentsOutput, error) {
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

		comments, err := store.Comments().ListByCard(ctx, input.CardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list comments", err)
		}

		return &ListCommentsOutput{Body: comments}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-comment",
		Method:      http.MethodPut,
		Path:        "/comments/{id}",
		Summary:     "Edit a comment",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *UpdateCommentInput) (*UpdateCommentOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Comments().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("comment not found")
			}
			return nil, huma.Error500InternalServerError("failed to get comment", err)
		}
		// Only the author can edit.
		if existing.AuthorID != userID {
			return nil, huma.Error403Forbidden("not the comment author")
		}

		existing.Body = input.Body.Body
		existing.UpdatedAt = time.Now()

		if err := store.Comments().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update comment", err)
		}

		return &UpdateCommentOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-comment",
		Method:      http.MethodDelete,
		Path:        "/comments/{id}",
		Summary:     "Delete a comment",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *DeleteCommentInput) (*struct{}, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Comments().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("comment not found")
			}
			return nil, huma.Error500InternalServerError("failed to get comment", err)
		}

		// The author or a board admin can delete.
		if existing.AuthorID != userID {
			_, boardID, err := boardOfCard(ctx, store, existing.CardID)
			if err != nil {
				return nil, err
			}
			if err := requireAdmin(ctx, store, boardID, userID); err != nil {
				return nil, err
			}
		}

		if err := store.Comments().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete comment", err)
		}

		return nil, nil
	})
}
