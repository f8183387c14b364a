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

type CreateAttachmentInput struct {
	CardID uuid.UUID `path:"cardID" doc:"Card ID"`
	Body   struct {
		FileName    string `json:"file_name" minLength:"1" maxLength:"255" doc:"Original file name"`
		URL         string `json:"url" minLength:"1" maxLength:"2000" format:"uri" doc:"Where the file is stored"`
		ContentType string `json:"content_type,omitempty" maxLength:"255" doc:"MIME type"`
		Size        int64  `json:"size,omitempty" minimum:"0" doc:"File size in bytes"`
	}
}

type CreateAttachmentOutput struct {
	Body *domain.Attachment
}

type ListAttachmentsInput struct {
	CardID uuid.UUID `path:"cardID" doc:"Card ID"`
}

type ListAttachmentsOutput struct {
	Body []*domain.Attachment
}

type DeleteAttachmentInput struct {
	ID uuid.UUID `path:"id" doc:"Attachment ID"`
}

// Attachment routes track file metadata only; the bytes live in external
// storage the client uploads to directly.
func RegisterAttachmentRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-attachment",
		Method:      http.MethodPost,
		Path:        "/cards/{cardID}/attachments",
		Summary:     "Record an attachment on a card",
		Tags:        []string{"Attachments"},
	}, func(ctx context.Context, input *CreateAttachmentInput) (*CreateAttachmentOutput, error) {
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

		a := &domain.Attachment{
			ID:          uuid.New(),
			CardID:      input.CardID,
			UploaderID:  userID,
			FileName:    input.Body.FileName,
			URL:         input.Body.URL,
			ContentType: input.Body.ContentType,
			Size:        input.Body.Size,
			CreatedAt:   time.Now(),
		}
		if err := store.Attachments().Create(ctx, a); err != nil {
			return nil, huma.Error500InternalServerError("failed to create attachment", err)
		}

		recordAudit(ctx, store, boardID, userID, "created", "attachment", a.ID, map[string]any{"file_name": a.FileName})

		return &CreateAttachmentOutput{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-attachments",
		Method:      http.MethodGet,
		Path:        "/cards/{cardID}/attachments",
		Summary:     "List a card's attachments",
		Tags:        []string{"Attachments"},
	}, func(ctx context.Context, input *ListAttachmentsInput) (*ListAttachmentsOutput, error) {
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

		attachments, err := store.Attachments().ListByCard(ctx, input.CardID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list attachments", err)
		}

		return &ListAttachmentsOutput{Body: attachments}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-attachment",
		Method:      http.MethodDelete,
		Path:        "/attachments/{id}",
		Summary:     "Delete an attachment record",
		Tags:        []string{"Attachments"},
	}, func(ctx context.Context, input *DeleteAttachmentInput) (*struct{}, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Attachments().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("attachment not found")
			}
			return nil, huma.Error500InternalServerError("failed to get attachment", err)
		}

		_, boardID, err := boardOfCard(ctx, store, existing.CardID)
		if err != nil {
			return nil, err
		}
		// The uploader or any editor can remove the record.
		if existing.UploaderID != userID {
			if err := requireEditor(ctx, store, boardID, userID); err != nil {
				return nil, err
			}
		}

		if err := store.Attachments().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete attachment", err)
		}

		recordAudit(ctx, store, boardID, userID, "deleted", "attachment", input.ID, nil)

		return nil, nil
	})
}
