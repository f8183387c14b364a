package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboard/corkboard/internal/domain"
)

type ListAuditInput struct {
	BoardID uuid.UUID `path:"boardID" doc:"Board ID"`
	Limit   int       `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset  int       `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

type ListAuditOutput struct {
	Body []*domain.AuditEntry
}

type ListResourceAuditInput struct {
	BoardID    uuid.UUID `path:"boardID" doc:"Board ID"`
	Resource   string    `query:"resource" required:"true" enum:"board,column,card,label,member,attachment" doc:"Resource kind"`
	ResourceID uuid.UUID `query:"resource_id" required:"true" doc:"Resource ID"`
}

func RegisterAuditRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-board-audit",
		Method:      http.MethodGet,
		Path:        "/boards/{boardID}/audit",
		Summary:     "List a board's audit log",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListAuditInput) (*ListAuditOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if err := requireAdmin(ctx, store, input.BoardID, userID); err != nil {
			return nil, err
		}

		entries, err := store.Audit().ListByBoard(ctx, input.BoardID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list audit log", err)
		}

		return &ListAuditOutput{Body: entries}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-resource-audit",
		Method:      http.MethodGet,
		Path:        "/boards/{boardID}/audit/resource",
		Summary:     "List audit entries for one resource",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListResourceAuditInput) (*ListAuditOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if err := requireAdmin(ctx, store, input.BoardID, userID); err != nil {
			return nil, err
		}

		entries, err := store.Audit().ListByResource(ctx, input.BoardID, input.Resource, input.ResourceID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list audit log", err)
		}

		return &ListAuditOutput{Body: entries}, nil
	})
}
