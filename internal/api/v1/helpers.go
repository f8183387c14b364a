package v1

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboard/corkboard/internal/domain"
	"github.com/corkboard/corkboard/internal/server/middleware"
)

// currentUser pulls the authenticated user id out of the request context.
func currentUser(ctx context.Context) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error401Unauthorized("missing user context")
	}
	return userID, nil
}

// memberRole resolves the caller's role on a board, mapping non-membership to
// a 403.
func memberRole(ctx context.Context, store DataStore, boardID, userID uuid.UUID) (domain.MemberRole, error) {
	role, err := store.Members().GetRole(ctx, boardID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return "", huma.Error403Forbidden("not a board member")
		}
		return "", huma.Error500InternalServerError("failed to check board membership")
	}
	return role, nil
}

// requireEditor ensures the caller can modify board content (admin or member,
// not viewer).
func requireEditor(ctx context.Context, store DataStore, boardID, userID uuid.UUID) error {
	role, err := memberRole(ctx, store, boardID, userID)
	if err != nil {
		return err
	}
	if !role.CanEdit() {
		return huma.Error403Forbidden("viewers cannot modify the board")
	}
	return nil
}

// requireAdmin ensures the caller administers the board.
func requireAdmin(ctx context.Context, store DataStore, boardID, userID uuid.UUID) error {
	role, err := memberRole(ctx, store, boardID, userID)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin {
		return huma.Error403Forbidden("board admin required")
	}
	return nil
}

// boardOfColumn resolves the board a column belongs to.
func boardOfColumn(ctx context.Context, store DataStore, columnID uuid.UUID) (uuid.UUID, error) {
	col, err := store.Columns().GetByID(ctx, columnID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, huma.Error404NotFound("column not found")
		}
		return uuid.Nil, huma.Error500InternalServerError("failed to resolve column")
	}
	return col.BoardID, nil
}

// boardOfCard resolves the board a card belongs to via its column.
func boardOfCard(ctx context.Context, store DataStore, cardID uuid.UUID) (*domain.Card, uuid.UUID, error) {
	card, err := store.Cards().GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, uuid.Nil, huma.Error404NotFound("card not found")
		}
		return nil, uuid.Nil, huma.Error500InternalServerError("failed to resolve card")
	}
	boardID, err := boardOfColumn(ctx, store, card.ColumnID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return card, boardID, nil
}

// recordAudit writes an audit entry. Audit is best effort: a failed write
// never fails the mutation it describes.
func recordAudit(ctx context.Context, store DataStore, boardID, actorID uuid.UUID, action, resource string, resourceID uuid.UUID, details map[string]any) {
	_ = store.Audit().Record(ctx, &domain.AuditEntry{
		ID:         uuid.New(),
		BoardID:    boardID,
		ActorID:    actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
	})
}
