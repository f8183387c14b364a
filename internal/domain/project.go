package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProject creates a Project with validated required fields.
func NewProject(ownerID uuid.UUID, name, description string) (*Project, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New("project: owner ID is required")
	}
	if name == "" {
		return nil, errors.New("project: name is required")
	}
	return &Project{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}
