package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/corkboard/corkboard/internal/domain"
)

type CreateProjectInput struct {
	Body struct {
		Name        string `json:"name" minLength:"1" maxLength:"255" doc:"Project name"`
		Description string `json:"description,omitempty" maxLength:"2000" doc:"Project description"`
	}
}

type CreateProjectOutput struct {
	Body *domain.Project
}

type ListProjectsOutput struct {
	Body []*domain.Project
}

type GetProjectInput struct {
	ID uuid.UUID `path:"id" doc:"Project ID"`
}

type GetProjectOutput struct {
	Body *domain.Project
}

type UpdateProjectInput struct {
	ID   uuid.UUID `path:"id" doc:"Project ID"`
	Body struct {
		Name        string `json:"name,omitempty" maxLength:"255" doc:"Project name"`
		Description string `json:"description,omitempty" maxLength:"2000" doc:"Project description"`
	}
}

type UpdateProjectOutput struct {
	Body *domain.Project
}

type DeleteProjectInput struct {
	ID uuid.UUID `path:"id" doc:"Project ID"`
}

func RegisterProjectRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-project",
		Method:      http.MethodPost,
		Path:        "/projects",
		Summary:     "Create a new project",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *CreateProjectInput) (*CreateProjectOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		p, err := domain.NewProject(userID, input.Body.Name, input.Body.Description)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		if err := store.Projects().Create(ctx, p); err != nil {
			return nil, huma.Error500InternalServerError("failed to create project", err)
		}

		return &CreateProjectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-projects",
		Method:      http.MethodGet,
		Path:        "/projects",
		Summary:     "List the caller's projects",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, _ *struct{}) (*ListProjectsOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		projects, err := store.Projects().ListByOwner(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list projects", err)
		}

		return &ListProjectsOutput{Body: projects}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-project",
		Method:      http.MethodGet,
		Path:        "/projects/{id}",
		Summary:     "Get a project by ID",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *GetProjectInput) (*GetProjectOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		p, err := store.Projects().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("project not found")
			}
			return nil, huma.Error500InternalServerError("failed to get project", err)
		}
		if p.OwnerID != userID {
			return nil, huma.Error403Forbidden("not the project owner")
		}

		return &GetProjectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-project",
		Method:      http.MethodPut,
		Path:        "/projects/{id}",
		Summary:     "Update a project",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *UpdateProjectInput) (*UpdateProjectOutput, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Projects().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("project not found")
			}
			return nil, huma.Error500InternalServerError("failed to get project", err)
		}
		if existing.OwnerID != userID {
			return nil, huma.Error403Forbidden("not the project owner")
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Description != "" {
			existing.Description = input.Body.Description
		}

		if err := store.Projects().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update project", err)
		}

		return &UpdateProjectOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-project",
		Method:      http.MethodDelete,
		Path:        "/projects/{id}",
		Summary:     "Delete a project",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *DeleteProjectInput) (*struct{}, error) {
		userID, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Projects().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("project not found")
			}
			return nil, huma.Error500InternalServerError("failed to get project", err)
		}
		if existing.OwnerID != userID {
			return nil, huma.Error403Forbidden("not the project owner")
		}

		if err := store.Projects().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete project", err)
		}

		return nil, nil
	})
}
