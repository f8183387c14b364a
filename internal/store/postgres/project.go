package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboard/corkboard/internal/domain"
)

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO projects (id, owner_id, name, description, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.OwnerID, p.Name, p.Description, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("projectRepo.Create: %w", err)
	}

	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var p domain.Project

	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, description, created_at FROM projects WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("projectRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("projectRepo.GetByID: %w", err)
	}

	return &p, nil
}

func (r *ProjectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM projects WHERE owner_id = $1
		 ORDER BY created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("projectRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("projectRepo.ListByOwner: scan: %w", err)
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("projectRepo.ListByOwner: rows: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE projects SET name = $1, description = $2 WHERE id = $3`,
		p.Name, p.Description, p.ID,
	)
	if err != nil {
		return fmt.Errorf("projectRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("projectRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM projects WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("projectRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("projectRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
