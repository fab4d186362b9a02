package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// ProfileRepositoryPG implements domain.ProfileStore on PostgreSQL.
type ProfileRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewProfileRepository creates a new profile repo.
func NewProfileRepository(sqlx infra.SQLExecutor) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{sql: sqlx}
}

// Create inserts a profile and fills in its generated id and timestamp.
func (r *ProfileRepositoryPG) Create(ctx context.Context, profile *domain.Profile) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertProfile,
		profile.Category, profile.Name, profile.Picture, profile.Biodata, profile.Purpose)
	return row.Scan(&profile.ID, &profile.CreatedAt)
}

// List returns profiles, optionally filtered by category.
func (r *ProfileRepositoryPG) List(ctx context.Context, category string) ([]domain.Profile, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListProfiles, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Profile
	for rows.Next() {
		var profile domain.Profile
		if err := rows.Scan(&profile.ID, &profile.Category, &profile.Name, &profile.Picture, &profile.Biodata, &profile.Purpose, &profile.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID looks a profile up, returning domain.ErrNotFound when absent.
func (r *ProfileRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectProfile, id)
	var profile domain.Profile
	if err := row.Scan(&profile.ID, &profile.Category, &profile.Name, &profile.Picture, &profile.Biodata, &profile.Purpose, &profile.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}
