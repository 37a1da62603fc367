package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/ci-loglens/loglens/pkg/models"
)

// UpsertRepository inserts or refreshes a repository row keyed by its
// provider id (spec.md §4.12 "Repository & Run ingestion"). If r.ID is
// empty, a new id is generated for the insert case; an existing row's
// id always wins on conflict.
func (s *Store) UpsertRepository(ctx context.Context, r models.Repository) (models.Repository, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	const q = `
		INSERT INTO repositories (id, provider_id, owner, name, private, owner_user)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (provider_id) DO UPDATE SET
			owner      = EXCLUDED.owner,
			name       = EXCLUDED.name,
			private    = EXCLUDED.private,
			owner_user = EXCLUDED.owner_user
		RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, q,
		r.ID, r.ProviderID, r.Owner, r.Name, r.Private, r.OwnerUser,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return models.Repository{}, wrap("upsert repository", err)
	}
	return r, nil
}

// GetRepositoryByProviderID looks up a repository by its provider id.
func (s *Store) GetRepositoryByProviderID(ctx context.Context, providerID string) (models.Repository, error) {
	const q = `
		SELECT id, provider_id, owner, name, private, owner_user, created_at
		FROM repositories WHERE provider_id = $1`

	var r models.Repository
	err := s.pool.QueryRow(ctx, q, providerID).Scan(
		&r.ID, &r.ProviderID, &r.Owner, &r.Name, &r.Private, &r.OwnerUser, &r.CreatedAt,
	)
	if isNoRows(err) {
		return models.Repository{}, ErrRepositoryNotFound
	}
	if err != nil {
		return models.Repository{}, wrap("get repository", err)
	}
	return r, nil
}
