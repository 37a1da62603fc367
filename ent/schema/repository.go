// Package schema documents the field/edge/index shape of the pipeline's
// entities, in the vocabulary the teacher repo's ent.Schema definitions
// use (Fields/Edges/Indexes), without depending on entgo.io/ent itself.
//
// No `ent/ent.go` generated client exists in this tree — `go generate`
// is never run in this exercise (see the entgo.io/ent entry under
// DESIGN.md "Dropped teacher dependencies"). These files are the
// canonical source of truth for what pkg/store's hand-written pgx queries
// implement; each one names the pkg/store.Store methods for its table
// (the store files do not reference these files).
package schema

import "time"

// Repository documents the Repository entity.
// Implemented by pkg/store.Store (UpsertRepository,
// GetRepositoryByProviderID).
//
// Fields:
//
//	id           string    unique, immutable
//	provider_id  string    unique globally
//	owner        string
//	name         string
//	private      bool      default false
//	owner_user   string    user that imported the repository
//	created_at   time      default now, immutable
//
// Edges:
//
//	runs  → Run, one-to-many, cascade delete
//
// Indexes:
//
//	(owner, name) unique
type Repository struct {
	ID         string
	ProviderID string
	Owner      string
	Name       string
	Private    bool
	OwnerUser  string
	CreatedAt  time.Time
}
