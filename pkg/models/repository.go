// Package models contains the domain entities and DTOs shared across the
// log ingestion and analysis pipeline.
package models

import "time"

// Repository is an imported source repository.
//
// Field documentation mirrors ent/schema/repository.go; the actual
// runtime representation is a hand-written pgx mapping (pkg/store), not
// a generated ent client — see the entgo.io/ent entry under DESIGN.md
// "Dropped teacher dependencies".
type Repository struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"` // unique globally
	Owner      string    `json:"owner"`
	Name       string    `json:"name"`
	Private    bool      `json:"private"`
	OwnerUser  string    `json:"owner_user"`
	CreatedAt  time.Time `json:"created_at"`
}

// FullName returns "owner/name", matching the queue job envelope's
// repoFullName field (spec.md §6).
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
