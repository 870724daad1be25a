// Package encounter provides the interface for encounter persistence
package encounter

//go:generate mockgen -destination=mock/mock_repository.go -package=encountermock github.com/tabletopforge/encounter-api/internal/repositories/encounter Repository

import (
	"context"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
)

// Repository defines the interface for encounter persistence.
// Alongside the flat encounter list it tracks, per user, which
// encounter is currently loaded into the live tracker.
type Repository interface {
	// Create creates a new encounter
	// Returns errors.AlreadyExists if encounter with same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves an encounter by ID
	// Returns errors.NotFound if encounter doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update overwrites an existing encounter
	// Returns errors.NotFound if encounter doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete deletes an encounter by ID, clearing the current pointer
	// if it references the deleted encounter
	// Returns errors.NotFound if encounter doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByUserID retrieves all encounters owned by a user
	ListByUserID(ctx context.Context, input ListByUserIDInput) (*ListByUserIDOutput, error)

	// GetCurrent retrieves the user's currently loaded encounter
	// Returns errors.NotFound if no encounter is current
	GetCurrent(ctx context.Context, input GetCurrentInput) (*GetCurrentOutput, error)

	// SetCurrent marks an encounter as the user's current one
	// Returns errors.NotFound if the encounter doesn't exist
	SetCurrent(ctx context.Context, input SetCurrentInput) (*SetCurrentOutput, error)

	// ClearCurrent clears the user's current encounter pointer.
	// Clearing when nothing is current is a no-op.
	ClearCurrent(ctx context.Context, input ClearCurrentInput) (*ClearCurrentOutput, error)
}

// CreateInput defines the input for creating an encounter
type CreateInput struct {
	Encounter *dnd5e.Encounter
}

// CreateOutput defines the output for creating an encounter
type CreateOutput struct {
	Encounter *dnd5e.Encounter
}

// GetInput defines the input for getting an encounter
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting an encounter
type GetOutput struct {
	Encounter *dnd5e.Encounter
}

// UpdateInput defines the input for updating an encounter
type UpdateInput struct {
	Encounter *dnd5e.Encounter
}

// UpdateOutput defines the output for updating an encounter
type UpdateOutput struct {
	Encounter *dnd5e.Encounter
}

// DeleteInput defines the input for deleting an encounter
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting an encounter
type DeleteOutput struct{}

// ListByUserIDInput defines the input for listing encounters by user
type ListByUserIDInput struct {
	UserID string
}

// ListByUserIDOutput defines the output for listing encounters by user
type ListByUserIDOutput struct {
	Encounters []*dnd5e.Encounter
}

// GetCurrentInput defines the input for getting the current encounter
type GetCurrentInput struct {
	UserID string
}

// GetCurrentOutput defines the output for getting the current encounter
type GetCurrentOutput struct {
	Encounter *dnd5e.Encounter
}

// SetCurrentInput defines the input for setting the current encounter
type SetCurrentInput struct {
	UserID      string
	EncounterID string
}

// SetCurrentOutput defines the output for setting the current encounter
type SetCurrentOutput struct{}

// ClearCurrentInput defines the input for clearing the current encounter
type ClearCurrentInput struct {
	UserID string
}

// ClearCurrentOutput defines the output for clearing the current encounter
type ClearCurrentOutput struct{}
