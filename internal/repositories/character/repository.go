// Package character provides the interface for character persistence
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/tabletopforge/encounter-api/internal/repositories/character Repository

import (
	"context"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Create creates a new character
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if character with same ID exists
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a character by ID
	// Returns errors.InvalidArgument for empty/invalid IDs
	// Returns errors.NotFound if character doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetByIDs retrieves multiple characters by ID, preserving order
	// Returns errors.NotFound if any requested character doesn't exist
	GetByIDs(ctx context.Context, input GetByIDsInput) (*GetByIDsOutput, error)

	// Update updates an existing character
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if character doesn't exist
	// Returns errors.Internal for storage failures
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// UpdateHitPoints writes back only a character's hit points
	// Returns errors.NotFound if character doesn't exist
	UpdateHitPoints(ctx context.Context, input UpdateHitPointsInput) (*UpdateHitPointsOutput, error)

	// Delete deletes a character by ID
	// Returns errors.InvalidArgument for empty/invalid IDs
	// Returns errors.NotFound if character doesn't exist
	// Returns errors.Internal for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByUserID retrieves all characters owned by a user
	// Returns errors.InvalidArgument for empty/invalid user IDs
	// Returns errors.Internal for storage failures
	ListByUserID(ctx context.Context, input ListByUserIDInput) (*ListByUserIDOutput, error)
}

// CreateInput defines the input for creating a character
type CreateInput struct {
	Character *dnd5e.Character
}

// CreateOutput defines the output for creating a character
type CreateOutput struct {
	Character *dnd5e.Character
}

// GetInput defines the input for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *dnd5e.Character
}

// GetByIDsInput defines the input for getting multiple characters
type GetByIDsInput struct {
	IDs []string
}

// GetByIDsOutput defines the output for getting multiple characters
type GetByIDsOutput struct {
	Characters []*dnd5e.Character
}

// UpdateInput defines the input for updating a character
type UpdateInput struct {
	Character *dnd5e.Character
}

// UpdateOutput defines the output for updating a character
type UpdateOutput struct {
	Character *dnd5e.Character
}

// UpdateHitPointsInput defines the input for a hit point write-back
type UpdateHitPointsInput struct {
	ID        string
	HitPoints dnd5e.HitPoints
}

// UpdateHitPointsOutput defines the output for a hit point write-back
type UpdateHitPointsOutput struct {
	Character *dnd5e.Character
}

// DeleteInput defines the input for deleting a character
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a character
type DeleteOutput struct{}

// ListByUserIDInput defines the input for listing characters by user
type ListByUserIDInput struct {
	UserID string
}

// ListByUserIDOutput defines the output for listing characters by user
type ListByUserIDOutput struct {
	Characters []*dnd5e.Character
}
