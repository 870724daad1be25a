// Package rollhistory provides repository interface and types for dice
// roll history and saved macros.
package rollhistory

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=rollhistorymock github.com/tabletopforge/encounter-api/internal/repositories/rollhistory Repository

// Roll is a single evaluated dice formula
type Roll struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Formula   string    `json:"formula"`
	Result    int       `json:"result"`
	Details   string    `json:"details,omitempty"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Macro is a saved dice formula with a display name
type Macro struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Formula     string    `json:"formula"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Repository defines the interface for roll history and macro persistence.
// History is a bounded per-user list, newest first, with a sliding TTL;
// macros are durable.
type Repository interface {
	// AddRoll prepends a roll to the user's history
	AddRoll(ctx context.Context, input AddRollInput) (*AddRollOutput, error)

	// ListRolls returns the user's most recent rolls, newest first
	ListRolls(ctx context.Context, input ListRollsInput) (*ListRollsOutput, error)

	// ClearRolls removes the user's entire roll history
	ClearRolls(ctx context.Context, input ClearRollsInput) (*ClearRollsOutput, error)

	// CreateMacro stores a new macro
	// Returns errors.AlreadyExists if a macro with the same ID exists
	CreateMacro(ctx context.Context, input CreateMacroInput) (*CreateMacroOutput, error)

	// GetMacro retrieves a macro by ID
	// Returns errors.NotFound if the macro doesn't exist
	GetMacro(ctx context.Context, input GetMacroInput) (*GetMacroOutput, error)

	// ListMacros returns all macros owned by a user
	ListMacros(ctx context.Context, input ListMacrosInput) (*ListMacrosOutput, error)

	// UpdateMacro overwrites an existing macro
	// Returns errors.NotFound if the macro doesn't exist
	UpdateMacro(ctx context.Context, input UpdateMacroInput) (*UpdateMacroOutput, error)

	// DeleteMacro removes a macro by ID
	// Returns errors.NotFound if the macro doesn't exist
	DeleteMacro(ctx context.Context, input DeleteMacroInput) (*DeleteMacroOutput, error)
}

// AddRollInput contains parameters for recording a roll
type AddRollInput struct {
	Roll *Roll
}

// AddRollOutput is the result of recording a roll
type AddRollOutput struct {
	Roll *Roll
}

// ListRollsInput contains parameters for listing roll history
type ListRollsInput struct {
	UserID string
	Limit  int
}

// ListRollsOutput is the result of listing roll history
type ListRollsOutput struct {
	Rolls []*Roll
}

// ClearRollsInput contains parameters for clearing roll history
type ClearRollsInput struct {
	UserID string
}

// ClearRollsOutput is the result of clearing roll history
type ClearRollsOutput struct{}

// CreateMacroInput contains parameters for creating a macro
type CreateMacroInput struct {
	Macro *Macro
}

// CreateMacroOutput is the result of creating a macro
type CreateMacroOutput struct {
	Macro *Macro
}

// GetMacroInput contains parameters for getting a macro
type GetMacroInput struct {
	ID string
}

// GetMacroOutput is the result of getting a macro
type GetMacroOutput struct {
	Macro *Macro
}

// ListMacrosInput contains parameters for listing macros
type ListMacrosInput struct {
	UserID string
}

// ListMacrosOutput is the result of listing macros
type ListMacrosOutput struct {
	Macros []*Macro
}

// UpdateMacroInput contains parameters for updating a macro
type UpdateMacroInput struct {
	Macro *Macro
}

// UpdateMacroOutput is the result of updating a macro
type UpdateMacroOutput struct {
	Macro *Macro
}

// DeleteMacroInput contains parameters for deleting a macro
type DeleteMacroInput struct {
	ID string
}

// DeleteMacroOutput is the result of deleting a macro
type DeleteMacroOutput struct{}
