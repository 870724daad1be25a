package dice

import (
	"github.com/tabletopforge/encounter-api/internal/repositories/rollhistory"
)

// RollInput defines the request for evaluating a formula
type RollInput struct {
	UserID  string
	Formula string
	Label   string
}

// RollOutput defines the response for evaluating a formula
type RollOutput struct {
	Roll *rollhistory.Roll
}

// ListRollsInput defines the request for listing roll history
type ListRollsInput struct {
	UserID string
	Limit  int
}

// ListRollsOutput defines the response for listing roll history
type ListRollsOutput struct {
	Rolls []*rollhistory.Roll
}

// ClearRollsInput defines the request for clearing roll history
type ClearRollsInput struct {
	UserID string
}

// ClearRollsOutput defines the response for clearing roll history
type ClearRollsOutput struct{}

// CreateMacroInput defines the request for saving a macro
type CreateMacroInput struct {
	UserID      string
	Name        string
	Formula     string
	Description string
	Color       string
}

// CreateMacroOutput defines the response for saving a macro
type CreateMacroOutput struct {
	Macro *rollhistory.Macro
}

// ListMacrosInput defines the request for listing macros
type ListMacrosInput struct {
	UserID string
}

// ListMacrosOutput defines the response for listing macros
type ListMacrosOutput struct {
	Macros []*rollhistory.Macro
}

// UpdateMacroInput defines the request for updating a macro
type UpdateMacroInput struct {
	UserID      string
	MacroID     string
	Name        string
	Formula     string
	Description string
	Color       string
}

// UpdateMacroOutput defines the response for updating a macro
type UpdateMacroOutput struct {
	Macro *rollhistory.Macro
}

// DeleteMacroInput defines the request for deleting a macro
type DeleteMacroInput struct {
	UserID  string
	MacroID string
}

// DeleteMacroOutput defines the response for deleting a macro
type DeleteMacroOutput struct{}

// RollMacroInput defines the request for rolling a saved macro
type RollMacroInput struct {
	UserID  string
	MacroID string
}

// RollMacroOutput defines the response for rolling a saved macro
type RollMacroOutput struct {
	Roll  *rollhistory.Roll
	Macro *rollhistory.Macro
}
