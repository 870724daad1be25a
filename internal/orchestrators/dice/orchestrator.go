// Package dice implements the dice orchestrator: formula rolls with
// per-user history and saved macros.
package dice

//go:generate mockgen -destination=mock/mock_service.go -package=dicemock github.com/tabletopforge/encounter-api/internal/orchestrators/dice Service

import (
	"context"
	"log/slog"

	"github.com/tabletopforge/encounter-api/internal/errors"
	"github.com/tabletopforge/encounter-api/internal/pkg/dice"
	"github.com/tabletopforge/encounter-api/internal/pkg/idgen"
	"github.com/tabletopforge/encounter-api/internal/repositories/rollhistory"
)

// Service defines the interface for dice operations
type Service interface {
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)
	ListRolls(ctx context.Context, input *ListRollsInput) (*ListRollsOutput, error)
	ClearRolls(ctx context.Context, input *ClearRollsInput) (*ClearRollsOutput, error)

	CreateMacro(ctx context.Context, input *CreateMacroInput) (*CreateMacroOutput, error)
	ListMacros(ctx context.Context, input *ListMacrosInput) (*ListMacrosOutput, error)
	UpdateMacro(ctx context.Context, input *UpdateMacroInput) (*UpdateMacroOutput, error)
	DeleteMacro(ctx context.Context, input *DeleteMacroInput) (*DeleteMacroOutput, error)
	RollMacro(ctx context.Context, input *RollMacroInput) (*RollMacroOutput, error)
}

// Config holds the dependencies for the dice orchestrator
type Config struct {
	RollHistoryRepo rollhistory.Repository
	IDGenerator     idgen.Generator
	Roller          dice.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.RollHistoryRepo == nil {
		vb.RequiredField("RollHistoryRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// Orchestrator implements the Service interface
type Orchestrator struct {
	historyRepo rollhistory.Repository
	idGen       idgen.Generator
	roller      dice.Roller
}

// NewOrchestrator creates a new dice orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRoller()
	}

	return &Orchestrator{
		historyRepo: cfg.RollHistoryRepo,
		idGen:       cfg.IDGenerator,
		roller:      roller,
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ Service = (*Orchestrator)(nil)

// Roll evaluates a dice formula and records the result in the user's
// history.
func (o *Orchestrator) Roll(ctx context.Context, input *RollInput) (*RollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	errors.ValidateRequired("formula", input.Formula, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	roll, err := o.evaluateAndRecord(ctx, input.UserID, input.Formula, input.Label)
	if err != nil {
		return nil, err
	}

	return &RollOutput{Roll: roll}, nil
}

// ListRolls returns the user's most recent rolls, newest first
func (o *Orchestrator) ListRolls(ctx context.Context, input *ListRollsInput) (*ListRollsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.historyRepo.ListRolls(ctx, rollhistory.ListRollsInput{
		UserID: input.UserID,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &ListRollsOutput{Rolls: out.Rolls}, nil
}

// ClearRolls wipes the user's roll history
func (o *Orchestrator) ClearRolls(ctx context.Context, input *ClearRollsInput) (*ClearRollsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	if _, err := o.historyRepo.ClearRolls(ctx, rollhistory.ClearRollsInput{UserID: input.UserID}); err != nil {
		return nil, err
	}

	return &ClearRollsOutput{}, nil
}

// CreateMacro saves a named formula. The formula is evaluated once up
// front so a malformed macro is rejected at save time, not first use.
func (o *Orchestrator) CreateMacro(ctx context.Context, input *CreateMacroInput) (*CreateMacroOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	errors.ValidateRequired("name", input.Name, vb)
	errors.ValidateRequired("formula", input.Formula, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if _, err := dice.Eval(o.roller, input.Formula); err != nil {
		return nil, err
	}

	macro := &rollhistory.Macro{
		ID:          o.idGen.Generate(),
		UserID:      input.UserID,
		Name:        input.Name,
		Formula:     input.Formula,
		Description: input.Description,
		Color:       input.Color,
	}

	created, err := o.historyRepo.CreateMacro(ctx, rollhistory.CreateMacroInput{Macro: macro})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "created macro",
		"macro_id", created.Macro.ID,
		"formula", created.Macro.Formula)

	return &CreateMacroOutput{Macro: created.Macro}, nil
}

// ListMacros returns all macros owned by the user
func (o *Orchestrator) ListMacros(ctx context.Context, input *ListMacrosInput) (*ListMacrosOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.historyRepo.ListMacros(ctx, rollhistory.ListMacrosInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	return &ListMacrosOutput{Macros: out.Macros}, nil
}

// UpdateMacro overwrites one of the user's macros
func (o *Orchestrator) UpdateMacro(ctx context.Context, input *UpdateMacroInput) (*UpdateMacroOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", input.Name, vb)
	errors.ValidateRequired("formula", input.Formula, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if _, err := o.ownedMacro(ctx, input.UserID, input.MacroID); err != nil {
		return nil, err
	}

	if _, err := dice.Eval(o.roller, input.Formula); err != nil {
		return nil, err
	}

	updated, err := o.historyRepo.UpdateMacro(ctx, rollhistory.UpdateMacroInput{Macro: &rollhistory.Macro{
		ID:          input.MacroID,
		Name:        input.Name,
		Formula:     input.Formula,
		Description: input.Description,
		Color:       input.Color,
	}})
	if err != nil {
		return nil, err
	}

	return &UpdateMacroOutput{Macro: updated.Macro}, nil
}

// DeleteMacro removes one of the user's macros
func (o *Orchestrator) DeleteMacro(ctx context.Context, input *DeleteMacroInput) (*DeleteMacroOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	if _, err := o.ownedMacro(ctx, input.UserID, input.MacroID); err != nil {
		return nil, err
	}

	if _, err := o.historyRepo.DeleteMacro(ctx, rollhistory.DeleteMacroInput{ID: input.MacroID}); err != nil {
		return nil, err
	}

	return &DeleteMacroOutput{}, nil
}

// RollMacro evaluates a saved macro and records the result under the
// macro's name.
func (o *Orchestrator) RollMacro(ctx context.Context, input *RollMacroInput) (*RollMacroOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	macro, err := o.ownedMacro(ctx, input.UserID, input.MacroID)
	if err != nil {
		return nil, err
	}

	roll, err := o.evaluateAndRecord(ctx, input.UserID, macro.Formula, macro.Name)
	if err != nil {
		return nil, err
	}

	return &RollMacroOutput{Roll: roll, Macro: macro}, nil
}

// evaluateAndRecord rolls a formula and appends the result to the
// user's history. A history write failure loses the record but not the
// roll.
func (o *Orchestrator) evaluateAndRecord(ctx context.Context, userID, formula, label string) (*rollhistory.Roll, error) {
	result, err := dice.Eval(o.roller, formula)
	if err != nil {
		return nil, err
	}

	roll := &rollhistory.Roll{
		ID:      o.idGen.Generate(),
		UserID:  userID,
		Formula: formula,
		Result:  result.Total,
		Details: result.Details,
		Label:   label,
	}

	if _, err := o.historyRepo.AddRoll(ctx, rollhistory.AddRollInput{Roll: roll}); err != nil {
		slog.WarnContext(ctx, "failed to record roll",
			"user_id", userID,
			"error", err.Error())
	}

	return roll, nil
}

// ownedMacro fetches a macro and hides it from non-owners
func (o *Orchestrator) ownedMacro(ctx context.Context, userID, macroID string) (*rollhistory.Macro, error) {
	if macroID == "" {
		return nil, errors.InvalidArgument("macro ID is required")
	}

	out, err := o.historyRepo.GetMacro(ctx, rollhistory.GetMacroInput{ID: macroID})
	if err != nil {
		return nil, err
	}
	if userID != "" && out.Macro.UserID != userID {
		return nil, errors.NotFoundf("macro with ID %s not found", macroID)
	}

	return out.Macro, nil
}
