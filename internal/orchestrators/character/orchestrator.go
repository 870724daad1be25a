// Package character implements the roster orchestrator: CRUD over
// player characters, NPCs, and monsters.
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/tabletopforge/encounter-api/internal/orchestrators/character Service

import (
	"context"
	"log/slog"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	"github.com/tabletopforge/encounter-api/internal/errors"
	"github.com/tabletopforge/encounter-api/internal/pkg/idgen"
	characterrepo "github.com/tabletopforge/encounter-api/internal/repositories/character"
	encounterrepo "github.com/tabletopforge/encounter-api/internal/repositories/encounter"
)

// Service defines the interface for roster operations
type Service interface {
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	UpdateCharacter(ctx context.Context, input *UpdateCharacterInput) (*UpdateCharacterOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)
}

// Config holds the dependencies for the roster orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	EncounterRepo encounterrepo.Repository
	IDGenerator   idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.EncounterRepo == nil {
		vb.RequiredField("EncounterRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// Orchestrator implements the Service interface
type Orchestrator struct {
	characterRepo characterrepo.Repository
	encounterRepo encounterrepo.Repository
	idGen         idgen.Generator
}

// NewOrchestrator creates a new roster orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Orchestrator{
		characterRepo: cfg.CharacterRepo,
		encounterRepo: cfg.EncounterRepo,
		idGen:         cfg.IDGenerator,
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ Service = (*Orchestrator)(nil)

// validateCharacter checks the roster-facing fields of a character
func validateCharacter(c *dnd5e.Character) error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("name", c.Name, vb)
	errors.ValidateEnum("type", string(c.Type), dnd5e.CharacterTypes(), vb)

	if c.HitPoints.Max < 1 {
		vb.Field("hitPoints.max", "must be at least 1")
	}
	if c.HitPoints.Current < 0 {
		vb.Field("hitPoints.current", "cannot be negative")
	}
	if c.HitPoints.Current > c.HitPoints.Max {
		vb.Field("hitPoints.current", "cannot exceed max")
	}
	if c.ArmorClass < 0 {
		vb.Field("armorClass", "cannot be negative")
	}

	errors.ValidateRange("abilities.str", c.Abilities.Strength, 1, 30, vb)
	errors.ValidateRange("abilities.dex", c.Abilities.Dexterity, 1, 30, vb)
	errors.ValidateRange("abilities.con", c.Abilities.Constitution, 1, 30, vb)
	errors.ValidateRange("abilities.int", c.Abilities.Intelligence, 1, 30, vb)
	errors.ValidateRange("abilities.wis", c.Abilities.Wisdom, 1, 30, vb)
	errors.ValidateRange("abilities.cha", c.Abilities.Charisma, 1, 30, vb)

	if c.MonsterStats != nil && c.Type != dnd5e.CharacterTypeMonster {
		vb.Field("monsterStats", "only allowed for monsters")
	}

	return vb.Build()
}

// CreateCharacter adds a character to the user's roster. The
// initiative bonus defaults to the Dexterity modifier unless a value
// is supplied.
func (o *Orchestrator) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char := input.Character.Clone()
	if err := validateCharacter(char); err != nil {
		return nil, err
	}

	char.ID = o.idGen.Generate()
	char.UserID = input.UserID
	if input.InitiativeBonus != nil {
		char.InitiativeBonus = *input.InitiativeBonus
	} else {
		char.InitiativeBonus = dnd5e.Modifier(char.Abilities.Dexterity)
	}

	created, err := o.characterRepo.Create(ctx, characterrepo.CreateInput{Character: char})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "created character",
		"character_id", created.Character.ID,
		"type", created.Character.Type)

	return &CreateCharacterOutput{Character: created.Character}, nil
}

// GetCharacter retrieves a character by ID
func (o *Orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}

	return &GetCharacterOutput{Character: out.Character}, nil
}

// ListCharacters lists all characters on the user's roster
func (o *Orchestrator) ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out, err := o.characterRepo.ListByUserID(ctx, characterrepo.ListByUserIDInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	return &ListCharactersOutput{Characters: out.Characters}, nil
}

// UpdateCharacter overwrites a roster character. Participants already
// snapshotted into encounters are not touched.
func (o *Orchestrator) UpdateCharacter(ctx context.Context, input *UpdateCharacterInput) (*UpdateCharacterOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	existing, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}

	char := input.Character.Clone()
	char.ID = input.CharacterID
	char.UserID = existing.Character.UserID
	if err := validateCharacter(char); err != nil {
		return nil, err
	}

	updated, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &UpdateCharacterOutput{Character: updated.Character}, nil
}

// DeleteCharacter removes a character from the roster and strips it
// from any of the owner's encounters that still list it, keeping each
// encounter's turn index valid.
func (o *Orchestrator) DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	existing, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}

	if _, err := o.characterRepo.Delete(ctx, characterrepo.DeleteInput{ID: input.CharacterID}); err != nil {
		return nil, err
	}

	o.stripFromEncounters(ctx, existing.Character.UserID, input.CharacterID)

	return &DeleteCharacterOutput{}, nil
}

// stripFromEncounters removes the deleted character's participants
// from the owner's encounters. Failures are logged, not surfaced: the
// roster delete has already committed.
func (o *Orchestrator) stripFromEncounters(ctx context.Context, userID, characterID string) {
	if userID == "" {
		return
	}

	list, err := o.encounterRepo.ListByUserID(ctx, encounterrepo.ListByUserIDInput{UserID: userID})
	if err != nil {
		slog.WarnContext(ctx, "failed to list encounters for participant cleanup",
			"character_id", characterID,
			"error", err.Error())
		return
	}

	for _, enc := range list.Encounters {
		idx := -1
		for i, p := range enc.Participants {
			if p.ID == characterID {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}

		enc.Participants = append(enc.Participants[:idx], enc.Participants[idx+1:]...)
		if idx < enc.CurrentTurnIndex {
			enc.CurrentTurnIndex--
		}
		enc.ClampTurnIndex()

		if _, err := o.encounterRepo.Update(ctx, encounterrepo.UpdateInput{Encounter: enc}); err != nil {
			slog.WarnContext(ctx, "failed to strip deleted character from encounter",
				"character_id", characterID,
				"encounter_id", enc.ID,
				"error", err.Error())
		}
	}
}
