// Package encounter implements the encounter orchestrator: lifecycle,
// initiative order, hit point and mortality tracking, and conditions.
package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=encountermock github.com/tabletopforge/encounter-api/internal/orchestrators/encounter Service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	"github.com/tabletopforge/encounter-api/internal/errors"
	"github.com/tabletopforge/encounter-api/internal/pkg/dice"
	"github.com/tabletopforge/encounter-api/internal/pkg/idgen"
	characterrepo "github.com/tabletopforge/encounter-api/internal/repositories/character"
	encounterrepo "github.com/tabletopforge/encounter-api/internal/repositories/encounter"
)

// Service defines the interface for encounter operations
type Service interface {
	// Lifecycle
	CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*CreateEncounterOutput, error)
	GetEncounter(ctx context.Context, input *GetEncounterInput) (*GetEncounterOutput, error)
	ListEncounters(ctx context.Context, input *ListEncountersInput) (*ListEncountersOutput, error)
	GetCurrentEncounter(ctx context.Context, input *GetCurrentEncounterInput) (*GetCurrentEncounterOutput, error)
	StartEncounter(ctx context.Context, input *StartEncounterInput) (*StartEncounterOutput, error)
	EndEncounter(ctx context.Context, input *EndEncounterInput) (*EndEncounterOutput, error)
	EndAndSaveEncounter(ctx context.Context, input *EndAndSaveEncounterInput) (*EndAndSaveEncounterOutput, error)
	DeleteEncounter(ctx context.Context, input *DeleteEncounterInput) (*DeleteEncounterOutput, error)
	AddParticipant(ctx context.Context, input *AddParticipantInput) (*AddParticipantOutput, error)
	RemoveParticipant(ctx context.Context, input *RemoveParticipantInput) (*RemoveParticipantOutput, error)

	// Initiative
	RollAllInitiative(ctx context.Context, input *RollAllInitiativeInput) (*RollAllInitiativeOutput, error)
	RollParticipantInitiative(ctx context.Context, input *RollParticipantInitiativeInput) (*RollParticipantInitiativeOutput, error)
	SetInitiative(ctx context.Context, input *SetInitiativeInput) (*SetInitiativeOutput, error)
	SortInitiative(ctx context.Context, input *SortInitiativeInput) (*SortInitiativeOutput, error)
	NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error)

	// Health and mortality
	ApplyHitPointDelta(ctx context.Context, input *ApplyHitPointDeltaInput) (*ApplyHitPointDeltaOutput, error)
	UpdateDeathSaves(ctx context.Context, input *UpdateDeathSavesInput) (*UpdateDeathSavesOutput, error)

	// Conditions
	AddCondition(ctx context.Context, input *AddConditionInput) (*AddConditionOutput, error)
	RemoveCondition(ctx context.Context, input *RemoveConditionInput) (*RemoveConditionOutput, error)
	SetConcentration(ctx context.Context, input *SetConcentrationInput) (*SetConcentrationOutput, error)
}

// Config holds the dependencies for the encounter orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	EncounterRepo encounterrepo.Repository
	IDGenerator   idgen.Generator
	Roller        dice.Roller
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
	roller        dice.Roller

	// Serializes mutating operations: each one is a read-modify-write
	// over a stored encounter with no interleaving.
	mu sync.Mutex
}

// NewOrchestrator creates a new encounter orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRoller()
	}

	return &Orchestrator{
		characterRepo: cfg.CharacterRepo,
		encounterRepo: cfg.EncounterRepo,
		idGen:         cfg.IDGenerator,
		roller:        roller,
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ Service = (*Orchestrator)(nil)

// Lifecycle methods

// CreateEncounter snapshots the named characters into a new inactive
// encounter. Each participant is a decoupled copy of its character.
func (o *Orchestrator) CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*CreateEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	errors.ValidateRequired("name", input.Name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	chars, err := o.characterRepo.GetByIDs(ctx, characterrepo.GetByIDsInput{IDs: input.CharacterIDs})
	if err != nil {
		return nil, err
	}

	participants := make([]*dnd5e.Participant, 0, len(chars.Characters))
	for _, c := range chars.Characters {
		participants = append(participants, dnd5e.NewParticipant(c))
	}

	enc := &dnd5e.Encounter{
		ID:               o.idGen.Generate(),
		UserID:           input.UserID,
		Name:             input.Name,
		Participants:     participants,
		CurrentRound:     1,
		CurrentTurnIndex: 0,
		IsActive:         false,
		DMNotes:          input.DMNotes,
	}

	created, err := o.encounterRepo.Create(ctx, encounterrepo.CreateInput{Encounter: enc})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "created encounter",
		"encounter_id", created.Encounter.ID,
		"participants", len(created.Encounter.Participants))

	return &CreateEncounterOutput{Encounter: created.Encounter}, nil
}

// GetEncounter retrieves an encounter by ID
func (o *Orchestrator) GetEncounter(ctx context.Context, input *GetEncounterInput) (*GetEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.encounterRepo.Get(ctx, encounterrepo.GetInput{ID: input.EncounterID})
	if err != nil {
		return nil, err
	}

	return &GetEncounterOutput{Encounter: out.Encounter}, nil
}

// ListEncounters lists all encounters owned by a user
func (o *Orchestrator) ListEncounters(ctx context.Context, input *ListEncountersInput) (*ListEncountersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out, err := o.encounterRepo.ListByUserID(ctx, encounterrepo.ListByUserIDInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	return &ListEncountersOutput{Encounters: out.Encounters}, nil
}

// GetCurrentEncounter retrieves the user's currently loaded encounter
func (o *Orchestrator) GetCurrentEncounter(ctx context.Context, input *GetCurrentEncounterInput) (*GetCurrentEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.encounterRepo.GetCurrent(ctx, encounterrepo.GetCurrentInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	return &GetCurrentEncounterOutput{Encounter: out.Encounter}, nil
}

// StartEncounter activates an encounter and installs it as the user's
// current one. Combat state from any previous run is reset.
func (o *Orchestrator) StartEncounter(ctx context.Context, input *StartEncounterInput) (*StartEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, err := o.loadEncounter(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	for _, p := range enc.Participants {
		p.ResetCombatState()
	}
	enc.CurrentRound = 1
	enc.CurrentTurnIndex = 0
	enc.IsActive = true

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	if _, err := o.encounterRepo.SetCurrent(ctx, encounterrepo.SetCurrentInput{
		UserID:      enc.UserID,
		EncounterID: enc.ID,
	}); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "started encounter", "encounter_id", enc.ID)

	return &StartEncounterOutput{Encounter: saved}, nil
}

// EndEncounter closes an encounter without writing hit points back to
// the roster.
func (o *Orchestrator) EndEncounter(ctx context.Context, input *EndEncounterInput) (*EndEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, err := o.closeEncounter(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	return &EndEncounterOutput{Encounter: enc}, nil
}

// EndAndSaveEncounter writes every participant's final hit points back
// to its source character, then closes the encounter. Write-back
// failures are collected and reported rather than aborting the close;
// a missing source character is skipped the same way.
func (o *Orchestrator) EndAndSaveEncounter(ctx context.Context, input *EndAndSaveEncounterInput) (*EndAndSaveEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, err := o.loadEncounter(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	var failures []SaveFailure
	for _, p := range enc.Participants {
		_, err := o.characterRepo.UpdateHitPoints(ctx, characterrepo.UpdateHitPointsInput{
			ID:        p.ID,
			HitPoints: p.HitPoints,
		})
		if err != nil {
			slog.WarnContext(ctx, "hit point write-back failed",
				"encounter_id", enc.ID,
				"character_id", p.ID,
				"error", err.Error())
			failures = append(failures, SaveFailure{
				CharacterID: p.ID,
				Name:        p.Name,
				Message:     errors.GetMessage(err),
			})
		}
	}

	closed, err := o.closeEncounter(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	return &EndAndSaveEncounterOutput{Encounter: closed, Failures: failures}, nil
}

// DeleteEncounter removes an encounter, clearing the current pointer
// if it was loaded.
func (o *Orchestrator) DeleteEncounter(ctx context.Context, input *DeleteEncounterInput) (*DeleteEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := o.encounterRepo.Delete(ctx, encounterrepo.DeleteInput{ID: input.EncounterID}); err != nil {
		return nil, err
	}

	return &DeleteEncounterOutput{}, nil
}

// AddParticipant snapshots a character into the encounter with a
// freshly rolled initiative and re-sorts the order so the new arrival
// lands in the right slot.
func (o *Orchestrator) AddParticipant(ctx context.Context, input *AddParticipantInput) (*AddParticipantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, err := o.loadEncounter(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	if enc.FindParticipant(input.CharacterID) != nil {
		return nil, errors.AlreadyExistsf("character %s is already in encounter %s", input.CharacterID, enc.ID)
	}

	char, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}

	p := dnd5e.NewParticipant(char.Character)
	p.Initiative = dice.RollInitiative(o.roller, p.InitiativeBonus)
	enc.Participants = append(enc.Participants, p)
	resortPreservingActor(enc)

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	return &AddParticipantOutput{Encounter: saved, Participant: p}, nil
}

// RemoveParticipant deletes a participant from the encounter, keeping
// the turn index valid.
func (o *Orchestrator) RemoveParticipant(ctx context.Context, input *RemoveParticipantInput) (*RemoveParticipantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, err := o.loadEncounter(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, p := range enc.Participants {
		if p.ID == input.ParticipantID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.NotFoundf("participant %s not found in encounter %s", input.ParticipantID, enc.ID)
	}

	enc.Participants = append(enc.Participants[:idx], enc.Participants[idx+1:]...)
	if idx < enc.CurrentTurnIndex {
		enc.CurrentTurnIndex--
	}
	enc.ClampTurnIndex()

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	return &RemoveParticipantOutput{Encounter: saved}, nil
}

// Helpers

func (o *Orchestrator) loadEncounter(ctx context.Context, id string) (*dnd5e.Encounter, error) {
	if id == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	out, err := o.encounterRepo.Get(ctx, encounterrepo.GetInput{ID: id})
	if err != nil {
		return nil, err
	}
	return out.Encounter, nil
}

func (o *Orchestrator) persist(ctx context.Context, enc *dnd5e.Encounter) (*dnd5e.Encounter, error) {
	out, err := o.encounterRepo.Update(ctx, encounterrepo.UpdateInput{Encounter: enc})
	if err != nil {
		return nil, err
	}
	return out.Encounter, nil
}

// closeEncounter deactivates the encounter and clears the current
// pointer when it references it.
func (o *Orchestrator) closeEncounter(ctx context.Context, id string) (*dnd5e.Encounter, error) {
	enc, err := o.loadEncounter(ctx, id)
	if err != nil {
		return nil, err
	}

	enc.IsActive = false
	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	current, err := o.encounterRepo.GetCurrent(ctx, encounterrepo.GetCurrentInput{UserID: enc.UserID})
	if err == nil && current.Encounter.ID == enc.ID {
		if _, err := o.encounterRepo.ClearCurrent(ctx, encounterrepo.ClearCurrentInput{UserID: enc.UserID}); err != nil {
			slog.WarnContext(ctx, "failed to clear current encounter pointer",
				"encounter_id", enc.ID,
				"error", err.Error())
		}
	}

	slog.DebugContext(ctx, "ended encounter", "encounter_id", enc.ID)

	return saved, nil
}

// loadParticipant resolves an encounter and one of its participants
func (o *Orchestrator) loadParticipant(ctx context.Context, encounterID, participantID string) (*dnd5e.Encounter, *dnd5e.Participant, error) {
	enc, err := o.loadEncounter(ctx, encounterID)
	if err != nil {
		return nil, nil, err
	}

	p := enc.FindParticipant(participantID)
	if p == nil {
		return nil, nil, errors.NotFoundf("participant %s not found in encounter %s", participantID, encounterID)
	}

	return enc, p, nil
}
