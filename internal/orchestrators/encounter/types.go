package encounter

import (
	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
)

// DeathSaveKind selects which death-save track an update targets
type DeathSaveKind string

// Death-save tracks
const (
	DeathSaveSuccess DeathSaveKind = "success"
	DeathSaveFailure DeathSaveKind = "failure"
)

// Lifecycle types

// CreateEncounterInput defines the request for creating an encounter
type CreateEncounterInput struct {
	UserID       string
	Name         string
	CharacterIDs []string
	DMNotes      string
}

// CreateEncounterOutput defines the response for creating an encounter
type CreateEncounterOutput struct {
	Encounter *dnd5e.Encounter
}

// GetEncounterInput defines the request for getting an encounter
type GetEncounterInput struct {
	EncounterID string
}

// GetEncounterOutput defines the response for getting an encounter
type GetEncounterOutput struct {
	Encounter *dnd5e.Encounter
}

// ListEncountersInput defines the request for listing a user's encounters
type ListEncountersInput struct {
	UserID string
}

// ListEncountersOutput defines the response for listing encounters
type ListEncountersOutput struct {
	Encounters []*dnd5e.Encounter
}

// GetCurrentEncounterInput defines the request for the current encounter
type GetCurrentEncounterInput struct {
	UserID string
}

// GetCurrentEncounterOutput defines the response for the current encounter
type GetCurrentEncounterOutput struct {
	Encounter *dnd5e.Encounter
}

// StartEncounterInput defines the request for starting an encounter
type StartEncounterInput struct {
	EncounterID string
}

// StartEncounterOutput defines the response for starting an encounter
type StartEncounterOutput struct {
	Encounter *dnd5e.Encounter
}

// EndEncounterInput defines the request for ending an encounter
type EndEncounterInput struct {
	EncounterID string
}

// EndEncounterOutput defines the response for ending an encounter
type EndEncounterOutput struct {
	Encounter *dnd5e.Encounter
}

// EndAndSaveEncounterInput defines the request for ending an encounter
// with a roster write-back
type EndAndSaveEncounterInput struct {
	EncounterID string
}

// SaveFailure reports one participant whose hit point write-back failed
type SaveFailure struct {
	CharacterID string `json:"characterId"`
	Name        string `json:"name"`
	Message     string `json:"message"`
}

// EndAndSaveEncounterOutput defines the response for end-and-save.
// Failures lists participants whose write-back did not succeed; the
// encounter is closed regardless.
type EndAndSaveEncounterOutput struct {
	Encounter *dnd5e.Encounter
	Failures  []SaveFailure
}

// DeleteEncounterInput defines the request for deleting an encounter
type DeleteEncounterInput struct {
	EncounterID string
}

// DeleteEncounterOutput defines the response for deleting an encounter
type DeleteEncounterOutput struct{}

// AddParticipantInput defines the request for adding a participant
type AddParticipantInput struct {
	EncounterID string
	CharacterID string
}

// AddParticipantOutput defines the response for adding a participant
type AddParticipantOutput struct {
	Encounter   *dnd5e.Encounter
	Participant *dnd5e.Participant
}

// RemoveParticipantInput defines the request for removing a participant
type RemoveParticipantInput struct {
	EncounterID   string
	ParticipantID string
}

// RemoveParticipantOutput defines the response for removing a participant
type RemoveParticipantOutput struct {
	Encounter *dnd5e.Encounter
}

// Initiative types

// RollAllInitiativeInput defines the request for rolling all initiative
type RollAllInitiativeInput struct {
	EncounterID string
}

// RollAllInitiativeOutput defines the response for rolling all initiative
type RollAllInitiativeOutput struct {
	Encounter *dnd5e.Encounter
}

// RollParticipantInitiativeInput defines the request for re-rolling one
// participant's initiative
type RollParticipantInitiativeInput struct {
	EncounterID   string
	ParticipantID string
}

// RollParticipantInitiativeOutput defines the response for a single roll
type RollParticipantInitiativeOutput struct {
	Encounter   *dnd5e.Encounter
	Participant *dnd5e.Participant
}

// SetInitiativeInput defines the request for a manual initiative value
type SetInitiativeInput struct {
	EncounterID   string
	ParticipantID string
	Initiative    int
}

// SetInitiativeOutput defines the response for a manual initiative value
type SetInitiativeOutput struct {
	Encounter   *dnd5e.Encounter
	Participant *dnd5e.Participant
}

// SortInitiativeInput defines the request for re-sorting the order
type SortInitiativeInput struct {
	EncounterID string
}

// SortInitiativeOutput defines the response for re-sorting the order
type SortInitiativeOutput struct {
	Encounter *dnd5e.Encounter
}

// NextTurnInput defines the request for advancing the turn
type NextTurnInput struct {
	EncounterID string
}

// NextTurnOutput defines the response for advancing the turn
type NextTurnOutput struct {
	Encounter   *dnd5e.Encounter
	Participant *dnd5e.Participant
}

// Health types

// ApplyHitPointDeltaInput defines the request for applying damage or
// healing. Amount is negative for damage, positive for healing.
type ApplyHitPointDeltaInput struct {
	EncounterID   string
	ParticipantID string
	Amount        int
}

// ApplyHitPointDeltaOutput defines the response for a hit point delta.
// ConcentrationCheck signals that the target was concentrating when
// damaged; the DC is advisory and nothing is auto-dropped.
type ApplyHitPointDeltaOutput struct {
	Encounter          *dnd5e.Encounter
	Participant        *dnd5e.Participant
	MassiveDamage      bool
	ConcentrationCheck bool
	ConcentrationDC    int
}

// UpdateDeathSavesInput defines the request for setting a death-save
// counter
type UpdateDeathSavesInput struct {
	EncounterID   string
	ParticipantID string
	Kind          DeathSaveKind
	Value         int
}

// UpdateDeathSavesOutput defines the response for a death-save update
type UpdateDeathSavesOutput struct {
	Encounter   *dnd5e.Encounter
	Participant *dnd5e.Participant
}

// Condition types

// AddConditionInput defines the request for attaching a condition
type AddConditionInput struct {
	EncounterID   string
	ParticipantID string
	ConditionID   string
	Duration      *int
}

// AddConditionOutput defines the response for attaching a condition
type AddConditionOutput struct {
	Encounter   *dnd5e.Encounter
	Participant *dnd5e.Participant
}

// RemoveConditionInput defines the request for detaching a condition
type RemoveConditionInput struct {
	EncounterID   string
	ParticipantID string
	ConditionID   string
}

// RemoveConditionOutput defines the response for detaching a condition
type RemoveConditionOutput struct {
	Encounter   *dnd5e.Encounter
	Participant *dnd5e.Participant
}

// SetConcentrationInput defines the request for toggling concentration
type SetConcentrationInput struct {
	EncounterID   string
	ParticipantID string
	Concentrating bool
}

// SetConcentrationOutput defines the response for toggling concentration
type SetConcentrationOutput struct {
	Encounter   *dnd5e.Encounter
	Participant *dnd5e.Participant
}
