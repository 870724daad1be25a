package encounter

import (
	"context"
	"log/slog"
	"sort"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	"github.com/tabletopforge/encounter-api/internal/errors"
	"github.com/tabletopforge/encounter-api/internal/pkg/dice"
)

// sortByInitiative orders participants descending by initiative.
// The sort is stable, so ties keep their existing relative order.
func sortByInitiative(enc *dnd5e.Encounter) {
	sort.SliceStable(enc.Participants, func(i, j int) bool {
		return enc.Participants[i].Initiative > enc.Participants[j].Initiative
	})
}

// resortPreservingActor re-sorts the list and recomputes the turn
// index so it still points at the same participant. Re-rolling or
// editing one initiative mid-round must not silently hand the turn to
// someone else.
func resortPreservingActor(enc *dnd5e.Encounter) {
	current := enc.CurrentParticipant()
	sortByInitiative(enc)
	if current == nil {
		enc.ClampTurnIndex()
		return
	}
	for i, p := range enc.Participants {
		if p.ID == current.ID {
			enc.CurrentTurnIndex = i
			return
		}
	}
	enc.ClampTurnIndex()
}

// RollAllInitiative rolls d20 + bonus for every participant, sorts
// descending, and resets the turn pointer to the top of the order.
func (o *Orchestrator) RollAllInitiative(ctx context.Context, input *RollAllInitiativeInput) (*RollAllInitiativeOutput, error) {
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
		p.Initiative = dice.RollInitiative(o.roller, p.InitiativeBonus)
	}
	sortByInitiative(enc)
	enc.CurrentTurnIndex = 0

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "rolled initiative for all participants",
		"encounter_id", enc.ID,
		"participants", len(enc.Participants))

	return &RollAllInitiativeOutput{Encounter: saved}, nil
}

// RollParticipantInitiative re-rolls one participant's initiative and
// re-sorts the whole order. The current actor keeps the turn.
func (o *Orchestrator) RollParticipantInitiative(ctx context.Context, input *RollParticipantInitiativeInput) (*RollParticipantInitiativeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, p, err := o.loadParticipant(ctx, input.EncounterID, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	p.Initiative = dice.RollInitiative(o.roller, p.InitiativeBonus)
	resortPreservingActor(enc)

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	return &RollParticipantInitiativeOutput{Encounter: saved, Participant: p}, nil
}

// SetInitiative assigns a GM-supplied initiative value with no die
// roll, then re-sorts like a single roll.
func (o *Orchestrator) SetInitiative(ctx context.Context, input *SetInitiativeInput) (*SetInitiativeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, p, err := o.loadParticipant(ctx, input.EncounterID, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	p.Initiative = input.Initiative
	resortPreservingActor(enc)

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	return &SetInitiativeOutput{Encounter: saved, Participant: p}, nil
}

// SortInitiative re-sorts the existing initiative values without
// rolling anything.
func (o *Orchestrator) SortInitiative(ctx context.Context, input *SortInitiativeInput) (*SortInitiativeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, err := o.loadEncounter(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	resortPreservingActor(enc)

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	return &SortInitiativeOutput{Encounter: saved}, nil
}

// NextTurn advances the turn pointer, wrapping to the top of the order
// and incrementing the round counter at the end of the list. Dead or
// unconscious participants are not skipped; declaring "no action" is a
// GM call.
func (o *Orchestrator) NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, err := o.loadEncounter(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	if len(enc.Participants) == 0 {
		return nil, errors.FailedPrecondition("encounter has no participants")
	}

	enc.CurrentTurnIndex++
	if enc.CurrentTurnIndex >= len(enc.Participants) {
		enc.CurrentTurnIndex = 0
		enc.CurrentRound++
	}

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	return &NextTurnOutput{
		Encounter:   saved,
		Participant: saved.CurrentParticipant(),
	}, nil
}
