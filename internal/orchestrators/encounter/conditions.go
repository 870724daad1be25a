package encounter

import (
	"context"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	"github.com/tabletopforge/encounter-api/internal/errors"
)

// AddCondition attaches a catalog condition to a participant. Adding a
// condition the participant already has is a harmless no-op, so each
// participant carries at most one instance per catalog entry. Duration,
// when supplied, is remaining rounds; nil means permanent until
// removed.
func (o *Orchestrator) AddCondition(ctx context.Context, input *AddConditionInput) (*AddConditionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	cond, ok := dnd5e.LookupCondition(input.ConditionID)
	if !ok {
		return nil, errors.InvalidArgumentf("unknown condition %q", input.ConditionID)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, p, err := o.loadParticipant(ctx, input.EncounterID, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	for _, existing := range p.Conditions {
		if existing.ID == cond.ID {
			return &AddConditionOutput{Encounter: enc, Participant: p}, nil
		}
	}

	instance := dnd5e.ConditionInstance{Condition: cond}
	if input.Duration != nil {
		d := *input.Duration
		instance.Duration = &d
	}
	p.Conditions = append(p.Conditions, instance)

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	return &AddConditionOutput{Encounter: saved, Participant: p}, nil
}

// RemoveCondition detaches a condition from a participant. Removing a
// condition that isn't present is a harmless no-op.
func (o *Orchestrator) RemoveCondition(ctx context.Context, input *RemoveConditionInput) (*RemoveConditionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, p, err := o.loadParticipant(ctx, input.EncounterID, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	found := false
	for i, existing := range p.Conditions {
		if existing.ID == input.ConditionID {
			p.Conditions = append(p.Conditions[:i], p.Conditions[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return &RemoveConditionOutput{Encounter: enc, Participant: p}, nil
	}

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	return &RemoveConditionOutput{Encounter: saved, Participant: p}, nil
}

// SetConcentration toggles a participant's concentration flag
func (o *Orchestrator) SetConcentration(ctx context.Context, input *SetConcentrationInput) (*SetConcentrationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, p, err := o.loadParticipant(ctx, input.EncounterID, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	p.IsConcentrating = input.Concentrating

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	return &SetConcentrationOutput{Encounter: saved, Participant: p}, nil
}
