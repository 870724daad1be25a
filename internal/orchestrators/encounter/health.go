package encounter

import (
	"context"
	"log/slog"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	"github.com/tabletopforge/encounter-api/internal/errors"
)

// ApplyHitPointDelta applies damage (negative) or healing (positive)
// to a participant. Current hit points stay clamped to [0, max].
// Damage that would drive the total to negative max or beyond kills
// outright; healing from 0 (or from dead, absent massive damage)
// resets the death-save track. Damage to a concentrating participant
// reports the concentration check DC as advisory output without
// dropping concentration.
func (o *Orchestrator) ApplyHitPointDelta(ctx context.Context, input *ApplyHitPointDeltaInput) (*ApplyHitPointDeltaOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, p, err := o.loadParticipant(ctx, input.EncounterID, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	out := &ApplyHitPointDeltaOutput{}

	if input.Amount < 0 && p.IsConcentrating {
		dc := -input.Amount / 2
		if dc < 10 {
			dc = 10
		}
		out.ConcentrationCheck = true
		out.ConcentrationDC = dc
	}

	raw := p.HitPoints.Current + input.Amount

	massiveDamage := input.Amount < 0 && raw < 0 && -raw >= p.HitPoints.Max
	if massiveDamage {
		p.IsDead = true
		p.IsStable = false
		p.DeathSaves = dnd5e.DeathSaves{}
		out.MassiveDamage = true
		slog.DebugContext(ctx, "massive damage",
			"encounter_id", enc.ID,
			"participant_id", p.ID,
			"amount", input.Amount)
	}

	newCurrent := raw
	if newCurrent < 0 {
		newCurrent = 0
	}
	if newCurrent > p.HitPoints.Max {
		newCurrent = p.HitPoints.Max
	}

	if !massiveDamage {
		revived := (p.HitPoints.Current == 0 && newCurrent > 0) || (p.IsDead && newCurrent > 0)
		if revived {
			p.DeathSaves = dnd5e.DeathSaves{}
			p.IsStable = false
			p.IsDead = false
		}
	}

	p.HitPoints.Current = newCurrent

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	out.Encounter = saved
	out.Participant = p
	return out, nil
}

// UpdateDeathSaves sets one death-save counter to a new value, clamped
// to [0, 3]. Three successes stabilize, three failures kill; either
// terminal transition resets both counters.
func (o *Orchestrator) UpdateDeathSaves(ctx context.Context, input *UpdateDeathSavesInput) (*UpdateDeathSavesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Kind != DeathSaveSuccess && input.Kind != DeathSaveFailure {
		return nil, errors.InvalidArgumentf("kind must be %q or %q", DeathSaveSuccess, DeathSaveFailure)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	enc, p, err := o.loadParticipant(ctx, input.EncounterID, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	value := input.Value
	if value < 0 {
		value = 0
	}
	if value > 3 {
		value = 3
	}

	switch input.Kind {
	case DeathSaveSuccess:
		p.DeathSaves.Successes = value
		if value >= 3 {
			p.IsStable = true
			p.DeathSaves = dnd5e.DeathSaves{}
		}
	case DeathSaveFailure:
		p.DeathSaves.Failures = value
		if value >= 3 {
			p.IsDead = true
			p.DeathSaves = dnd5e.DeathSaves{}
		}
	}

	saved, err := o.persist(ctx, enc)
	if err != nil {
		return nil, err
	}

	return &UpdateDeathSavesOutput{Encounter: saved, Participant: p}, nil
}
