package dnd5e

// DeathSaves tracks death saving throw progress, each counter 0-3
type DeathSaves struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// ParticipantStatus is the derived display state of a participant
type ParticipantStatus string

// Participant statuses
const (
	StatusNormal      ParticipantStatus = "normal"
	StatusUnconscious ParticipantStatus = "unconscious"
	StatusStable      ParticipantStatus = "stable"
	StatusDead        ParticipantStatus = "dead"
)

// Participant is a Character snapshot extended with per-encounter combat
// state. The embedded Character is an owned copy, not a reference into
// the roster; roster edits do not propagate here and vice versa.
type Participant struct {
	Character

	Initiative      int        `json:"initiative"`
	HasActed        bool       `json:"hasActed"`
	DeathSaves      DeathSaves `json:"deathSaves"`
	IsStable        bool       `json:"isStable"`
	IsDead          bool       `json:"isDead"`
	IsConcentrating bool       `json:"isConcentrating"`
}

// NewParticipant snapshots a character into a fresh participant with
// zeroed combat state.
func NewParticipant(c *Character) *Participant {
	return &Participant{Character: *c.Clone()}
}

// ResetCombatState zeroes initiative, death saves, and mortality flags
func (p *Participant) ResetCombatState() {
	p.Initiative = 0
	p.HasActed = false
	p.DeathSaves = DeathSaves{}
	p.IsStable = false
	p.IsDead = false
	p.IsConcentrating = false
}

// Status derives the display state from the stored mortality fields
func (p *Participant) Status() ParticipantStatus {
	switch {
	case p.IsDead:
		return StatusDead
	case p.IsStable && p.HitPoints.Current == 0:
		return StatusStable
	case p.HitPoints.Current == 0:
		return StatusUnconscious
	default:
		return StatusNormal
	}
}

// Encounter is one combat session: an ordered participant list plus
// round/turn pointers and an active flag. Invariant: when Participants
// is non-empty, 0 <= CurrentTurnIndex < len(Participants).
type Encounter struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId,omitempty"`
	Name             string         `json:"name"`
	Participants     []*Participant `json:"participants"`
	CurrentRound     int            `json:"currentRound"`
	CurrentTurnIndex int            `json:"currentTurnIndex"`
	IsActive         bool           `json:"isActive"`
	DMNotes          string         `json:"dmNotes,omitempty"`
	CreatedAt        int64          `json:"createdAt"`
	UpdatedAt        int64          `json:"updatedAt,omitempty"`
}

// FindParticipant returns the participant with the given id, or nil
func (e *Encounter) FindParticipant(id string) *Participant {
	for _, p := range e.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentParticipant returns the participant whose turn it is, or nil
// for an empty encounter.
func (e *Encounter) CurrentParticipant() *Participant {
	if len(e.Participants) == 0 {
		return nil
	}
	if e.CurrentTurnIndex < 0 || e.CurrentTurnIndex >= len(e.Participants) {
		return nil
	}
	return e.Participants[e.CurrentTurnIndex]
}

// ClampTurnIndex restores the turn index invariant after participant
// removal. Degrades to index 0 when the pointer would fall off the end.
func (e *Encounter) ClampTurnIndex() {
	if len(e.Participants) == 0 {
		e.CurrentTurnIndex = 0
		return
	}
	if e.CurrentTurnIndex < 0 || e.CurrentTurnIndex >= len(e.Participants) {
		e.CurrentTurnIndex = 0
	}
}
