package api

import (
	"net/http"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	"github.com/tabletopforge/encounter-api/internal/errors"
	encounterorc "github.com/tabletopforge/encounter-api/internal/orchestrators/encounter"
)

// patchParticipantRequest mutates one combat field of a participant.
// Exactly one action must be set per request.
type patchParticipantRequest struct {
	Initiative      *int                 `json:"initiative,omitempty"`
	RollInitiative  bool                 `json:"rollInitiative,omitempty"`
	HitPointDelta   *int                 `json:"hitPointDelta,omitempty"`
	DeathSave       *deathSaveRequest    `json:"deathSave,omitempty"`
	AddCondition    *addConditionRequest `json:"addCondition,omitempty"`
	RemoveCondition string               `json:"removeCondition,omitempty"`
	Concentrating   *bool                `json:"concentrating,omitempty"`
}

type deathSaveRequest struct {
	Kind  encounterorc.DeathSaveKind `json:"kind"`
	Value int                        `json:"value"`
}

type addConditionRequest struct {
	ID       string `json:"id"`
	Duration *int   `json:"duration,omitempty"`
}

func (req *patchParticipantRequest) actionCount() int {
	n := 0
	if req.Initiative != nil {
		n++
	}
	if req.RollInitiative {
		n++
	}
	if req.HitPointDelta != nil {
		n++
	}
	if req.DeathSave != nil {
		n++
	}
	if req.AddCondition != nil {
		n++
	}
	if req.RemoveCondition != "" {
		n++
	}
	if req.Concentrating != nil {
		n++
	}
	return n
}

// participantResponse is the JSON shape for participant mutations.
// The full encounter rides along because initiative edits can reorder
// the whole list.
type participantResponse struct {
	Encounter          *dnd5e.Encounter   `json:"encounter"`
	Participant        *dnd5e.Participant `json:"participant"`
	MassiveDamage      bool               `json:"massiveDamage,omitempty"`
	ConcentrationCheck bool               `json:"concentrationCheck,omitempty"`
	ConcentrationDC    int                `json:"concentrationDC,omitempty"`
}

func (h *Handler) patchParticipant(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	var req patchParticipantRequest
	if err := decode(r, &req); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	if req.actionCount() != 1 {
		errors.WriteHTTP(w, r, errors.InvalidArgument("exactly one participant action per request"))
		return
	}

	encounterID := r.PathValue("id")
	participantID := r.PathValue("pid")
	ctx := r.Context()

	switch {
	case req.Initiative != nil:
		out, err := h.encounters.SetInitiative(ctx, &encounterorc.SetInitiativeInput{
			EncounterID:   encounterID,
			ParticipantID: participantID,
			Initiative:    *req.Initiative,
		})
		if err != nil {
			errors.WriteHTTP(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, participantResponse{
			Encounter:   out.Encounter,
			Participant: out.Participant,
		})

	case req.RollInitiative:
		out, err := h.encounters.RollParticipantInitiative(ctx, &encounterorc.RollParticipantInitiativeInput{
			EncounterID:   encounterID,
			ParticipantID: participantID,
		})
		if err != nil {
			errors.WriteHTTP(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, participantResponse{
			Encounter:   out.Encounter,
			Participant: out.Participant,
		})

	case req.HitPointDelta != nil:
		out, err := h.encounters.ApplyHitPointDelta(ctx, &encounterorc.ApplyHitPointDeltaInput{
			EncounterID:   encounterID,
			ParticipantID: participantID,
			Amount:        *req.HitPointDelta,
		})
		if err != nil {
			errors.WriteHTTP(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, participantResponse{
			Encounter:          out.Encounter,
			Participant:        out.Participant,
			MassiveDamage:      out.MassiveDamage,
			ConcentrationCheck: out.ConcentrationCheck,
			ConcentrationDC:    out.ConcentrationDC,
		})

	case req.DeathSave != nil:
		out, err := h.encounters.UpdateDeathSaves(ctx, &encounterorc.UpdateDeathSavesInput{
			EncounterID:   encounterID,
			ParticipantID: participantID,
			Kind:          req.DeathSave.Kind,
			Value:         req.DeathSave.Value,
		})
		if err != nil {
			errors.WriteHTTP(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, participantResponse{
			Encounter:   out.Encounter,
			Participant: out.Participant,
		})

	case req.AddCondition != nil:
		out, err := h.encounters.AddCondition(ctx, &encounterorc.AddConditionInput{
			EncounterID:   encounterID,
			ParticipantID: participantID,
			ConditionID:   req.AddCondition.ID,
			Duration:      req.AddCondition.Duration,
		})
		if err != nil {
			errors.WriteHTTP(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, participantResponse{
			Encounter:   out.Encounter,
			Participant: out.Participant,
		})

	case req.RemoveCondition != "":
		out, err := h.encounters.RemoveCondition(ctx, &encounterorc.RemoveConditionInput{
			EncounterID:   encounterID,
			ParticipantID: participantID,
			ConditionID:   req.RemoveCondition,
		})
		if err != nil {
			errors.WriteHTTP(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, participantResponse{
			Encounter:   out.Encounter,
			Participant: out.Participant,
		})

	case req.Concentrating != nil:
		out, err := h.encounters.SetConcentration(ctx, &encounterorc.SetConcentrationInput{
			EncounterID:   encounterID,
			ParticipantID: participantID,
			Concentrating: *req.Concentrating,
		})
		if err != nil {
			errors.WriteHTTP(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, participantResponse{
			Encounter:   out.Encounter,
			Participant: out.Participant,
		})
	}
}
