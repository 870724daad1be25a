package api

import (
	"net/http"

	"github.com/tabletopforge/encounter-api/internal/errors"
	encounterorc "github.com/tabletopforge/encounter-api/internal/orchestrators/encounter"
)

type createEncounterRequest struct {
	Name         string   `json:"name"`
	CharacterIDs []string `json:"characterIds"`
	DMNotes      string   `json:"dmNotes,omitempty"`
}

func (h *Handler) createEncounter(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	var req createEncounterRequest
	if err := decode(r, &req); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.encounters.CreateEncounter(r.Context(), &encounterorc.CreateEncounterInput{
		UserID:       uid,
		Name:         req.Name,
		CharacterIDs: req.CharacterIDs,
		DMNotes:      req.DMNotes,
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, out.Encounter)
}

func (h *Handler) listEncounters(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.encounters.ListEncounters(r.Context(), &encounterorc.ListEncountersInput{UserID: uid})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Encounters)
}

func (h *Handler) getCurrentEncounter(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.encounters.GetCurrentEncounter(r.Context(), &encounterorc.GetCurrentEncounterInput{UserID: uid})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Encounter)
}

func (h *Handler) getEncounter(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.encounters.GetEncounter(r.Context(), &encounterorc.GetEncounterInput{
		EncounterID: r.PathValue("id"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Encounter)
}

// patchEncounterRequest mutates the round/turn pointer. The only
// supported action is advancing the turn.
type patchEncounterRequest struct {
	Action string `json:"action"`
}

func (h *Handler) patchEncounter(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	var req patchEncounterRequest
	if err := decode(r, &req); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	switch req.Action {
	case "next-turn":
		out, err := h.encounters.NextTurn(r.Context(), &encounterorc.NextTurnInput{
			EncounterID: r.PathValue("id"),
		})
		if err != nil {
			errors.WriteHTTP(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, out.Encounter)
	default:
		errors.WriteHTTP(w, r, errors.InvalidArgumentf("unknown action %q", req.Action))
	}
}

func (h *Handler) deleteEncounter(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	_, err := h.encounters.DeleteEncounter(r.Context(), &encounterorc.DeleteEncounterInput{
		EncounterID: r.PathValue("id"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) startEncounter(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.encounters.StartEncounter(r.Context(), &encounterorc.StartEncounterInput{
		EncounterID: r.PathValue("id"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Encounter)
}

func (h *Handler) endEncounter(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.encounters.EndEncounter(r.Context(), &encounterorc.EndEncounterInput{
		EncounterID: r.PathValue("id"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Encounter)
}

// endAndSaveResponse reports the closed encounter plus any hit point
// write-backs that failed.
type endAndSaveResponse struct {
	Encounter interface{}                `json:"encounter"`
	Failures  []encounterorc.SaveFailure `json:"failures,omitempty"`
}

func (h *Handler) endAndSaveEncounter(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.encounters.EndAndSaveEncounter(r.Context(), &encounterorc.EndAndSaveEncounterInput{
		EncounterID: r.PathValue("id"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, endAndSaveResponse{
		Encounter: out.Encounter,
		Failures:  out.Failures,
	})
}

func (h *Handler) rollAllInitiative(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.encounters.RollAllInitiative(r.Context(), &encounterorc.RollAllInitiativeInput{
		EncounterID: r.PathValue("id"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Encounter)
}

func (h *Handler) sortInitiative(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.encounters.SortInitiative(r.Context(), &encounterorc.SortInitiativeInput{
		EncounterID: r.PathValue("id"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Encounter)
}

type addParticipantRequest struct {
	CharacterID string `json:"characterId"`
}

func (h *Handler) addParticipant(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	var req addParticipantRequest
	if err := decode(r, &req); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.encounters.AddParticipant(r.Context(), &encounterorc.AddParticipantInput{
		EncounterID: r.PathValue("id"),
		CharacterID: req.CharacterID,
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, out.Encounter)
}

func (h *Handler) removeParticipant(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.encounters.RemoveParticipant(r.Context(), &encounterorc.RemoveParticipantInput{
		EncounterID:   r.PathValue("id"),
		ParticipantID: r.PathValue("pid"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Encounter)
}
