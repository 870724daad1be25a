package api

import (
	"net/http"

	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
	"github.com/tabletopforge/encounter-api/internal/errors"
	characterorc "github.com/tabletopforge/encounter-api/internal/orchestrators/character"
)

// characterRequest is the JSON body for creating or updating a roster
// character. InitiativeBonus is a pointer so a create can distinguish
// "not supplied" (defaults to the DEX modifier) from an explicit 0.
type characterRequest struct {
	Name            string                    `json:"name"`
	Type            dnd5e.CharacterType       `json:"type"`
	Class           string                    `json:"class,omitempty"`
	Level           int                       `json:"level,omitempty"`
	ArmorClass      int                       `json:"armorClass"`
	HitPoints       dnd5e.HitPoints           `json:"hitPoints"`
	Abilities       dnd5e.AbilityScores       `json:"abilities"`
	InitiativeBonus *int                      `json:"initiativeBonus,omitempty"`
	Speed           int                       `json:"speed,omitempty"`
	Conditions      []dnd5e.ConditionInstance `json:"conditions,omitempty"`
	Notes           string                    `json:"notes,omitempty"`
	MonsterStats    *dnd5e.MonsterStats       `json:"monsterStats,omitempty"`
}

func (req *characterRequest) toCharacter() *dnd5e.Character {
	c := &dnd5e.Character{
		Name:         req.Name,
		Type:         req.Type,
		Class:        req.Class,
		Level:        req.Level,
		ArmorClass:   req.ArmorClass,
		HitPoints:    req.HitPoints,
		Abilities:    req.Abilities,
		Speed:        req.Speed,
		Conditions:   req.Conditions,
		Notes:        req.Notes,
		MonsterStats: req.MonsterStats,
	}
	if req.InitiativeBonus != nil {
		c.InitiativeBonus = *req.InitiativeBonus
	}
	return c
}

func (h *Handler) createCharacter(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	var req characterRequest
	if err := decode(r, &req); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.characters.CreateCharacter(r.Context(), &characterorc.CreateCharacterInput{
		UserID:          uid,
		Character:       req.toCharacter(),
		InitiativeBonus: req.InitiativeBonus,
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, out.Character)
}

func (h *Handler) listCharacters(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.characters.ListCharacters(r.Context(), &characterorc.ListCharactersInput{UserID: uid})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Characters)
}

func (h *Handler) getCharacter(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.characters.GetCharacter(r.Context(), &characterorc.GetCharacterInput{
		CharacterID: r.PathValue("id"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Character)
}

func (h *Handler) updateCharacter(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	var req characterRequest
	if err := decode(r, &req); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.characters.UpdateCharacter(r.Context(), &characterorc.UpdateCharacterInput{
		CharacterID: r.PathValue("id"),
		Character:   req.toCharacter(),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Character)
}

func (h *Handler) deleteCharacter(w http.ResponseWriter, r *http.Request) {
	if _, err := userID(r); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	_, err := h.characters.DeleteCharacter(r.Context(), &characterorc.DeleteCharacterInput{
		CharacterID: r.PathValue("id"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listConditions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dnd5e.Conditions())
}
