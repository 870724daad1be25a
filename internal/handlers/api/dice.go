package api

import (
	"net/http"
	"strconv"

	"github.com/tabletopforge/encounter-api/internal/errors"
	diceorc "github.com/tabletopforge/encounter-api/internal/orchestrators/dice"
)

type rollRequest struct {
	Formula string `json:"formula"`
	Label   string `json:"label,omitempty"`
}

func (h *Handler) roll(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	var req rollRequest
	if err := decode(r, &req); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.dice.Roll(r.Context(), &diceorc.RollInput{
		UserID:  uid,
		Formula: req.Formula,
		Label:   req.Label,
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, out.Roll)
}

func (h *Handler) listRolls(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errors.WriteHTTP(w, r, errors.InvalidArgument("limit must be a positive integer"))
			return
		}
		limit = n
	}

	out, err := h.dice.ListRolls(r.Context(), &diceorc.ListRollsInput{UserID: uid, Limit: limit})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Rolls)
}

func (h *Handler) clearRolls(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	if _, err := h.dice.ClearRolls(r.Context(), &diceorc.ClearRollsInput{UserID: uid}); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type macroRequest struct {
	Name        string `json:"name"`
	Formula     string `json:"formula"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

func (h *Handler) createMacro(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	var req macroRequest
	if err := decode(r, &req); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.dice.CreateMacro(r.Context(), &diceorc.CreateMacroInput{
		UserID:      uid,
		Name:        req.Name,
		Formula:     req.Formula,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, out.Macro)
}

func (h *Handler) listMacros(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.dice.ListMacros(r.Context(), &diceorc.ListMacrosInput{UserID: uid})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Macros)
}

func (h *Handler) updateMacro(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	var req macroRequest
	if err := decode(r, &req); err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.dice.UpdateMacro(r.Context(), &diceorc.UpdateMacroInput{
		UserID:      uid,
		MacroID:     r.PathValue("id"),
		Name:        req.Name,
		Formula:     req.Formula,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, out.Macro)
}

func (h *Handler) deleteMacro(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	_, err = h.dice.DeleteMacro(r.Context(), &diceorc.DeleteMacroInput{
		UserID:  uid,
		MacroID: r.PathValue("id"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rollMacro(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	out, err := h.dice.RollMacro(r.Context(), &diceorc.RollMacroInput{
		UserID:  uid,
		MacroID: r.PathValue("id"),
	})
	if err != nil {
		errors.WriteHTTP(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, out.Roll)
}
