// Package api implements the JSON HTTP handlers for the encounter
// service. User identity arrives as an opaque X-User-ID header;
// authentication itself is handled upstream.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tabletopforge/encounter-api/internal/errors"
	characterorc "github.com/tabletopforge/encounter-api/internal/orchestrators/character"
	diceorc "github.com/tabletopforge/encounter-api/internal/orchestrators/dice"
	encounterorc "github.com/tabletopforge/encounter-api/internal/orchestrators/encounter"
)

const userIDHeader = "X-User-ID"

// Config holds the dependencies for the API handler
type Config struct {
	CharacterService characterorc.Service
	EncounterService encounterorc.Service
	DiceService      diceorc.Service
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	if c.EncounterService == nil {
		vb.RequiredField("EncounterService")
	}
	if c.DiceService == nil {
		vb.RequiredField("DiceService")
	}

	return vb.Build()
}

// Handler serves the JSON API
type Handler struct {
	characters characterorc.Service
	encounters encounterorc.Service
	dice       diceorc.Service
}

// NewHandler creates a new API handler with the provided dependencies
func NewHandler(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		characters: cfg.CharacterService,
		encounters: cfg.EncounterService,
		dice:       cfg.DiceService,
	}, nil
}

// RegisterRoutes attaches all API routes to the mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Roster
	mux.HandleFunc("POST /api/characters", h.createCharacter)
	mux.HandleFunc("GET /api/characters", h.listCharacters)
	mux.HandleFunc("GET /api/characters/{id}", h.getCharacter)
	mux.HandleFunc("PUT /api/characters/{id}", h.updateCharacter)
	mux.HandleFunc("DELETE /api/characters/{id}", h.deleteCharacter)

	// Reference data
	mux.HandleFunc("GET /api/conditions", h.listConditions)

	// Encounters
	mux.HandleFunc("POST /api/encounters", h.createEncounter)
	mux.HandleFunc("GET /api/encounters", h.listEncounters)
	mux.HandleFunc("GET /api/encounters/current", h.getCurrentEncounter)
	mux.HandleFunc("GET /api/encounters/{id}", h.getEncounter)
	mux.HandleFunc("PATCH /api/encounters/{id}", h.patchEncounter)
	mux.HandleFunc("DELETE /api/encounters/{id}", h.deleteEncounter)
	mux.HandleFunc("POST /api/encounters/{id}/start", h.startEncounter)
	mux.HandleFunc("POST /api/encounters/{id}/end", h.endEncounter)
	mux.HandleFunc("POST /api/encounters/{id}/end-and-save", h.endAndSaveEncounter)
	mux.HandleFunc("POST /api/encounters/{id}/initiative/roll-all", h.rollAllInitiative)
	mux.HandleFunc("POST /api/encounters/{id}/initiative/sort", h.sortInitiative)
	mux.HandleFunc("POST /api/encounters/{id}/participants", h.addParticipant)
	mux.HandleFunc("PATCH /api/encounters/{id}/participants/{pid}", h.patchParticipant)
	mux.HandleFunc("DELETE /api/encounters/{id}/participants/{pid}", h.removeParticipant)

	// Dice
	mux.HandleFunc("POST /api/rolls", h.roll)
	mux.HandleFunc("GET /api/rolls", h.listRolls)
	mux.HandleFunc("DELETE /api/rolls", h.clearRolls)
	mux.HandleFunc("POST /api/macros", h.createMacro)
	mux.HandleFunc("GET /api/macros", h.listMacros)
	mux.HandleFunc("PUT /api/macros/{id}", h.updateMacro)
	mux.HandleFunc("DELETE /api/macros/{id}", h.deleteMacro)
	mux.HandleFunc("POST /api/macros/{id}/roll", h.rollMacro)

	mux.HandleFunc("GET /healthz", h.health)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// userID extracts the caller identity from the request header
func userID(r *http.Request) (string, error) {
	id := r.Header.Get(userIDHeader)
	if id == "" {
		return "", errors.Unauthenticated("missing " + userIDHeader + " header")
	}
	return id, nil
}

// decode reads a JSON request body into v
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.InvalidArgumentf("invalid request body: %v", err)
	}
	return nil
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response",
			"path", r.URL.Path,
			"error", err.Error())
	}
}
