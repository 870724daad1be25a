package dnd5e

import (
	"bytes"
	"encoding/json"

	"github.com/tabletopforge/encounter-api/internal/errors"
)

// ProficiencyLevel is the degree of proficiency in a skill or saving throw
type ProficiencyLevel int

// Proficiency levels
const (
	ProficiencyNone ProficiencyLevel = iota
	ProficiencyProficient
	ProficiencyExpert
)

// String returns the display name of the proficiency level
func (p ProficiencyLevel) String() string {
	switch p {
	case ProficiencyProficient:
		return "proficient"
	case ProficiencyExpert:
		return "expert"
	default:
		return "none"
	}
}

// Valid reports whether the level is one of the defined values
func (p ProficiencyLevel) Valid() bool {
	return p >= ProficiencyNone && p <= ProficiencyExpert
}

// MarshalJSON encodes the level as its numeric value
func (p ProficiencyLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(p))
}

// UnmarshalJSON decodes a proficiency level, normalizing legacy boolean
// values (true meant proficient, false meant none) into the 0/1/2 scheme.
func (p *ProficiencyLevel) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	switch string(trimmed) {
	case "true":
		*p = ProficiencyProficient
		return nil
	case "false", "null":
		*p = ProficiencyNone
		return nil
	}

	var n int
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return errors.InvalidArgumentf("invalid proficiency level: %s", string(data))
	}

	level := ProficiencyLevel(n)
	if !level.Valid() {
		return errors.InvalidArgumentf("proficiency level out of range: %d", n)
	}

	*p = level
	return nil
}
