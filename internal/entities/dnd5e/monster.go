package dnd5e

import "strconv"

// NamedBlock is a named free-text block on a monster stat sheet,
// used for traits, actions, legendary actions, and reactions.
type NamedBlock struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MonsterStats is the extended stat block carried only by Monster characters
type MonsterStats struct {
	Size                  string                      `json:"size,omitempty"`
	CreatureType          string                      `json:"creatureType,omitempty"`
	Alignment             string                      `json:"alignment,omitempty"`
	ChallengeRating       float64                     `json:"challengeRating,omitempty"`
	ExperiencePoints      int                         `json:"experiencePoints,omitempty"`
	Senses                string                      `json:"senses,omitempty"`
	Languages             string                      `json:"languages,omitempty"`
	ConditionImmunities   string                      `json:"conditionImmunities,omitempty"`
	DamageImmunities      string                      `json:"damageImmunities,omitempty"`
	DamageResistances     string                      `json:"damageResistances,omitempty"`
	DamageVulnerabilities string                      `json:"damageVulnerabilities,omitempty"`
	SavingThrows          map[string]ProficiencyLevel `json:"savingThrows,omitempty"`
	Skills                map[string]ProficiencyLevel `json:"skills,omitempty"`
	SpecialTraits         []NamedBlock                `json:"specialTraits,omitempty"`
	Actions               []NamedBlock                `json:"actions,omitempty"`
	LegendaryActions      []NamedBlock                `json:"legendaryActions,omitempty"`
	Reactions             []NamedBlock                `json:"reactions,omitempty"`
}

// Clone returns a deep copy of the stat block
func (m *MonsterStats) Clone() *MonsterStats {
	out := *m

	if m.SavingThrows != nil {
		out.SavingThrows = make(map[string]ProficiencyLevel, len(m.SavingThrows))
		for k, v := range m.SavingThrows {
			out.SavingThrows[k] = v
		}
	}
	if m.Skills != nil {
		out.Skills = make(map[string]ProficiencyLevel, len(m.Skills))
		for k, v := range m.Skills {
			out.Skills[k] = v
		}
	}

	out.SpecialTraits = append([]NamedBlock(nil), m.SpecialTraits...)
	out.Actions = append([]NamedBlock(nil), m.Actions...)
	out.LegendaryActions = append([]NamedBlock(nil), m.LegendaryActions...)
	out.Reactions = append([]NamedBlock(nil), m.Reactions...)

	return &out
}

// crToXP maps challenge rating to its XP value
var crToXP = map[float64]int{
	0: 10, 0.125: 25, 0.25: 50, 0.5: 100,
	1: 200, 2: 450, 3: 700, 4: 1100, 5: 1800,
	6: 2300, 7: 2900, 8: 3900, 9: 5000, 10: 5900,
	11: 7200, 12: 8400, 13: 10000, 14: 11500, 15: 13000,
	16: 15000, 17: 18000, 18: 20000, 19: 22000, 20: 25000,
	21: 33000, 22: 41000, 23: 50000, 24: 62000, 25: 75000,
	26: 90000, 27: 105000, 28: 120000, 29: 135000, 30: 155000,
}

// XPForCR returns the XP value for a challenge rating, 0 if unknown
func XPForCR(cr float64) int {
	return crToXP[cr]
}

// ProficiencyForCR returns the proficiency bonus for a challenge rating
func ProficiencyForCR(cr float64) int {
	switch {
	case cr >= 29:
		return 9
	case cr >= 25:
		return 8
	case cr >= 21:
		return 7
	case cr >= 17:
		return 6
	case cr >= 13:
		return 5
	case cr >= 9:
		return 4
	case cr >= 5:
		return 3
	default:
		return 2
	}
}

// FormatCR renders a challenge rating with fractional ratings as
// conventional fractions (1/8, 1/4, 1/2).
func FormatCR(cr float64) string {
	switch cr {
	case 0.125:
		return "1/8"
	case 0.25:
		return "1/4"
	case 0.5:
		return "1/2"
	}
	return strconv.FormatFloat(cr, 'f', -1, 64)
}
