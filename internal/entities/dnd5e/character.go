// Package dnd5e implements the D&D 5e entities
package dnd5e

// CharacterType distinguishes player characters, NPCs, and monsters
type CharacterType string

// Character types
const (
	CharacterTypePC      CharacterType = "PC"
	CharacterTypeNPC     CharacterType = "NPC"
	CharacterTypeMonster CharacterType = "Monster"
)

// CharacterTypes lists the valid character types
func CharacterTypes() []string {
	return []string{
		string(CharacterTypePC),
		string(CharacterTypeNPC),
		string(CharacterTypeMonster),
	}
}

// AbilityScores holds the six ability scores, conventionally 1-30
type AbilityScores struct {
	Strength     int `json:"STR"`
	Dexterity    int `json:"DEX"`
	Constitution int `json:"CON"`
	Intelligence int `json:"INT"`
	Wisdom       int `json:"WIS"`
	Charisma     int `json:"CHA"`
}

// Modifier derives the ability modifier from a score: floor((score-10)/2).
// Integer division truncates toward zero, so negative halves are adjusted.
func Modifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// HitPoints tracks current, max, and temporary hit points
type HitPoints struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Temporary int `json:"temporary"`
}

// Character represents a roster entry: a PC, NPC, or monster.
// NOTE: This is a data-only struct. Combat state lives on Participant,
// which snapshots a Character at encounter time.
type Character struct {
	ID               string              `json:"id"`
	UserID           string              `json:"userId,omitempty"`
	Name             string              `json:"name"`
	Type             CharacterType       `json:"type"`
	Class            string              `json:"class,omitempty"`
	Level            int                 `json:"level,omitempty"`
	ArmorClass       int                 `json:"armorClass"`
	HitPoints        HitPoints           `json:"hitPoints"`
	Abilities        AbilityScores       `json:"abilities"`
	InitiativeBonus  int                 `json:"initiativeBonus"`
	ProficiencyBonus int                 `json:"proficiencyBonus,omitempty"`
	Speed            int                 `json:"speed,omitempty"`
	Conditions       []ConditionInstance `json:"conditions"`
	Notes            string              `json:"notes,omitempty"`
	MonsterStats     *MonsterStats       `json:"monsterStats,omitempty"`
	CreatedAt        int64               `json:"createdAt,omitempty"`
	UpdatedAt        int64               `json:"updatedAt,omitempty"`
}

// Clone returns a deep copy of the character. Participants snapshot
// characters with Clone so roster edits never alias encounter state.
func (c *Character) Clone() *Character {
	out := *c

	if c.Conditions != nil {
		out.Conditions = make([]ConditionInstance, len(c.Conditions))
		copy(out.Conditions, c.Conditions)
		for i := range out.Conditions {
			if c.Conditions[i].Duration != nil {
				d := *c.Conditions[i].Duration
				out.Conditions[i].Duration = &d
			}
		}
	}

	if c.MonsterStats != nil {
		out.MonsterStats = c.MonsterStats.Clone()
	}

	return &out
}
