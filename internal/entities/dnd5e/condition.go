package dnd5e

// Condition is a catalog entry describing a status effect
type Condition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ConditionInstance is a condition applied to a specific participant.
// Each participant owns its own instances; applying the same catalog
// condition to two participants creates two independent instances.
// Duration, when set, is a remaining-rounds counter kept as GM
// bookkeeping; nothing decrements it automatically.
type ConditionInstance struct {
	Condition
	Duration *int `json:"duration,omitempty"`
}

// conditionCatalog is the fixed reference table of status effects
var conditionCatalog = []Condition{
	{ID: "blinded", Name: "Blinded", Description: "Cannot see, fails checks that require sight"},
	{ID: "charmed", Name: "Charmed", Description: "Can't attack the charmer"},
	{ID: "deafened", Name: "Deafened", Description: "Cannot hear, fails checks that require hearing"},
	{ID: "frightened", Name: "Frightened", Description: "Disadvantage on ability checks and attacks"},
	{ID: "grappled", Name: "Grappled", Description: "Speed becomes 0"},
	{ID: "incapacitated", Name: "Incapacitated", Description: "Can't take actions or reactions"},
	{ID: "invisible", Name: "Invisible", Description: "Impossible to see without special means"},
	{ID: "paralyzed", Name: "Paralyzed", Description: "Incapacitated and cannot move or speak"},
	{ID: "petrified", Name: "Petrified", Description: "Transformed into solid substance"},
	{ID: "poisoned", Name: "Poisoned", Description: "Disadvantage on attacks and ability checks"},
	{ID: "prone", Name: "Prone", Description: "Disadvantage on attacks, advantage to be hit in melee"},
	{ID: "restrained", Name: "Restrained", Description: "Speed becomes 0, disadvantage on attacks"},
	{ID: "stunned", Name: "Stunned", Description: "Incapacitated, cannot move, can only speak falteringly"},
	{ID: "unconscious", Name: "Unconscious", Description: "Incapacitated, unaware of surroundings"},
	{ID: "exhaustion", Name: "Exhaustion", Description: "Multiple levels of exhaustion with cumulative effects"},
}

// Conditions returns the full condition catalog
func Conditions() []Condition {
	out := make([]Condition, len(conditionCatalog))
	copy(out, conditionCatalog)
	return out
}

// LookupCondition returns the catalog entry for an id
func LookupCondition(id string) (Condition, bool) {
	for _, c := range conditionCatalog {
		if c.ID == id {
			return c, true
		}
	}
	return Condition{}, false
}
