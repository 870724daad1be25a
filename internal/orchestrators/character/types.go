package character

import (
	"github.com/tabletopforge/encounter-api/internal/entities/dnd5e"
)

// CreateCharacterInput defines the request for creating a character.
// InitiativeBonus overrides the Dexterity-modifier default when set.
type CreateCharacterInput struct {
	UserID          string
	Character       *dnd5e.Character
	InitiativeBonus *int
}

// CreateCharacterOutput defines the response for creating a character
type CreateCharacterOutput struct {
	Character *dnd5e.Character
}

// GetCharacterInput defines the request for getting a character
type GetCharacterInput struct {
	CharacterID string
}

// GetCharacterOutput defines the response for getting a character
type GetCharacterOutput struct {
	Character *dnd5e.Character
}

// ListCharactersInput defines the request for listing a user's roster
type ListCharactersInput struct {
	UserID string
}

// ListCharactersOutput defines the response for listing a user's roster
type ListCharactersOutput struct {
	Characters []*dnd5e.Character
}

// UpdateCharacterInput defines the request for updating a character
type UpdateCharacterInput struct {
	CharacterID string
	Character   *dnd5e.Character
}

// UpdateCharacterOutput defines the response for updating a character
type UpdateCharacterOutput struct {
	Character *dnd5e.Character
}

// DeleteCharacterInput defines the request for deleting a character
type DeleteCharacterInput struct {
	CharacterID string
}

// DeleteCharacterOutput defines the response for deleting a character
type DeleteCharacterOutput struct{}
