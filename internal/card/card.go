package card

import "github.com/google/uuid"

// Type tag constants shared by the catalog and the game engine.
const (
	TagUnit       = "Unit"
	TagShipyard   = "Shipyard"
	TagBiological = "Biological"
	TagMechanical = "Mechanical"
	TagStation    = "Station"
)

// Card is an immutable catalog template. Game code never mutates a Card;
// it instantiates GameCards from it.
type Card struct {
	TemplateID     string   `json:"template_id" mapstructure:"template_id"`
	Name           string   `json:"name" mapstructure:"name"`
	TypeTags       []string `json:"type_tags" mapstructure:"type_tags"`
	Cost           int      `json:"cost" mapstructure:"cost"`
	Attack         int      `json:"attack" mapstructure:"attack"`
	Defense        int      `json:"defense" mapstructure:"defense"`
	SpecialAbility string   `json:"special_ability,omitempty" mapstructure:"special_ability"`
}

// HasTag reports whether the template carries the given type tag.
func (c Card) HasTag(tag string) bool {
	for _, t := range c.TypeTags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsUnit reports whether the template may occupy a unit zone.
func (c Card) IsUnit() bool {
	return c.HasTag(TagUnit)
}

// GameCard is a single playable copy of a template. Defense is mutable;
// it is decremented by incoming damage. InstanceID is unique per copy,
// even for duplicate templates.
type GameCard struct {
	InstanceID     string   `json:"instance_id"`
	TemplateID     string   `json:"template_id"`
	Name           string   `json:"name"`
	TypeTags       []string `json:"type_tags"`
	Cost           int      `json:"cost"`
	Attack         int      `json:"attack"`
	Defense        int      `json:"defense"`
	SpecialAbility string   `json:"special_ability,omitempty"`
}

// HasTag reports whether the instance carries the given type tag.
func (g *GameCard) HasTag(tag string) bool {
	for _, t := range g.TypeTags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsUnit reports whether the card may occupy a unit zone.
func (g *GameCard) IsUnit() bool {
	return g.HasTag(TagUnit)
}

// Instantiate creates a fresh GameCard from the template with its own
// instance ID. Tag slices are copied so instances never alias the catalog.
func (c Card) Instantiate() *GameCard {
	tags := make([]string, len(c.TypeTags))
	copy(tags, c.TypeTags)

	return &GameCard{
		InstanceID:     uuid.NewString(),
		TemplateID:     c.TemplateID,
		Name:           c.Name,
		TypeTags:       tags,
		Cost:           c.Cost,
		Attack:         c.Attack,
		Defense:        c.Defense,
		SpecialAbility: c.SpecialAbility,
	}
}
