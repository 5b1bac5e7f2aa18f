package card

import (
	"fmt"
	"math/rand"

	"github.com/spf13/viper"
)

// Catalog is the immutable card definition table. It is built once at
// server start and shared across all concurrent games without locking.
type Catalog struct {
	byID  map[string]Card
	order []string
}

// NewCatalog builds a catalog from the given templates. Duplicate
// template IDs are rejected.
func NewCatalog(cards []Card) (*Catalog, error) {
	cat := &Catalog{
		byID:  make(map[string]Card, len(cards)),
		order: make([]string, 0, len(cards)),
	}

	for _, c := range cards {
		if c.TemplateID == "" {
			return nil, fmt.Errorf("card %q has no template id", c.Name)
		}
		if _, exists := cat.byID[c.TemplateID]; exists {
			return nil, fmt.Errorf("duplicate template id %q", c.TemplateID)
		}
		cat.byID[c.TemplateID] = c
		cat.order = append(cat.order, c.TemplateID)
	}

	return cat, nil
}

// Get returns the template with the given ID.
func (cat *Catalog) Get(templateID string) (Card, bool) {
	c, ok := cat.byID[templateID]
	return c, ok
}

// Size returns the number of templates in the catalog.
func (cat *Catalog) Size() int {
	return len(cat.byID)
}

// All returns the templates in registration order.
func (cat *Catalog) All() []Card {
	cards := make([]Card, 0, len(cat.order))
	for _, id := range cat.order {
		cards = append(cards, cat.byID[id])
	}
	return cards
}

// BuildDeck instantiates deckSize cards drawn with replacement from the
// catalog using the supplied random source. Every instance gets its own
// instance ID, so duplicate templates remain distinguishable.
func (cat *Catalog) BuildDeck(rng *rand.Rand, deckSize int) []*GameCard {
	deck := make([]*GameCard, 0, deckSize)
	for i := 0; i < deckSize; i++ {
		tpl := cat.byID[cat.order[rng.Intn(len(cat.order))]]
		deck = append(deck, tpl.Instantiate())
	}
	return deck
}

// LoadCatalog reads card templates from a YAML file. The file holds a
// top-level "cards" list with the Card field names as keys.
func LoadCatalog(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read card catalog: %w", err)
	}

	var raw struct {
		Cards []Card `mapstructure:"cards"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse card catalog: %w", err)
	}
	if len(raw.Cards) == 0 {
		return nil, fmt.Errorf("card catalog %s contains no cards", path)
	}

	return NewCatalog(raw.Cards)
}

// DefaultCatalog returns the built-in card set used when no catalog file
// is configured.
func DefaultCatalog() *Catalog {
	cat, err := NewCatalog(defaultSet)
	if err != nil {
		// The built-in set is validated by tests; a failure here is a bug.
		panic(err)
	}
	return cat
}

var defaultSet = []Card{
	{TemplateID: "orbital-shipyard", Name: "Orbital Shipyard", TypeTags: []string{TagShipyard, TagStation}, Cost: 0, Attack: 0, Defense: 4, SpecialAbility: "Expands fleet production capacity."},
	{TemplateID: "drydock", Name: "Drydock", TypeTags: []string{TagShipyard, TagStation}, Cost: 0, Attack: 0, Defense: 3, SpecialAbility: "A modest repair and construction berth."},
	{TemplateID: "scout-frigate", Name: "Scout Frigate", TypeTags: []string{TagUnit, TagMechanical}, Cost: 1, Attack: 2, Defense: 1},
	{TemplateID: "strike-corvette", Name: "Strike Corvette", TypeTags: []string{TagUnit, TagMechanical}, Cost: 2, Attack: 3, Defense: 2},
	{TemplateID: "assault-cruiser", Name: "Assault Cruiser", TypeTags: []string{TagUnit, TagMechanical}, Cost: 3, Attack: 4, Defense: 3},
	{TemplateID: "hive-swarm", Name: "Hive Swarm", TypeTags: []string{TagUnit, TagBiological}, Cost: 2, Attack: 4, Defense: 1, SpecialAbility: "Countless organisms acting as one."},
	{TemplateID: "leviathan-brood", Name: "Leviathan Brood", TypeTags: []string{TagUnit, TagBiological}, Cost: 4, Attack: 5, Defense: 5},
	{TemplateID: "bulwark-carrier", Name: "Bulwark Carrier", TypeTags: []string{TagUnit, TagMechanical}, Cost: 5, Attack: 4, Defense: 7},
	{TemplateID: "dreadnought", Name: "Dreadnought", TypeTags: []string{TagUnit, TagMechanical}, Cost: 6, Attack: 7, Defense: 6},
	{TemplateID: "spore-titan", Name: "Spore Titan", TypeTags: []string{TagUnit, TagBiological}, Cost: 7, Attack: 8, Defense: 8, SpecialAbility: "A living siege engine."},
	{TemplateID: "interceptor-wing", Name: "Interceptor Wing", TypeTags: []string{TagUnit, TagMechanical}, Cost: 1, Attack: 1, Defense: 2},
	{TemplateID: "siege-platform", Name: "Siege Platform", TypeTags: []string{TagUnit, TagMechanical}, Cost: 5, Attack: 6, Defense: 4},
}
