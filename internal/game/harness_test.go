package game

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"github.com/armadagame/armada-server/internal/card"
)

// Shared helpers for engine and combat tests.

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(zaptest.NewLogger(t))
}

func makeUnit(name string, cost, attack, defense int) *card.GameCard {
	return &card.GameCard{
		InstanceID: uuid.NewString(),
		TemplateID: name,
		Name:       name,
		TypeTags:   []string{card.TagUnit, card.TagMechanical},
		Cost:       cost,
		Attack:     attack,
		Defense:    defense,
	}
}

func makeShipyard(name string) *card.GameCard {
	return &card.GameCard{
		InstanceID: uuid.NewString(),
		TemplateID: name,
		Name:       name,
		TypeTags:   []string{card.TagShipyard, card.TagStation},
		Defense:    3,
	}
}

// newTestGame builds a two-player game with empty zones, bypassing deck
// shuffling so tests control card placement directly.
func newTestGame() *GameState {
	return &GameState{
		ID:           "test-game",
		Phase:        PhaseCommand,
		ActivePlayer: "alice",
		TurnNumber:   1,
		Players: map[string]*PlayerState{
			"alice": emptyPlayer("alice"),
			"bob":   emptyPlayer("bob"),
		},
		Version: 1,
	}
}

func emptyPlayer(id string) *PlayerState {
	return &PlayerState{
		ID:          id,
		Health:      StartingHealth,
		Deck:        make([]*card.GameCard, 0),
		Hand:        make([]*card.GameCard, 0),
		CommandZone: make([]*card.GameCard, 0),
		UnitZone:    make([]*card.GameCard, 0),
		Graveyard:   make([]*card.GameCard, 0),
	}
}

// dealtTestGame builds a game through NewGame with generated decks.
func dealtTestGame(t *testing.T, deckSize int) *GameState {
	t.Helper()

	rng := rand.New(rand.NewSource(42))
	deck1 := make([]*card.GameCard, 0, deckSize)
	deck2 := make([]*card.GameCard, 0, deckSize)
	for i := 0; i < deckSize; i++ {
		deck1 = append(deck1, makeUnit("frigate", 2, 3, 2))
		deck2 = append(deck2, makeUnit("corvette", 2, 2, 3))
	}

	gs, err := NewGame("test-game", "alice", "bob", deck1, deck2, rng)
	if err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	return gs
}

// cardZoneCount returns how many of the named zones across both players
// contain the instance.
func cardZoneCount(gs *GameState, instanceID string) int {
	count := 0
	for _, p := range gs.Players {
		for _, cards := range p.zones() {
			for _, gc := range cards {
				if gc.InstanceID == instanceID {
					count++
				}
			}
		}
	}
	return count
}

// allInstanceIDs collects every card instance across both players.
func allInstanceIDs(gs *GameState) []string {
	var ids []string
	for _, p := range gs.Players {
		for _, cards := range p.zones() {
			for _, gc := range cards {
				ids = append(ids, gc.InstanceID)
			}
		}
	}
	return ids
}
