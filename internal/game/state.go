package game

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/armadagame/armada-server/internal/card"
)

// Zone names used on the wire and in play_card targets.
const (
	ZoneDeck      = "deck"
	ZoneHand      = "hand"
	ZoneCommand   = "command_zone"
	ZoneUnit      = "unit_zone"
	ZoneGraveyard = "graveyard"
)

const (
	// StartingHealth is each player's initial health pool.
	StartingHealth = 100
	// StartingHandSize is the number of cards dealt at match start.
	StartingHandSize = 7
	// DefaultDeckSize is the deck size used for generated decks.
	DefaultDeckSize = 40
)

// PlayerState holds one participant's half of the match. A card instance
// belongs to exactly one of deck, hand, command zone, unit zone, or
// graveyard at any time.
type PlayerState struct {
	ID                    string           `json:"id"`
	Health                int              `json:"health"`
	Deck                  []*card.GameCard `json:"deck"`
	Hand                  []*card.GameCard `json:"hand"`
	CommandZone           []*card.GameCard `json:"command_zone"`
	UnitZone              []*card.GameCard `json:"unit_zone"`
	Graveyard             []*card.GameCard `json:"graveyard"`
	ResourcePoints        int              `json:"resource_points"`
	HasDrawnCard          bool             `json:"has_drawn_card"`
	HasPlayedResourceCard bool             `json:"has_played_resource_card"`
}

// BattleAction is one pending attack in the battle queue. An empty target
// means a direct attack on the opposing player.
type BattleAction struct {
	AttackerInstanceID string `json:"attacker_instance_id"`
	TargetInstanceID   string `json:"target_instance_id,omitempty"`
	Damage             int    `json:"damage"`
}

// GameState is the authoritative per-match record. All mutation goes
// through the Engine; once IsOver is set the state is immutable.
type GameState struct {
	ID             string                  `json:"id"`
	Phase          Phase                   `json:"phase"`
	ActivePlayer   string                  `json:"active_player"`
	TurnNumber     int                     `json:"turn_number"`
	Players        map[string]*PlayerState `json:"players"`
	PendingBattles []BattleAction          `json:"pending_battles,omitempty"`
	IsOver         bool                    `json:"is_over"`
	Winner         string                  `json:"winner,omitempty"`

	// ScriptedPlayer names the AI participant, empty for human matches.
	// Difficulty is the AI tier name ("easy", "medium", "hard").
	ScriptedPlayer string `json:"scripted_player,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`

	// Version increases by one on every successful mutation, so room
	// broadcasts form a strictly increasing sequence.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// NewGame creates a match between two players. Each deck is shuffled in
// place with a Fisher-Yates pass and the top seven cards are dealt.
func NewGame(gameID, player1, player2 string, deck1, deck2 []*card.GameCard, rng *rand.Rand) (*GameState, error) {
	if player1 == "" || player2 == "" || player1 == player2 {
		return nil, fmt.Errorf("a game needs two distinct players")
	}

	gs := &GameState{
		ID:           gameID,
		Phase:        PhaseCommand,
		ActivePlayer: player1,
		TurnNumber:   1,
		Players: map[string]*PlayerState{
			player1: newPlayerState(player1, deck1, rng),
			player2: newPlayerState(player2, deck2, rng),
		},
		Version:   1,
		CreatedAt: time.Now().UTC(),
	}

	return gs, nil
}

func newPlayerState(id string, deck []*card.GameCard, rng *rand.Rand) *PlayerState {
	shuffleDeck(deck, rng)

	handSize := StartingHandSize
	if handSize > len(deck) {
		handSize = len(deck)
	}

	hand := make([]*card.GameCard, handSize)
	copy(hand, deck[:handSize])

	return &PlayerState{
		ID:          id,
		Health:      StartingHealth,
		Deck:        deck[handSize:],
		Hand:        hand,
		CommandZone: make([]*card.GameCard, 0),
		UnitZone:    make([]*card.GameCard, 0),
		Graveyard:   make([]*card.GameCard, 0),
	}
}

// shuffleDeck performs an in-place Fisher-Yates shuffle.
func shuffleDeck(deck []*card.GameCard, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Player returns the state for the given participant.
func (gs *GameState) Player(playerID string) (*PlayerState, bool) {
	p, ok := gs.Players[playerID]
	return p, ok
}

// OpponentOf returns the ID of the other participant.
func (gs *GameState) OpponentOf(playerID string) string {
	for id := range gs.Players {
		if id != playerID {
			return id
		}
	}
	return ""
}

// HasPlayer reports whether playerID participates in this match.
func (gs *GameState) HasPlayer(playerID string) bool {
	_, ok := gs.Players[playerID]
	return ok
}

// Clone returns a deep copy of the state. The decision engine simulates
// candidate moves against clones so scoring never touches the live state.
func (gs *GameState) Clone() (*GameState, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("failed to clone game state: %w", err)
	}

	var clone GameState
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, fmt.Errorf("failed to clone game state: %w", err)
	}

	return &clone, nil
}

// zones returns the player's card containers keyed by zone name.
func (p *PlayerState) zones() map[string][]*card.GameCard {
	return map[string][]*card.GameCard{
		ZoneDeck:      p.Deck,
		ZoneHand:      p.Hand,
		ZoneCommand:   p.CommandZone,
		ZoneUnit:      p.UnitZone,
		ZoneGraveyard: p.Graveyard,
	}
}

// FindCard locates a card instance across both players and returns its
// owner and zone name.
func (gs *GameState) FindCard(instanceID string) (owner *PlayerState, zone string, c *card.GameCard) {
	for _, p := range gs.Players {
		for zoneName, cards := range p.zones() {
			for _, gc := range cards {
				if gc.InstanceID == instanceID {
					return p, zoneName, gc
				}
			}
		}
	}
	return nil, "", nil
}

// removeFromHand detaches the card with the given instance ID from the
// player's hand, preserving order.
func (p *PlayerState) removeFromHand(instanceID string) *card.GameCard {
	for i, gc := range p.Hand {
		if gc.InstanceID == instanceID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return gc
		}
	}
	return nil
}

// findUnit returns the card with the given instance ID in the player's
// unit zone.
func (p *PlayerState) findUnit(instanceID string) *card.GameCard {
	for _, gc := range p.UnitZone {
		if gc.InstanceID == instanceID {
			return gc
		}
	}
	return nil
}

// destroyUnit moves the unit from the player's unit zone to their
// graveyard. It is a no-op if the unit is not on the board.
func (p *PlayerState) destroyUnit(instanceID string) {
	for i, gc := range p.UnitZone {
		if gc.InstanceID == instanceID {
			p.UnitZone = append(p.UnitZone[:i], p.UnitZone[i+1:]...)
			p.Graveyard = append(p.Graveyard, gc)
			return
		}
	}
}
