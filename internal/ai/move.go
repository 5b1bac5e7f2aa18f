package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/armadagame/armada-server/internal/game"
)

// MoveType names match the wire message types, so a scripted move flows
// through the same dispatch path as a human one.
type MoveType string

const (
	MoveDrawCard MoveType = "draw_card"
	MovePlayCard MoveType = "play_card"
	MoveEndPhase MoveType = "end_phase"
	MoveAttack   MoveType = "attack"
)

// Move is one action the scripted opponent wants to take.
type Move struct {
	Type               MoveType `json:"type"`
	CardInstanceID     string   `json:"card_instance_id,omitempty"`
	TargetZone         string   `json:"target_zone,omitempty"`
	AttackerInstanceID string   `json:"attacker_instance_id,omitempty"`
	TargetInstanceID   string   `json:"target_instance_id,omitempty"`
}

// EndPhase is the universal fallback move; it is legal in every phase.
func EndPhase() Move {
	return Move{Type: MoveEndPhase}
}

// Difficulty is the closed set of opponent tiers.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

var difficultyNames = map[Difficulty]string{
	DifficultyEasy:   "easy",
	DifficultyMedium: "medium",
	DifficultyHard:   "hard",
}

func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return fmt.Sprintf("difficulty_%d", int(d))
}

// ParseDifficulty maps a tier name to its Difficulty value.
func ParseDifficulty(name string) (Difficulty, error) {
	for d, n := range difficultyNames {
		if n == strings.ToLower(strings.TrimSpace(name)) {
			return d, nil
		}
	}
	return DifficultyEasy, fmt.Errorf("unknown difficulty %q", name)
}

// DelayRange bounds the simulated thinking time before a scripted move is
// applied. The delay is enforced by the scheduler, never by the decision
// engine itself.
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// DefaultDelayRanges returns the reaction delays per tier. Easy is the
// slowest, Hard the fastest.
func DefaultDelayRanges() map[Difficulty]DelayRange {
	return map[Difficulty]DelayRange{
		DifficultyEasy:   {Min: 2 * time.Second, Max: 4 * time.Second},
		DifficultyMedium: {Min: 1 * time.Second, Max: 2500 * time.Millisecond},
		DifficultyHard:   {Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond},
	}
}

// ApplyMove routes a scripted move through the turn/phase engine exactly
// as a network message would be.
func ApplyMove(engine *game.Engine, gs *game.GameState, playerID string, mv Move) error {
	switch mv.Type {
	case MoveDrawCard:
		return engine.DrawCard(gs, playerID)
	case MovePlayCard:
		return engine.PlayCard(gs, playerID, mv.CardInstanceID, mv.TargetZone)
	case MoveEndPhase:
		return engine.EndPhase(gs, playerID)
	case MoveAttack:
		return engine.Attack(gs, playerID, mv.AttackerInstanceID, mv.TargetInstanceID)
	default:
		return fmt.Errorf("unknown move type %q", mv.Type)
	}
}
