package ai

import (
	"github.com/armadagame/armada-server/internal/card"
	"github.com/armadagame/armada-server/internal/game"
)

// generateMoves builds the phase-specific candidate list for the player.
// Candidates are constructed to be legal by the same preconditions the
// engine enforces, so the engine never rejects a generated move. The
// end-phase fallback is always included.
func generateMoves(gs *game.GameState, playerID string) []Move {
	moves := make([]Move, 0, 8)

	p, ok := gs.Player(playerID)
	if !ok || gs.IsOver || gs.ActivePlayer != playerID {
		return append(moves, EndPhase())
	}

	switch gs.Phase {
	case game.PhaseCommand:
		if !p.HasDrawnCard && len(p.Deck) > 0 {
			moves = append(moves, Move{Type: MoveDrawCard})
		}
		if !p.HasPlayedResourceCard {
			for _, gc := range p.Hand {
				moves = append(moves, Move{
					Type:           MovePlayCard,
					CardInstanceID: gc.InstanceID,
					TargetZone:     game.ZoneCommand,
				})
			}
		}

	case game.PhaseDeployment:
		for _, gc := range p.Hand {
			if !gc.IsUnit() || gc.HasTag(card.TagShipyard) {
				continue
			}
			if gc.Cost > p.ResourcePoints {
				continue
			}
			moves = append(moves, Move{
				Type:           MovePlayCard,
				CardInstanceID: gc.InstanceID,
				TargetZone:     game.ZoneUnit,
			})
		}

	case game.PhaseBattle:
		opponent := gs.Players[gs.OpponentOf(playerID)]
		for _, unit := range p.UnitZone {
			if unit.Attack <= 0 {
				continue
			}
			moves = append(moves, Move{
				Type:               MoveAttack,
				AttackerInstanceID: unit.InstanceID,
			})
			for _, blocker := range opponent.UnitZone {
				moves = append(moves, Move{
					Type:               MoveAttack,
					AttackerInstanceID: unit.InstanceID,
					TargetInstanceID:   blocker.InstanceID,
				})
			}
		}
	}

	return append(moves, EndPhase())
}
