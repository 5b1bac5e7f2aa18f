package ai

import (
	"github.com/armadagame/armada-server/internal/card"
	"github.com/armadagame/armada-server/internal/game"
)

// Scoring weights. LethalScore dominates every other heuristic so a
// finishing blow is never passed up by the deterministic tiers.
const (
	LethalScore = 1000.0

	scoreEndPhase      = 0.5
	scoreDraw          = 3.0
	scoreCommandPlay   = 2.0
	shipyardBonus      = 1.0
	lowHandBonus       = 2.0
	lowHandThreshold   = 3
	scoreDirectAttack  = 2.0
	tradeDestroysBonus = 4.0
	tradeSurvivesBonus = 2.0
)

// baseScore assigns a priority to a single candidate using phase-specific
// heuristics: unit value, favorable trades, lethal direct attacks, and
// resource plays when the hand is running low.
func baseScore(gs *game.GameState, playerID string, mv Move) float64 {
	p, ok := gs.Player(playerID)
	if !ok {
		return 0
	}
	opponent := gs.Players[gs.OpponentOf(playerID)]

	switch mv.Type {
	case MoveDrawCard:
		return scoreDraw

	case MovePlayCard:
		played := handCard(p, mv.CardInstanceID)
		if played == nil {
			return 0
		}
		if mv.TargetZone == game.ZoneCommand {
			score := scoreCommandPlay
			if played.HasTag(card.TagShipyard) {
				score += shipyardBonus
			}
			if len(p.Hand) <= lowHandThreshold {
				score += lowHandBonus
			}
			return score
		}
		return unitValue(played)

	case MoveAttack:
		attacker := unitInZone(p, mv.AttackerInstanceID)
		if attacker == nil {
			return 0
		}
		if mv.TargetInstanceID == "" {
			if attacker.Attack >= opponent.Health {
				return LethalScore
			}
			return scoreDirectAttack + float64(attacker.Attack)*0.1
		}

		target := unitInZone(opponent, mv.TargetInstanceID)
		if target == nil {
			return 0
		}
		score := 1.0
		if attacker.Attack >= target.Defense {
			score += tradeDestroysBonus
		}
		if target.Attack < attacker.Defense {
			score += tradeSurvivesBonus
		}
		return score

	default:
		return scoreEndPhase
	}
}

// positionScore evaluates a whole position from the player's point of
// view: health, board value, hand size, and resource differentials.
func positionScore(gs *game.GameState, playerID string) float64 {
	p, ok := gs.Player(playerID)
	if !ok {
		return 0
	}
	opponent := gs.Players[gs.OpponentOf(playerID)]

	healthDiff := float64(p.Health - opponent.Health)
	boardDiff := boardValue(p) - boardValue(opponent)
	handDiff := float64(len(p.Hand) - len(opponent.Hand))
	resourceDiff := float64(p.ResourcePoints - opponent.ResourcePoints)

	return healthDiff*1.0 + boardDiff*1.5 + handDiff*0.5 + resourceDiff*0.5
}

// unitValue approximates a unit's worth as stats per resource point.
func unitValue(gc *card.GameCard) float64 {
	cost := gc.Cost
	if cost < 1 {
		cost = 1
	}
	return float64(gc.Attack+gc.Defense) / float64(cost)
}

func boardValue(p *game.PlayerState) float64 {
	total := 0.0
	for _, unit := range p.UnitZone {
		total += float64(unit.Attack + unit.Defense)
	}
	return total
}

func handCard(p *game.PlayerState, instanceID string) *card.GameCard {
	for _, gc := range p.Hand {
		if gc.InstanceID == instanceID {
			return gc
		}
	}
	return nil
}

func unitInZone(p *game.PlayerState, instanceID string) *card.GameCard {
	for _, gc := range p.UnitZone {
		if gc.InstanceID == instanceID {
			return gc
		}
	}
	return nil
}
