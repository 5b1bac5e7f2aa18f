package game

import (
	"go.uber.org/zap"

	"github.com/armadagame/armada-server/internal/card"
)

// queueBattles populates the battle queue at Battle-phase entry. Every
// active-player unit with attack is paired with every opposing unit; when
// the opposing unit zone is empty each attacker queues a direct attack
// instead. The queue is applied when the phase ends.
func (e *Engine) queueBattles(gs *GameState) {
	attacker := gs.Players[gs.ActivePlayer]
	defender := gs.Players[gs.OpponentOf(gs.ActivePlayer)]

	gs.PendingBattles = gs.PendingBattles[:0]

	for _, unit := range attacker.UnitZone {
		if unit.Attack <= 0 {
			continue
		}

		if len(defender.UnitZone) == 0 {
			gs.PendingBattles = append(gs.PendingBattles, BattleAction{
				AttackerInstanceID: unit.InstanceID,
				Damage:             unit.Attack,
			})
			continue
		}

		for _, blocker := range defender.UnitZone {
			gs.PendingBattles = append(gs.PendingBattles, BattleAction{
				AttackerInstanceID: unit.InstanceID,
				TargetInstanceID:   blocker.InstanceID,
				Damage:             unit.Attack,
			})
		}
	}

	e.logger.Debug("battle queue built",
		zap.String("game_id", gs.ID),
		zap.String("attacker", attacker.ID),
		zap.Int("pending", len(gs.PendingBattles)),
	)
}

// resolveQueuedBattles drains the battle queue in enumeration order.
// Queued resolution applies attacker damage only; there is no
// counter-damage on this path, unlike discrete attacks. Actions whose
// target left the board earlier in the queue are skipped.
func (e *Engine) resolveQueuedBattles(gs *GameState) {
	attacker := gs.Players[gs.ActivePlayer]
	defender := gs.Players[gs.OpponentOf(gs.ActivePlayer)]

	for _, action := range gs.PendingBattles {
		if attacker.findUnit(action.AttackerInstanceID) == nil {
			continue
		}

		if action.TargetInstanceID == "" {
			defender.Health -= action.Damage
			continue
		}

		target := defender.findUnit(action.TargetInstanceID)
		if target == nil {
			continue
		}

		target.Defense -= action.Damage
		if target.Defense <= 0 {
			defender.destroyUnit(target.InstanceID)
		}
	}

	gs.PendingBattles = nil
}

// resolveDiscreteAttack applies a single attacker/target pair immediately.
// Unlike the queued path, the attacker takes counter-damage equal to the
// target's attack. Direct attacks hit the defending player's health with
// no counter.
func (e *Engine) resolveDiscreteAttack(gs *GameState, attackerOwner, defenderOwner *PlayerState, attacker, target *card.GameCard) {
	if target == nil {
		defenderOwner.Health -= attacker.Attack

		e.logger.Debug("direct attack resolved",
			zap.String("game_id", gs.ID),
			zap.String("attacker", attacker.Name),
			zap.Int("damage", attacker.Attack),
			zap.Int("defender_health", defenderOwner.Health),
		)
		return
	}

	target.Defense -= attacker.Attack
	attacker.Defense -= target.Attack

	if target.Defense <= 0 {
		defenderOwner.destroyUnit(target.InstanceID)
	}
	if attacker.Defense <= 0 {
		attackerOwner.destroyUnit(attacker.InstanceID)
	}

	e.logger.Debug("discrete attack resolved",
		zap.String("game_id", gs.ID),
		zap.String("attacker", attacker.Name),
		zap.String("target", target.Name),
		zap.Int("attacker_defense", attacker.Defense),
		zap.Int("target_defense", target.Defense),
	)
}
