package game

import (
	"go.uber.org/zap"

	"github.com/armadagame/armada-server/internal/card"
)

// Engine applies player actions to game states. It holds no per-game
// state itself; callers are responsible for serializing mutations to any
// one GameState.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a new turn/phase engine.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// requireActive checks the preconditions shared by every mutating action:
// the game is still running, the player exists, and the player holds the
// turn.
func (e *Engine) requireActive(gs *GameState, playerID string) (*PlayerState, error) {
	if gs.IsOver {
		return nil, ErrGameOver
	}

	p, ok := gs.Player(playerID)
	if !ok {
		return nil, notFoundf("player %s is not in game %s", playerID, gs.ID)
	}

	if gs.ActivePlayer != playerID {
		return nil, illegalActionf("it is not %s's turn", playerID)
	}

	return p, nil
}

// DrawCard moves the top card of the acting player's deck into their
// hand. Legal only in the Command phase, once per turn. Drawing from an
// empty deck is a no-op rather than an error.
func (e *Engine) DrawCard(gs *GameState, playerID string) error {
	p, err := e.requireActive(gs, playerID)
	if err != nil {
		return err
	}

	if gs.Phase != PhaseCommand {
		return illegalActionf("cannot draw during %s", gs.Phase)
	}
	if p.HasDrawnCard {
		return illegalActionf("%s has already drawn this turn", playerID)
	}
	if len(p.Deck) == 0 {
		e.logger.Debug("draw from empty deck ignored",
			zap.String("game_id", gs.ID),
			zap.String("player", playerID),
		)
		return nil
	}

	drawn := p.Deck[0]
	p.Deck = p.Deck[1:]
	p.Hand = append(p.Hand, drawn)
	p.HasDrawnCard = true

	gs.Version++
	e.checkGameOver(gs)

	e.logger.Debug("card drawn",
		zap.String("game_id", gs.ID),
		zap.String("player", playerID),
		zap.String("card", drawn.Name),
	)

	return nil
}

// PlayCard moves a card from the acting player's hand into the target
// zone. Command-phase plays must target the command zone (one per turn,
// granting resource points); Deployment-phase plays must target the unit
// zone and debit the card's cost.
func (e *Engine) PlayCard(gs *GameState, playerID, cardInstanceID, targetZone string) error {
	p, err := e.requireActive(gs, playerID)
	if err != nil {
		return err
	}

	var played *card.GameCard
	for _, gc := range p.Hand {
		if gc.InstanceID == cardInstanceID {
			played = gc
			break
		}
	}
	if played == nil {
		if _, _, elsewhere := gs.FindCard(cardInstanceID); elsewhere != nil {
			return illegalActionf("card %s is not in %s's hand", cardInstanceID, playerID)
		}
		return notFoundf("card %s does not exist", cardInstanceID)
	}

	switch gs.Phase {
	case PhaseCommand:
		if targetZone != ZoneCommand {
			return illegalActionf("command-phase plays must target the command zone")
		}
		if p.HasPlayedResourceCard {
			return illegalActionf("%s has already played to the command zone this turn", playerID)
		}

		p.removeFromHand(cardInstanceID)
		p.CommandZone = append(p.CommandZone, played)
		if played.HasTag(card.TagShipyard) {
			p.ResourcePoints += 2
		} else {
			p.ResourcePoints++
		}
		p.HasPlayedResourceCard = true

	case PhaseDeployment:
		if targetZone != ZoneUnit {
			return illegalActionf("deployment-phase plays must target the unit zone")
		}
		if played.HasTag(card.TagShipyard) {
			return illegalActionf("%s cannot be deployed to the unit zone", played.Name)
		}
		if !played.IsUnit() {
			return illegalActionf("%s is not a unit", played.Name)
		}
		if played.Cost > p.ResourcePoints {
			return illegalActionf("%s costs %d but %s has %d resource points",
				played.Name, played.Cost, playerID, p.ResourcePoints)
		}

		p.removeFromHand(cardInstanceID)
		p.UnitZone = append(p.UnitZone, played)
		p.ResourcePoints -= played.Cost

	default:
		return illegalActionf("cards cannot be played during %s", gs.Phase)
	}

	gs.Version++
	e.checkGameOver(gs)

	e.logger.Debug("card played",
		zap.String("game_id", gs.ID),
		zap.String("player", playerID),
		zap.String("card", played.Name),
		zap.String("zone", targetZone),
	)

	return nil
}

// EndPhase advances the game to the next phase. Entering Battle builds the
// battle queue; leaving Battle resolves it; leaving EndTurn hands the turn
// to the opponent.
func (e *Engine) EndPhase(gs *GameState, playerID string) error {
	if _, err := e.requireActive(gs, playerID); err != nil {
		return err
	}

	from := gs.Phase
	switch from {
	case PhaseDeployment:
		gs.Phase = PhaseBattle
		e.queueBattles(gs)
	case PhaseBattle:
		e.resolveQueuedBattles(gs)
		gs.Phase = PhaseEndTurn
	case PhaseEndTurn:
		gs.Phase = PhaseCommand
		next := gs.OpponentOf(gs.ActivePlayer)
		gs.ActivePlayer = next
		gs.TurnNumber++
		if p, ok := gs.Player(next); ok {
			p.HasDrawnCard = false
			p.HasPlayedResourceCard = false
		}
	default:
		gs.Phase = from.Next()
	}

	gs.Version++
	e.checkGameOver(gs)

	e.logger.Debug("phase advanced",
		zap.String("game_id", gs.ID),
		zap.Stringer("from", from),
		zap.Stringer("to", gs.Phase),
		zap.Int("turn", gs.TurnNumber),
		zap.String("active_player", gs.ActivePlayer),
	)

	return nil
}

// Attack resolves one attacker immediately. With a target, the discrete
// path applies round-trip damage: the target takes the attacker's attack
// and the attacker takes the target's attack in return. Without a target
// the opposing player's health takes the hit.
func (e *Engine) Attack(gs *GameState, playerID, attackerInstanceID, targetInstanceID string) error {
	p, err := e.requireActive(gs, playerID)
	if err != nil {
		return err
	}

	if gs.Phase != PhaseBattle {
		return illegalActionf("attacks are only legal during %s", PhaseBattle)
	}

	attacker := p.findUnit(attackerInstanceID)
	if attacker == nil {
		return notFoundf("attacker %s is not in %s's unit zone", attackerInstanceID, playerID)
	}
	if attacker.Attack <= 0 {
		return illegalActionf("%s cannot attack", attacker.Name)
	}

	opponent := gs.Players[gs.OpponentOf(playerID)]

	var target *card.GameCard
	if targetInstanceID != "" {
		target = opponent.findUnit(targetInstanceID)
		if target == nil {
			return notFoundf("target %s is not in %s's unit zone", targetInstanceID, opponent.ID)
		}
	}

	e.resolveDiscreteAttack(gs, p, opponent, attacker, target)

	gs.Version++
	e.checkGameOver(gs)

	return nil
}

// checkGameOver sets the terminal flags once either player's health
// reaches zero. It runs after every mutation and is idempotent.
func (e *Engine) checkGameOver(gs *GameState) {
	if gs.IsOver {
		return
	}

	for id, p := range gs.Players {
		if p.Health <= 0 {
			p.Health = 0
			gs.IsOver = true
			gs.Winner = gs.OpponentOf(id)

			e.logger.Info("game over",
				zap.String("game_id", gs.ID),
				zap.String("winner", gs.Winner),
				zap.Int("turn", gs.TurnNumber),
			)
		}
	}
}
