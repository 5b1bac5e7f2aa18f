package game

import (
	"errors"
	"testing"
)

// TestDiscreteAttackCounterDamage: the discrete path applies round-trip
// damage. An attack=4 unit hitting an attack=5 defense=3 unit destroys it
// (defense 3-4 < 0) and takes 5 counter-damage.
func TestDiscreteAttackCounterDamage(t *testing.T) {
	engine := testEngine(t)
	gs := newTestGame()
	gs.Phase = PhaseBattle

	attacker := makeUnit("corvette", 2, 4, 6)
	defender := makeUnit("hive-swarm", 2, 5, 3)
	gs.Players["alice"].UnitZone = append(gs.Players["alice"].UnitZone, attacker)
	gs.Players["bob"].UnitZone = append(gs.Players["bob"].UnitZone, defender)

	if err := engine.Attack(gs, "alice", attacker.InstanceID, defender.InstanceID); err != nil {
		t.Fatalf("attack failed: %v", err)
	}

	if defender.Defense != -1 {
		t.Fatalf("expected defender defense -1, got %d", defender.Defense)
	}
	if len(gs.Players["bob"].UnitZone) != 0 {
		t.Fatal("expected defender removed from unit zone")
	}
	if len(gs.Players["bob"].Graveyard) != 1 {
		t.Fatal("expected defender in graveyard")
	}

	if attacker.Defense != 1 {
		t.Fatalf("expected attacker defense 6-5=1, got %d", attacker.Defense)
	}
	if len(gs.Players["alice"].UnitZone) != 1 {
		t.Fatal("attacker should survive with defense 1")
	}
}

// TestDiscreteAttackMutualDestruction: counter-damage can take the
// attacker down with the target.
func TestDiscreteAttackMutualDestruction(t *testing.T) {
	engine := testEngine(t)
	gs := newTestGame()
	gs.Phase = PhaseBattle

	attacker := makeUnit("corvette", 2, 4, 3)
	defender := makeUnit("hive-swarm", 2, 5, 3)
	gs.Players["alice"].UnitZone = append(gs.Players["alice"].UnitZone, attacker)
	gs.Players["bob"].UnitZone = append(gs.Players["bob"].UnitZone, defender)

	if err := engine.Attack(gs, "alice", attacker.InstanceID, defender.InstanceID); err != nil {
		t.Fatalf("attack failed: %v", err)
	}

	if len(gs.Players["alice"].Graveyard) != 1 || len(gs.Players["bob"].Graveyard) != 1 {
		t.Fatal("expected both units destroyed")
	}
}

// TestDiscreteDirectAttack hits the opposing player with no counter.
func TestDiscreteDirectAttack(t *testing.T) {
	engine := testEngine(t)
	gs := newTestGame()
	gs.Phase = PhaseBattle

	attacker := makeUnit("corvette", 2, 4, 3)
	gs.Players["alice"].UnitZone = append(gs.Players["alice"].UnitZone, attacker)

	if err := engine.Attack(gs, "alice", attacker.InstanceID, ""); err != nil {
		t.Fatalf("attack failed: %v", err)
	}

	if gs.Players["bob"].Health != StartingHealth-4 {
		t.Fatalf("expected bob at %d health, got %d", StartingHealth-4, gs.Players["bob"].Health)
	}
	if attacker.Defense != 3 {
		t.Fatalf("direct attack must not damage the attacker, defense is %d", attacker.Defense)
	}
}

// TestAttackGuards covers phase, ownership, and zero-attack rejections.
func TestAttackGuards(t *testing.T) {
	engine := testEngine(t)
	gs := newTestGame()

	attacker := makeUnit("corvette", 2, 4, 3)
	passive := makeShipyard("drydock")
	gs.Players["alice"].UnitZone = append(gs.Players["alice"].UnitZone, attacker, passive)

	if err := engine.Attack(gs, "alice", attacker.InstanceID, ""); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("expected illegal action outside battle phase, got %v", err)
	}

	gs.Phase = PhaseBattle
	if err := engine.Attack(gs, "alice", "missing-unit", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown attacker, got %v", err)
	}
	if err := engine.Attack(gs, "alice", passive.InstanceID, ""); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("expected illegal action for zero-attack unit, got %v", err)
	}
	if err := engine.Attack(gs, "alice", attacker.InstanceID, "missing-target"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown target, got %v", err)
	}
}

// TestQueuedDirectAttack: with an empty opposing unit zone, Battle-phase
// entry queues one direct action per attacker and resolution applies it
// with no counter-damage.
func TestQueuedDirectAttack(t *testing.T) {
	engine := testEngine(t)
	gs := newTestGame()
	gs.Phase = PhaseDeployment

	attacker := makeUnit("dreadnought", 6, 7, 6)
	gs.Players["alice"].UnitZone = append(gs.Players["alice"].UnitZone, attacker)

	if err := engine.EndPhase(gs, "alice"); err != nil {
		t.Fatalf("enter battle failed: %v", err)
	}

	if len(gs.PendingBattles) != 1 {
		t.Fatalf("expected 1 pending battle, got %d", len(gs.PendingBattles))
	}
	action := gs.PendingBattles[0]
	if action.TargetInstanceID != "" || action.Damage != 7 {
		t.Fatalf("expected direct action of damage 7, got %+v", action)
	}

	if err := engine.EndPhase(gs, "alice"); err != nil {
		t.Fatalf("leave battle failed: %v", err)
	}

	if gs.Players["bob"].Health != StartingHealth-7 {
		t.Fatalf("expected bob at %d, got %d", StartingHealth-7, gs.Players["bob"].Health)
	}
	if attacker.Defense != 6 {
		t.Fatalf("queued resolution applied counter-damage, defense is %d", attacker.Defense)
	}
	if gs.PendingBattles != nil {
		t.Fatal("expected battle queue drained")
	}
}

// TestQueuedPairsEveryOpposingUnit: each attacker queues one action per
// opposing unit, in enumeration order.
func TestQueuedPairsEveryOpposingUnit(t *testing.T) {
	engine := testEngine(t)
	gs := newTestGame()
	gs.Phase = PhaseDeployment

	a1 := makeUnit("corvette", 2, 3, 2)
	a2 := makeUnit("frigate", 1, 2, 1)
	d1 := makeUnit("swarm", 2, 4, 1)
	d2 := makeUnit("cruiser", 3, 4, 3)
	gs.Players["alice"].UnitZone = append(gs.Players["alice"].UnitZone, a1, a2)
	gs.Players["bob"].UnitZone = append(gs.Players["bob"].UnitZone, d1, d2)

	if err := engine.EndPhase(gs, "alice"); err != nil {
		t.Fatalf("enter battle failed: %v", err)
	}

	if len(gs.PendingBattles) != 4 {
		t.Fatalf("expected 4 pending battles, got %d", len(gs.PendingBattles))
	}

	want := []BattleAction{
		{AttackerInstanceID: a1.InstanceID, TargetInstanceID: d1.InstanceID, Damage: 3},
		{AttackerInstanceID: a1.InstanceID, TargetInstanceID: d2.InstanceID, Damage: 3},
		{AttackerInstanceID: a2.InstanceID, TargetInstanceID: d1.InstanceID, Damage: 2},
		{AttackerInstanceID: a2.InstanceID, TargetInstanceID: d2.InstanceID, Damage: 2},
	}
	for i, w := range want {
		if gs.PendingBattles[i] != w {
			t.Fatalf("action %d: expected %+v, got %+v", i, w, gs.PendingBattles[i])
		}
	}
}

// TestQueuedResolutionSkipsDeadTargets: a target destroyed earlier in the
// queue absorbs no further damage.
func TestQueuedResolutionSkipsDeadTargets(t *testing.T) {
	engine := testEngine(t)
	gs := newTestGame()
	gs.Phase = PhaseDeployment

	a1 := makeUnit("corvette", 2, 3, 2)
	a2 := makeUnit("frigate", 1, 2, 1)
	d1 := makeUnit("scout", 1, 1, 2)
	gs.Players["alice"].UnitZone = append(gs.Players["alice"].UnitZone, a1, a2)
	gs.Players["bob"].UnitZone = append(gs.Players["bob"].UnitZone, d1)

	if err := engine.EndPhase(gs, "alice"); err != nil {
		t.Fatalf("enter battle failed: %v", err)
	}
	if err := engine.EndPhase(gs, "alice"); err != nil {
		t.Fatalf("leave battle failed: %v", err)
	}

	// a1 destroys d1 (2-3 < 0); a2's queued action against d1 is skipped,
	// and bob's health is untouched because the actions were unit attacks.
	if len(gs.Players["bob"].Graveyard) != 1 {
		t.Fatal("expected d1 destroyed")
	}
	if gs.Players["bob"].Health != StartingHealth {
		t.Fatalf("unit-targeted queue must not hit the player, health %d", gs.Players["bob"].Health)
	}
	if d1.Defense != -1 {
		t.Fatalf("expected d1 at -1 defense from the first action only, got %d", d1.Defense)
	}
}

// TestQueuedZeroAttackUnitsExcluded: units without attack never queue.
func TestQueuedZeroAttackUnitsExcluded(t *testing.T) {
	engine := testEngine(t)
	gs := newTestGame()
	gs.Phase = PhaseDeployment

	gs.Players["alice"].UnitZone = append(gs.Players["alice"].UnitZone, makeShipyard("drydock"))

	if err := engine.EndPhase(gs, "alice"); err != nil {
		t.Fatalf("enter battle failed: %v", err)
	}
	if len(gs.PendingBattles) != 0 {
		t.Fatalf("expected empty battle queue, got %d actions", len(gs.PendingBattles))
	}
}

// TestQueuedLethalEndsGame: queue resolution can finish the match.
func TestQueuedLethalEndsGame(t *testing.T) {
	engine := testEngine(t)
	gs := newTestGame()
	gs.Phase = PhaseDeployment
	gs.Players["bob"].Health = 5

	gs.Players["alice"].UnitZone = append(gs.Players["alice"].UnitZone, makeUnit("dreadnought", 6, 7, 6))

	if err := engine.EndPhase(gs, "alice"); err != nil {
		t.Fatalf("enter battle failed: %v", err)
	}
	if err := engine.EndPhase(gs, "alice"); err != nil {
		t.Fatalf("leave battle failed: %v", err)
	}

	if !gs.IsOver || gs.Winner != "alice" {
		t.Fatalf("expected alice to win, over=%v winner=%s", gs.IsOver, gs.Winner)
	}
	if gs.Players["bob"].Health != 0 {
		t.Fatalf("expected health clamped at 0, got %d", gs.Players["bob"].Health)
	}
}
