package game

import "fmt"

// Phase represents the four phases of an Armada turn. Phases only advance
// forward, wrapping EndTurn back to Command with an active-player swap.
type Phase int

const (
	PhaseCommand Phase = iota
	PhaseDeployment
	PhaseBattle
	PhaseEndTurn
)

var phaseNames = map[Phase]string{
	PhaseCommand:    "COMMAND",
	PhaseDeployment: "DEPLOYMENT",
	PhaseBattle:     "BATTLE",
	PhaseEndTurn:    "END_TURN",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Next returns the phase that follows p in the turn cycle.
func (p Phase) Next() Phase {
	switch p {
	case PhaseCommand:
		return PhaseDeployment
	case PhaseDeployment:
		return PhaseBattle
	case PhaseBattle:
		return PhaseEndTurn
	default:
		return PhaseCommand
	}
}

// MarshalText encodes the phase as its name for JSON state snapshots.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase from its name.
func (p *Phase) UnmarshalText(text []byte) error {
	name := string(text)
	for phase, n := range phaseNames {
		if n == name {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", name)
}
