package ai

import (
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/armadagame/armada-server/internal/game"
)

// ScoredMove pairs a candidate with its priority.
type ScoredMove struct {
	Move  Move
	Score float64
}

// Strategy is the per-tier policy: how candidates are scored and how one
// is picked from the scored list. Adding a tier means adding one
// implementation here, nothing else.
type Strategy interface {
	ScoreMove(gs *game.GameState, playerID string, mv Move) float64
	SelectFromScored(rng *rand.Rand, scored []ScoredMove) Move
}

// NewStrategy returns the strategy for the given tier.
func NewStrategy(difficulty Difficulty) Strategy {
	switch difficulty {
	case DifficultyMedium:
		return &mediumStrategy{}
	case DifficultyHard:
		return &hardStrategy{sim: game.NewEngine(zap.NewNop())}
	default:
		return &easyStrategy{}
	}
}

// easyStrategy ignores scores entirely and picks uniformly at random.
type easyStrategy struct{}

func (s *easyStrategy) ScoreMove(gs *game.GameState, playerID string, mv Move) float64 {
	return baseScore(gs, playerID, mv)
}

func (s *easyStrategy) SelectFromScored(rng *rand.Rand, scored []ScoredMove) Move {
	return scored[rng.Intn(len(scored))].Move
}

// mediumStrategy sorts by score and picks uniformly among the top three,
// keeping the opponent non-deterministic but directionally sound.
type mediumStrategy struct{}

const mediumTopN = 3

func (s *mediumStrategy) ScoreMove(gs *game.GameState, playerID string, mv Move) float64 {
	return baseScore(gs, playerID, mv)
}

func (s *mediumStrategy) SelectFromScored(rng *rand.Rand, scored []ScoredMove) Move {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	top := mediumTopN
	if top > len(scored) {
		top = len(scored)
	}
	return scored[rng.Intn(top)].Move
}

// hardStrategy adds a full position evaluation of the simulated outcome
// to each candidate's base score and always picks the single best.
type hardStrategy struct {
	sim *game.Engine
}

func (s *hardStrategy) ScoreMove(gs *game.GameState, playerID string, mv Move) float64 {
	score := baseScore(gs, playerID, mv)

	clone, err := gs.Clone()
	if err != nil {
		return score
	}
	if err := ApplyMove(s.sim, clone, playerID, mv); err != nil {
		return score
	}

	return score + positionScore(clone, playerID)
}

func (s *hardStrategy) SelectFromScored(rng *rand.Rand, scored []ScoredMove) Move {
	best := scored[0]
	for _, sm := range scored[1:] {
		if sm.Score > best.Score {
			best = sm
		}
	}
	return best.Move
}
