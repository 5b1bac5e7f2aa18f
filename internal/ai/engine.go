package ai

import (
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/armadagame/armada-server/internal/game"
)

// Engine is the scripted opponent's decision engine. It is stateless with
// respect to games: ChooseMove reads a state and returns exactly one move,
// synchronously and without delay. The reaction delay is the scheduler's
// concern.
type Engine struct {
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand

	strategies map[Difficulty]Strategy
}

// NewEngine creates a decision engine using the given random source. The
// source is guarded internally, so one engine may serve every game.
func NewEngine(logger *zap.Logger, rng *rand.Rand) *Engine {
	return &Engine{
		logger: logger,
		rng:    rng,
		strategies: map[Difficulty]Strategy{
			DifficultyEasy:   NewStrategy(DifficultyEasy),
			DifficultyMedium: NewStrategy(DifficultyMedium),
			DifficultyHard:   NewStrategy(DifficultyHard),
		},
	}
}

// ChooseMove generates the legal candidates for the player, scores them
// with the tier's strategy, and selects one. An empty candidate list
// degrades to end_phase, which is always legal; the engine never returns
// no move.
func (e *Engine) ChooseMove(gs *game.GameState, playerID string, difficulty Difficulty) Move {
	strategy, ok := e.strategies[difficulty]
	if !ok {
		strategy = e.strategies[DifficultyEasy]
	}

	candidates := generateMoves(gs, playerID)
	if len(candidates) == 0 {
		return EndPhase()
	}

	scored := make([]ScoredMove, len(candidates))
	for i, mv := range candidates {
		scored[i] = ScoredMove{Move: mv, Score: strategy.ScoreMove(gs, playerID, mv)}
	}

	e.mu.Lock()
	chosen := strategy.SelectFromScored(e.rng, scored)
	e.mu.Unlock()

	e.logger.Debug("scripted move chosen",
		zap.String("game_id", gs.ID),
		zap.String("player", playerID),
		zap.Stringer("phase", gs.Phase),
		zap.String("difficulty", difficulty.String()),
		zap.String("move", string(chosen.Type)),
		zap.Int("candidates", len(candidates)),
	)

	return chosen
}
