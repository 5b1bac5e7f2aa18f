// Package hub is the synchronization layer: it maps websocket
// connections to users and game rooms, serializes all state-mutating
// messages per game, rebroadcasts authoritative state, and schedules the
// scripted opponent's replies.
package hub

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/armadagame/armada-server/internal/ai"
	"github.com/armadagame/armada-server/internal/card"
	"github.com/armadagame/armada-server/internal/game"
	"github.com/armadagame/armada-server/internal/repository"
	"github.com/armadagame/armada-server/internal/session"
)

// ScriptedPlayerID is the fixed participant ID of the AI opponent.
const ScriptedPlayerID = "scripted_opponent"

const storeTimeout = 5 * time.Second

// GameStore is the persistence collaborator. The hub never performs its
// own persistence beyond these calls.
type GameStore interface {
	GetGame(ctx context.Context, gameID string) (*game.GameState, error)
	SaveGame(ctx context.Context, gameID string, gs *game.GameState) error
}

// UserStore is the identity collaborator.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*repository.UserRecord, error)
}

// Options configures a Hub.
type Options struct {
	Logger   *zap.Logger
	Engine   *game.Engine
	Decider  *ai.Engine
	Games    GameStore
	Users    UserStore
	Sessions *session.Manager
	Catalog  *card.Catalog
	DeckSize int
	Delays   map[ai.Difficulty]ai.DelayRange
	Rand     *rand.Rand
}

// Hub is the connection/room registry. It is constructed once at server
// start and passed by reference; there is no package-level state.
type Hub struct {
	logger   *zap.Logger
	engine   *game.Engine
	decider  *ai.Engine
	games    GameStore
	users    UserStore
	sessions *session.Manager
	catalog  *card.Catalog
	deckSize int
	delays   map[ai.Difficulty]ai.DelayRange

	scheduler *scheduler

	rngMu sync.Mutex
	rng   *rand.Rand

	mu    sync.RWMutex
	rooms map[string]*Room
}

// New creates a hub. Zero-valued options fall back to defaults.
func New(opts Options) *Hub {
	if opts.DeckSize <= 0 {
		opts.DeckSize = game.DefaultDeckSize
	}
	if opts.Delays == nil {
		opts.Delays = ai.DefaultDelayRanges()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Hub{
		logger:    opts.Logger,
		engine:    opts.Engine,
		decider:   opts.Decider,
		games:     opts.Games,
		users:     opts.Users,
		sessions:  opts.Sessions,
		catalog:   opts.Catalog,
		deckSize:  opts.DeckSize,
		delays:    opts.Delays,
		scheduler: newScheduler(),
		rng:       opts.Rand,
		rooms:     make(map[string]*Room),
	}
}

// ActiveRooms returns the number of live game rooms.
func (h *Hub) ActiveRooms() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// room returns the registered room for the game, if any.
func (h *Hub) room(gameID string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[gameID]
	return r, ok
}

// getOrLoadRoom returns the room for the game, rehydrating its state from
// the store when no room is live.
func (h *Hub) getOrLoadRoom(gameID string) (*Room, error) {
	if r, ok := h.room(gameID); ok {
		return r, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	gs, err := h.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[gameID]; ok {
		return r, nil
	}

	r := newRoom(gameID, gs)
	h.rooms[gameID] = r

	h.logger.Info("game room rehydrated",
		zap.String("game_id", gameID),
	)

	return r, nil
}

// leaveRoom detaches the connection from whatever room it currently
// occupies, announcing the departure. A connection is a member of at most
// one room at a time; the session can only hold one game binding, and
// broadcasts must never reach a connection whose send channel has been
// closed through another room's membership.
func (h *Hub) leaveRoom(c *Client) {
	gameID := c.session.GameID()
	if gameID == "" {
		return
	}
	c.session.SetGameID("")

	r, ok := h.room(gameID)
	if !ok || !r.HasMember(c) {
		return
	}

	empty := r.RemoveMember(c)
	r.Broadcast(Presence{Type: MsgPlayerLeft, GameID: gameID, PlayerID: c.session.UserID()})
	if empty {
		h.dropRoomIfEmpty(r)
	}
}

// dropRoomIfEmpty tears down a room with no members left. The match is
// not abandoned; its state stays in the store and the room is rehydrated
// on the next join.
func (h *Hub) dropRoomIfEmpty(r *Room) {
	if r.MemberCount() > 0 {
		return
	}

	h.scheduler.Cancel(r.GameID)

	h.mu.Lock()
	if current, ok := h.rooms[r.GameID]; ok && current == r && r.MemberCount() == 0 {
		delete(h.rooms, r.GameID)
	}
	h.mu.Unlock()

	h.logger.Debug("empty game room dropped", zap.String("game_id", r.GameID))
}

// persist saves the state through the game store. A store failure is
// logged but does not roll back the in-memory state; the next successful
// move re-persists the full snapshot.
func (h *Hub) persist(gameID string, gs *game.GameState) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := h.games.SaveGame(ctx, gameID, gs); err != nil {
		h.logger.Error("failed to persist game state",
			zap.String("game_id", gameID),
			zap.Int64("version", gs.Version),
			zap.Error(err),
		)
	}
}

// scheduleScripted arms the deferred AI move for the game after a
// tier-appropriate random delay.
func (h *Hub) scheduleScripted(r *Room, difficulty ai.Difficulty) {
	delay := h.sampleDelay(difficulty)

	h.scheduler.Schedule(r.GameID, delay, func() {
		h.runScriptedMove(r)
	})

	h.logger.Debug("scripted move scheduled",
		zap.String("game_id", r.GameID),
		zap.String("difficulty", difficulty.String()),
		zap.Duration("delay", delay),
	)
}

// runScriptedMove executes one AI move under the room's state lock. The
// timer may fire after the game ended, the turn changed hands, or the
// room itself was torn down or replaced by rehydration; all of these are
// rechecked here and turn the callback into a no-op. The identity check
// against the registry keeps a fired timer from mutating an orphaned
// room while a rehydrated copy serves the same game.
func (h *Hub) runScriptedMove(r *Room) {
	if current, ok := h.room(r.GameID); !ok || current != r {
		return
	}

	r.WithState(func(gs *game.GameState) {
		if gs.IsOver || gs.ScriptedPlayer == "" || gs.ActivePlayer != gs.ScriptedPlayer {
			return
		}

		difficulty, err := ai.ParseDifficulty(gs.Difficulty)
		if err != nil {
			difficulty = ai.DifficultyEasy
		}

		before := gs.Version
		mv := h.decider.ChooseMove(gs, gs.ScriptedPlayer, difficulty)
		if err := ai.ApplyMove(h.engine, gs, gs.ScriptedPlayer, mv); err != nil {
			// Candidate generation only proposes legal moves; end_phase
			// is the always-legal fallback if that assumption breaks.
			h.logger.Warn("scripted move rejected, ending phase",
				zap.String("game_id", gs.ID),
				zap.String("move", string(mv.Type)),
				zap.Error(err),
			)
			mv = ai.EndPhase()
			if err := ai.ApplyMove(h.engine, gs, gs.ScriptedPlayer, mv); err != nil {
				return
			}
		}

		if gs.Version > before {
			h.persist(gs.ID, gs)
			r.Broadcast(GameUpdate{
				Type:      MsgGameUpdate,
				GameState: gs,
				LastMove:  &AppliedMove{PlayerID: gs.ScriptedPlayer, Move: mv},
			})
		}

		if gs.IsOver {
			h.scheduler.Cancel(gs.ID)
			return
		}
		if gs.ActivePlayer == gs.ScriptedPlayer {
			h.scheduleScripted(r, difficulty)
		}
	})
}

func (h *Hub) sampleDelay(difficulty ai.Difficulty) time.Duration {
	bounds, ok := h.delays[difficulty]
	if !ok {
		bounds = ai.DefaultDelayRanges()[difficulty]
	}

	span := bounds.Max - bounds.Min
	if span <= 0 {
		return bounds.Min
	}

	h.rngMu.Lock()
	defer h.rngMu.Unlock()
	return bounds.Min + time.Duration(h.rng.Int63n(int64(span)))
}

// isNotFound classifies collaborator and engine errors for the wire.
func isNotFound(err error) bool {
	return errors.Is(err, game.ErrNotFound)
}

// newGameID mints a fresh game identifier.
func newGameID() string {
	return uuid.NewString()
}
