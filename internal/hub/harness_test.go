package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/armadagame/armada-server/internal/ai"
	"github.com/armadagame/armada-server/internal/card"
	"github.com/armadagame/armada-server/internal/game"
	"github.com/armadagame/armada-server/internal/repository"
	"github.com/armadagame/armada-server/internal/session"
)

// fakeGameStore is an in-memory GameStore. Saved states are deep-copied
// so later in-room mutations cannot leak into the "persisted" snapshot.
type fakeGameStore struct {
	mu    sync.Mutex
	games map[string]*game.GameState
	saves int
}

func newFakeGameStore() *fakeGameStore {
	return &fakeGameStore{games: make(map[string]*game.GameState)}
}

func (s *fakeGameStore) GetGame(ctx context.Context, gameID string) (*game.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", gameID, game.ErrNotFound)
	}
	return gs.Clone()
}

func (s *fakeGameStore) SaveGame(ctx context.Context, gameID string, gs *game.GameState) error {
	snapshot, err := gs.Clone()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.games[gameID] = snapshot
	s.saves++
	s.mu.Unlock()
	return nil
}

func (s *fakeGameStore) get(gameID string) (*game.GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[gameID]
	return gs, ok
}

func (s *fakeGameStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	users map[string]*repository.UserRecord
}

func (s *fakeUserStore) GetUser(ctx context.Context, userID string) (*repository.UserRecord, error) {
	rec, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, game.ErrNotFound)
	}
	return rec, nil
}

// testDelays keeps the scripted opponent effectively instant so tests
// never sleep for real reaction times.
func testDelays() map[ai.Difficulty]ai.DelayRange {
	r := ai.DelayRange{Min: time.Millisecond, Max: 2 * time.Millisecond}
	return map[ai.Difficulty]ai.DelayRange{
		ai.DifficultyEasy:   r,
		ai.DifficultyMedium: r,
		ai.DifficultyHard:   r,
	}
}

func newTestHub(t *testing.T, users *fakeUserStore, games *fakeGameStore) *Hub {
	t.Helper()
	logger := zaptest.NewLogger(t)

	return New(Options{
		Logger:   logger,
		Engine:   game.NewEngine(logger),
		Decider:  ai.NewEngine(logger, rand.New(rand.NewSource(99))),
		Games:    games,
		Users:    users,
		Sessions: session.NewManager(logger),
		Catalog:  card.DefaultCatalog(),
		DeckSize: 20,
		Delays:   testDelays(),
		Rand:     rand.New(rand.NewSource(1)),
	})
}

// newTestClient builds a client without a network connection; handlers
// only touch the send channel and the session.
func newTestClient(h *Hub) *Client {
	return &Client{
		hub:     h,
		send:    make(chan []byte, sendBufferSize),
		session: h.sessions.Create("test"),
	}
}

func sendMsg(t *testing.T, h *Hub, c *Client, msg ClientMessage) {
	t.Helper()
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal message: %v", err)
	}
	h.handleMessage(c, raw)
}

// recvRaw pops the next outbound frame, waiting briefly for frames that
// arrive from timer goroutines.
func recvRaw(t *testing.T, c *Client, wait time.Duration) []byte {
	t.Helper()
	select {
	case raw := <-c.send:
		return raw
	case <-time.After(wait):
		t.Fatalf("no frame received within %v", wait)
		return nil
	}
}

// recvEnvelope decodes the next frame just far enough to read its type.
func recvEnvelope(t *testing.T, c *Client, wait time.Duration) (string, []byte) {
	t.Helper()
	raw := recvRaw(t, c, wait)
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode frame %q: %v", raw, err)
	}
	return envelope.Type, raw
}

func recvUpdate(t *testing.T, c *Client, wait time.Duration) GameUpdate {
	t.Helper()
	typ, raw := recvEnvelope(t, c, wait)
	if typ != MsgGameUpdate {
		t.Fatalf("expected %s frame, got %s: %s", MsgGameUpdate, typ, raw)
	}
	var update GameUpdate
	if err := json.Unmarshal(raw, &update); err != nil {
		t.Fatalf("decode game update: %v", err)
	}
	return update
}

func recvError(t *testing.T, c *Client, wait time.Duration) string {
	t.Helper()
	typ, raw := recvEnvelope(t, c, wait)
	if typ != MsgError {
		t.Fatalf("expected %s frame, got %s: %s", MsgError, typ, raw)
	}
	var msg ErrorMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decode error message: %v", err)
	}
	return msg.Message
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected frame: %s", raw)
	default:
	}
}

// seedTwoPlayerGame stores a fresh human-vs-human match and returns it.
func seedTwoPlayerGame(t *testing.T, games *fakeGameStore, gameID, p1, p2 string) *game.GameState {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	catalog := card.DefaultCatalog()

	gs, err := game.NewGame(gameID, p1, p2, catalog.BuildDeck(rng, 20), catalog.BuildDeck(rng, 20), rng)
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	if err := games.SaveGame(context.Background(), gameID, gs); err != nil {
		t.Fatalf("store seed game: %v", err)
	}
	return gs
}

// authenticate runs the authenticate exchange and consumes the ack.
func authenticate(t *testing.T, h *Hub, c *Client, userID string) {
	t.Helper()
	sendMsg(t, h, c, ClientMessage{Type: MsgAuthenticate, UserID: userID})
	typ, raw := recvEnvelope(t, c, time.Second)
	if typ != MsgAuthenticated {
		t.Fatalf("expected %s frame, got %s: %s", MsgAuthenticated, typ, raw)
	}
}
