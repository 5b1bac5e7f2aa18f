package hub

import (
	"encoding/json"
	"sync"

	"github.com/armadagame/armada-server/internal/game"
)

// Room binds one game's authoritative state to the set of connections
// observing it. stateMu serializes every read-modify-write of the game
// state, including the persist-then-broadcast step, so room broadcasts
// form a strictly increasing sequence of state versions. Membership is
// guarded separately; joining or leaving never contends with moves.
type Room struct {
	GameID string

	stateMu sync.Mutex
	state   *game.GameState

	membersMu sync.RWMutex
	members   map[*Client]bool
}

func newRoom(gameID string, state *game.GameState) *Room {
	return &Room{
		GameID:  gameID,
		state:   state,
		members: make(map[*Client]bool),
	}
}

// WithState runs fn with exclusive access to the room's game state. All
// mutations happen inside fn, whether triggered by a connection or by the
// AI timer.
func (r *Room) WithState(fn func(gs *game.GameState)) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	fn(r.state)
}

// AddMember registers a connection in the room.
func (r *Room) AddMember(c *Client) {
	r.membersMu.Lock()
	r.members[c] = true
	r.membersMu.Unlock()
}

// RemoveMember unregisters a connection. It reports whether the room is
// now empty.
func (r *Room) RemoveMember(c *Client) bool {
	r.membersMu.Lock()
	delete(r.members, c)
	empty := len(r.members) == 0
	r.membersMu.Unlock()
	return empty
}

// HasMember reports whether the connection is registered in the room.
func (r *Room) HasMember(c *Client) bool {
	r.membersMu.RLock()
	defer r.membersMu.RUnlock()
	return r.members[c]
}

// MemberCount returns the number of registered connections.
func (r *Room) MemberCount() int {
	r.membersMu.RLock()
	defer r.membersMu.RUnlock()
	return len(r.members)
}

// Broadcast sends the message to every connection in the room. A slow
// connection whose send buffer is full is skipped rather than blocking
// the room.
func (r *Room) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}

	r.membersMu.RLock()
	defer r.membersMu.RUnlock()
	for c := range r.members {
		c.trySend(data)
	}
}

// BroadcastExcept behaves like Broadcast but skips one connection.
func (r *Room) BroadcastExcept(skip *Client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}

	r.membersMu.RLock()
	defer r.membersMu.RUnlock()
	for c := range r.members {
		if c == skip {
			continue
		}
		c.trySend(data)
	}
}
