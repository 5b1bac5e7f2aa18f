package hub

import (
	"github.com/armadagame/armada-server/internal/ai"
	"github.com/armadagame/armada-server/internal/game"
)

// Message types exchanged over the websocket. Client and server share one
// envelope shape: {"type": ..., payload fields}.
const (
	// client -> server
	MsgAuthenticate = "authenticate"
	MsgCreateGame   = "create_game"
	MsgJoinGame     = "join_game"
	MsgLeaveGame    = "leave_game"
	MsgDrawCard     = "draw_card"
	MsgPlayCard     = "play_card"
	MsgEndPhase     = "end_phase"
	MsgAttack       = "attack"
	MsgChat         = "chat_message"

	// server -> client
	MsgAuthenticated      = "authenticated"
	MsgGameUpdate         = "game_update"
	MsgPlayerJoined       = "player_joined"
	MsgPlayerLeft         = "player_left"
	MsgPlayerDisconnected = "player_disconnected"
	MsgError              = "error"
)

// ClientMessage is the inbound envelope. Only the fields relevant to the
// message type are populated.
type ClientMessage struct {
	Type               string `json:"type"`
	UserID             string `json:"user_id,omitempty"`
	Password           string `json:"password,omitempty"`
	GameID             string `json:"game_id,omitempty"`
	Difficulty         string `json:"difficulty,omitempty"`
	CardInstanceID     string `json:"card_instance_id,omitempty"`
	TargetZone         string `json:"target_zone,omitempty"`
	AttackerInstanceID string `json:"attacker_instance_id,omitempty"`
	TargetInstanceID   string `json:"target_instance_id,omitempty"`
	Message            string `json:"message,omitempty"`
}

// AppliedMove describes the move a game_update resulted from.
type AppliedMove struct {
	PlayerID string  `json:"player_id"`
	Move     ai.Move `json:"move"`
}

// GameUpdate is the authoritative state push sent to every room member
// after a successful move, and to a joining connection alone.
type GameUpdate struct {
	Type      string          `json:"type"`
	GameState *game.GameState `json:"game_state"`
	LastMove  *AppliedMove    `json:"last_move,omitempty"`
}

// AuthAck confirms a successful authenticate.
type AuthAck struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// Presence announces room membership changes.
type Presence struct {
	Type     string `json:"type"`
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

// ChatBroadcast relays a chat message verbatim with the sender attached.
type ChatBroadcast struct {
	Type     string `json:"type"`
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
}

// ErrorMessage is sent to the originating connection only; rejected
// actions are never broadcast.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
