package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/armadagame/armada-server/internal/ai"
	"github.com/armadagame/armada-server/internal/auth"
	"github.com/armadagame/armada-server/internal/game"
)

// handleMessage dispatches one inbound frame. Malformed or unrecognized
// frames are protocol errors: logged, answered with a generic error, and
// the connection stays open.
func (h *Hub) handleMessage(c *Client, raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Warn("malformed message",
			zap.String("session_id", c.session.ID),
			zap.Error(err),
		)
		c.sendError("malformed message")
		return
	}

	switch msg.Type {
	case MsgAuthenticate:
		h.handleAuthenticate(c, msg)
	case MsgCreateGame:
		h.handleCreateGame(c, msg)
	case MsgJoinGame:
		h.handleJoinGame(c, msg)
	case MsgLeaveGame:
		h.handleLeaveGame(c, msg)
	case MsgChat:
		h.handleChat(c, msg)
	case MsgDrawCard, MsgPlayCard, MsgEndPhase, MsgAttack:
		h.handleMove(c, msg)
	default:
		h.logger.Warn("unrecognized message type",
			zap.String("session_id", c.session.ID),
			zap.String("type", msg.Type),
		)
		c.sendError(fmt.Sprintf("unrecognized message type %q", msg.Type))
	}
}

// requireUser returns the authenticated identity or reports an error to
// the connection.
func (h *Hub) requireUser(c *Client) (string, bool) {
	userID := c.session.UserID()
	if userID == "" {
		c.sendError("not authenticated")
		return "", false
	}
	return userID, true
}

// handleAuthenticate binds the connection to a user record from the
// identity collaborator. When the record carries a password hash the
// supplied password must match it.
func (h *Hub) handleAuthenticate(c *Client, msg ClientMessage) {
	userID := strings.TrimSpace(msg.UserID)
	if userID == "" {
		c.sendError("user_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	rec, err := h.users.GetUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			c.sendError("user not found")
		} else {
			h.logger.Error("user lookup failed",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			c.sendError("authentication failed")
		}
		return
	}

	if rec.PasswordHash != "" && !auth.CheckPassword(rec.PasswordHash, msg.Password) {
		c.sendError("invalid credentials")
		return
	}

	c.session.SetUserID(rec.ID)
	c.sendJSON(AuthAck{Type: MsgAuthenticated, UserID: rec.ID})

	h.logger.Info("connection authenticated",
		zap.String("session_id", c.session.ID),
		zap.String("user_id", rec.ID),
	)
}

// handleCreateGame starts a fresh match against the scripted opponent at
// the requested difficulty, persists it, and joins the creator to its
// room.
func (h *Hub) handleCreateGame(c *Client, msg ClientMessage) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	difficulty, err := ai.ParseDifficulty(msg.Difficulty)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	h.rngMu.Lock()
	deck1 := h.catalog.BuildDeck(h.rng, h.deckSize)
	deck2 := h.catalog.BuildDeck(h.rng, h.deckSize)
	gs, err := game.NewGame(newGameID(), userID, ScriptedPlayerID, deck1, deck2, h.rng)
	h.rngMu.Unlock()
	if err != nil {
		c.sendError(err.Error())
		return
	}

	gs.ScriptedPlayer = ScriptedPlayerID
	gs.Difficulty = difficulty.String()

	h.persist(gs.ID, gs)

	h.leaveRoom(c)

	r := newRoom(gs.ID, gs)
	h.mu.Lock()
	h.rooms[gs.ID] = r
	h.mu.Unlock()

	r.AddMember(c)
	c.session.SetGameID(gs.ID)

	c.sendJSON(GameUpdate{Type: MsgGameUpdate, GameState: gs})

	h.logger.Info("ai game created",
		zap.String("game_id", gs.ID),
		zap.String("user_id", userID),
		zap.String("difficulty", difficulty.String()),
	)
}

// handleJoinGame registers the connection in the game's room and pushes
// the current snapshot to the joiner only.
func (h *Hub) handleJoinGame(c *Client, msg ClientMessage) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	gameID := strings.TrimSpace(msg.GameID)
	if gameID == "" {
		c.sendError("game_id is required")
		return
	}

	r, err := h.getOrLoadRoom(gameID)
	if err != nil {
		if isNotFound(err) {
			c.sendError("game not found")
		} else {
			h.logger.Error("failed to load game",
				zap.String("game_id", gameID),
				zap.Error(err),
			)
			c.sendError("failed to load game")
		}
		return
	}

	var allowed, resumeAI bool
	r.WithState(func(gs *game.GameState) {
		allowed = gs.HasPlayer(userID)
		resumeAI = !gs.IsOver && gs.ScriptedPlayer != "" && gs.ActivePlayer == gs.ScriptedPlayer
	})
	if !allowed {
		c.sendError("you are not a participant of this game")
		return
	}

	if current := c.session.GameID(); current != "" && current != gameID {
		h.leaveRoom(c)
	}

	r.AddMember(c)
	c.session.SetGameID(gameID)

	r.WithState(func(gs *game.GameState) {
		c.sendJSON(GameUpdate{Type: MsgGameUpdate, GameState: gs})
	})
	r.BroadcastExcept(c, Presence{Type: MsgPlayerJoined, GameID: gameID, PlayerID: userID})

	// A rejoin may find the scripted opponent holding the turn with no
	// timer armed (e.g. after a room teardown); re-arm it.
	if resumeAI && !h.scheduler.Pending(gameID) {
		var difficulty ai.Difficulty
		r.WithState(func(gs *game.GameState) {
			difficulty, _ = ai.ParseDifficulty(gs.Difficulty)
		})
		h.scheduleScripted(r, difficulty)
	}

	h.logger.Info("player joined game",
		zap.String("game_id", gameID),
		zap.String("user_id", userID),
	)
}

// handleLeaveGame removes the connection from its room. Leaving never
// cancels the match; the participant can rejoin and rehydrate.
func (h *Hub) handleLeaveGame(c *Client, msg ClientMessage) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	gameID := strings.TrimSpace(msg.GameID)
	if gameID == "" {
		gameID = c.session.GameID()
	}

	r, ok := h.room(gameID)
	if !ok || !r.HasMember(c) {
		c.sendError("not in that game room")
		return
	}

	empty := r.RemoveMember(c)
	c.session.SetGameID("")
	r.Broadcast(Presence{Type: MsgPlayerLeft, GameID: gameID, PlayerID: userID})

	if empty {
		h.dropRoomIfEmpty(r)
	}

	h.logger.Info("player left game",
		zap.String("game_id", gameID),
		zap.String("user_id", userID),
	)
}

// handleChat relays a chat message verbatim to the whole room, sender
// included. Chat never touches game state.
func (h *Hub) handleChat(c *Client, msg ClientMessage) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	gameID := strings.TrimSpace(msg.GameID)
	if gameID == "" {
		gameID = c.session.GameID()
	}

	r, ok := h.room(gameID)
	if !ok || !r.HasMember(c) {
		c.sendError("not in that game room")
		return
	}

	r.Broadcast(ChatBroadcast{
		Type:     MsgChat,
		GameID:   gameID,
		PlayerID: userID,
		Message:  msg.Message,
	})
}

// handleMove applies a game action through the turn/phase engine under
// the room's state lock. Success persists then broadcasts the new state;
// failure answers the sender only.
func (h *Hub) handleMove(c *Client, msg ClientMessage) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	gameID := c.session.GameID()
	if gameID == "" {
		c.sendError("join a game first")
		return
	}

	r, ok := h.room(gameID)
	if !ok || !r.HasMember(c) {
		c.sendError("not in a game room")
		return
	}

	mv, err := moveFromMessage(msg)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	r.WithState(func(gs *game.GameState) {
		before := gs.Version
		if err := ai.ApplyMove(h.engine, gs, userID, mv); err != nil {
			c.sendError(err.Error())
			return
		}
		if gs.Version == before {
			// No-op success, e.g. drawing from an empty deck. Nothing
			// changed, so nothing is persisted or announced; broadcasts
			// stay a strictly increasing version sequence.
			return
		}

		h.persist(gameID, gs)
		r.Broadcast(GameUpdate{
			Type:      MsgGameUpdate,
			GameState: gs,
			LastMove:  &AppliedMove{PlayerID: userID, Move: mv},
		})

		if gs.IsOver {
			h.scheduler.Cancel(gameID)
			return
		}
		if gs.ScriptedPlayer != "" && gs.ActivePlayer == gs.ScriptedPlayer {
			difficulty, derr := ai.ParseDifficulty(gs.Difficulty)
			if derr != nil {
				difficulty = ai.DifficultyEasy
			}
			h.scheduleScripted(r, difficulty)
		}
	})
}

// handleDisconnect performs presence cleanup after a network-level close.
// The match itself is untouched.
func (h *Hub) handleDisconnect(c *Client) {
	if gameID := c.session.GameID(); gameID != "" {
		if r, ok := h.room(gameID); ok && r.HasMember(c) {
			empty := r.RemoveMember(c)
			r.Broadcast(Presence{
				Type:     MsgPlayerDisconnected,
				GameID:   gameID,
				PlayerID: c.session.UserID(),
			})
			if empty {
				h.dropRoomIfEmpty(r)
			}
		}
	}

	h.sessions.Remove(c.session.ID)
	close(c.send)

	h.logger.Debug("connection closed",
		zap.String("session_id", c.session.ID),
		zap.String("user_id", c.session.UserID()),
	)
}

// moveFromMessage translates a wire envelope into an engine move.
func moveFromMessage(msg ClientMessage) (ai.Move, error) {
	switch msg.Type {
	case MsgDrawCard:
		return ai.Move{Type: ai.MoveDrawCard}, nil
	case MsgPlayCard:
		if msg.CardInstanceID == "" || msg.TargetZone == "" {
			return ai.Move{}, fmt.Errorf("play_card requires card_instance_id and target_zone")
		}
		return ai.Move{
			Type:           ai.MovePlayCard,
			CardInstanceID: msg.CardInstanceID,
			TargetZone:     msg.TargetZone,
		}, nil
	case MsgEndPhase:
		return ai.EndPhase(), nil
	case MsgAttack:
		if msg.AttackerInstanceID == "" {
			return ai.Move{}, fmt.Errorf("attack requires attacker_instance_id")
		}
		return ai.Move{
			Type:               ai.MoveAttack,
			AttackerInstanceID: msg.AttackerInstanceID,
			TargetInstanceID:   msg.TargetInstanceID,
		}, nil
	default:
		return ai.Move{}, fmt.Errorf("unrecognized move type %q", msg.Type)
	}
}
