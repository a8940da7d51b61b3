// internal/server/server.go
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/stack/internal/auth"
	"github.com/jason-s-yu/stack/internal/game"
	"github.com/jason-s-yu/stack/internal/models"
	"github.com/jason-s-yu/stack/internal/room"
	"github.com/sirupsen/logrus"
)

// EventSession hands a freshly minted identity to a websocket client.
const EventSession game.GameEventType = "session"

// SessionData is the payload of the session event and of POST /session.
type SessionData struct {
	PlayerID uuid.UUID `json:"playerId"`
	Token    string    `json:"token"`
}

// Server exposes the HTTP and websocket surface.
type Server struct {
	rooms    *room.Store
	hub      *Hub
	sessions *auth.Sessions
	log      *logrus.Entry
}

// NewServer wires the transport to a room registry. The registry's factory is
// expected to route room events through hub.SendTo.
func NewServer(rooms *room.Store, hub *Hub, sessions *auth.Sessions) *Server {
	return &Server{rooms: rooms, hub: hub, sessions: sessions, log: logrus.WithField("component", "server")}
}

// Routes returns the HTTP handler for the service.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.HandleHealth)
	mux.HandleFunc("POST /session", s.HandleSession)
	mux.HandleFunc("GET /ws", s.HandleWS)
	return mux
}

// HandleHealth reports liveness and load.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"rooms":       s.rooms.Len(),
		"connections": s.hub.Len(),
	})
}

// HandleSession mints a new player identity and its token.
func (s *Server) HandleSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.newSession()
	if err != nil {
		s.log.WithError(err).Error("failed to issue session")
		http.Error(w, "could not issue session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) newSession() (SessionData, error) {
	id := uuid.New()
	token, err := s.sessions.Issue(id)
	if err != nil {
		return SessionData{}, err
	}
	return SessionData{PlayerID: id, Token: token}, nil
}

// HandleWS upgrades the connection and runs its read loop. A valid ?token=
// resumes that identity; otherwise the client gets a new one via a session
// event.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	var fresh *SessionData
	playerID, err := s.sessions.Parse(r.URL.Query().Get("token"))
	if err != nil {
		session, err := s.newSession()
		if err != nil {
			s.log.WithError(err).Error("failed to issue session")
			http.Error(w, "could not issue session", http.StatusInternalServerError)
			return
		}
		playerID, fresh = session.PlayerID, &session
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	entry := s.log.WithField("player", playerID)
	entry.Info("websocket connected")

	c := s.hub.Register(ctx, playerID, conn)
	if fresh != nil {
		s.hub.SendTo(playerID, game.GameEvent{Type: EventSession, Data: *fresh})
	}

	var current *game.StackGame
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				entry.WithError(err).Debug("read loop ended")
			}
			break
		}
		var msg models.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			entry.WithError(err).Debug("malformed frame ignored")
			continue
		}
		if msg.Event == models.EventJoinGame {
			current = s.handleJoin(playerID, msg, current)
			continue
		}
		if current == nil {
			entry.WithField("event", msg.Event).Debug("event before join_game ignored")
			continue
		}
		current.HandleMessage(playerID, msg)
	}

	entry.Info("websocket disconnected")
	if !s.hub.Unregister(c) || current == nil {
		return
	}
	current.HandleDisconnect(playerID)
	s.rooms.RemoveIfIdle(current.RoomID, current)
}

// errOtherRoom rejects a join to a second room over the same connection.
var errOtherRoom = errors.New("already in another room")

// handleJoin seats playerID in the requested room, creating it if needed, and
// returns the room the connection is now bound to.
func (s *Server) handleJoin(playerID uuid.UUID, msg models.ClientMessage, current *game.StackGame) *game.StackGame {
	var p models.JoinGamePayload
	if err := msg.Decode(&p); err != nil || p.RoomID == "" {
		s.log.WithField("player", playerID).Debug("malformed join_game ignored")
		return current
	}
	if current != nil && current.RoomID != p.RoomID {
		s.rejectJoin(playerID, p.RoomID, errOtherRoom)
		return current
	}
	if p.PlayerName == "" {
		p.PlayerName = "Player " + playerID.String()[:4]
	}

	// A room removed between lookup and join is closed; the retry creates a new one.
	var err error
	for range joinAttempts {
		g, _ := s.rooms.GetOrCreate(p.RoomID)
		if err = g.Join(playerID, p.PlayerName); err == nil {
			return g
		}
		if !errors.Is(err, game.ErrClosed) {
			break
		}
	}
	s.rejectJoin(playerID, p.RoomID, err)
	return current
}

const joinAttempts = 3

func (s *Server) rejectJoin(playerID uuid.UUID, roomID string, err error) {
	s.log.WithError(err).WithFields(logrus.Fields{"player": playerID, "room": roomID}).Info("join rejected")
	s.hub.SendTo(playerID, game.GameEvent{
		Type: game.EventGameNotification,
		Data: game.NotificationData{Message: "Could not join room " + roomID + ": " + err.Error(), Type: "warning"},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
