package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawnchairsociety/gridwalk/internal/logger"
	"github.com/lawnchairsociety/gridwalk/internal/render"
	"github.com/lawnchairsociety/gridwalk/internal/store"
	"github.com/lawnchairsociety/gridwalk/internal/walkgen"
)

// clientMessage is one request from a websocket client. Generation
// parameters are pointers so an absent field falls back to the service
// defaults instead of zero.
type clientMessage struct {
	Type string `json:"type"`

	// auth
	Name   string `json:"name,omitempty"`
	Secret string `json:"secret,omitempty"`

	// generate
	Seed          *int64 `json:"seed,omitempty"`
	WalkSteps     *int   `json:"walk_steps,omitempty"`
	StampSize     *int   `json:"stamp_size,omitempty"`
	MinFloorTiles *int   `json:"min_floor_tiles,omitempty"`
	MaxAttempts   *int   `json:"max_attempts,omitempty"`
	StartX        *int   `json:"start_x,omitempty"`
	StartY        *int   `json:"start_y,omitempty"`
	SaveAs        string `json:"save_as,omitempty"`
}

// errorPayload reports a failed request. Attempts is set when generation
// ran out of attempts.
type errorPayload struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Attempts int    `json:"attempts,omitempty"`
}

// authOKPayload confirms a successful authentication.
type authOKPayload struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// levelPayload carries one generated level. Cells are [x, y] pairs in
// row-major order. ID and Name are set when the level was saved.
type levelPayload struct {
	Type       string   `json:"type"`
	ID         int64    `json:"id,omitempty"`
	Name       string   `json:"name,omitempty"`
	Seed       int64    `json:"seed"`
	Attempts   int      `json:"attempts"`
	FloorTiles int      `json:"floor_tiles"`
	Start      [2]int   `json:"start"`
	Floor      [][2]int `json:"floor"`
	Walls      [][2]int `json:"walls"`
	Rendered   string   `json:"rendered"`
}

// session is one websocket client connection. All reads and writes happen
// on the connection's goroutine.
type session struct {
	srv           *Server
	conn          *websocket.Conn
	clientIP      string
	authenticated bool
}

// run reads client messages until the connection ends.
func (s *session) run() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("WebSocket read ended", "client_ip", s.clientIP, "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.writeError("invalid message: "+err.Error(), 0)
			continue
		}

		switch msg.Type {
		case "auth":
			s.handleAuth(&msg)
		case "generate":
			s.handleGenerate(&msg)
		default:
			s.writeError(fmt.Sprintf("unknown message type %q", msg.Type), 0)
		}
	}
}

// handleAuth verifies an API key against the store. When the service does
// not require auth the message is acknowledged without checking.
func (s *session) handleAuth(msg *clientMessage) {
	if !s.srv.cfg.Server.RequireAuth || s.srv.store == nil {
		s.authenticated = true
		s.writeJSON(authOKPayload{Type: "auth_ok", Name: msg.Name})
		return
	}

	if locked, remaining := s.srv.authLimiter.IsLocked(s.clientIP); locked {
		s.writeError(fmt.Sprintf("too many failed attempts, try again in %s", remaining.Round(time.Second)), 0)
		return
	}

	key, err := s.srv.store.VerifyAPIKey(msg.Name, msg.Secret)
	if err != nil {
		if !errors.Is(err, store.ErrInvalidKey) {
			logger.Error("API key verification failed", "error", err)
			s.writeError("authentication failed", 0)
			return
		}
		logger.Warning("Auth attempt rejected", "client_ip", s.clientIP, "key_name", msg.Name)
		if locked, duration := s.srv.authLimiter.RecordFailure(s.clientIP); locked {
			s.writeError(fmt.Sprintf("too many failed attempts, locked out for %s", duration.Round(time.Second)), 0)
			return
		}
		s.writeError("invalid credentials", 0)
		return
	}

	s.srv.authLimiter.RecordSuccess(s.clientIP)
	s.authenticated = true
	logger.Info("Client authenticated", "client_ip", s.clientIP, "key_name", key.Name)
	s.writeJSON(authOKPayload{Type: "auth_ok", Name: key.Name})
}

// handleGenerate runs one generation and answers with a level payload.
// Generation failure is an error payload, never a dropped connection.
func (s *session) handleGenerate(msg *clientMessage) {
	if s.srv.cfg.Server.RequireAuth && !s.authenticated {
		s.writeError("authentication required", 0)
		return
	}

	// Service defaults overridden by whatever the request carries
	genCfg := s.srv.cfg.Generation
	if msg.WalkSteps != nil {
		genCfg.WalkSteps = *msg.WalkSteps
	}
	if msg.StampSize != nil {
		genCfg.StampSize = *msg.StampSize
	}
	if msg.MinFloorTiles != nil {
		genCfg.MinFloorTiles = *msg.MinFloorTiles
	}
	if msg.MaxAttempts != nil {
		genCfg.MaxAttempts = *msg.MaxAttempts
	}
	if msg.StartX != nil {
		genCfg.StartX = *msg.StartX
	}
	if msg.StartY != nil {
		genCfg.StartY = *msg.StartY
	}

	if genCfg.MaxWalkSteps > 0 && genCfg.WalkSteps > genCfg.MaxWalkSteps {
		s.writeError(fmt.Sprintf("walk_steps %d exceeds the service limit of %d", genCfg.WalkSteps, genCfg.MaxWalkSteps), 0)
		return
	}

	var seed int64
	if msg.Seed != nil {
		seed = *msg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := genCfg.ToWalkConfig(seed)
	lv, err := walkgen.NewGenerator(cfg).Generate()
	if err != nil {
		var exhausted *walkgen.ExhaustedError
		if errors.As(err, &exhausted) {
			logger.Warning("Generation exhausted",
				"client_ip", s.clientIP,
				"seed", seed,
				"attempts", exhausted.Attempts)
			s.writeError(fmt.Sprintf("no acceptable level after %d attempts", exhausted.Attempts), exhausted.Attempts)
			return
		}
		s.writeError(err.Error(), 0)
		return
	}

	payload := levelPayload{
		Type:       "level",
		Seed:       seed,
		Attempts:   lv.Attempts,
		FloorTiles: lv.Floor.Len(),
		Start:      [2]int{lv.Start.X, lv.Start.Y},
		Floor:      coordPairs(lv.Floor),
		Walls:      coordPairs(lv.Walls),
		Rendered:   render.Map(lv),
	}

	if msg.SaveAs != "" {
		if s.srv.store == nil {
			s.writeError("level storage is not available", 0)
			return
		}
		rec, err := s.srv.store.CreateLevel(msg.SaveAs, seed, cfg, lv)
		if err != nil {
			if errors.Is(err, store.ErrLevelExists) {
				s.writeError(fmt.Sprintf("level %q already exists", msg.SaveAs), 0)
				return
			}
			logger.Error("Failed to save level", "name", msg.SaveAs, "error", err)
			s.writeError("failed to save level", 0)
			return
		}
		payload.ID = rec.ID
		payload.Name = rec.Name
		logger.Info("Level saved", "name", rec.Name, "id", rec.ID, "seed", seed)
	}

	logger.Info("Level generated",
		"client_ip", s.clientIP,
		"seed", seed,
		"attempts", lv.Attempts,
		"floor_tiles", lv.Floor.Len())
	s.writeJSON(payload)
}

// writeError sends an error payload to the client.
func (s *session) writeError(message string, attempts int) {
	s.writeJSON(errorPayload{Type: "error", Message: message, Attempts: attempts})
}

// writeJSON sends a payload, logging a write failure instead of returning it.
// The read loop notices a dead connection on its next read.
func (s *session) writeJSON(v any) {
	if err := s.conn.WriteJSON(v); err != nil {
		logger.Debug("WebSocket write failed", "client_ip", s.clientIP, "error", err)
	}
}

// coordPairs flattens a cell set into sorted [x, y] pairs.
func coordPairs(set walkgen.CoordSet) [][2]int {
	cells := set.Sorted()
	pairs := make([][2]int, len(cells))
	for i, c := range cells {
		pairs[i] = [2]int{c.X, c.Y}
	}
	return pairs
}
