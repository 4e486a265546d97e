// Package server exposes level generation as a WebSocket service. Each
// connection speaks a small JSON protocol: an optional auth message
// verified against stored API keys, then generate requests answered with
// level payloads.
package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawnchairsociety/gridwalk/internal/config"
	"github.com/lawnchairsociety/gridwalk/internal/logger"
	"github.com/lawnchairsociety/gridwalk/internal/store"
)

// Server serves level generation over WebSocket.
type Server struct {
	cfg          *config.ServiceConfig
	store        *store.Store
	connLimiter  *ConnLimiter
	authLimiter  *AuthRateLimiter
	httpServer   *http.Server
	sessions     map[*session]struct{}
	mu           sync.Mutex
	shutdown     chan struct{}
	shutdownOnce sync.Once
	StartTime    time.Time
}

// NewServer creates a server for the given configuration. The store may be
// nil; auth and level saving are then unavailable.
func NewServer(cfg *config.ServiceConfig, st *store.Store) *Server {
	return &Server{
		cfg:         cfg,
		store:       st,
		connLimiter: NewConnLimiter(cfg.Server.MaxConnsPerIP, cfg.Server.MaxConnsTotal),
		authLimiter: NewAuthRateLimiter(cfg.Server.RateLimit),
		sessions:    make(map[*session]struct{}),
		shutdown:    make(chan struct{}),
		StartTime:   time.Now(),
	}
}

// Handler returns the HTTP handler serving the websocket endpoint and the
// health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

// Start listens on the configured address and blocks until the server is
// shut down.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Server.ListenAddr,
		Handler: s.Handler(),
	}

	logger.Info("Level service listening", "address", s.cfg.Server.ListenAddr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server and closes all active sessions. Safe to
// call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)

		if s.authLimiter != nil {
			s.authLimiter.Stop()
		}

		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.httpServer.Shutdown(ctx); err != nil {
				logger.Error("HTTP server shutdown failed", "error", err)
			}
		}

		// Websocket connections are hijacked from the HTTP server, so they
		// must be closed explicitly
		s.mu.Lock()
		for sess := range s.sessions {
			sess.conn.Close()
		}
		s.mu.Unlock()

		logger.Info("Level service shutdown complete")
	})
}

// GetUptime returns how long the server has been running.
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.StartTime)
}

// SessionCount returns the number of active websocket sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// handleHealthz answers liveness probes.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	// Get the real client IP (supports X-Forwarded-For from reverse proxies)
	clientIP := getRealIP(r)

	// Check connection limits before upgrading
	if s.connLimiter != nil && !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	// Create upgrader with origin check based on server config
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.Server.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		// Release the connection slot since upgrade failed
		if s.connLimiter != nil {
			s.connLimiter.Release(clientIP)
		}
		return
	}

	go s.handleConnection(wsConn, clientIP)
}

// handleConnection runs one websocket session to completion.
func (s *Server) handleConnection(wsConn *websocket.Conn, clientIP string) {
	defer func() {
		if s.connLimiter != nil {
			s.connLimiter.Release(clientIP)
		}
		wsConn.Close()
	}()

	if s.cfg.Server.MaxMessageSize > 0 {
		wsConn.SetReadLimit(s.cfg.Server.MaxMessageSize)
	}

	sess := &session{
		srv:      s,
		conn:     wsConn,
		clientIP: clientIP,
	}

	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
	}()

	logger.Info("Client connected", "client_ip", clientIP)
	sess.run()
	logger.Info("Client disconnected", "client_ip", clientIP)
}

// getRealIP extracts the real client IP from an HTTP request.
// It checks X-Forwarded-For header first (for reverse proxy setups),
// then falls back to the direct remote address.
func getRealIP(r *http.Request) string {
	// Check X-Forwarded-For header (set by reverse proxies like nginx)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs: "client, proxy1, proxy2"
		// The first one is the original client
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			clientIP := strings.TrimSpace(ips[0])
			if clientIP != "" {
				return clientIP
			}
		}
	}

	// Check X-Real-IP header (alternative header used by some proxies)
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to direct remote address
	return extractIP(r.RemoteAddr)
}
