// Package preview serves generated floors over a WebSocket so a zone can be
// inspected from a browser while it is being authored.
//
// The client sends {"floor": N} and receives one Response per request.
package preview

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/zone"
)

// Request asks for one floor.
type Request struct {
	Floor int `json:"floor"`
}

// Response carries a generated floor, or Error when generation failed.
type Response struct {
	Zone    string   `json:"zone"`
	Floor   int      `json:"floor"`
	Seed    uint64   `json:"seed"`
	Name    string   `json:"name,omitempty"`
	Map     []string `json:"map,omitempty"`
	Roster  []string `json:"roster,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Server answers preview requests for one zone generator.
type Server struct {
	cfg     config.PreviewConfig
	limiter *ConnLimiter

	genMu sync.Mutex // Generator is not safe for concurrent use
	gen   *zone.Generator
}

// NewServer creates a preview server for gen.
func NewServer(gen *zone.Generator, cfg config.PreviewConfig) *Server {
	return &Server{
		cfg:     cfg,
		limiter: NewConnLimiter(cfg.Connections),
		gen:     gen,
	}
}

// Handler returns the HTTP handler serving the /ws endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// ListenAndServe serves on the configured address until the listener fails.
func (s *Server) ListenAndServe() error {
	logger.Info("Preview server listening", "address", s.cfg.Address, "zone", s.gen.Document().ID)
	return http.ListenAndServe(s.cfg.Address, s.Handler())
}

// Render generates one floor and packs it into a Response.
func (s *Server) Render(floorIndex int) Response {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	resp := Response{Zone: s.gen.Document().ID, Floor: floorIndex, Seed: s.gen.Seed()}
	m, err := s.gen.GenerateFloor(floorIndex)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Name = m.Name
	resp.Map = strings.Split(strings.TrimSuffix(m.Dump(), "\n"), "\n")
	resp.Roster = m.Roster()
	resp.Summary = m.Summary()
	return resp
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !s.limiter.TryAcquire(ip) {
		logger.Warning("Preview connection rejected - limit exceeded", "client_ip", ip)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("Preview connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host)
			}
			return allowed
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		s.limiter.Release(ip)
		return
	}

	go s.serveConn(conn, ip)
}

func (s *Server) serveConn(conn *websocket.Conn, ip string) {
	defer func() {
		s.limiter.Release(ip)
		conn.Close()
	}()
	if s.cfg.WebSocket.MaxMessageSize > 0 {
		conn.SetReadLimit(s.cfg.WebSocket.MaxMessageSize)
	}

	logger.Debug("Preview client connected", "client_ip", ip)
	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				logger.Debug("Preview read failed", "client_ip", ip, "error", err)
			}
			return
		}
		if err := conn.WriteJSON(s.Render(req.Floor)); err != nil {
			logger.Debug("Preview write failed", "client_ip", ip, "error", err)
			return
		}
	}
}
