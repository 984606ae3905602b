package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardroom/holdemd/internal/protocol"
	"github.com/cardroom/holdemd/internal/table"
)

// Server accepts websocket connections and hands them to the table
// manager. Clients connect to /ws/{table}/{player} for a specific
// table, or /ws/{player} to be assigned one.
type Server struct {
	addr       string
	upgrader   websocket.Upgrader
	manager    *table.Manager
	logger     *log.Logger
	httpServer *http.Server
}

// New creates a server around a table manager.
func New(addr string, manager *table.Manager, logger *log.Logger) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		manager: manager,
		logger:  logger.WithPrefix("server"),
	}
}

// ListenAndServe blocks serving websocket and health endpoints until
// Shutdown is called or the listener fails.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/{table}/{player}", s.handleWebSocket)
	mux.HandleFunc("GET /ws/{player}", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}
	s.logger.Info("starting websocket server", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleWebSocket upgrades the connection, seats the player, and
// starts the read/write pumps. A join rejection is delivered on the
// fresh connection before it is torn down.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	player := r.PathValue("player")
	tableID := r.PathValue("table")
	if player == "" {
		http.Error(w, "player name required", http.StatusBadRequest)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, player, s.logger)

	var tbl *table.Table
	if tableID != "" {
		tbl = s.manager.GetOrCreate(tableID)
		err = tbl.Join(player, conn)
	} else {
		tbl, err = s.manager.Assign(player, conn)
	}
	if err != nil {
		s.logger.Info("join rejected", "player", player, "table", tableID, "error", err)
		if msg, merr := protocol.NewMessage(protocol.TypeError, protocol.ErrorData{
			Message: fmt.Sprintf("cannot join: %v", err),
		}); merr == nil {
			_ = ws.WriteJSON(msg)
		}
		_ = conn.Close()
		return
	}

	conn.Attach(tbl)
	conn.Start()
	s.logger.Info("player connected", "player", player, "table", tbl.ID())
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
