// Package server is the HTTP boundary of the daemon: route wiring, bearer
// authentication, and translation of service results to status codes.
package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/reattach-app/reattachd/internal/auth"
	"github.com/reattach-app/reattachd/internal/push"
)

// Server wires the trust service and the delivery engine into an HTTP API.
type Server struct {
	auth     *auth.Service
	engine   *push.Engine   // nil when APNs is not configured
	registry *push.Registry // nil when APNs is not configured
	upgrader websocket.Upgrader

	initOnce   sync.Once
	httpServer *http.Server
}

// New builds a server. engine and registry may be nil, in which case the
// push-related routes are not registered and the rest of the API still works.
func New(authSvc *auth.Service, engine *push.Engine, registry *push.Registry) *Server {
	return &Server{
		auth:     authSvc,
		engine:   engine,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The daemon is reached via localhost, a tailnet, or an
			// operator-managed tunnel; there is no browser origin to check.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the full route table with the authorization gate applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Registration bootstraps trust and is never gated: its credential is a
	// setup token, not a device token.
	mux.HandleFunc("POST /register", s.handleRegister)

	mux.Handle("GET /sessions", s.requireAuth(http.HandlerFunc(s.handleListSessions)))
	mux.Handle("POST /sessions", s.requireAuth(http.HandlerFunc(s.handleCreateSession)))
	mux.Handle("DELETE /panes/{target}", s.requireAuth(http.HandlerFunc(s.handleDeletePane)))
	mux.Handle("POST /panes/{target}/input", s.requireAuth(http.HandlerFunc(s.handleSendInput)))
	mux.Handle("POST /panes/{target}/escape", s.requireAuth(http.HandlerFunc(s.handleSendEscape)))
	mux.Handle("GET /panes/{target}/output", s.requireAuth(http.HandlerFunc(s.handleGetOutput)))
	mux.Handle("GET /panes/{target}/stream", s.requireAuth(http.HandlerFunc(s.handleStreamOutput)))

	mux.Handle("POST /setup-token", s.requireAuth(http.HandlerFunc(s.handleGenerateSetupToken)))
	mux.Handle("GET /devices", s.requireAuth(http.HandlerFunc(s.handleListDevices)))
	mux.Handle("DELETE /devices/{id}", s.requireAuth(http.HandlerFunc(s.handleRevokeDevice)))

	if s.engine != nil {
		mux.Handle("POST /devices", s.requireAuth(http.HandlerFunc(s.handleRegisterEndpoint)))
		// Notify is ungated: it is invoked by local agent hooks that hold no
		// device credential.
		mux.HandleFunc("POST /notify", s.handleNotify)
	}

	return mux
}

// Serve accepts connections on ln until Shutdown or a listener error. It
// may be called for multiple listeners (TCP and tsnet) against the same
// underlying http.Server.
func (s *Server) Serve(ln net.Listener) error {
	s.initOnce.Do(func() {
		s.httpServer = &http.Server{
			Handler:           s.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	})
	log.Printf("[server] listening on %s", ln.Addr())
	err := s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
