package server

import (
	"fmt"
	"net"
	"os"

	"tailscale.com/tsnet"

	"github.com/reattach-app/reattachd/internal/config"
)

// TsnetListener wraps a tsnet server and its listener so the daemon can be
// reached over a tailnet without exposing a public port.
type TsnetListener struct {
	server   *tsnet.Server
	listener net.Listener
}

// NewTsnetListener joins the tailnet described by cfg and listens there.
// The caller owns Close.
func NewTsnetListener(cfg config.TailscaleConfig) (*TsnetListener, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("tailscale listener is not enabled")
	}
	if cfg.AuthKey == "" {
		return nil, fmt.Errorf("tailscale auth key not set (REATTACHD_TS_AUTHKEY)")
	}

	if cfg.StateDir != "" {
		if err := os.MkdirAll(cfg.StateDir, 0700); err != nil {
			return nil, fmt.Errorf("create tsnet state directory %s: %w", cfg.StateDir, err)
		}
	}

	hostname := cfg.Hostname
	if hostname == "" {
		hostname = "reattachd"
	}
	port := cfg.Port
	if port == 0 {
		port = config.DefaultPort
	}

	srv := &tsnet.Server{
		Hostname: hostname,
		AuthKey:  cfg.AuthKey,
		Dir:      cfg.StateDir,
	}
	if cfg.ControlURL != "" {
		srv.ControlURL = cfg.ControlURL
	}

	ln, err := srv.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		_ = srv.Close()
		return nil, fmt.Errorf("tsnet listen on :%d: %w", port, err)
	}

	return &TsnetListener{server: srv, listener: ln}, nil
}

// Accept waits for and returns the next connection.
func (t *TsnetListener) Accept() (net.Conn, error) {
	return t.listener.Accept()
}

// Addr returns the listener's network address.
func (t *TsnetListener) Addr() net.Addr {
	return t.listener.Addr()
}

// Close stops both the listener and the tsnet server.
func (t *TsnetListener) Close() error {
	lnErr := t.listener.Close()
	srvErr := t.server.Close()
	if lnErr != nil {
		return fmt.Errorf("close listener: %w", lnErr)
	}
	return srvErr
}
