package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reattach-app/reattachd/internal/auth"
	"github.com/reattach-app/reattachd/internal/config"
	"github.com/reattach-app/reattachd/internal/paths"
	"github.com/reattach-app/reattachd/internal/push"
	"github.com/reattach-app/reattachd/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	dataDir, err := paths.DataDir()
	if err != nil {
		return fmt.Errorf("resolve data directory: %w", err)
	}
	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}

	authSvc := auth.NewService(paths.AuthFile(dataDir))
	if !authSvc.HasDevices() {
		log.Printf("[daemon] no devices registered, run 'reattachd setup --url <URL>' to register one")
		log.Printf("[daemon] starting in open mode (no authentication required)")
	}

	// APNs is optional: without credentials the daemon still serves the
	// tmux API, just without push routes.
	var engine *push.Engine
	var registry *push.Registry
	var history *push.History
	if cfg.APNs.Configured() {
		registry = push.NewRegistry(paths.EndpointsFile(dataDir))
		var pushErr error
		history, pushErr = push.OpenHistory(paths.HistoryFile(dataDir))
		if pushErr != nil {
			log.Printf("[daemon] delivery history disabled: %v", pushErr)
			history = nil
		}
		engine, pushErr = push.NewEngine(cfg.APNs, registry, history)
		if pushErr != nil {
			log.Printf("[daemon] push notifications disabled: %v", pushErr)
			engine = nil
			registry = nil
		}
	} else {
		log.Printf("[daemon] APNs credentials not configured, push notifications disabled")
	}

	srv := server.New(authSvc, engine, registry)

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}

	errCh := make(chan error, 2)
	go func() { errCh <- srv.Serve(ln) }()

	var tsln *server.TsnetListener
	if cfg.Tailscale.Enabled {
		var tsErr error
		tsln, tsErr = server.NewTsnetListener(cfg.Tailscale)
		if tsErr != nil {
			log.Printf("[daemon] tailscale listener disabled: %v", tsErr)
		} else {
			log.Printf("[daemon] serving on tailnet as %q", cfg.Tailscale.Hostname)
			go func() { errCh <- srv.Serve(tsln) }()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("[daemon] received %s, shutting down", sig)
	case err = <-errCh:
		if err != nil {
			log.Printf("[daemon] serve error: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
		log.Printf("[daemon] shutdown: %v", shutdownErr)
	}
	if tsln != nil {
		_ = tsln.Close()
	}
	if history != nil {
		_ = history.Close()
	}
	return err
}
