package server

import (
	"log"
	"net/http"
	"time"

	"github.com/reattach-app/reattachd/internal/tmux"
)

const (
	streamInterval  = time.Second
	streamWriteWait = 10 * time.Second
)

type streamFrame struct {
	Output string `json:"output"`
}

// handleStreamOutput pushes pane output over a WebSocket. The pane is polled
// once per interval and a frame is sent only when the capture changed, so an
// idle pane costs no bandwidth.
func (s *Server) handleStreamOutput(w http.ResponseWriter, r *http.Request) {
	target := r.PathValue("target")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		log.Printf("[server] websocket upgrade for %s: %v", target, err)
		return
	}
	defer conn.Close()

	// Reader goroutine: we never expect client frames, but reading is what
	// surfaces close frames and connection loss.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var last string
	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			output, err := tmux.CapturePane(r.Context(), target, 200)
			if err != nil {
				log.Printf("[server] stream capture %s: %v", target, err)
				return
			}
			if output == last {
				continue
			}
			last = output

			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(streamFrame{Output: output}); err != nil {
				return
			}
		}
	}
}
