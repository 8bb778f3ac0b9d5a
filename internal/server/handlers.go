package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/reattach-app/reattachd/internal/auth"
	"github.com/reattach-app/reattachd/internal/push"
	"github.com/reattach-app/reattachd/internal/tmux"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// --- trust ---

type registerRequest struct {
	SetupToken string `json:"setup_token"`
	DeviceName string `json:"device_name"`
}

type registerResponse struct {
	DeviceID    string `json:"device_id"`
	DeviceToken string `json:"device_token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	device, err := s.auth.RegisterDevice(req.SetupToken, req.DeviceName)
	switch {
	case errors.Is(err, auth.ErrExpiredSetupToken):
		// The expired/invalid distinction is deliberately exposed here so a
		// legitimate user knows to fetch a fresh QR code.
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "Setup token has expired. Please generate a new QR code.",
			"code":  "TOKEN_EXPIRED",
		})
	case err != nil:
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "Invalid setup token",
			"code":  "TOKEN_INVALID",
		})
	default:
		writeJSON(w, http.StatusOK, registerResponse{
			DeviceID:    device.ID,
			DeviceToken: device.Token,
		})
	}
}

type setupTokenRequest struct {
	Reusable bool   `json:"reusable"`
	TTL      string `json:"ttl,omitempty"`
}

func (s *Server) handleGenerateSetupToken(w http.ResponseWriter, r *http.Request) {
	var req setupTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TTL == "" {
		req.TTL = "10m"
	}
	ttl, err := auth.ParseTTL(req.TTL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token := s.auth.GenerateSetupToken(req.Reusable, ttl)
	writeJSON(w, http.StatusOK, map[string]any{
		"setup_token": token,
		"reusable":    req.Reusable,
		"expires_at":  time.Now().Add(ttl).UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.auth.ListDevices())
}

func (s *Server) handleRevokeDevice(w http.ResponseWriter, r *http.Request) {
	if !s.auth.RevokeDevice(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "device not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- push ---

type registerEndpointRequest struct {
	Token      string `json:"token"`
	Sandbox    bool   `json:"sandbox"`
	DeviceID   string `json:"device_id"`
	ServerName string `json:"server_name"`
}

func (s *Server) handleRegisterEndpoint(w http.ResponseWriter, r *http.Request) {
	var req registerEndpointRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}
	s.registry.Register(push.Endpoint{
		Token:      req.Token,
		Sandbox:    req.Sandbox,
		DeviceID:   req.DeviceID,
		ServerName: req.ServerName,
	})
	w.WriteHeader(http.StatusCreated)
}

type notifyRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	PaneTarget string `json:"pane_target,omitempty"`
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := s.engine.Send(req.Title, req.Body, req.PaneTarget)
	switch {
	case errors.Is(err, push.ErrNoEndpoints):
		writeError(w, http.StatusNotFound, "no push endpoints registered")
	case err != nil:
		log.Printf("[server] send notification: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to send notification")
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// --- tmux ---

type createSessionRequest struct {
	Name string `json:"name"`
	Cwd  string `json:"cwd"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := tmux.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Cwd == "" {
		writeError(w, http.StatusBadRequest, "name and cwd are required")
		return
	}
	if err := tmux.CreateSession(r.Context(), req.Name, req.Cwd); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleDeletePane(w http.ResponseWriter, r *http.Request) {
	if err := tmux.KillPane(r.Context(), r.PathValue("target")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sendInputRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSendInput(w http.ResponseWriter, r *http.Request) {
	var req sendInputRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := tmux.SendKeys(r.Context(), r.PathValue("target"), req.Text); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSendEscape(w http.ResponseWriter, r *http.Request) {
	if err := tmux.SendEscape(r.Context(), r.PathValue("target")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetOutput(w http.ResponseWriter, r *http.Request) {
	lines := 200
	if q := r.URL.Query().Get("lines"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid lines parameter")
			return
		}
		lines = n
	}

	output, err := tmux.CapturePane(r.Context(), r.PathValue("target"), lines)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"output": output})
}
