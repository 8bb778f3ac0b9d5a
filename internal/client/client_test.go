package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func portOf(t *testing.T, ts *httptest.Server) int {
	t.Helper()
	port, err := strconv.Atoi(ts.URL[strings.LastIndexByte(ts.URL, ':')+1:])
	if err != nil {
		t.Fatalf("parse test server port from %s: %v", ts.URL, err)
	}
	return port
}

func TestNotify_SendsPayload(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notify" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := New(portOf(t, ts))
	if err := c.Notify(context.Background(), "done", "all green", "dev:0.0"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if got["title"] != "done" || got["body"] != "all green" || got["pane_target"] != "dev:0.0" {
		t.Errorf("payload = %v", got)
	}
}

func TestNotify_OmitsEmptyTarget(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer ts.Close()

	c := New(portOf(t, ts))
	if err := c.Notify(context.Background(), "t", "b", ""); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if _, present := got["pane_target"]; present {
		t.Error("empty pane target should be omitted from the payload")
	}
}

func TestNotify_SurfacesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no push endpoints registered"})
	}))
	defer ts.Close()

	c := New(portOf(t, ts))
	err := c.Notify(context.Background(), "t", "b", "")
	if err == nil || !strings.Contains(err.Error(), "no push endpoints registered") {
		t.Errorf("err = %v, want the daemon's error message", err)
	}
}

func TestNotify_DaemonUnreachable(t *testing.T) {
	c := New(1) // nothing listens on port 1
	if err := c.Notify(context.Background(), "t", "b", ""); err == nil {
		t.Error("unreachable daemon should produce an error")
	}
}
