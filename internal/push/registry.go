package push

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// Endpoint is one push-delivery address: an APNs platform token plus the
// environment it was issued for and the device that owns it.
type Endpoint struct {
	Token      string `json:"token"`
	Sandbox    bool   `json:"sandbox"`
	DeviceID   string `json:"device_id,omitempty"`
	ServerName string `json:"server_name,omitempty"`
}

// Registry is the file-backed set of push endpoints, keyed by platform token.
// Owned exclusively by the delivery engine; independent of the auth store.
type Registry struct {
	mu        sync.RWMutex
	endpoints []Endpoint
	filePath  string
}

// NewRegistry loads the registry from filePath. A missing or corrupt file is
// treated as an empty registry.
func NewRegistry(filePath string) *Registry {
	r := &Registry{filePath: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[push] read %s: %v (starting with empty registry)", filePath, err)
		}
		return r
	}
	if err := json.Unmarshal(data, &r.endpoints); err != nil {
		log.Printf("[push] parse %s: %v (starting with empty registry)", filePath, err)
		r.endpoints = nil
	}
	return r
}

func (r *Registry) saveLocked() {
	data, err := json.MarshalIndent(r.endpoints, "", "  ")
	if err != nil {
		log.Printf("[push] marshal endpoints: %v", err)
		return
	}
	if err := os.WriteFile(r.filePath, append(data, '\n'), 0600); err != nil {
		log.Printf("[push] write %s: %v", r.filePath, err)
	}
}

// Register adds the endpoint or merges it into an existing entry with the
// same platform token. Persists only when something actually changed, so a
// client that re-registers on every app launch causes no disk writes or log
// noise. Reports whether the registry changed.
func (r *Registry) Register(ep Endpoint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.endpoints {
		if r.endpoints[i].Token != ep.Token {
			continue
		}
		changed := false
		if r.endpoints[i].Sandbox != ep.Sandbox {
			r.endpoints[i].Sandbox = ep.Sandbox
			changed = true
		}
		if r.endpoints[i].DeviceID != ep.DeviceID {
			r.endpoints[i].DeviceID = ep.DeviceID
			changed = true
		}
		if r.endpoints[i].ServerName != ep.ServerName {
			r.endpoints[i].ServerName = ep.ServerName
			changed = true
		}
		if changed {
			log.Printf("[push] updated endpoint %s... (sandbox: %v)", tokenPrefix(ep.Token), ep.Sandbox)
			r.saveLocked()
		}
		return changed
	}

	r.endpoints = append(r.endpoints, ep)
	log.Printf("[push] registered endpoint %s... (sandbox: %v, device: %s)",
		tokenPrefix(ep.Token), ep.Sandbox, ep.DeviceID)
	r.saveLocked()
	return true
}

// List returns a snapshot of all endpoints.
func (r *Registry) List() []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// Len returns the number of registered endpoints.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.endpoints)
}

// Remove deletes every endpoint whose token appears in tokens, then persists
// once. Used to batch-prune endpoints the provider reported as invalid.
// Returns how many endpoints were actually removed, which can be fewer than
// len(tokens) when tokens repeat or are already gone.
func (r *Registry) Remove(tokens []string) int {
	if len(tokens) == 0 {
		return 0
	}
	invalid := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		invalid[t] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.endpoints[:0]
	for _, ep := range r.endpoints {
		if !invalid[ep.Token] {
			kept = append(kept, ep)
		}
	}
	removed := len(r.endpoints) - len(kept)
	r.endpoints = kept
	if removed > 0 {
		r.saveLocked()
		log.Printf("[push] removed %d invalid endpoint(s)", removed)
	}
	return removed
}

func tokenPrefix(token string) string {
	if len(token) > 20 {
		return token[:20]
	}
	return token
}
