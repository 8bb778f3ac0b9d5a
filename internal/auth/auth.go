package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NeverExpires is the ttl used for setup tokens that should not expire.
// A large finite duration keeps every expiry comparison total.
const NeverExpires = 100 * 365 * 24 * time.Hour

// Trust errors surfaced to callers. The HTTP layer maps all of them to an
// authentication failure; only the expired/invalid distinction is exposed on
// the registration flow.
var (
	ErrInvalidSetupToken = errors.New("invalid setup token")
	ErrExpiredSetupToken = errors.New("setup token expired")
)

// Device is a registered client holding a long-lived bearer token.
type Device struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Token        string     `json:"token"`
	RegisteredAt time.Time  `json:"registered_at"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
}

// SetupToken is the short-lived (or explicitly reusable) credential used to
// bootstrap trust with a new device. At most one is active at a time.
type SetupToken struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Reusable  bool      `json:"reusable,omitempty"`
}

// store is the on-disk snapshot. The file is rewritten wholesale on every
// mutation so it is always a complete, self-consistent snapshot.
type store struct {
	Devices    []Device    `json:"devices"`
	SetupToken *SetupToken `json:"setup_token,omitempty"`
}

// Validation is the outcome of checking a candidate setup token.
type Validation int

const (
	Valid Validation = iota
	Invalid
	Expired
)

// Err converts a non-Valid outcome to its sentinel error.
func (v Validation) Err() error {
	switch v {
	case Invalid:
		return ErrInvalidSetupToken
	case Expired:
		return ErrExpiredSetupToken
	}
	return nil
}

// Service owns the device/setup-token store and its backing file.
// Thread-safe; every mutation persists a full snapshot before returning.
type Service struct {
	mu       sync.RWMutex
	store    store
	filePath string
}

// NewService loads the store from filePath. A missing or corrupt file is
// treated as an empty store so the daemon always starts.
func NewService(filePath string) *Service {
	s := &Service{filePath: filePath}
	s.store = loadStore(filePath)
	return s
}

func loadStore(path string) store {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[auth] read %s: %v (starting with empty store)", path, err)
		}
		return store{}
	}
	var st store
	if err := json.Unmarshal(data, &st); err != nil {
		log.Printf("[auth] parse %s: %v (starting with empty store)", path, err)
		return store{}
	}
	return st
}

// saveLocked persists the current store. Callers must hold mu. Persistence
// failures are logged and swallowed: the in-memory state stays authoritative
// for the life of the process.
func (s *Service) saveLocked() {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		log.Printf("[auth] marshal store: %v", err)
		return
	}
	if err := os.WriteFile(s.filePath, append(data, '\n'), 0600); err != nil {
		log.Printf("[auth] write %s: %v", s.filePath, err)
	}
}

// reload re-reads the backing file so a setup token created by a separate
// process (`reattachd setup` while the daemon runs) is recognized. A failed
// read keeps the in-memory store.
func (s *Service) reload() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}
	var st store
	if err := json.Unmarshal(data, &st); err != nil {
		return
	}
	s.mu.Lock()
	s.store = st
	s.mu.Unlock()
}

// GenerateSetupToken mints a new setup token, replacing any existing one.
func (s *Service) GenerateSetupToken(reusable bool, ttl time.Duration) string {
	token := generateToken()
	now := time.Now().UTC()

	s.mu.Lock()
	s.store.SetupToken = &SetupToken{
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Reusable:  reusable,
	}
	s.saveLocked()
	s.mu.Unlock()

	return token
}

// ValidateSetupToken compares a candidate against the current setup token.
// It reloads persisted state first so tokens issued by another process are
// visible.
func (s *Service) ValidateSetupToken(candidate string) Validation {
	s.reload()

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.store.SetupToken
	switch {
	case st == nil || st.Token != candidate:
		return Invalid
	case !time.Now().Before(st.ExpiresAt):
		return Expired
	default:
		return Valid
	}
}

// RegisterDevice exchanges a valid setup token for a new device identity.
// Unless the setup token is reusable it is consumed by the exchange.
func (s *Service) RegisterDevice(setupToken, deviceName string) (Device, error) {
	if v := s.ValidateSetupToken(setupToken); v != Valid {
		return Device{}, v.Err()
	}

	device := Device{
		ID:           uuid.NewString(),
		Name:         deviceName,
		Token:        generateToken(),
		RegisteredAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.store.Devices = append(s.store.Devices, device)
	if s.store.SetupToken != nil && !s.store.SetupToken.Reusable {
		s.store.SetupToken = nil
	}
	s.saveLocked()
	s.mu.Unlock()

	log.Printf("[auth] registered device %q (%s)", device.Name, device.ID)
	return device, nil
}

// ValidateDeviceToken returns the device holding the given bearer token, or
// nil. It does not touch last-seen: validation stays side-effect-free.
func (s *Service) ValidateDeviceToken(token string) *Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.store.Devices {
		if s.store.Devices[i].Token == token {
			d := s.store.Devices[i]
			return &d
		}
	}
	return nil
}

// UpdateLastSeen stamps the device's last-seen time. Unknown ids are a no-op.
func (s *Service) UpdateLastSeen(deviceID string) {
	now := time.Now().UTC()

	s.mu.Lock()
	for i := range s.store.Devices {
		if s.store.Devices[i].ID == deviceID {
			s.store.Devices[i].LastSeenAt = &now
			break
		}
	}
	s.saveLocked()
	s.mu.Unlock()
}

// ListDevices returns a snapshot of all registered devices.
func (s *Service) ListDevices() []Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Device, len(s.store.Devices))
	copy(out, s.store.Devices)
	return out
}

// RevokeDevice removes a device by id, reporting whether anything was removed.
func (s *Service) RevokeDevice(deviceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.store.Devices)
	kept := s.store.Devices[:0]
	for _, d := range s.store.Devices {
		if d.ID != deviceID {
			kept = append(kept, d)
		}
	}
	s.store.Devices = kept

	removed := len(s.store.Devices) < before
	if removed {
		s.saveLocked()
	}
	return removed
}

// HasDevices reports whether any device is registered. While false the daemon
// runs in open mode and protected endpoints skip authentication.
func (s *Service) HasDevices() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store.Devices) > 0
}

// SetupTokenInfo returns a copy of the active setup token, or nil.
func (s *Service) SetupTokenInfo() *SetupToken {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.store.SetupToken == nil {
		return nil
	}
	st := *s.store.SetupToken
	return &st
}

// ParseTTL parses a setup-token lifetime like "10m", "1h", "7d" or "never".
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "never" {
		return NeverExpires, nil
	}
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid ttl %q (want e.g. 10m, 1h, 7d, never)", s)
	}
	num, unit := s[:len(s)-1], s[len(s)-1]
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid ttl %q (want e.g. 10m, 1h, 7d, never)", s)
	}
	switch unit {
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("invalid ttl unit %q (want m, h or d)", string(unit))
}
