package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auth.json")
	return NewService(path), path
}

func TestGenerateSetupToken_ReplacesPrevious(t *testing.T) {
	svc, _ := newTestService(t)

	first := svc.GenerateSetupToken(false, 10*time.Minute)
	second := svc.GenerateSetupToken(true, time.Hour)

	if first == second {
		t.Fatal("expected a fresh token on each generate")
	}
	if svc.ValidateSetupToken(first) != Invalid {
		t.Error("old setup token should be invalid after replacement")
	}
	if svc.ValidateSetupToken(second) != Valid {
		t.Error("new setup token should be valid")
	}

	// The most recent call's parameters are in effect
	info := svc.SetupTokenInfo()
	if info == nil {
		t.Fatal("expected an active setup token")
	}
	if !info.Reusable {
		t.Error("reusable flag should reflect the latest generate")
	}
}

func TestRegisterDevice_HappyPath(t *testing.T) {
	svc, _ := newTestService(t)

	token := svc.GenerateSetupToken(false, 10*time.Minute)

	device, err := svc.RegisterDevice(token, "phone-A")
	if err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}
	if device.Token == token {
		t.Error("device credential must differ from the setup token")
	}
	if device.ID == "" || device.Token == "" {
		t.Error("device id and token must be set")
	}
	if svc.ValidateDeviceToken(device.Token) == nil {
		t.Error("freshly minted credential should validate")
	}

	// Non-reusable token is consumed
	if svc.SetupTokenInfo() != nil {
		t.Error("setup token should be cleared after use")
	}
	if _, err := svc.RegisterDevice(token, "phone-B"); err != ErrInvalidSetupToken {
		t.Errorf("second register = %v, want ErrInvalidSetupToken", err)
	}
	if got := len(svc.ListDevices()); got != 1 {
		t.Errorf("device count = %d, want 1", got)
	}
}

func TestRegisterDevice_ReusableTokenSurvives(t *testing.T) {
	svc, _ := newTestService(t)

	token := svc.GenerateSetupToken(true, 10*time.Minute)

	if _, err := svc.RegisterDevice(token, "phone-A"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.RegisterDevice(token, "phone-B"); err != nil {
		t.Fatalf("second register with reusable token: %v", err)
	}
	if got := len(svc.ListDevices()); got != 2 {
		t.Errorf("device count = %d, want 2", got)
	}
}

func TestRegisterDevice_Expired(t *testing.T) {
	svc, _ := newTestService(t)

	token := svc.GenerateSetupToken(false, -time.Minute)

	if _, err := svc.RegisterDevice(token, "phone-A"); err != ErrExpiredSetupToken {
		t.Fatalf("register with expired token = %v, want ErrExpiredSetupToken", err)
	}
	if got := len(svc.ListDevices()); got != 0 {
		t.Errorf("device count = %d, want 0 (no mutation on failure)", got)
	}
}

func TestValidateSetupToken_States(t *testing.T) {
	svc, _ := newTestService(t)

	if svc.ValidateSetupToken("anything") != Invalid {
		t.Error("no active token: want Invalid")
	}

	token := svc.GenerateSetupToken(false, 10*time.Minute)
	if svc.ValidateSetupToken(token) != Valid {
		t.Error("matching unexpired token: want Valid")
	}
	if svc.ValidateSetupToken("wrong") != Invalid {
		t.Error("mismatched token: want Invalid")
	}

	token = svc.GenerateSetupToken(false, -time.Second)
	if svc.ValidateSetupToken(token) != Expired {
		t.Error("matching expired token: want Expired")
	}
}

func TestValidateSetupToken_SeesOtherProcessWrite(t *testing.T) {
	// Two services sharing one backing file model the daemon and the
	// `reattachd setup` CLI running as separate processes.
	path := filepath.Join(t.TempDir(), "auth.json")
	daemon := NewService(path)
	cli := NewService(path)

	token := cli.GenerateSetupToken(false, 10*time.Minute)

	if daemon.ValidateSetupToken(token) != Valid {
		t.Error("daemon should pick up a setup token written by another process")
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	svc, path := newTestService(t)

	setup := svc.GenerateSetupToken(true, time.Hour)
	device, err := svc.RegisterDevice(setup, "phone-A")
	if err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}
	svc.UpdateLastSeen(device.ID)

	reloaded := NewService(path)

	devices := reloaded.ListDevices()
	if len(devices) != 1 {
		t.Fatalf("reloaded device count = %d, want 1", len(devices))
	}
	got := devices[0]
	if got.ID != device.ID || got.Name != device.Name || got.Token != device.Token {
		t.Errorf("reloaded device = %+v, want %+v", got, device)
	}
	if !got.RegisteredAt.Equal(device.RegisteredAt) {
		t.Errorf("registered_at = %v, want %v", got.RegisteredAt, device.RegisteredAt)
	}
	if got.LastSeenAt == nil {
		t.Error("last_seen_at should survive the round trip")
	}

	info := reloaded.SetupTokenInfo()
	if info == nil || info.Token != setup {
		t.Error("reusable setup token should survive the round trip")
	}
}

func TestNewService_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	svc := NewService(path)
	if svc.HasDevices() {
		t.Error("corrupt file should degrade to an empty store")
	}
	// The store must still be usable
	token := svc.GenerateSetupToken(false, time.Minute)
	if svc.ValidateSetupToken(token) != Valid {
		t.Error("service should work after recovering from corrupt file")
	}
}

func TestRevokeDevice(t *testing.T) {
	svc, _ := newTestService(t)

	token := svc.GenerateSetupToken(true, time.Hour)
	a, _ := svc.RegisterDevice(token, "phone-A")
	b, _ := svc.RegisterDevice(token, "phone-B")

	if !svc.RevokeDevice(a.ID) {
		t.Error("revoking a known device should report true")
	}
	if svc.RevokeDevice(a.ID) {
		t.Error("revoking twice should report false")
	}
	if svc.ValidateDeviceToken(a.Token) != nil {
		t.Error("revoked device token should no longer validate")
	}
	if svc.ValidateDeviceToken(b.Token) == nil {
		t.Error("unrelated device should survive revocation")
	}
}

func TestUpdateLastSeen_UnknownID(t *testing.T) {
	svc, _ := newTestService(t)
	// Must be a silent no-op
	svc.UpdateLastSeen("no-such-device")
	if svc.HasDevices() {
		t.Error("unknown id must not create a device")
	}
}

func TestHasDevices_DrivesOpenMode(t *testing.T) {
	svc, _ := newTestService(t)

	if svc.HasDevices() {
		t.Error("fresh store should report no devices")
	}
	token := svc.GenerateSetupToken(false, time.Minute)
	if _, err := svc.RegisterDevice(token, "phone-A"); err != nil {
		t.Fatal(err)
	}
	if !svc.HasDevices() {
		t.Error("store with a device should report devices")
	}
}

func TestGenerateToken_UniqueAndURLSafe(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok := generateToken()
		if seen[tok] {
			t.Fatal("duplicate token generated")
		}
		seen[tok] = true
		for _, c := range tok {
			if c == '+' || c == '/' || c == '=' {
				t.Fatalf("token %q contains non-URL-safe character %q", tok, c)
			}
		}
	}
}

func TestParseTTL(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"10m", 10 * time.Minute, false},
		{"1h", time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"never", NeverExpires, false},
		{" never ", NeverExpires, false},
		{" 10m ", 10 * time.Minute, false},
		{"", 0, true},
		{"10", 0, true},
		{"x5m", 0, true},
		{"5x5m", 0, true},
		{"-5m", 0, true},
		{"10s", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseTTL(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTTL(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTTL(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTTL(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
