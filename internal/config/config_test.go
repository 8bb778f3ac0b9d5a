package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"REATTACHD_PORT", "PORT", "REATTACHD_BIND_ADDR",
		"APNS_KEY_PATH", "APNS_KEY_ID", "APNS_TEAM_ID", "APNS_BUNDLE_ID",
		"REATTACHD_TS_AUTHKEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != DefaultPort || cfg.BindAddr != DefaultBindAddr {
		t.Errorf("defaults = %s, want %s:%d", cfg.Addr(), DefaultBindAddr, DefaultPort)
	}
	if cfg.APNs.Configured() {
		t.Error("APNs should be unconfigured by default")
	}
	if cfg.Tailscale.Enabled {
		t.Error("tailscale should be disabled by default")
	}
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `{
  "port": 9000,
  "bind_addr": "0.0.0.0",
  "apns": {"key_path": "/keys/file.p8", "key_id": "K1", "team_id": "T1", "bundle_id": "com.example"}
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REATTACHD_PORT", "9100")
	t.Setenv("APNS_KEY_ID", "K2")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", cfg.Port)
	}
	if cfg.BindAddr != "0.0.0.0" {
		t.Errorf("bind_addr = %q, want file value", cfg.BindAddr)
	}
	if cfg.APNs.KeyID != "K2" || cfg.APNs.KeyPath != "/keys/file.p8" {
		t.Errorf("apns = %+v, want env key id over file", cfg.APNs)
	}
	if !cfg.APNs.Configured() {
		t.Error("APNs should be configured")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("REATTACHD_PORT", "not-a-port")
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for invalid port")
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error for corrupt config file")
	}
}
