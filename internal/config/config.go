// Package config resolves the daemon configuration from config.json in the
// data directory plus environment overrides, env taking precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/reattach-app/reattachd/internal/paths"
	"github.com/reattach-app/reattachd/internal/push"
)

const (
	DefaultPort     = 8787
	DefaultBindAddr = "127.0.0.1"
)

// TailscaleConfig controls the optional tsnet listener that exposes the API
// over a tailnet so the phone can reach the daemon without port-forwarding.
type TailscaleConfig struct {
	Enabled    bool   `json:"enabled"`
	Hostname   string `json:"hostname,omitempty"`
	Port       int    `json:"port,omitempty"`
	StateDir   string `json:"state_dir,omitempty"`
	AuthKey    string `json:"auth_key,omitempty"`
	ControlURL string `json:"control_url,omitempty"`
}

// Config is the resolved daemon configuration.
type Config struct {
	Port      int              `json:"port,omitempty"`
	BindAddr  string           `json:"bind_addr,omitempty"`
	APNs      push.Credentials `json:"apns"`
	Tailscale TailscaleConfig  `json:"tailscale"`
}

// Load reads config.json from dataDir (absence is fine) and applies
// environment overrides:
//
//	REATTACHD_PORT / PORT, REATTACHD_BIND_ADDR
//	APNS_KEY_PATH, APNS_KEY_ID, APNS_TEAM_ID, APNS_BUNDLE_ID
//	REATTACHD_TS_AUTHKEY
func Load(dataDir string) (*Config, error) {
	cfg := &Config{
		Port:     DefaultPort,
		BindAddr: DefaultBindAddr,
	}

	path := paths.ConfigFile(dataDir)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if p := firstEnv("REATTACHD_PORT", "PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid port %q", p)
		}
		cfg.Port = port
	}
	if addr := os.Getenv("REATTACHD_BIND_ADDR"); addr != "" {
		cfg.BindAddr = addr
	}

	if v := os.Getenv("APNS_KEY_PATH"); v != "" {
		cfg.APNs.KeyPath = v
	}
	if v := os.Getenv("APNS_KEY_ID"); v != "" {
		cfg.APNs.KeyID = v
	}
	if v := os.Getenv("APNS_TEAM_ID"); v != "" {
		cfg.APNs.TeamID = v
	}
	if v := os.Getenv("APNS_BUNDLE_ID"); v != "" {
		cfg.APNs.BundleID = v
	}

	if v := os.Getenv("REATTACHD_TS_AUTHKEY"); v != "" {
		cfg.Tailscale.AuthKey = v
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %s", cfg.Port, path)
	}
	return cfg, nil
}

// Addr returns the host:port the plain TCP listener binds.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.Port)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
