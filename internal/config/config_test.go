package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Addr() != ":3001" {
		t.Errorf("Addr() = %q, want :3001", cfg.Addr())
	}
	if cfg.Cache.Enabled() {
		t.Error("cache enabled without redis address")
	}
}

func TestLoadFromReader(t *testing.T) {
	const doc = `
[server]
port = "8080"
request_timeout = "5s"
cors_allowed_origins = ["https://a.example"]

[cache]
redis_addr = "localhost:6379"
ttl = "1m"

[logo]
object_key = "brand/logo.jpg"

[qr]
level = "H"
`
	cfg, err := LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout.Duration != 5*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.ShutdownTimeout.Duration != 15*time.Second {
		t.Errorf("ShutdownTimeout = %v, want default", cfg.Server.ShutdownTimeout)
	}
	if !cfg.Cache.Enabled() || cfg.Cache.TTL.Duration != time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Logo.ObjectKey != "brand/logo.jpg" {
		t.Errorf("Logo.ObjectKey = %q", cfg.Logo.ObjectKey)
	}
	if len(cfg.Server.CORSAllowedOrigins) != 1 {
		t.Errorf("CORSAllowedOrigins = %v", cfg.Server.CORSAllowedOrigins)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_SOURCE", "true")
	t.Setenv("LOGO_REFRESH", "5m")

	cfg, err := LoadFromReader(strings.NewReader(`[server]
port = "8080"`))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Port = %q, env should win", cfg.Server.Port)
	}
	if cfg.Cache.TTL.Duration != 90*time.Second {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Cache.RedisDB != 2 {
		t.Errorf("RedisDB = %d", cfg.Cache.RedisDB)
	}
	if got := cfg.Server.CORSAllowedOrigins; len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", got)
	}
	if !cfg.Log.AddSource {
		t.Error("AddSource not set from LOG_SOURCE")
	}
	if cfg.Logo.Refresh.Duration != 5*time.Minute {
		t.Errorf("Logo.Refresh = %v", cfg.Logo.Refresh)
	}
}

func TestEnvOverrideErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"REDIS_DB", "two"},
		{"CACHE_TTL", "soon"},
		{"REQUEST_TIMEOUT", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadFromReader(strings.NewReader("")); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = "http" }},
		{"port out of range", func(c *Config) { c.Server.Port = "70000" }},
		{"unknown provider", func(c *Config) { c.Storage.Provider = "s3" }},
		{"empty local root", func(c *Config) { c.Storage.LocalRoot = "" }},
		{"gdrive without credentials", func(c *Config) { c.Storage.Provider = ProviderGDrive }},
		{"bad qr level", func(c *Config) { c.QR.Level = "X" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() succeeded, want error")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Server.Port != "3001" {
		t.Errorf("Port = %q, want default", cfg.Server.Port)
	}
}

func TestLoadUsesFileEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagrender.toml")
	if err := os.WriteFile(path, []byte("[server]\nport = \"4000\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(FileEnv, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "4000" {
		t.Errorf("Port = %q, want 4000", cfg.Server.Port)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("2m30s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	out, _ := d.MarshalText()
	if string(out) != "2m30s" {
		t.Errorf("MarshalText() = %s", out)
	}
}
