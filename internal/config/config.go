// Package config loads service settings: built-in defaults, then an
// optional TOML file, then environment overrides.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"tagrender/internal/pkg/logger"
)

// FileEnv names the variable pointing at the TOML file.
const FileEnv = "TAGRENDER_CONFIG"

// Storage providers.
const (
	ProviderLocalFS = "localfs"
	ProviderGDrive  = "gdrive"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	Fonts   FontConfig    `toml:"fonts"`
	Cache   CacheConfig   `toml:"cache"`
	Storage StorageConfig `toml:"storage"`
	Logo    LogoConfig    `toml:"logo"`
	QR      QRConfig      `toml:"qr"`
}

type ServerConfig struct {
	Port               string   `toml:"port"`
	RequestTimeout     Duration `toml:"request_timeout"`
	ShutdownTimeout    Duration `toml:"shutdown_timeout"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	// AllowLogoUpload exposes PUT /api/tag/logo/asset. There is no auth;
	// enable it only on trusted networks.
	AllowLogoUpload bool `toml:"allow_logo_upload"`
}

type LogConfig struct {
	Level     string `toml:"level"`
	Format    string `toml:"format"`
	AddSource bool   `toml:"add_source"`
}

// FontConfig points at TrueType files. Empty paths use the built-in Go
// font.
type FontConfig struct {
	Regular string `toml:"regular"`
	Bold    string `toml:"bold"`
}

// CacheConfig enables the redis render cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// Enabled reports whether a redis address is configured.
func (c CacheConfig) Enabled() bool { return c.RedisAddr != "" }

type StorageConfig struct {
	Provider  string       `toml:"provider"`
	LocalRoot string       `toml:"local_root"`
	GDrive    GDriveConfig `toml:"gdrive"`
}

type GDriveConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	FolderID     string `toml:"folder_id"`
}

// LogoConfig names the branding asset. For gdrive the key is a file id.
// Refresh bounds how long a loaded asset is reused before storage is read
// again; zero reuses it until an upload through this process.
type LogoConfig struct {
	ObjectKey string   `toml:"object_key"`
	Refresh   Duration `toml:"refresh"`
}

type QRConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "3001",
			RequestTimeout:  Duration{30 * time.Second},
			ShutdownTimeout: Duration{15 * time.Second},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			TTL: Duration{10 * time.Minute},
		},
		Storage: StorageConfig{
			Provider:  ProviderLocalFS,
			LocalRoot: "./data",
		},
		Logo: LogoConfig{
			ObjectKey: "logo.png",
			Refresh:   Duration{time.Minute},
		},
		QR: QRConfig{
			Level: "M",
		},
	}
}

// Load reads the file named by TAGRENDER_CONFIG, if any, and applies
// environment overrides.
func Load() (*Config, error) {
	if path := strings.TrimSpace(os.Getenv(FileEnv)); path != "" {
		return LoadFromFile(path)
	}
	cfg := Default()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFromFile reads the TOML file at path. A missing file is not an
// error.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := applyEnvOverrides(cfg); err != nil {
				return nil, err
			}
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader decodes TOML from r over the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	if p, err := strconv.Atoi(c.Server.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	switch c.Storage.Provider {
	case ProviderLocalFS:
		if c.Storage.LocalRoot == "" {
			return fmt.Errorf("storage.local_root is required for %s", ProviderLocalFS)
		}
	case ProviderGDrive:
		g := c.Storage.GDrive
		if g.ClientID == "" || g.ClientSecret == "" || g.RefreshToken == "" {
			return fmt.Errorf("gdrive storage needs client_id, client_secret and refresh_token")
		}
	default:
		return fmt.Errorf("unknown storage provider: %s", c.Storage.Provider)
	}
	switch strings.ToUpper(c.QR.Level) {
	case "L", "M", "Q", "H":
	default:
		return fmt.Errorf("invalid qr level %q", c.QR.Level)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// Logger builds the logger settings. Output stays the logger's default.
func (c *Config) Logger() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	cfg.AddSource = c.Log.AddSource
	return cfg
}

func applyEnvOverrides(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setList(&cfg.Server.CORSAllowedOrigins, "CORS_ALLOWED_ORIGINS")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Fonts.Regular, "FONT_REGULAR_PATH")
	setString(&cfg.Fonts.Bold, "FONT_BOLD_PATH")
	setString(&cfg.Cache.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Cache.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.Storage.Provider, "STORAGE_PROVIDER")
	setString(&cfg.Storage.LocalRoot, "STORAGE_LOCAL_ROOT")
	setString(&cfg.Storage.GDrive.ClientID, "GDRIVE_CLIENT_ID")
	setString(&cfg.Storage.GDrive.ClientSecret, "GDRIVE_CLIENT_SECRET")
	setString(&cfg.Storage.GDrive.RefreshToken, "GDRIVE_REFRESH_TOKEN")
	setString(&cfg.Storage.GDrive.FolderID, "GDRIVE_FOLDER_ID")
	setString(&cfg.Logo.ObjectKey, "LOGO_OBJECT_KEY")
	setString(&cfg.QR.Level, "QR_LEVEL")

	if v := env("LOG_SOURCE"); v != "" {
		cfg.Log.AddSource = v == "true"
	}
	if v := env("ALLOW_LOGO_UPLOAD"); v != "" {
		cfg.Server.AllowLogoUpload = v == "true"
	}
	if v := env("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Cache.RedisDB = db
	}
	for key, dst := range map[string]*Duration{
		"REQUEST_TIMEOUT":  &cfg.Server.RequestTimeout,
		"SHUTDOWN_TIMEOUT": &cfg.Server.ShutdownTimeout,
		"CACHE_TTL":        &cfg.Cache.TTL,
		"LOGO_REFRESH":     &cfg.Logo.Refresh,
	} {
		if v := env(key); v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	return nil
}

func env(k string) string {
	return strings.TrimSpace(os.Getenv(k))
}

func setString(dst *string, k string) {
	if v := env(k); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, k string) {
	v := env(k)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
