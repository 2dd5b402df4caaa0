// Package config loads and validates the vibecraft configuration.
//
// Values are layered in increasing precedence: built-in defaults, an
// optional vibecraft.toml, a .env file, process environment variables,
// and finally command-line flags (bound by the CLI after Load).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/vibecraft-ai/vibecraft/internal/relevance"
)

// DefaultFile is the TOML file probed in the working directory when no
// explicit path is given.
const DefaultFile = "vibecraft.toml"

// ─── Types ───────────────────────────────────────────────────────────────────

// Duration wraps time.Duration so TOML can decode values like "2h".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full runtime configuration.
type Config struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`

	Server  Server  `toml:"server"`
	Store   Store   `toml:"store"`
	Sandbox Sandbox `toml:"sandbox"`
	Context Context `toml:"context"`
	Archive Archive `toml:"archive"`
}

// Server holds the HTTP listener and session-reaper settings.
type Server struct {
	Listen         string   `toml:"listen"`
	ReaperSchedule string   `toml:"reaper_schedule"`
	SessionMaxIdle Duration `toml:"session_max_idle"`
}

// Store holds persistence settings.
type Store struct {
	Path string `toml:"path"`
}

// Sandbox holds workspace and preview settings.
type Sandbox struct {
	Dir         string `toml:"dir"`
	PreviewHost string `toml:"preview_host"`
	PreviewPort int    `toml:"preview_port"`
}

// Context holds the smart-context budgets.
type Context struct {
	MaxTokens    int     `toml:"max_tokens"`
	MaxFullFiles int     `toml:"max_full_files"`
	MinScore     float64 `toml:"min_score"`
}

// Archive selects and configures the export backend.
type Archive struct {
	Backend string `toml:"backend"` // "local" or "s3"
	Dir     string `toml:"dir"`
	S3      S3     `toml:"s3"`
}

// S3 holds credentials and addressing for the S3 archive backend.
type S3 struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
}

// ─── Loading ─────────────────────────────────────────────────────────────────

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model: "gemini-2.0-flash",
		Server: Server{
			Listen:         ":8080",
			ReaperSchedule: "*/10 * * * *",
			SessionMaxIdle: Duration(2 * time.Hour),
		},
		Store: Store{
			Path: "vibecraft.db",
		},
		Sandbox: Sandbox{
			Dir:         "sandboxes",
			PreviewHost: "localhost",
			PreviewPort: 3000,
		},
		Context: Context{
			MaxTokens:    relevance.DefaultMaxTokens,
			MaxFullFiles: relevance.DefaultMaxFullFiles,
			MinScore:     relevance.DefaultMinScore,
		},
		Archive: Archive{
			Backend: "local",
			Dir:     "exports",
			S3: S3{
				Bucket: "vibecraft-exports",
				UseSSL: true,
			},
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path
// (or DefaultFile when path is empty), .env, and the environment, then
// validates it. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	probe := path
	if probe == "" {
		probe = DefaultFile
	}
	if _, err := os.Stat(probe); err == nil {
		if _, err := toml.DecodeFile(probe, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", probe, err)
		}
	} else if path != "" {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	// godotenv never overrides variables already present in the
	// environment, so real env vars rank above .env entries.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setStr(&c.APIKey, "GEMINI_API_KEY")
	setStr(&c.APIKey, "VIBECRAFT_API_KEY")
	setStr(&c.Model, "VIBECRAFT_MODEL")
	setStr(&c.Server.Listen, "VIBECRAFT_LISTEN")
	setStr(&c.Server.ReaperSchedule, "VIBECRAFT_REAPER_SCHEDULE")
	setStr(&c.Store.Path, "VIBECRAFT_STORE")
	setStr(&c.Sandbox.Dir, "VIBECRAFT_SANDBOX_DIR")
	setStr(&c.Sandbox.PreviewHost, "VIBECRAFT_PREVIEW_HOST")
	setStr(&c.Archive.Backend, "VIBECRAFT_ARCHIVE_BACKEND")
	setStr(&c.Archive.Dir, "VIBECRAFT_ARCHIVE_DIR")
	setStr(&c.Archive.S3.Endpoint, "VIBECRAFT_S3_ENDPOINT")
	setStr(&c.Archive.S3.Region, "VIBECRAFT_S3_REGION")
	setStr(&c.Archive.S3.Bucket, "VIBECRAFT_S3_BUCKET")
	setStr(&c.Archive.S3.AccessKey, "VIBECRAFT_S3_ACCESS_KEY")
	setStr(&c.Archive.S3.SecretKey, "VIBECRAFT_S3_SECRET_KEY")

	if err := setInt(&c.Sandbox.PreviewPort, "VIBECRAFT_PREVIEW_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Context.MaxTokens, "VIBECRAFT_MAX_TOKENS"); err != nil {
		return err
	}
	if err := setInt(&c.Context.MaxFullFiles, "VIBECRAFT_MAX_FULL_FILES"); err != nil {
		return err
	}
	if err := setFloat(&c.Context.MinScore, "VIBECRAFT_MIN_SCORE"); err != nil {
		return err
	}
	if err := setBool(&c.Archive.S3.UseSSL, "VIBECRAFT_S3_USE_SSL"); err != nil {
		return err
	}
	if err := setDuration(&c.Server.SessionMaxIdle, "VIBECRAFT_SESSION_MAX_IDLE"); err != nil {
		return err
	}
	return nil
}

// ─── Validation ──────────────────────────────────────────────────────────────

// Validate reports the first configuration problem found. Context
// budgets are checked here so a bad value fails at startup, not in the
// middle of a chat request.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("config: model must not be empty")
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("config: server listen address must not be empty")
	}
	if c.Sandbox.PreviewPort < 1 || c.Sandbox.PreviewPort > 65535 {
		return fmt.Errorf("config: preview port %d out of range", c.Sandbox.PreviewPort)
	}
	if c.Server.SessionMaxIdle.Std() <= 0 {
		return fmt.Errorf("config: session max idle must be positive")
	}
	if err := c.ContextConfig().Validate(); err != nil {
		return err
	}
	switch c.Archive.Backend {
	case "local":
		if c.Archive.Dir == "" {
			return fmt.Errorf("config: archive dir must not be empty for the local backend")
		}
	case "s3":
		if c.Archive.S3.Endpoint == "" {
			return fmt.Errorf("config: s3 endpoint required for the s3 archive backend")
		}
		if c.Archive.S3.Bucket == "" {
			return fmt.Errorf("config: s3 bucket required for the s3 archive backend")
		}
	default:
		return fmt.Errorf("config: unknown archive backend %q", c.Archive.Backend)
	}
	return nil
}

// ContextConfig converts the context section into the builder's config.
func (c *Config) ContextConfig() relevance.Config {
	return relevance.Config{
		MaxTokens:    c.Context.MaxTokens,
		MaxFullFiles: c.Context.MaxFullFiles,
		MinScore:     c.Context.MinScore,
	}
}

// PreviewURL renders the sandbox preview address.
func (c *Config) PreviewURL() string {
	return fmt.Sprintf("http://%s:%d", c.Sandbox.PreviewHost, c.Sandbox.PreviewPort)
}

// ─── Env helpers ─────────────────────────────────────────────────────────────

func setStr(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("config: invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: invalid %s: %w", key, err)
	}
	*dst = Duration(d)
	return nil
}
