package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration for bodyguard.
type Config struct {
	Version    int              `yaml:"version"`
	Listen     string           `yaml:"listen"`
	Upstream   string           `yaml:"upstream"`
	LogDir     string           `yaml:"log_dir"`

	// AdminListen is the address of the admin dashboard. Empty disables it.
	AdminListen string `yaml:"admin_listen"`

	Body       BodyConfig       `yaml:"body"`
	Redaction  RedactionConfig  `yaml:"redaction"`
	Inspection InspectionConfig `yaml:"inspection"`
	Policy     PolicyConfig     `yaml:"policy"`
	Audit      AuditConfig      `yaml:"audit"`

	// Path is the file the config was loaded from, if any.
	Path string `yaml:"-"`
}

// BodyConfig controls how request and response bodies are buffered.
type BodyConfig struct {
	// BufferSize is the number of body bytes kept in memory before the
	// rest spills into a temporary file.
	BufferSize int    `yaml:"buffer_size"`
	TempDir    string `yaml:"temp_dir"`

	// ArenaLimit bounds the bytes a single request may allocate for
	// rebuilt bodies. Zero means unbounded.
	ArenaLimit int `yaml:"arena_limit"`
}

// RedactionConfig controls the response body email redactor.
type RedactionConfig struct {
	Enabled bool `yaml:"enabled"`
}

// InspectionConfig controls request body inspection.
type InspectionConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Pattern      string `yaml:"pattern"`
	ScanMode     string `yaml:"scan_mode"`
	RejectStatus int    `yaml:"reject_status"`
	Secrets      bool   `yaml:"secrets"`
}

// PolicyConfig points at an optional Rego policy on request metadata.
type PolicyConfig struct {
	RegoFile string `yaml:"rego_file"`
}

// AuditConfig configures audit sinks besides the JSONL files in LogDir.
type AuditConfig struct {
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig publishes audit records on a Redis pub/sub channel when
// Address is set.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

// Load reads a YAML config file. Keys absent from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg, err := LoadBytes(data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	if cfg.Policy.RegoFile != "" && !filepath.IsAbs(cfg.Policy.RegoFile) {
		cfg.Policy.RegoFile = filepath.Join(filepath.Dir(path), cfg.Policy.RegoFile)
	}
	return cfg, nil
}

// LoadBytes parses YAML data on top of DefaultConfig.
func LoadBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("loading config: parsing YAML: %w", err)
	}

	cfg.LogDir = expandHome(cfg.LogDir)
	cfg.Body.TempDir = expandHome(cfg.Body.TempDir)
	cfg.Policy.RegoFile = expandHome(cfg.Policy.RegoFile)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version %d", c.Version)
	}
	if c.AdminListen != "" && c.AdminListen == c.Listen {
		return fmt.Errorf("admin_listen must differ from listen %q", c.Listen)
	}
	if c.Audit.Redis.DB < 0 {
		return fmt.Errorf("audit.redis.db must not be negative, got %d", c.Audit.Redis.DB)
	}
	if c.Body.BufferSize <= 0 {
		return fmt.Errorf("body.buffer_size must be positive, got %d", c.Body.BufferSize)
	}
	if c.Body.ArenaLimit < 0 {
		return fmt.Errorf("body.arena_limit must not be negative, got %d", c.Body.ArenaLimit)
	}
	if c.Inspection.Enabled && c.Inspection.Pattern == "" {
		return errors.New("inspection.pattern must not be empty")
	}
	switch c.Inspection.ScanMode {
	case "segment", "body":
	default:
		return fmt.Errorf("inspection.scan_mode must be segment or body, got %q", c.Inspection.ScanMode)
	}
	if c.Inspection.RejectStatus < 400 || c.Inspection.RejectStatus > 499 {
		return fmt.Errorf("inspection.reject_status must be a 4xx status, got %d", c.Inspection.RejectStatus)
	}
	return nil
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfig returns a config with defaults for when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Listen:   DefaultListen,
		Upstream: DefaultUpstream,
		LogDir:   expandHome(DefaultLogDir()),
		Body: BodyConfig{
			BufferSize: DefaultBufferSize,
			ArenaLimit: DefaultArenaLimit,
		},
		Redaction: RedactionConfig{Enabled: true},
		Inspection: InspectionConfig{
			Enabled:      true,
			Pattern:      DefaultPattern,
			ScanMode:     DefaultScanMode,
			RejectStatus: DefaultRejectStatus,
		},
	}
}
