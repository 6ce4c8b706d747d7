package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadBytes_Overrides(t *testing.T) {
	yaml := `
version: 1
listen: ":9090"
admin_listen: "127.0.0.1:9091"
upstream: "http://backend:8000"
body:
  buffer_size: 4096
  arena_limit: 0
redaction:
  enabled: false
inspection:
  pattern: "CAFEBABE"
  scan_mode: body
  reject_status: 451
  secrets: true
audit:
  redis:
    address: "127.0.0.1:6379"
    channel: "audit"
`
	cfg, err := LoadBytes([]byte(yaml))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":9090" {
		t.Errorf("expected listen :9090, got %s", cfg.Listen)
	}
	if cfg.Audit.Redis.Address != "127.0.0.1:6379" || cfg.Audit.Redis.Channel != "audit" {
		t.Errorf("unexpected audit config %+v", cfg.Audit)
	}
	if cfg.AdminListen != "127.0.0.1:9091" {
		t.Errorf("expected admin listen override, got %s", cfg.AdminListen)
	}
	if cfg.Upstream != "http://backend:8000" {
		t.Errorf("expected upstream override, got %s", cfg.Upstream)
	}
	if cfg.Body.BufferSize != 4096 || cfg.Body.ArenaLimit != 0 {
		t.Errorf("unexpected body config %+v", cfg.Body)
	}
	if cfg.Redaction.Enabled {
		t.Error("expected redaction disabled")
	}
	if !cfg.Inspection.Enabled {
		t.Error("expected inspection to stay enabled by default")
	}
	if cfg.Inspection.Pattern != "CAFEBABE" || cfg.Inspection.ScanMode != "body" {
		t.Errorf("unexpected inspection config %+v", cfg.Inspection)
	}
	if cfg.Inspection.RejectStatus != 451 || !cfg.Inspection.Secrets {
		t.Errorf("unexpected inspection config %+v", cfg.Inspection)
	}
}

func TestLoadBytes_Defaults(t *testing.T) {
	cfg, err := LoadBytes([]byte("version: 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != DefaultListen {
		t.Errorf("expected default listen %s, got %s", DefaultListen, cfg.Listen)
	}
	if cfg.Body.BufferSize != DefaultBufferSize {
		t.Errorf("expected default buffer size %d, got %d", DefaultBufferSize, cfg.Body.BufferSize)
	}
	if cfg.Inspection.Pattern != DefaultPattern {
		t.Errorf("expected default pattern %s, got %s", DefaultPattern, cfg.Inspection.Pattern)
	}
	if cfg.Inspection.RejectStatus != DefaultRejectStatus {
		t.Errorf("expected default reject status %d, got %d", DefaultRejectStatus, cfg.Inspection.RejectStatus)
	}
	if !cfg.Redaction.Enabled {
		t.Error("expected redaction enabled by default")
	}
	if cfg.AdminListen != "" {
		t.Errorf("expected dashboard disabled by default, got %s", cfg.AdminListen)
	}
}

func TestLoadBytes_Empty(t *testing.T) {
	cfg, err := LoadBytes(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
}

func TestLoadBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"version", "version: 2", "unsupported config version"},
		{"admin clash", "listen: \":8080\"\nadmin_listen: \":8080\"", "admin_listen"},
		{"buffer size", "body:\n  buffer_size: 0", "buffer_size"},
		{"redis db", "audit:\n  redis:\n    db: -1", "audit.redis.db"},
		{"arena", "body:\n  arena_limit: -1", "arena_limit"},
		{"empty pattern", "inspection:\n  pattern: \"\"", "pattern"},
		{"scan mode", "inspection:\n  scan_mode: stream", "scan_mode"},
		{"reject status", "inspection:\n  reject_status: 500", "reject_status"},
		{"unknown key", "redaction:\n  enable: true", "enable"},
		{"syntax", "listen: [", "parsing YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadBytes_DisabledInspectionAllowsEmptyPattern(t *testing.T) {
	_, err := LoadBytes([]byte("inspection:\n  enabled: false\n  pattern: \"\"\n"))
	if err != nil {
		t.Fatal(err)
	}
}

func TestLoad_RelativeRegoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bodyguard.yaml")
	if err := os.WriteFile(path, []byte("policy:\n  rego_file: policy.rego\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != path {
		t.Errorf("expected path %s, got %s", path, cfg.Path)
	}
	if want := filepath.Join(dir, "policy.rego"); cfg.Policy.RegoFile != want {
		t.Errorf("expected rego file %s, got %s", want, cfg.Policy.RegoFile)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.validate(); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
	if strings.HasPrefix(cfg.LogDir, "~") {
		t.Errorf("expected home to be expanded, got %s", cfg.LogDir)
	}
}
