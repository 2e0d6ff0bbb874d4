package esconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dantte-lp/goeventstore/internal/esconfig"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := esconfig.DefaultConfig()

	if cfg.Connection.Addr != "127.0.0.1:1113" {
		t.Errorf("Connection.Addr = %q, want %q", cfg.Connection.Addr, "127.0.0.1:1113")
	}
	if cfg.Connection.DialTimeout != 5*time.Second {
		t.Errorf("Connection.DialTimeout = %v, want %v", cfg.Connection.DialTimeout, 5*time.Second)
	}
	if cfg.Connection.PendingBufferSize != 256 {
		t.Errorf("Connection.PendingBufferSize = %d, want %d", cfg.Connection.PendingBufferSize, 256)
	}
	if cfg.Admin.Addr != ":50061" {
		t.Errorf("Admin.Addr = %q, want %q", cfg.Admin.Addr, ":50061")
	}
	if cfg.Metrics.Addr != ":9101" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9101")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}

	if err := esconfig.Validate(cfg); err != nil {
		t.Errorf("DefaultConfig() failed validation: %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	t.Parallel()

	yamlContent := `
connection:
  addr: "es.internal:1113"
  username: "admin"
  password: "changeit"
  dial_timeout: "2s"
admin:
  addr: ":60000"
log:
  level: "debug"
  format: "text"
`
	path := writeTemp(t, yamlContent)

	cfg, err := esconfig.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.Connection.Addr != "es.internal:1113" {
		t.Errorf("Connection.Addr = %q, want %q", cfg.Connection.Addr, "es.internal:1113")
	}
	if cfg.Connection.Username != "admin" || cfg.Connection.Password != "changeit" {
		t.Errorf("credentials = %q/%q, want admin/changeit", cfg.Connection.Username, cfg.Connection.Password)
	}
	if cfg.Connection.DialTimeout != 2*time.Second {
		t.Errorf("Connection.DialTimeout = %v, want %v", cfg.Connection.DialTimeout, 2*time.Second)
	}
	if cfg.Admin.Addr != ":60000" {
		t.Errorf("Admin.Addr = %q, want %q", cfg.Admin.Addr, ":60000")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}

	// Defaults not overridden by the YAML above are preserved.
	if cfg.Connection.WriteTimeout != 5*time.Second {
		t.Errorf("Connection.WriteTimeout = %v, want default %v", cfg.Connection.WriteTimeout, 5*time.Second)
	}
	if cfg.Metrics.Addr != ":9101" {
		t.Errorf("Metrics.Addr = %q, want default %q", cfg.Metrics.Addr, ":9101")
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*esconfig.Config)
		wantErr error
	}{
		{
			name: "empty connection addr",
			modify: func(cfg *esconfig.Config) {
				cfg.Connection.Addr = ""
			},
			wantErr: esconfig.ErrEmptyConnectionAddr,
		},
		{
			name: "zero dial timeout",
			modify: func(cfg *esconfig.Config) {
				cfg.Connection.DialTimeout = 0
			},
			wantErr: esconfig.ErrInvalidDialTimeout,
		},
		{
			name: "zero write timeout",
			modify: func(cfg *esconfig.Config) {
				cfg.Connection.WriteTimeout = 0
			},
			wantErr: esconfig.ErrInvalidWriteTimeout,
		},
		{
			name: "zero pending buffer size",
			modify: func(cfg *esconfig.Config) {
				cfg.Connection.PendingBufferSize = 0
			},
			wantErr: esconfig.ErrInvalidPendingBufferSize,
		},
		{
			name: "username without password",
			modify: func(cfg *esconfig.Config) {
				cfg.Connection.Username = "admin"
			},
			wantErr: esconfig.ErrPartialCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := esconfig.DefaultConfig()
			tt.modify(cfg)

			err := esconfig.Validate(cfg)
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// writeTemp creates a temporary YAML file and returns its path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "esclientd.yml")

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	return path
}
