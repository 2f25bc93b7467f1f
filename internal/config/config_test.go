package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
database:
  host: db.local
  port: 3306
  dbname: exam_prep
cache:
  pool_ttl_seconds: 120
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Database.DBName != "exam_prep" || cfg.Database.Charset != "utf8mb4" {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Cache.PoolTTL().Seconds() != 120 {
		t.Errorf("expected 120s pool ttl, got %v", cfg.Cache.PoolTTL())
	}
	if cfg.Generation.Workers != 4 {
		t.Errorf("expected default 4 workers, got %d", cfg.Generation.Workers)
	}
	if cfg.AI.Timeout().Seconds() != 60 {
		t.Errorf("expected default 60s ai timeout, got %v", cfg.AI.Timeout())
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Server.Port)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "database:\n  host: from-file\n")
	t.Setenv("DATABASE_HOST", "from-env")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Host != "from-env" {
		t.Errorf("expected env override, got %q", cfg.Database.Host)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"minimal", Config{Server: ServerConfig{Port: "8080"}}, false},
		{"missing port", Config{}, true},
		{
			"release without cors",
			Config{Server: ServerConfig{Port: "8080", Mode: "release"}},
			true,
		},
		{
			"generation without ai endpoint",
			Config{Server: ServerConfig{Port: "8080"}, Generation: GenerationConfig{Enabled: true, Workers: 2}},
			true,
		},
		{
			"generation with zero workers",
			Config{
				Server:     ServerConfig{Port: "8080"},
				AI:         AIConfig{BaseURL: "http://ai", Model: "m"},
				Generation: GenerationConfig{Enabled: true},
			},
			true,
		},
		{
			"tracing without endpoint",
			Config{Server: ServerConfig{Port: "8080"}, Tracing: TracingConfig{Enabled: true}},
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
