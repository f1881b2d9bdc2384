package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("test", flag.ContinueOnError)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "TASKAPI_ADDR", "TASKAPI_BASE_PATH", "GIN_MODE", "TASKAPI_DRIVER",
		"DATABASE_URL", "TASKAPI_DSN", "TASKAPI_LOG_LEVEL", "TASKAPI_LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.DSN != DefaultDSN {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.BasePath != "/api" {
		t.Errorf("BasePath = %q", cfg.BasePath)
	}
}

func TestLoadFileThenEnvThenFlags(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "api.toml")
	content := `
addr = ":9000"
base_path = "/v1"

[store]
driver = "memory"

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(newFlagSet(), []string{"-config", path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.BasePath != "/v1" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("driver = %q", cfg.Store.Driver)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}

	t.Setenv("TASKAPI_ADDR", ":9100")
	cfg, err = Load(newFlagSet(), []string{"-config", path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9100" {
		t.Errorf("env should override file, Addr = %q", cfg.Addr)
	}

	cfg, err = Load(newFlagSet(), []string{"-config", path, "-addr", ":9200", "-seed", "5"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9200" {
		t.Errorf("flag should override env, Addr = %q", cfg.Addr)
	}
	if cfg.Seed != 5 {
		t.Errorf("Seed = %d", cfg.Seed)
	}
}

func TestDatabaseURLSelectsPostgres(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != DriverPostgres || cfg.Store.DSN != "postgres://localhost/tasks" {
		t.Errorf("Store = %+v", cfg.Store)
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("adress = \":1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	err := LoadFile(Default(), path)
	if err == nil || !strings.Contains(err.Error(), "adress") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, "unknown store driver"},
		{"missing dsn", func(c *Config) { c.Store.DSN = "" }, "store.dsn is required"},
		{"relative base path", func(c *Config) { c.BasePath = "api" }, "base_path"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
		{"negative seed", func(c *Config) { c.Seed = -1 }, "seed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}

	mem := Default()
	mem.Store = StoreConfig{Driver: DriverMemory}
	if err := mem.Validate(); err != nil {
		t.Errorf("memory driver without dsn should be valid: %v", err)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
