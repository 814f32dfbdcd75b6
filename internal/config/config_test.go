package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vaultsh/vaultsh/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Shell.Prompt != "vaultsh> " {
		t.Errorf("prompt = %q", cfg.Shell.Prompt)
	}
	if cfg.Shell.HistorySize != 100 {
		t.Errorf("history size = %d", cfg.Shell.HistorySize)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaultsh.toml")
	writeFile(t, path, `
[shell]
prompt = "admin> "
batch = ["login", "user list"]

[vault]
server = "vault.example.com"

[logging]
level = "debug"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Shell.Prompt != "admin> " {
		t.Errorf("prompt = %q", cfg.Shell.Prompt)
	}
	if len(cfg.Shell.Batch) != 2 || cfg.Shell.Batch[1] != "user list" {
		t.Errorf("batch = %v", cfg.Shell.Batch)
	}
	if cfg.Vault.Server != "vault.example.com" {
		t.Errorf("server = %q", cfg.Vault.Server)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Shell.HistorySize != 100 {
		t.Errorf("history size = %d", cfg.Shell.HistorySize)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaultsh.yaml")
	writeFile(t, path, `
shell:
  prompt: "y> "
vault:
  username: admin
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Shell.Prompt != "y> " {
		t.Errorf("prompt = %q", cfg.Shell.Prompt)
	}
	if cfg.Vault.Username != "admin" {
		t.Errorf("username = %q", cfg.Vault.Username)
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaultsh.ini")
	writeFile(t, path, "x=1")

	if _, err := config.Load(path); err == nil {
		t.Error("expected unknown format error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("a named but missing file should be an error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VAULTSH_PROMPT", "env> ")
	t.Setenv("VAULTSH_SERVER", "env.example.com")
	t.Setenv("VAULTSH_LOG_LEVEL", "error")
	t.Setenv("VAULTSH_HISTORY_SIZE", "5")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Shell.Prompt != "env> " {
		t.Errorf("prompt = %q", cfg.Shell.Prompt)
	}
	if cfg.Vault.Server != "env.example.com" {
		t.Errorf("server = %q", cfg.Vault.Server)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if cfg.Shell.HistorySize != 5 {
		t.Errorf("history size = %d", cfg.Shell.HistorySize)
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vaultsh.toml")
	writeFile(t, path, "[shell]\nprompt = \"one> \"\n")

	reloaded := make(chan config.Config, 4)
	w, err := config.Watch(path, nil, func(cfg config.Config) {
		reloaded <- cfg
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	writeFile(t, path, "[shell]\nprompt = \"two> \"\n")

	select {
	case cfg := <-reloaded:
		if cfg.Shell.Prompt != "two> " {
			t.Errorf("reloaded prompt = %q", cfg.Shell.Prompt)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
