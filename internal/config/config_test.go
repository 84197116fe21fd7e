package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Run.MaxMessages != 50 {
		t.Errorf("MaxMessages = %d, want 50", cfg.Run.MaxMessages)
	}
	if cfg.Sentinels.Terminate != "TERMINATE" {
		t.Errorf("Terminate sentinel = %q", cfg.Sentinels.Terminate)
	}
	if cfg.Run.KeepAlive() != 15*time.Second {
		t.Errorf("KeepAlive = %v", cfg.Run.KeepAlive())
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tandem.yaml")
	body := `
listen_addr: ":9999"
run:
  max_messages: 20
sentinels:
  delegate: "HANDOFF"
  subtask_done: "STEP_DONE"
  terminate: "FINISHED"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Run.MaxMessages != 20 {
		t.Errorf("MaxMessages = %d", cfg.Run.MaxMessages)
	}
	if cfg.Sentinels.Terminate != "FINISHED" {
		t.Errorf("Terminate = %q", cfg.Sentinels.Terminate)
	}
	// Unset fields keep their defaults.
	if cfg.Run.PreviewReloadEvery != 10 {
		t.Errorf("PreviewReloadEvery = %d", cfg.Run.PreviewReloadEvery)
	}
}

func TestLoadRepairsZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tandem.yaml")
	body := `
run:
  max_messages: 0
  keep_alive_seconds: 0
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Run.MaxMessages != 50 || cfg.Run.KeepAliveSeconds != 15 {
		t.Errorf("zero values not repaired: %+v", cfg.Run)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TANDEM_LISTEN_ADDR", ":7777")
	t.Setenv("TANDEM_ORACLE_MODEL", "gpt-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":7777" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Oracle.Model != "gpt-test" {
		t.Errorf("Model = %q", cfg.Oracle.Model)
	}
}

func TestLoadMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML should be an error")
	}
}
