package launcher

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.EnvFile != ".env" {
		t.Errorf("Expected default env file .env, got %q", cfg.EnvFile)
	}
	if cfg.VenvDir != "venv" {
		t.Errorf("Expected default venv dir venv, got %q", cfg.VenvDir)
	}
	if cfg.Interpreter != "python3" {
		t.Errorf("Expected default interpreter python3, got %q", cfg.Interpreter)
	}
	if len(cfg.WorkerArgs) != 0 {
		t.Errorf("Expected no default worker args, got %v", cfg.WorkerArgs)
	}
}

func TestConfigNormalize(t *testing.T) {
	cfg := &Config{
		ProjectDir:   "/opt/ott",
		EnvFile:      ".env",
		VenvDir:      "venv",
		WorkerScript: "worker.py",
		LogFile:      "/var/log/ott/cron.log",
	}
	cfg.Normalize()

	if cfg.EnvFile != "/opt/ott/.env" {
		t.Errorf("Expected env file resolved against project dir, got %q", cfg.EnvFile)
	}
	if cfg.VenvDir != "/opt/ott/venv" {
		t.Errorf("Expected venv dir resolved against project dir, got %q", cfg.VenvDir)
	}
	if cfg.WorkerScript != "/opt/ott/worker.py" {
		t.Errorf("Expected worker script resolved against project dir, got %q", cfg.WorkerScript)
	}

	// Absolute paths stay as they are
	if cfg.LogFile != "/var/log/ott/cron.log" {
		t.Errorf("Expected absolute log file untouched, got %q", cfg.LogFile)
	}
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.ProjectDir = dir
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}
}

func TestConfigValidateMissingProjectDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProjectDir = filepath.Join(t.TempDir(), "does-not-exist")

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing project directory")
	}
}

func TestConfigValidateEmptyProjectDir(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty project directory")
	}
}

func TestConfigValidateProjectDirIsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	cfg := DefaultConfig()
	cfg.ProjectDir = path

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error when project dir is a regular file")
	}
}

func TestConfigValidateMissingWorker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProjectDir = t.TempDir()
	cfg.WorkerScript = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty worker script")
	}
}
