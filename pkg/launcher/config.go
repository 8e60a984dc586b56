package launcher

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the typed launcher configuration. The original deployment
// expressed all of this implicitly (cd, source .env, activate venv); here
// it is an explicit, inspectable struct passed to the spawn call.
type Config struct {
	// ProjectDir is the worker's working directory. Must exist.
	ProjectDir string `json:"project_dir" yaml:"project_dir"`

	// EnvFile is a flat KEY=VALUE file of secrets/config for the worker.
	// Optional: a missing file is skipped silently.
	EnvFile string `json:"env_file" yaml:"env_file"`

	// VenvDir is the virtualenv root containing bin/<Interpreter>.
	VenvDir string `json:"venv_dir" yaml:"venv_dir"`

	// Interpreter is the executable name looked up inside VenvDir/bin.
	Interpreter string `json:"interpreter" yaml:"interpreter"`

	// WorkerScript is the program handed to the interpreter.
	WorkerScript string `json:"worker" yaml:"worker"`

	// WorkerArgs are extra arguments for the worker. Empty in the normal
	// cron deployment.
	WorkerArgs []string `json:"worker_args,omitempty" yaml:"worker_args,omitempty"`

	// LogFile receives the worker's combined stdout/stderr, append-only.
	LogFile string `json:"log_file" yaml:"log_file"`
}

// DefaultConfig returns a config with the conventional in-project layout
func DefaultConfig() *Config {
	return &Config{
		EnvFile:      ".env",
		VenvDir:      "venv",
		Interpreter:  "python3",
		WorkerScript: "indian_streaming_content.py",
		LogFile:      "cron.log",
	}
}

// Normalize resolves relative paths against ProjectDir so that the
// launcher's own working directory never matters
func (c *Config) Normalize() {
	c.EnvFile = c.resolve(c.EnvFile)
	c.VenvDir = c.resolve(c.VenvDir)
	c.WorkerScript = c.resolve(c.WorkerScript)
	c.LogFile = c.resolve(c.LogFile)
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectDir, path)
}

// Validate checks the parts of the config that must hold before anything
// is touched. A missing project directory aborts the run before the log
// file is created or appended to.
func (c *Config) Validate() error {
	if c.ProjectDir == "" {
		return fmt.Errorf("project_dir is required")
	}

	info, err := os.Stat(c.ProjectDir)
	if err != nil {
		return fmt.Errorf("project directory %s: %w", c.ProjectDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project directory %s is not a directory", c.ProjectDir)
	}

	if c.WorkerScript == "" {
		return fmt.Errorf("worker script is required")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file is required")
	}
	if c.VenvDir == "" {
		return fmt.Errorf("venv_dir is required")
	}
	if c.Interpreter == "" {
		return fmt.Errorf("interpreter is required")
	}

	return nil
}
