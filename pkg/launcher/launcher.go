package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"syscall"
	"time"

	"ottlaunch/pkg/logging"
)

// Invocation is the fully prepared worker launch: resolved interpreter,
// argument vector, working directory and child environment. It is built
// before the log file is opened so that a setup failure leaves the log
// untouched.
type Invocation struct {
	// Path is the absolute interpreter path inside the virtualenv.
	Path string
	// Args is the interpreter's argument vector, argv[0] included.
	Args []string
	// Dir is the worker's working directory.
	Dir string
	// Env is the complete child environment.
	Env []string
	// EnvFileKeys lists the keys that came from the env file, sorted.
	EnvFileKeys []string
	// Venv is the resolved virtualenv.
	Venv *Venv
	// LogFile receives the worker's combined stdout/stderr.
	LogFile string
}

// Result describes a completed worker run
type Result struct {
	ExitCode  int           `json:"exit_code"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// ExitError reports a worker that ran but exited non-zero. The launcher
// propagates the code as its own exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("worker exited with code %d", e.Code)
}

// Prepare validates the config and builds the worker invocation:
// project directory check, env file merge, virtualenv resolution.
// Each step aborts on the first failure.
func Prepare(cfg *Config) (*Invocation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Normalize()

	fileEnv, err := LoadEnvFile(cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	venv, err := ResolveVenv(cfg.VenvDir, cfg.Interpreter)
	if err != nil {
		return nil, err
	}

	env := EnvironToMap(os.Environ())
	for k, v := range fileEnv {
		env[k] = v
	}
	venv.Apply(env)

	keys := make([]string, 0, len(fileEnv))
	for k := range fileEnv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := append([]string{venv.Interpreter, cfg.WorkerScript}, cfg.WorkerArgs...)

	return &Invocation{
		Path:        venv.Interpreter,
		Args:        args,
		Dir:         cfg.ProjectDir,
		Env:         FlattenEnv(env),
		EnvFileKeys: keys,
		Venv:        venv,
		LogFile:     cfg.LogFile,
	}, nil
}

// Launcher runs the worker exactly once per invocation
type Launcher struct {
	cfg *Config
	log *logging.Logger
}

// New creates a launcher for the given config
func New(cfg *Config, log *logging.Logger) *Launcher {
	if log == nil {
		log = logging.NewLogger(logging.INFO, false)
	}
	return &Launcher{cfg: cfg, log: log}
}

// Run prepares the environment, spawns the worker and blocks until it
// exits. The worker's stdout and stderr are appended to the log file in
// OS write order; the launcher writes nothing to that file itself.
// A non-zero worker exit is returned as *ExitError.
func (l *Launcher) Run(ctx context.Context) (*Result, error) {
	inv, err := Prepare(l.cfg)
	if err != nil {
		return nil, err
	}

	logFile, err := os.OpenFile(inv.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", inv.LogFile, err)
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, inv.Path, inv.Args[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	l.log.Info("starting worker", map[string]interface{}{
		"interpreter": inv.Path,
		"script":      l.cfg.WorkerScript,
		"log_file":    inv.LogFile,
	})

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker: %w", err)
	}

	l.log.Debug("worker started", map[string]interface{}{"pid": cmd.Process.Pid})

	err = cmd.Wait()
	result := &Result{
		ExitCode:  0,
		StartedAt: started,
		Duration:  time.Since(started),
	}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("wait for worker: %w", err)
		}

		code := exitErr.ExitCode()
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			// Shell convention for signal deaths
			code = 128 + int(status.Signal())
			l.log.Warn("worker killed by signal", map[string]interface{}{
				"signal": status.Signal().String(),
			})
		}

		result.ExitCode = code
		l.log.Error("worker failed", map[string]interface{}{
			"exit_code": code,
			"duration":  result.Duration.Round(time.Millisecond).String(),
		})
		return result, &ExitError{Code: code}
	}

	l.log.Info("worker completed", map[string]interface{}{
		"duration": result.Duration.Round(time.Millisecond).String(),
	})
	return result, nil
}
