package launcher

import (
	"fmt"
	"os"
	"path/filepath"
)

// Venv describes a resolved virtualenv. Instead of sourcing bin/activate
// and mutating the launcher's PATH, the interpreter is located explicitly
// and the activation side effects are applied to the child environment only.
type Venv struct {
	// Dir is the virtualenv root.
	Dir string
	// BinDir is Dir/bin.
	BinDir string
	// Interpreter is the absolute path of the resolved interpreter.
	Interpreter string
}

// ResolveVenv locates interpreter inside venvDir/bin. A missing virtualenv
// or missing interpreter is fatal: the worker must never fall back to a
// system-wide install.
func ResolveVenv(venvDir, interpreter string) (*Venv, error) {
	info, err := os.Stat(venvDir)
	if err != nil {
		return nil, fmt.Errorf("virtualenv %s: %w", venvDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("virtualenv %s is not a directory", venvDir)
	}

	binDir := filepath.Join(venvDir, "bin")
	path := filepath.Join(binDir, interpreter)

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("virtualenv interpreter %s: %w", path, err)
	}
	if fi.IsDir() || fi.Mode()&0111 == 0 {
		return nil, fmt.Errorf("virtualenv interpreter %s is not executable", path)
	}

	return &Venv{
		Dir:         venvDir,
		BinDir:      binDir,
		Interpreter: path,
	}, nil
}

// Apply adds the activation side effects to an environment map: VIRTUAL_ENV
// set, the venv bin directory prepended to PATH, PYTHONHOME cleared. These
// are the same variables bin/activate exports.
func (v *Venv) Apply(env map[string]string) {
	env["VIRTUAL_ENV"] = v.Dir

	if path, ok := env["PATH"]; ok && path != "" {
		env["PATH"] = v.BinDir + string(os.PathListSeparator) + path
	} else {
		env["PATH"] = v.BinDir
	}

	delete(env, "PYTHONHOME")
}
