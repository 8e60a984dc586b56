package launcher

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/subosito/gotenv"
)

// LoadEnvFile reads a flat KEY=VALUE file into a map. Comment lines and
// blank lines are ignored. A missing file is not an error: the launcher
// proceeds with the inherited environment only.
func LoadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open env file %s: %w", path, err)
	}
	defer f.Close()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", path, err)
	}

	return env, nil
}

// MergeEnv applies overrides to a base environment. Overridden keys take
// the new value for the child process; every other key passes through
// untouched. The launcher's own process environment is never modified.
func MergeEnv(base []string, overrides map[string]string) []string {
	merged := EnvironToMap(base)
	for k, v := range overrides {
		merged[k] = v
	}
	return FlattenEnv(merged)
}

// EnvironToMap splits KEY=VALUE entries into a map. Later duplicates win,
// matching the OS's own resolution order.
func EnvironToMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		m[parts[0]] = parts[1]
	}
	return m
}

// FlattenEnv converts an environment map back to the KEY=VALUE slice
// form expected by os/exec, sorted for deterministic output.
func FlattenEnv(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
