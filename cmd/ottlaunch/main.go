package main

import (
	"errors"
	"os"

	"ottlaunch/cmd/ottlaunch/cmd"
	"ottlaunch/pkg/launcher"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// A worker failure carries the worker's own exit code so that
		// cron sees the same status the original deployment produced.
		var exitErr *launcher.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
