package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ottlaunch/pkg/launcher"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the worker once",
	Long: `Run prepares the worker environment and executes it to completion:

- verifies the project directory exists
- loads KEY=VALUE entries from the .env file if present
- resolves the interpreter inside the virtualenv
- appends the worker's combined stdout/stderr to the log file
- exits with the worker's exit code

This is the command cron invokes. There are no retries and no timeout;
a second run started while one is in flight will interleave log writes.

Example:
  ottlaunch run --project-dir /opt/ott --worker indian_streaming_content.py
  ottlaunch run --config /etc/ottlaunch.yaml`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg := LoadConfig()
	log := NewLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		fmt.Fprintf(os.Stderr, "\nReceived %v, stopping worker...\n", sig)
		cancel()
	}()

	l := launcher.New(cfg, log)
	result, err := l.Run(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return nil
}
