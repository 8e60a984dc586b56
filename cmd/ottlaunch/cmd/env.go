package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ottlaunch/pkg/launcher"
)

var envShowSecrets bool

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the environment the worker would receive",
	Long: `Resolves the full worker environment (inherited variables, .env file
entries, virtualenv activation variables) without running anything.

Values that come from the .env file are masked by default since that file
typically holds API keys and mail credentials. Use --show-secrets to print
them.`,
	Args: cobra.NoArgs,
	RunE: runEnvInspect,
}

func init() {
	rootCmd.AddCommand(envCmd)

	envCmd.Flags().BoolVar(&envShowSecrets, "show-secrets", false, "print .env values instead of masking them")
}

type envEntry struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func runEnvInspect(cmd *cobra.Command, args []string) error {
	cfg := LoadConfig()

	inv, err := launcher.Prepare(cfg)
	if err != nil {
		return err
	}

	fromFile := make(map[string]bool, len(inv.EnvFileKeys))
	for _, k := range inv.EnvFileKeys {
		fromFile[k] = true
	}

	entries := make([]envEntry, 0, len(inv.Env))
	for _, kv := range inv.Env {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}

		entry := envEntry{Name: parts[0], Value: parts[1], Source: "inherited"}
		switch {
		case fromFile[entry.Name]:
			entry.Source = "env-file"
			if !envShowSecrets {
				entry.Value = "********"
			}
		case entry.Name == "VIRTUAL_ENV":
			entry.Source = "venv"
		case entry.Name == "PATH":
			entry.Source = "venv+inherited"
		}
		entries = append(entries, entry)
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("NAME", "VALUE", "SOURCE")

	for _, entry := range entries {
		table.Append(entry.Name, entry.Value, entry.Source)
	}

	table.Render()
	fmt.Printf("\nTotal variables: %d (%d from %s)\n", len(entries), len(inv.EnvFileKeys), cfg.EnvFile)

	return nil
}
