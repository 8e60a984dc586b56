package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Commands for inspecting the launcher configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Prints the configuration the launcher would use after merging
defaults, the config file, OTTLAUNCH_* environment variables and flags,
with relative paths resolved against the project directory.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().StringVarP(&configOutput, "output", "o", "text",
		"Output format: text, json, yaml")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := LoadConfig()
	cfg.Normalize()

	switch configOutput {
	case "json":
		output, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))

	case "yaml":
		output, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Print(string(output))

	case "text":
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Printf("Config file:  %s\n\n", used)
		}
		fmt.Printf("Project dir:  %s\n", cfg.ProjectDir)
		fmt.Printf("Env file:     %s\n", cfg.EnvFile)
		fmt.Printf("Virtualenv:   %s\n", cfg.VenvDir)
		fmt.Printf("Interpreter:  %s\n", cfg.Interpreter)
		fmt.Printf("Worker:       %s\n", cfg.WorkerScript)
		if len(cfg.WorkerArgs) > 0 {
			fmt.Printf("Worker args:  %s\n", strings.Join(cfg.WorkerArgs, " "))
		}
		fmt.Printf("Log file:     %s\n", cfg.LogFile)

	default:
		return fmt.Errorf("unknown output format: %s (use text, json, or yaml)", configOutput)
	}

	return nil
}
