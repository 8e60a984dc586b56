package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ottlaunch/pkg/launcher"
	"ottlaunch/pkg/logging"
)

var (
	cfgFile      string
	outputFormat string

	projectDir   string
	envFile      string
	venvDir      string
	interpreter  string
	workerScript string
	logFile      string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ottlaunch",
	Short: "Cron launcher for the OTT streaming content worker",
	Long: `ottlaunch prepares an execution environment (working directory,
environment variables from a .env file, a Python virtualenv) and runs the
streaming-content worker once, appending its combined stdout/stderr to a
log file. It exits with the worker's own exit code, so cron failure
visibility works unchanged.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ottlaunch/ottlaunch.yaml or ./ottlaunch.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")

	rootCmd.PersistentFlags().StringVar(&projectDir, "project-dir", "", "worker project directory")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file with KEY=VALUE entries (default .env in project dir)")
	rootCmd.PersistentFlags().StringVar(&venvDir, "venv-dir", "", "virtualenv directory (default venv in project dir)")
	rootCmd.PersistentFlags().StringVar(&interpreter, "interpreter", "", "interpreter name inside the virtualenv (default python3)")
	rootCmd.PersistentFlags().StringVar(&workerScript, "worker", "", "worker script to run")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "file the worker's output is appended to")

	rootCmd.PersistentFlags().String("log-level", "info", "launcher log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit launcher logs as JSON")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search $HOME/.ottlaunch and the current directory
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".ottlaunch"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("ottlaunch")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("OTTLAUNCH")
	viper.AutomaticEnv() // read in environment variables that match

	viper.BindPFlag("project_dir", rootCmd.PersistentFlags().Lookup("project-dir"))
	viper.BindPFlag("env_file", rootCmd.PersistentFlags().Lookup("env-file"))
	viper.BindPFlag("venv_dir", rootCmd.PersistentFlags().Lookup("venv-dir"))
	viper.BindPFlag("interpreter", rootCmd.PersistentFlags().Lookup("interpreter"))
	viper.BindPFlag("worker", rootCmd.PersistentFlags().Lookup("worker"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

// LoadConfig builds the launcher config from defaults, config file,
// OTTLAUNCH_* environment variables and flags, in ascending precedence
func LoadConfig() *launcher.Config {
	cfg := launcher.DefaultConfig()

	if v := viper.GetString("project_dir"); v != "" {
		cfg.ProjectDir = v
	}
	if v := viper.GetString("env_file"); v != "" {
		cfg.EnvFile = v
	}
	if v := viper.GetString("venv_dir"); v != "" {
		cfg.VenvDir = v
	}
	if v := viper.GetString("interpreter"); v != "" {
		cfg.Interpreter = v
	}
	if v := viper.GetString("worker"); v != "" {
		cfg.WorkerScript = v
	}
	if v := viper.GetStringSlice("worker_args"); len(v) > 0 {
		cfg.WorkerArgs = v
	}
	if v := viper.GetString("log_file"); v != "" {
		cfg.LogFile = v
	}

	return cfg
}

// NewLogger builds the launcher's own diagnostic logger from config
func NewLogger() *logging.Logger {
	level := logging.ParseLevel(viper.GetString("log_level"))
	return logging.NewLogger(level, viper.GetBool("log_json"))
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}
