package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show running workers and the log file state",
	Long: `Scans the process table for live worker instances and reports the log
file's size and last write time.

The launcher takes no lock, so if cron fires again before the previous
worker has finished, two workers will interleave writes in the same log
file. This command makes that situation visible.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type workerProcess struct {
	PID       int32  `json:"pid"`
	StartedAt string `json:"started_at"`
	Cmdline   string `json:"cmdline"`
}

type statusReport struct {
	Workers     []workerProcess `json:"workers"`
	LogFile     string          `json:"log_file"`
	LogSize     int64           `json:"log_size_bytes"`
	LogModified string          `json:"log_modified,omitempty"`
	LogExists   bool            `json:"log_exists"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := LoadConfig()
	cfg.Normalize()

	script := filepath.Base(cfg.WorkerScript)

	procs, err := process.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	report := statusReport{
		Workers: []workerProcess{},
		LogFile: cfg.LogFile,
	}

	for _, p := range procs {
		cmdline, err := p.Cmdline()
		if err != nil || cmdline == "" {
			continue
		}
		if !strings.Contains(cmdline, script) {
			continue
		}
		if int(p.Pid) == os.Getpid() {
			continue
		}

		started := ""
		if ms, err := p.CreateTime(); err == nil {
			started = time.UnixMilli(ms).Format(time.RFC3339)
		}

		report.Workers = append(report.Workers, workerProcess{
			PID:       p.Pid,
			StartedAt: started,
			Cmdline:   cmdline,
		})
	}

	if info, err := os.Stat(cfg.LogFile); err == nil {
		report.LogExists = true
		report.LogSize = info.Size()
		report.LogModified = info.ModTime().Format(time.RFC3339)
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(report.Workers) == 0 {
		fmt.Println("No worker running")
	} else {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("PID", "STARTED", "COMMAND")

		for _, w := range report.Workers {
			cmdline := w.Cmdline
			if len(cmdline) > 80 {
				cmdline = cmdline[:77] + "..."
			}
			table.Append(fmt.Sprintf("%d", w.PID), w.StartedAt, cmdline)
		}

		table.Render()
		if len(report.Workers) > 1 {
			fmt.Println("\nWARNING: multiple workers are interleaving writes in the log file")
		}
	}

	if report.LogExists {
		fmt.Printf("\nLog file: %s (%d bytes, last write %s)\n", report.LogFile, report.LogSize, report.LogModified)
	} else {
		fmt.Printf("\nLog file: %s (not created yet)\n", report.LogFile)
	}

	return nil
}
