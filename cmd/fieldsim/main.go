// Package main provides the fieldsim CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/agrodyn/fieldsim/internal/config"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "fieldsim",
		Short: "Multi-agent farm simulation",
		Long: `fieldsim: a grid-based agricultural simulation.

A master planner watches the field, turns crop states into prioritized
tasks, and assigns them to specialized worker agents over a message
channel. A drone monitor scans for disease. An independent batch
scheduler plans task lists against resource constraints.

Use 'fieldsim run' for a headless run, 'fieldsim dashboard' for the
live TUI.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// ANSI color only on a real terminal, unless forced off.
			if config.Env().NoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
				color.NoColor = true
			}
		},
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(scenariosCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("fieldsim " + version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
