package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agrodyn/fieldsim/internal/config"
	"github.com/agrodyn/fieldsim/internal/sim"
	"github.com/agrodyn/fieldsim/internal/tui"
)

func dashboardCmd() *cobra.Command {
	var (
		width    int
		height   int
		seed     int64
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Watch the simulation live in a TUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.Env()
			cfg := sim.Config{Width: width, Height: height, Seed: seed}
			if cfg.Width == 0 {
				cfg.Width = env.GridWidth
			}
			if cfg.Height == 0 {
				cfg.Height = env.GridHeight
			}
			if cfg.Seed == 0 {
				cfg.Seed = env.Seed
			}
			return tui.Run(cfg, interval)
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Field width in cells")
	cmd.Flags().IntVar(&height, "height", 0, "Field height in cells")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed")
	cmd.Flags().DurationVar(&interval, "interval", 300*time.Millisecond, "Tick interval")
	return cmd
}
