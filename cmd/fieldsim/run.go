package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/agrodyn/fieldsim/internal/config"
	"github.com/agrodyn/fieldsim/internal/render"
	"github.com/agrodyn/fieldsim/internal/sim"
	"github.com/agrodyn/fieldsim/internal/telemetry"
)

func runCmd() *cobra.Command {
	var (
		ticks   int
		width   int
		height  int
		seed    int64
		every   int
		record  bool
		metrics bool
		scen    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation headless",
		Long: `Run the simulation for a fixed number of ticks and print a report.

Examples:
  fieldsim run                         # defaults: 10x10 field, 100 ticks
  fieldsim run --ticks 500 --seed 7    # longer deterministic run
  fieldsim run --every 10              # print the field every 10 ticks
  fieldsim run --record                # persist snapshots to ~/.fieldsim
  fieldsim run --scenario spring.yaml  # load parameters from a scenario`,
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
			if ticks == 0 {
				ticks = env.Ticks
			}

			if scen != "" {
				scenario, err := config.LoadScenario(scen)
				if err != nil {
					return err
				}
				cfg = scenario.Sim
				if scenario.Ticks > 0 {
					ticks = scenario.Ticks
				}
			}

			var recorder *telemetry.Recorder
			runID := ""
			if record {
				paths := config.GetPaths()
				if err := config.EnsureDir(paths.Runs); err != nil {
					return err
				}
				var err error
				recorder, err = telemetry.OpenRecorder(paths.DBFile)
				if err != nil {
					return err
				}
				defer recorder.Close()
				if runID, err = recorder.StartRun(cfg); err != nil {
					return err
				}
			}

			var server *telemetry.Server
			if metrics {
				server = telemetry.NewServer(env.MetricsAddr)
				server.Start()
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), time.Second)
					defer cancel()
					server.Stop(ctx)
				}()
			}

			out := render.Stdout()
			engine := sim.New(cfg)
			for i := 0; i < ticks; i++ {
				engine.Step()
				snap := engine.Snapshot()

				if recorder != nil {
					if err := recorder.RecordSnapshot(runID, snap); err != nil {
						return err
					}
				}
				if server != nil {
					server.Metrics.Observe(snap)
				}
				if every > 0 && engine.Tick()%every == 0 {
					out.Header("tick %d", engine.Tick())
					out.Field(engine.Grid(), snap.Agents)
					out.Summary(snap)
					out.Line()
				}
			}

			snap := engine.Snapshot()
			out.Header("final state after %d ticks", ticks)
			out.Field(engine.Grid(), snap.Agents)
			out.Line()
			out.Summary(snap)
			out.Section("cells")
			for _, state := range snapStates(snap) {
				out.Item("%-17s %d", state, snap.CellCounts[state])
			}
			if runID != "" {
				out.Line()
				out.Println("recorded run %s", runID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 0, "Number of ticks to run")
	cmd.Flags().IntVar(&width, "width", 0, "Field width in cells")
	cmd.Flags().IntVar(&height, "height", 0, "Field height in cells")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed")
	cmd.Flags().IntVar(&every, "every", 0, "Print the field every N ticks")
	cmd.Flags().BoolVar(&record, "record", false, "Record snapshots to the run database")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Serve Prometheus metrics while running")
	cmd.Flags().StringVar(&scen, "scenario", "", "Scenario file to load")
	return cmd
}

// snapStates lists the snapshot's cell states in a stable display order.
func snapStates(snap sim.Snapshot) []string {
	order := []string{
		"initial", "ploughed", "sown", "growing",
		"need_water", "healthy", "diseased", "ready_to_harvest",
	}
	out := make([]string, 0, len(order))
	for _, s := range order {
		if _, ok := snap.CellCounts[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
