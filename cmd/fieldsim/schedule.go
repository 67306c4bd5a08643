package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agrodyn/fieldsim/internal/config"
	"github.com/agrodyn/fieldsim/internal/scheduler"
)

func scheduleCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "schedule <scenario>",
		Short: "Plan a task batch against resource constraints",
		Long: `Load a scenario's task list and plan it with the batch scheduler.

Tasks are placed in priority order onto the scenario's agent roster,
first-fit across time slots, respecting resource pools. The resulting
schedule and its metrics print to stdout.

Example:
  fieldsim schedule scenarios/spring.yaml --out spring-schedule.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := config.LoadScenario(args[0])
			if err != nil {
				return err
			}
			spec := scenario.Schedule
			if len(spec.Tasks) == 0 {
				return fmt.Errorf("scenario %s has no schedule tasks", scenario.Name)
			}

			s := scheduler.New(spec.Horizon)
			for resourceType, capacity := range spec.Resources {
				s.AddResource(resourceType, capacity)
			}

			accepted := s.ScheduleTasks(spec.Tasks, spec.Agents)
			fmt.Printf("%s: scheduled %d of %d tasks\n\n",
				scenario.Name, len(accepted), len(spec.Tasks))
			if err := s.WriteSchedule(os.Stdout); err != nil {
				return err
			}

			if out != "" {
				if err := s.ExportFile(out); err != nil {
					return err
				}
				fmt.Printf("\nexported to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Export the schedule to a file")
	return cmd
}
