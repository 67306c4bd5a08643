package main

import (
	"github.com/spf13/cobra"

	"github.com/agrodyn/fieldsim/internal/config"
	"github.com/agrodyn/fieldsim/internal/render"
)

func scenariosCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List available scenario files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = config.GetPaths().Scenarios
			}
			found, err := config.DiscoverScenarios(dir)
			if err != nil {
				return err
			}

			out := render.Stdout()
			if len(found) == 0 {
				out.Println("no scenarios under %s", dir)
				return nil
			}

			out.Header("scenarios (%d)", len(found))
			for _, path := range found {
				s, err := config.LoadScenario(path)
				if err != nil {
					out.Item("%-20s (unreadable: %v)", path, err)
					continue
				}
				out.Item("%-20s %s", s.Name, s.Description)
				out.Item("  %s", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Scenario directory (default ~/.fieldsim/scenarios)")
	return cmd
}
