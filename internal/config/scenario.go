package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/agrodyn/fieldsim/internal/bus"
	"github.com/agrodyn/fieldsim/internal/scheduler"
	"github.com/agrodyn/fieldsim/internal/sim"
)

// Scenario is a declarative run definition loaded from YAML: simulation
// parameters plus an optional batch schedule.
type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Sim         sim.Config   `yaml:"sim"`
	Ticks       int          `yaml:"ticks"`
	Schedule    ScheduleSpec `yaml:"schedule"`
}

// ScheduleSpec is the batch-scheduler section of a scenario.
type ScheduleSpec struct {
	Horizon   int                                `yaml:"horizon"`
	Resources map[scheduler.ResourceType]float64 `yaml:"resources"`
	Agents    map[bus.WorkerType][]string        `yaml:"agents"`
	Tasks     []scheduler.TaskSpec               `yaml:"tasks"`
}

// LoadScenario reads and parses one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = base[:len(base)-len(filepath.Ext(base))]
	}
	return &s, nil
}

// DiscoverScenarios finds every scenario file under root, recursively.
// Results come back sorted for stable listings.
func DiscoverScenarios(root string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*.{yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("scan scenarios: %w", err)
	}
	sort.Strings(matches)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.Join(root, m))
	}
	return out, nil
}
