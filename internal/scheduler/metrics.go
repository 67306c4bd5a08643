package scheduler

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// Metrics summarizes a completed scheduling run.
type Metrics struct {
	TotalTasks          int                      `json:"total_tasks"`
	Makespan            int                      `json:"makespan"`
	ResourceUtilization map[ResourceType]float64 `json:"resource_utilization"`
	AgentUtilization    map[string]float64       `json:"agent_utilization"`
}

// ComputeMetrics derives makespan and utilization from the accepted
// assignments. Makespan is the end of the latest reservation; resource
// utilization is consumed over capacity; agent utilization is occupied
// slots over the horizon.
func (s *Scheduler) ComputeMetrics() Metrics {
	m := Metrics{
		TotalTasks:          len(s.assignments),
		ResourceUtilization: make(map[ResourceType]float64),
		AgentUtilization:    make(map[string]float64),
	}

	for _, a := range s.assignments {
		if end := a.Slot + a.Duration; end > m.Makespan {
			m.Makespan = end
		}
	}

	for resourceType, pool := range s.resources {
		if pool.MaxCapacity > 0 {
			consumed := pool.MaxCapacity - pool.Available
			m.ResourceUtilization[resourceType] = consumed / pool.MaxCapacity
		}
	}

	for agentID, agenda := range s.agendas {
		m.AgentUtilization[agentID] = float64(len(agenda)) / float64(s.horizon)
	}
	return m
}

// WriteSchedule renders the schedule as a plain-text report, assignments
// ordered by slot then agent.
func (s *Scheduler) WriteSchedule(w io.Writer) error {
	ordered := make([]Assignment, len(s.assignments))
	copy(ordered, s.assignments)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Slot != ordered[j].Slot {
			return ordered[i].Slot < ordered[j].Slot
		}
		return ordered[i].AgentID < ordered[j].AgentID
	})

	if _, err := fmt.Fprintf(w, "Schedule (%d tasks, horizon %d)\n", len(ordered), s.horizon); err != nil {
		return err
	}
	for _, a := range ordered {
		_, err := fmt.Fprintf(w, "  t=%-3d %-14s %-12s cell=(%d,%d) prio=%d dur=%d\n",
			a.Slot, a.AgentID, a.TaskID, a.Target.X, a.Target.Y, a.Priority, a.Duration)
		if err != nil {
			return err
		}
	}

	m := s.ComputeMetrics()
	if _, err := fmt.Fprintf(w, "Makespan: %d\n", m.Makespan); err != nil {
		return err
	}
	resourceTypes := make([]ResourceType, 0, len(m.ResourceUtilization))
	for resourceType := range m.ResourceUtilization {
		resourceTypes = append(resourceTypes, resourceType)
	}
	sort.Slice(resourceTypes, func(i, j int) bool { return resourceTypes[i] < resourceTypes[j] })
	for _, resourceType := range resourceTypes {
		if _, err := fmt.Fprintf(w, "Resource %s: %.1f%% used\n", resourceType, m.ResourceUtilization[resourceType]*100); err != nil {
			return err
		}
	}
	return nil
}

// ExportFile writes the schedule report to a file.
func (s *Scheduler) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export schedule: %w", err)
	}
	defer f.Close()
	if err := s.WriteSchedule(f); err != nil {
		return fmt.Errorf("export schedule: %w", err)
	}
	return nil
}
