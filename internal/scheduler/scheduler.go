// Package scheduler is a batch planning engine, decoupled from the live
// tick loop. It allocates a task list to an agent roster across discrete
// time slots under depletable resource constraints: first-fit in priority
// order, no backtracking, no preemption.
package scheduler

import (
	"sort"

	"github.com/agrodyn/fieldsim/internal/bus"
	"github.com/agrodyn/fieldsim/internal/world"
)

// ResourceType names a constrained resource pool.
type ResourceType string

const (
	ResourceWater ResourceType = "water"
	ResourceFuel  ResourceType = "fuel"
	ResourceTools ResourceType = "tools"
	ResourceTime  ResourceType = "time"
)

// Resource is a depletable quantity. Consumption is all-or-nothing;
// replenishment never exceeds capacity.
type Resource struct {
	Type        ResourceType
	Available   float64
	MaxCapacity float64
}

// Consume debits amount if enough remains.
func (r *Resource) Consume(amount float64) bool {
	if r.Available < amount {
		return false
	}
	r.Available -= amount
	return true
}

// Replenish restores amount, capped at capacity.
func (r *Resource) Replenish(amount float64) {
	r.Available += amount
	if r.Available > r.MaxCapacity {
		r.Available = r.MaxCapacity
	}
}

// TaskSpec describes one task to schedule.
type TaskSpec struct {
	ID        string                   `yaml:"id" json:"task_id"`
	Type      bus.TaskType             `yaml:"type" json:"task_type"`
	Target    world.Position           `yaml:"target" json:"target_cell"`
	Priority  int                      `yaml:"priority" json:"priority"`
	Duration  int                      `yaml:"duration" json:"duration"`
	Resources map[ResourceType]float64 `yaml:"resources" json:"resources,omitempty"`
}

// Assignment records a task placed on an agent at a time slot.
type Assignment struct {
	TaskID    string                   `json:"task_id"`
	AgentID   string                   `json:"agent_id"`
	AgentType bus.WorkerType           `json:"agent_type"`
	Slot      int                      `json:"time_slot"`
	Duration  int                      `json:"duration"`
	Target    world.Position           `json:"target_cell"`
	Resources map[ResourceType]float64 `json:"resources,omitempty"`
	Priority  int                      `json:"priority"`
}

// DefaultHorizon is the number of time slots planned over.
const DefaultHorizon = 100

// Scheduler holds resource pools, agent reservations, and the accepted
// assignments.
type Scheduler struct {
	horizon     int
	resources   map[ResourceType]*Resource
	assignments []Assignment
	agendas     map[string]map[int]bool
}

// New creates a scheduler with the default resource pools:
// water 1000, fuel 500, tools 5.
func New(horizon int) *Scheduler {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	s := &Scheduler{
		horizon:   horizon,
		resources: make(map[ResourceType]*Resource),
		agendas:   make(map[string]map[int]bool),
	}
	s.AddResource(ResourceWater, 1000)
	s.AddResource(ResourceFuel, 500)
	s.AddResource(ResourceTools, 5)
	return s
}

// Horizon returns the planning horizon in slots.
func (s *Scheduler) Horizon() int { return s.horizon }

// AddResource adds or replaces a resource pool at full capacity.
func (s *Scheduler) AddResource(resourceType ResourceType, capacity float64) {
	s.resources[resourceType] = &Resource{
		Type:        resourceType,
		Available:   capacity,
		MaxCapacity: capacity,
	}
}

// AgentAvailable reports whether an agent has no reservation overlapping
// [slot, slot+duration).
func (s *Scheduler) AgentAvailable(agentID string, slot, duration int) bool {
	agenda := s.agendas[agentID]
	for t := slot; t < slot+duration; t++ {
		if agenda[t] {
			return false
		}
	}
	return true
}

func (s *Scheduler) resourcesAvailable(requirements map[ResourceType]float64) bool {
	for resourceType, amount := range requirements {
		pool, ok := s.resources[resourceType]
		if !ok || pool.Available < amount {
			return false
		}
	}
	return true
}

// AssignTask attempts to place a task on an agent at a slot. Slot
// reservation and resource debit happen together or not at all.
func (s *Scheduler) AssignTask(task TaskSpec, agentID string, agentType bus.WorkerType, slot int) bool {
	duration := task.Duration
	if duration <= 0 {
		duration = 1
	}
	if !s.AgentAvailable(agentID, slot, duration) {
		return false
	}
	if !s.resourcesAvailable(task.Resources) {
		return false
	}

	agenda := s.agendas[agentID]
	if agenda == nil {
		agenda = make(map[int]bool)
		s.agendas[agentID] = agenda
	}
	for t := slot; t < slot+duration; t++ {
		agenda[t] = true
	}
	for resourceType, amount := range task.Resources {
		s.resources[resourceType].Consume(amount)
	}

	s.assignments = append(s.assignments, Assignment{
		TaskID:    task.ID,
		AgentID:   agentID,
		AgentType: agentType,
		Slot:      slot,
		Duration:  duration,
		Target:    task.Target,
		Resources: task.Resources,
		Priority:  task.Priority,
	})
	return true
}

// ScheduleTasks places tasks in priority order (ties keep submission
// order) onto the roster: for each task, the first agent of the required
// type with a free slot wins. Unschedulable tasks are skipped.
func (s *Scheduler) ScheduleTasks(tasks []TaskSpec, roster map[bus.WorkerType][]string) []Assignment {
	sorted := make([]TaskSpec, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	var accepted []Assignment
	for _, task := range sorted {
		agentType := bus.WorkerTypeFor(task.Type)
		agents, ok := roster[agentType]
		if !ok {
			continue
		}

		duration := task.Duration
		if duration <= 0 {
			duration = 1
		}

		assigned := false
		for _, agentID := range agents {
			for slot := 0; slot <= s.horizon-duration; slot++ {
				if s.AssignTask(task, agentID, agentType, slot) {
					accepted = append(accepted, s.assignments[len(s.assignments)-1])
					assigned = true
					break
				}
			}
			if assigned {
				break
			}
		}
	}
	return accepted
}

// Assignments returns all accepted assignments.
func (s *Scheduler) Assignments() []Assignment {
	out := make([]Assignment, len(s.assignments))
	copy(out, s.assignments)
	return out
}

// Reset clears assignments and reservations and refills every pool.
func (s *Scheduler) Reset() {
	s.assignments = nil
	s.agendas = make(map[string]map[int]bool)
	for _, pool := range s.resources {
		pool.Available = pool.MaxCapacity
	}
}
