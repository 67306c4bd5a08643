// Package planner implements the master planner: it keeps a per-cell
// knowledge snapshot, scores cells into prioritized tasks, and assigns
// them to registered workers over the channel.
package planner

import (
	"github.com/agrodyn/fieldsim/internal/bus"
	"github.com/agrodyn/fieldsim/internal/world"
)

// TaskStatus represents the state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskAssigned  TaskStatus = "assigned"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Task is one unit of assignable work targeting a cell. The planner owns
// tasks; workers only ever see the assignment payload.
type Task struct {
	ID          string       `json:"task_id"`
	Type        bus.TaskType `json:"task_type"`
	Target      world.Position `json:"target_cell"`
	Priority    int          `json:"priority"`
	Status      TaskStatus   `json:"status"`
	AssignedTo  string       `json:"assigned_to,omitempty"`
	CreatedAt   int          `json:"created_at"`
	CompletedAt int          `json:"completed_at,omitempty"`
}

// CellKnowledge is the planner's cached belief about one cell. It is
// rebuilt from the world accessor once per tick, before scoring; the
// planner never reads the grid directly while scoring.
type CellKnowledge struct {
	Position     world.Position
	State        world.CellState
	WaterLevel   float64
	Growth       float64
	DiseaseProb  float64
	LastUpdated  int
	PendingTasks []string
}
