// Package agent implements the autonomous field workers. Each worker runs
// a small state machine per tick: accept a task offer, walk to the target,
// apply the task's effect to the cell, and report back on the channel.
package agent

import (
	"github.com/agrodyn/fieldsim/internal/bus"
	"github.com/agrodyn/fieldsim/internal/logging"
	"github.com/agrodyn/fieldsim/internal/pathfind"
	"github.com/agrodyn/fieldsim/internal/world"
)

// Status is the worker lifecycle state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusMoving    Status = "moving"
	StatusWorking   Status = "working"
	StatusCompleted Status = "completed"
)

// MoveBurst is how many path steps a worker consumes per tick.
const MoveBurst = 3

type activeTask struct {
	id       string
	taskType bus.TaskType
	target   world.Position
	priority int
}

// Worker is a single-task executor of one specialization. It holds at most
// one task at a time and only accepts offers while idle.
type Worker struct {
	ID   string
	Type bus.WorkerType

	grid    *world.Grid
	weather *world.Weather
	channel *bus.Channel
	log     *logging.Logger

	status Status
	pos    world.Position
	task   *activeTask
	path   []world.Position
}

// NewWorker creates a worker and subscribes it to task assignments.
func NewWorker(id string, workerType bus.WorkerType, start world.Position, grid *world.Grid, weather *world.Weather, channel *bus.Channel) *Worker {
	w := &Worker{
		ID:      id,
		Type:    workerType,
		grid:    grid,
		weather: weather,
		channel: channel,
		log:     logging.New("agent").WithAgent(id),
		status:  StatusIdle,
		pos:     start,
	}
	channel.Subscribe(bus.TopicTaskAssigned, id, w.receiveTask)
	return w
}

// Status returns the current lifecycle state.
func (w *Worker) CurrentStatus() Status { return w.status }

// Position returns the worker's grid position.
func (w *Worker) Position() world.Position { return w.pos }

// TaskID returns the ID of the task in progress, or "" while idle.
func (w *Worker) TaskID() string {
	if w.task == nil {
		return ""
	}
	return w.task.id
}

// receiveTask handles a task offer from the channel. Offers for other
// worker types, or arriving while busy, are ignored so the planner can
// re-offer.
func (w *Worker) receiveTask(msg bus.Message) {
	offer, ok := msg.AsAssignment()
	if !ok || offer.WorkerType != w.Type {
		return
	}
	if w.status != StatusIdle {
		return
	}

	path := pathfind.FindPath(w.pos, offer.Target, w.grid.Width, w.grid.Height, nil)
	if len(path) == 0 {
		// Unreachable target: abandon the offer and stay idle.
		w.channel.Publish(bus.NewMessage(bus.TopicTaskFailed, w.ID, msg.Tick, bus.FailurePayload{
			TaskID: offer.TaskID,
			Cell:   offer.Target,
			Reason: "no_path",
		}))
		w.log.WithTick(msg.Tick).Warn("path_not_found", map[string]interface{}{
			"task_id": offer.TaskID,
		}, nil)
		return
	}
	if path[0] == w.pos {
		path = path[1:]
	}

	w.task = &activeTask{
		id:       offer.TaskID,
		taskType: offer.TaskType,
		target:   offer.Target,
		priority: offer.Priority,
	}
	w.path = path
	w.status = StatusMoving
}

// Step advances the state machine by one tick.
func (w *Worker) Step(tick int) {
	switch w.status {
	case StatusIdle:
		// Waiting for an offer.

	case StatusMoving:
		for i := 0; i < MoveBurst && len(w.path) > 0; i++ {
			w.pos = w.path[0]
			w.path = w.path[1:]
			if w.pos == w.task.target {
				break
			}
		}
		if len(w.path) == 0 || w.pos == w.task.target {
			w.status = StatusWorking
		}

	case StatusWorking:
		done := w.execute(tick)
		w.status = StatusCompleted
		// Completion is reported and the worker returns to idle within
		// the same tick.
		if done {
			w.reportCompletion(tick)
		}
		w.task = nil
		w.path = nil
		w.status = StatusIdle
	}
}

// reportCompletion publishes a status report after a successful execution.
// The task-specific completion message is published by execute itself.
func (w *Worker) reportCompletion(tick int) {
	w.channel.Publish(bus.NewMessage(bus.TopicStatusUpdate, w.ID, tick, bus.StatusPayload{
		AgentID:   w.ID,
		AgentType: w.Type,
		Position:  w.pos,
		Status:    string(StatusCompleted),
		TaskID:    w.task.id,
		Note:      string(w.Type) + " agent completed task",
	}))
}
