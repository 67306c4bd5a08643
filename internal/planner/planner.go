package planner

import (
	"fmt"

	"github.com/agrodyn/fieldsim/internal/bus"
	"github.com/agrodyn/fieldsim/internal/logging"
	"github.com/agrodyn/fieldsim/internal/world"
)

// Tunables for per-tick planning bursts. Explicit constants keep tick
// outputs reproducible.
const (
	DefaultMaxTasksPerType = 10
	DefaultAssignBurst     = 20
)

// Priority scores per cell state, highest first.
const (
	PriorityDiseased      = 100
	PriorityNeedWaterHeat = 95
	PriorityNeedWater     = 90
	PriorityHarvest       = 80
	PrioritySown          = 70
	PrioritySownRain      = 50
	PriorityPloughed      = 60
	PriorityInitial       = 50
	PriorityDiseaseAlert  = 95
)

// Planner is the central coordinator. One instance owns all tasks.
type Planner struct {
	ID string

	grid    *world.Grid
	weather *world.Weather
	channel *bus.Channel
	log     *logging.Logger

	knowledge map[world.Position]*CellKnowledge
	queue     taskQueue
	registry  map[bus.WorkerType]string
	active    map[string]*Task
	taskSeq   int
	tick      int

	maxTasksPerType int
	assignBurst     int
}

// New creates a planner bound to the world accessor and channel, seeds
// its knowledge base, and subscribes to worker feedback topics.
func New(id string, grid *world.Grid, weather *world.Weather, channel *bus.Channel) *Planner {
	p := &Planner{
		ID:              id,
		grid:            grid,
		weather:         weather,
		channel:         channel,
		log:             logging.New("planner"),
		knowledge:       make(map[world.Position]*CellKnowledge),
		registry:        make(map[bus.WorkerType]string),
		active:          make(map[string]*Task),
		maxTasksPerType: DefaultMaxTasksPerType,
		assignBurst:     DefaultAssignBurst,
	}

	for x := 0; x < grid.Width; x++ {
		for y := 0; y < grid.Height; y++ {
			pos := world.Position{X: x, Y: y}
			attrs := grid.CellAttributes(pos)
			p.knowledge[pos] = &CellKnowledge{
				Position:    pos,
				State:       grid.CellStateAt(pos),
				WaterLevel:  attrs[world.AttrWaterLevel],
				Growth:      attrs[world.AttrGrowth],
				DiseaseProb: attrs[world.AttrDiseaseProb],
			}
		}
	}

	channel.Subscribe(bus.TopicTaskCompleted, id, p.handleCompletion)
	channel.Subscribe(bus.TopicTaskFailed, id, p.handleFailure)
	channel.Subscribe(bus.TopicAlertDisease, id, p.handleDiseaseAlert)
	return p
}

// RegisterWorker records the worker that handles a specialization. The
// default topology has exactly one worker per type.
func (p *Planner) RegisterWorker(workerType bus.WorkerType, workerID string) {
	p.registry[workerType] = workerID
}

// Plan runs one planning cycle: refresh knowledge from the world, score
// cells into new tasks, then assign the highest-priority tasks.
func (p *Planner) Plan(tick int) {
	p.tick = tick
	p.refreshKnowledge()
	p.scoreCells()
	p.assignPending()
}

// refreshKnowledge rebuilds every cell's snapshot from the accessor.
func (p *Planner) refreshKnowledge() {
	for pos, k := range p.knowledge {
		attrs := p.grid.CellAttributes(pos)
		k.State = p.grid.CellStateAt(pos)
		k.WaterLevel = attrs[world.AttrWaterLevel]
		k.Growth = attrs[world.AttrGrowth]
		k.DiseaseProb = attrs[world.AttrDiseaseProb]
		k.LastUpdated = p.tick
	}
}

// scoreCells walks the grid in coordinate order and creates tasks for
// cells without pending work, capped per task type per tick.
func (p *Planner) scoreCells() {
	counts := make(map[bus.TaskType]int)
	for _, task := range p.active {
		counts[task.Type]++
	}

	rain := p.weather.RainForecast
	heat := p.weather.HeatStress()

	for x := 0; x < p.grid.Width; x++ {
		for y := 0; y < p.grid.Height; y++ {
			k := p.knowledge[world.Position{X: x, Y: y}]
			if len(k.PendingTasks) > 0 {
				continue
			}

			var taskType bus.TaskType
			priority := 0

			switch k.State {
			case world.StateDiseased:
				taskType = bus.TaskWater
				priority = PriorityDiseased
			case world.StateNeedWater:
				// Rain takes care of thirsty crops unless heat stress
				// can't wait for it.
				if rain && !heat {
					continue
				}
				taskType = bus.TaskWater
				priority = PriorityNeedWater
				if heat {
					priority = PriorityNeedWaterHeat
				}
			case world.StateReadyToHarvest:
				taskType = bus.TaskHarvest
				priority = PriorityHarvest
			case world.StateSown:
				taskType = bus.TaskWater
				priority = PrioritySown
				if rain {
					priority = PrioritySownRain
				}
			case world.StatePloughed:
				taskType = bus.TaskSow
				priority = PriorityPloughed
			case world.StateInitial:
				taskType = bus.TaskPlough
				priority = PriorityInitial
			default:
				continue
			}

			if counts[taskType] >= p.maxTasksPerType {
				continue
			}
			p.createTask(taskType, k.Position, priority)
			counts[taskType]++
		}
	}
}

// createTask mints a task, queues it, and marks the cell as pending.
func (p *Planner) createTask(taskType bus.TaskType, target world.Position, priority int) *Task {
	p.taskSeq++
	task := &Task{
		ID:        fmt.Sprintf("task_%d", p.taskSeq),
		Type:      taskType,
		Target:    target,
		Priority:  priority,
		Status:    TaskPending,
		CreatedAt: p.tick,
	}
	p.queue.push(&queueItem{priority: priority, seq: p.taskSeq, task: task})
	if k, ok := p.knowledge[target]; ok {
		k.PendingTasks = append(k.PendingTasks, task.ID)
	}
	return task
}

// assignPending pops up to the assignment burst from the queue and offers
// each task to the registered worker of the matching type. Tasks with no
// registered worker go back on the queue for the next cycle.
func (p *Planner) assignPending() {
	var unassignable []*queueItem
	for i := 0; i < p.assignBurst; i++ {
		item := p.queue.pop()
		if item == nil {
			break
		}
		task := item.task

		workerType := bus.WorkerTypeFor(task.Type)
		workerID, ok := p.registry[workerType]
		if !ok {
			unassignable = append(unassignable, item)
			continue
		}

		task.Status = TaskAssigned
		task.AssignedTo = workerID
		p.active[task.ID] = task

		p.channel.Publish(bus.NewMessage(bus.TopicTaskAssigned, p.ID, p.tick, bus.AssignmentPayload{
			TaskID:     task.ID,
			TaskType:   task.Type,
			WorkerType: workerType,
			Target:     task.Target,
			Priority:   task.Priority,
		}))
	}
	for _, item := range unassignable {
		p.queue.push(item)
	}
}

// handleCompletion closes out a finished task.
func (p *Planner) handleCompletion(msg bus.Message) {
	report, ok := msg.AsCompletion()
	if !ok {
		return
	}
	task, ok := p.active[report.TaskID]
	if !ok {
		return
	}
	task.Status = TaskCompleted
	task.CompletedAt = msg.Tick
	p.clearPending(task)
	delete(p.active, report.TaskID)
}

// handleFailure drops an abandoned task so its cell can be rescored next
// tick. No retry is issued here.
func (p *Planner) handleFailure(msg bus.Message) {
	report, ok := msg.AsFailure()
	if !ok {
		return
	}
	task, ok := p.active[report.TaskID]
	if !ok {
		return
	}
	task.Status = TaskFailed
	p.clearPending(task)
	delete(p.active, report.TaskID)
	p.log.WithTick(msg.Tick).Warn("task_failed", map[string]interface{}{
		"task_id": report.TaskID,
		"reason":  report.Reason,
	}, nil)
}

// handleDiseaseAlert fast-tracks treatment for a flagged cell. The alert
// path bypasses the per-tick creation cap.
func (p *Planner) handleDiseaseAlert(msg bus.Message) {
	alert, ok := msg.AsDiseaseAlert()
	if !ok {
		return
	}
	p.createTask(bus.TaskWater, alert.Cell, PriorityDiseaseAlert)
}

func (p *Planner) clearPending(task *Task) {
	k, ok := p.knowledge[task.Target]
	if !ok {
		return
	}
	for i, id := range k.PendingTasks {
		if id == task.ID {
			k.PendingTasks = append(k.PendingTasks[:i], k.PendingTasks[i+1:]...)
			return
		}
	}
}

// ActiveTasks returns a copy of the currently assigned tasks.
func (p *Planner) ActiveTasks() []Task {
	out := make([]Task, 0, len(p.active))
	for _, t := range p.active {
		out = append(out, *t)
	}
	return out
}

// ActiveTaskCount returns how many tasks are assigned and in flight.
func (p *Planner) ActiveTaskCount() int { return len(p.active) }

// QueuedTaskCount returns how many tasks await assignment.
func (p *Planner) QueuedTaskCount() int { return p.queue.Len() }

// Knowledge returns the planner's belief about one cell, for inspection.
func (p *Planner) Knowledge(pos world.Position) (CellKnowledge, bool) {
	k, ok := p.knowledge[pos]
	if !ok {
		return CellKnowledge{}, false
	}
	return *k, true
}
