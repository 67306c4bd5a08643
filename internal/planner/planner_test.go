package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrodyn/fieldsim/internal/bus"
	"github.com/agrodyn/fieldsim/internal/world"
)

func newTestPlanner(width, height int) (*Planner, *world.Grid, *world.Weather, *bus.Channel) {
	grid := world.NewGrid(width, height)
	weather := world.NewWeather()
	channel := bus.NewChannel()
	p := New("master", grid, weather, channel)
	return p, grid, weather, channel
}

func collectAssignments(c *bus.Channel) *[]bus.AssignmentPayload {
	var out []bus.AssignmentPayload
	c.Subscribe(bus.TopicTaskAssigned, "collector", func(m bus.Message) {
		if a, ok := m.AsAssignment(); ok {
			out = append(out, a)
		}
	})
	return &out
}

func TestQueueOrdersByPriorityThenInsertion(t *testing.T) {
	var q taskQueue
	for i, prio := range []int{30, 90, 90, 10} {
		q.push(&queueItem{priority: prio, seq: i + 1, task: &Task{ID: string(rune('a' + i))}})
	}

	var got []int
	var ids []string
	for q.Len() > 0 {
		item := q.pop()
		got = append(got, item.priority)
		ids = append(ids, item.task.ID)
	}

	assert.Equal(t, []int{90, 90, 30, 10}, got)
	// The two 90s keep submission order.
	assert.Equal(t, "b", ids[0])
	assert.Equal(t, "c", ids[1])
}

func TestPlanAssignsPloughTasksToRegisteredWorker(t *testing.T) {
	p, _, _, channel := newTestPlanner(3, 3)
	p.RegisterWorker(bus.WorkerPloughing, "ploughing-1")
	assignments := collectAssignments(channel)

	p.Plan(1)
	channel.Flush()

	// 9 initial cells fit under both the creation cap and the burst.
	require.Len(t, *assignments, 9)
	for _, a := range *assignments {
		assert.Equal(t, bus.TaskPlough, a.TaskType)
		assert.Equal(t, bus.WorkerPloughing, a.WorkerType)
	}
	assert.Equal(t, 9, p.ActiveTaskCount())
	for _, task := range p.ActiveTasks() {
		assert.Equal(t, "ploughing-1", task.AssignedTo)
	}
}

func TestCreationCapPerType(t *testing.T) {
	p, _, _, _ := newTestPlanner(5, 5) // 25 initial cells
	p.RegisterWorker(bus.WorkerPloughing, "ploughing-1")

	p.Plan(1)

	// Only 10 plough tasks may be created in one tick.
	assert.Equal(t, DefaultMaxTasksPerType, p.ActiveTaskCount()+p.QueuedTaskCount())
}

func TestWeatherGatingSkipsWateringBeforeRain(t *testing.T) {
	p, grid, weather, _ := newTestPlanner(2, 2)
	p.RegisterWorker(bus.WorkerWatering, "watering-1")

	cell := world.Position{X: 0, Y: 0}
	grid.SetCellState(cell, world.StateNeedWater)
	for _, pos := range []world.Position{{X: 1}, {Y: 1}, {X: 1, Y: 1}} {
		grid.SetCellState(pos, world.StateGrowing) // keep other cells out of scoring
	}

	weather.RainForecast = true
	weather.Temperature = 30 // no heat stress

	p.Plan(1)

	assert.Equal(t, 0, p.ActiveTaskCount())
	assert.Equal(t, 0, p.QueuedTaskCount())
}

func TestHeatStressOverridesRainGate(t *testing.T) {
	p, grid, weather, channel := newTestPlanner(1, 1)
	p.RegisterWorker(bus.WorkerWatering, "watering-1")
	assignments := collectAssignments(channel)

	grid.SetCellState(world.Position{}, world.StateNeedWater)
	weather.RainForecast = true
	weather.Temperature = 34

	p.Plan(1)
	channel.Flush()

	require.Len(t, *assignments, 1)
	assert.Equal(t, PriorityNeedWaterHeat, (*assignments)[0].Priority)
}

func TestRainLowersSownPriority(t *testing.T) {
	p, grid, weather, channel := newTestPlanner(1, 1)
	p.RegisterWorker(bus.WorkerWatering, "watering-1")
	assignments := collectAssignments(channel)

	grid.SetCellState(world.Position{}, world.StateSown)
	weather.RainForecast = true

	p.Plan(1)
	channel.Flush()

	require.Len(t, *assignments, 1)
	assert.Equal(t, PrioritySownRain, (*assignments)[0].Priority)
}

func TestPendingCellIsNotRescored(t *testing.T) {
	p, grid, _, _ := newTestPlanner(1, 1)
	p.RegisterWorker(bus.WorkerPloughing, "ploughing-1")
	grid.SetCellState(world.Position{}, world.StateInitial)

	p.Plan(1)
	require.Equal(t, 1, p.ActiveTaskCount())

	// Task still active: the cell must not get a duplicate.
	p.Plan(2)
	assert.Equal(t, 1, p.ActiveTaskCount())
	assert.Equal(t, 0, p.QueuedTaskCount())
}

func TestCompletionClearsActiveAndPending(t *testing.T) {
	p, grid, _, channel := newTestPlanner(1, 1)
	p.RegisterWorker(bus.WorkerPloughing, "ploughing-1")

	p.Plan(1)
	require.Equal(t, 1, p.ActiveTaskCount())
	tasks := p.ActiveTasks()
	require.Len(t, tasks, 1)

	channel.Publish(bus.NewMessage(bus.TopicTaskCompleted, "ploughing-1", 2, bus.CompletionPayload{
		TaskID: tasks[0].ID,
		Cell:   tasks[0].Target,
		Action: "ploughed",
	}))
	channel.Flush()

	assert.Equal(t, 0, p.ActiveTaskCount())
	k, ok := p.Knowledge(world.Position{})
	require.True(t, ok)
	assert.Empty(t, k.PendingTasks)

	// Cell moved on; the planner now scores the new state.
	grid.SetCellState(world.Position{}, world.StatePloughed)
	p.Plan(3)
	assert.Equal(t, 1, p.ActiveTaskCount())
	assert.Equal(t, bus.TaskSow, p.ActiveTasks()[0].Type)
}

func TestFailureClearsTaskWithoutRetry(t *testing.T) {
	p, _, _, channel := newTestPlanner(1, 1)
	p.RegisterWorker(bus.WorkerPloughing, "ploughing-1")

	p.Plan(1)
	tasks := p.ActiveTasks()
	require.Len(t, tasks, 1)

	channel.Publish(bus.NewMessage(bus.TopicTaskFailed, "ploughing-1", 2, bus.FailurePayload{
		TaskID: tasks[0].ID,
		Cell:   tasks[0].Target,
		Reason: "no_path",
	}))
	channel.Flush()

	assert.Equal(t, 0, p.ActiveTaskCount())
	assert.Equal(t, 0, p.QueuedTaskCount())
}

func TestDiseaseAlertCreatesHighPriorityWaterTask(t *testing.T) {
	p, grid, _, channel := newTestPlanner(2, 1)
	p.RegisterWorker(bus.WorkerWatering, "watering-1")
	assignments := collectAssignments(channel)

	grid.SetCellState(world.Position{}, world.StateGrowing)
	grid.SetCellState(world.Position{X: 1}, world.StateGrowing)

	channel.Publish(bus.NewMessage(bus.TopicAlertDisease, "drone-1", 1, bus.DiseaseAlertPayload{
		Cell:               world.Position{X: 1},
		DiseaseProbability: 0.9,
	}))
	channel.Flush()
	require.Equal(t, 1, p.QueuedTaskCount())

	p.Plan(2)
	channel.Flush()

	require.Len(t, *assignments, 1)
	assert.Equal(t, bus.TaskWater, (*assignments)[0].TaskType)
	assert.Equal(t, PriorityDiseaseAlert, (*assignments)[0].Priority)
}

func TestUnregisteredWorkerTypeRequeues(t *testing.T) {
	p, _, _, channel := newTestPlanner(1, 1)
	assignments := collectAssignments(channel)

	p.Plan(1)
	channel.Flush()

	// No ploughing worker registered: the task stays queued, nothing is
	// published, and no error surfaces.
	assert.Empty(t, *assignments)
	assert.Equal(t, 0, p.ActiveTaskCount())
	assert.Equal(t, 1, p.QueuedTaskCount())
}
