package agent

import (
	"github.com/agrodyn/fieldsim/internal/bus"
	"github.com/agrodyn/fieldsim/internal/world"
)

// execute applies the task's effect against the current cell state and
// publishes the completion message. Preconditions are re-validated here,
// not at assignment time: the cell may have changed while the worker was
// walking. Returns false when the task was abandoned.
func (w *Worker) execute(tick int) bool {
	switch w.task.taskType {
	case bus.TaskPlough:
		return w.plough(tick)
	case bus.TaskSow:
		return w.sow(tick)
	case bus.TaskWater:
		return w.water(tick)
	case bus.TaskHarvest:
		return w.harvest(tick)
	default:
		w.fail(tick, "unknown_task_type")
		return false
	}
}

func (w *Worker) plough(tick int) bool {
	target := w.task.target
	if w.grid.CellStateAt(target) != world.StateInitial {
		w.fail(tick, "precondition")
		return false
	}
	w.grid.SetCellState(target, world.StatePloughed)
	w.complete(tick, "ploughed", 0)
	return true
}

func (w *Worker) sow(tick int) bool {
	target := w.task.target
	if w.grid.CellStateAt(target) != world.StatePloughed {
		w.fail(tick, "precondition")
		return false
	}
	w.grid.SetCellState(target, world.StateSown)
	w.grid.UpdateCellAttributes(target, world.Attributes{
		world.AttrGrowth:      0,
		world.AttrWaterLevel:  0.5,
		world.AttrDiseaseProb: 0.0,
	})
	w.complete(tick, "sown", 0)
	return true
}

func (w *Worker) water(tick int) bool {
	target := w.task.target

	// Rain on the forecast makes irrigation pointless regardless of the
	// cell state; the task still completes so the planner can close it.
	if w.weather.RainForecast {
		w.complete(tick, "watering_delayed", 0)
		return true
	}

	attrs := w.grid.CellAttributes(target)
	newWater := attrs[world.AttrWaterLevel] + 0.3
	if newWater > 1.0 {
		newWater = 1.0
	}

	switch w.grid.CellStateAt(target) {
	case world.StateSown:
		w.grid.SetCellState(target, world.StateGrowing)
		w.grid.UpdateCellAttributes(target, world.Attributes{
			world.AttrWaterLevel:  newWater,
			world.AttrLastWatered: float64(tick),
		})

	case world.StateNeedWater:
		if attrs[world.AttrGrowth] > 50 && newWater > 0.5 {
			w.grid.SetCellState(target, world.StateHealthy)
		} else {
			w.grid.SetCellState(target, world.StateGrowing)
		}
		w.grid.UpdateCellAttributes(target, world.Attributes{
			world.AttrWaterLevel:  newWater,
			world.AttrLastWatered: float64(tick),
		})

	case world.StateDiseased:
		disease := attrs[world.AttrDiseaseProb] - 0.2
		if disease < 0 {
			disease = 0
		}
		w.grid.UpdateCellAttributes(target, world.Attributes{
			world.AttrWaterLevel:  newWater,
			world.AttrLastWatered: float64(tick),
			world.AttrDiseaseProb: disease,
		})
		if newWater > 0.6 {
			w.grid.SetCellState(target, world.StateGrowing)
		}

	default:
		w.fail(tick, "precondition")
		return false
	}

	w.complete(tick, "watered", 0)
	return true
}

func (w *Worker) harvest(tick int) bool {
	target := w.task.target
	if w.grid.CellStateAt(target) != world.StateReadyToHarvest {
		w.fail(tick, "precondition")
		return false
	}
	w.grid.SetCellState(target, world.StateInitial)
	w.grid.UpdateCellAttributes(target, world.Attributes{
		world.AttrWaterLevel:  0,
		world.AttrGrowth:      0,
		world.AttrDiseaseProb: 0,
		world.AttrLastWatered: 0,
	})
	w.grid.RecordHarvest()
	w.complete(tick, "harvested", 1)
	return true
}

func (w *Worker) complete(tick int, action string, yield int) {
	w.channel.Publish(bus.NewMessage(bus.TopicTaskCompleted, w.ID, tick, bus.CompletionPayload{
		TaskID: w.task.id,
		Cell:   w.task.target,
		Action: action,
		Yield:  yield,
	}))
}

func (w *Worker) fail(tick int, reason string) {
	w.channel.Publish(bus.NewMessage(bus.TopicTaskFailed, w.ID, tick, bus.FailurePayload{
		TaskID: w.task.id,
		Cell:   w.task.target,
		Reason: reason,
	}))
	w.log.WithTick(tick).Warn("task_abandoned", map[string]interface{}{
		"task_id": w.task.id,
		"reason":  reason,
	}, nil)
}
