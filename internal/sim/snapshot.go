package sim

import "github.com/agrodyn/fieldsim/internal/world"

// AgentStatus is one agent's state in a snapshot.
type AgentStatus struct {
	ID       string         `json:"agent_id"`
	Type     string         `json:"agent_type"`
	Status   string         `json:"status"`
	Position world.Position `json:"position"`
	TaskID   string         `json:"task_id,omitempty"`
}

// Snapshot is a point-in-time view of the whole simulation, suitable for
// rendering, recording, and metrics export.
type Snapshot struct {
	Tick        int                     `json:"tick"`
	CellCounts  map[string]int          `json:"cell_counts"`
	Harvested   int                     `json:"harvested"`
	ActiveTasks int                     `json:"active_tasks"`
	QueuedTasks int                     `json:"queued_tasks"`
	Agents      []AgentStatus           `json:"agents"`
	Weather     world.Weather           `json:"weather"`
	Yield       world.YieldPrediction   `json:"yield_prediction"`
	Stress      world.StressIndicators  `json:"stress_indicators"`
}

// Snapshot captures the current simulation state.
func (e *Engine) Snapshot() Snapshot {
	counts := make(map[string]int, len(world.AllStates))
	for _, state := range world.AllStates {
		counts[state.String()] = e.grid.CountCellsByState(state)
	}

	agents := make([]AgentStatus, 0, len(e.workers)+1)
	for _, w := range e.workers {
		agents = append(agents, AgentStatus{
			ID:       w.ID,
			Type:     string(w.Type),
			Status:   string(w.CurrentStatus()),
			Position: w.Position(),
			TaskID:   w.TaskID(),
		})
	}
	agents = append(agents, AgentStatus{
		ID:       e.monitor.ID,
		Type:     "drone",
		Status:   "scanning",
		Position: e.monitor.Position(),
	})

	return Snapshot{
		Tick:        e.tick,
		CellCounts:  counts,
		Harvested:   e.grid.Harvested(),
		ActiveTasks: e.master.ActiveTaskCount(),
		QueuedTasks: e.master.QueuedTaskCount(),
		Agents:      agents,
		Weather:     *e.weather,
		Yield:       e.grid.PredictYield(),
		Stress:      e.grid.Stress(e.weather),
	}
}
