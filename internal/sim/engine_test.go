package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrodyn/fieldsim/internal/agent"
	"github.com/agrodyn/fieldsim/internal/world"
)

func TestNewEngineTopology(t *testing.T) {
	e := New(Config{})
	snap := e.Snapshot()

	assert.Equal(t, 0, snap.Tick)
	assert.Equal(t, 100, snap.CellCounts[world.StateInitial.String()])
	require.Len(t, snap.Agents, 5)

	// Workers start idle in the corners, the drone mid-top.
	assert.Equal(t, world.Position{X: 2, Y: 2}, snap.Agents[0].Position)
	assert.Equal(t, world.Position{X: 7, Y: 2}, snap.Agents[1].Position)
	assert.Equal(t, world.Position{X: 2, Y: 7}, snap.Agents[2].Position)
	assert.Equal(t, world.Position{X: 7, Y: 7}, snap.Agents[3].Position)
	assert.Equal(t, world.Position{X: 5, Y: 2}, snap.Agents[4].Position)
	for _, a := range snap.Agents[:4] {
		assert.Equal(t, string(agent.StatusIdle), a.Status)
	}
}

func TestFirstTickCreatesCappedPloughTasks(t *testing.T) {
	e := New(Config{})
	e.Step()
	snap := e.Snapshot()

	assert.Equal(t, 1, snap.Tick)
	// 100 initial cells, but plough creation is capped per tick. The
	// single ploughing worker accepted one offer and is under way.
	assert.Equal(t, 10, snap.ActiveTasks)
	assert.NotEmpty(t, snap.Agents[0].TaskID)
	assert.Equal(t, string(agent.StatusMoving), snap.Agents[0].Status)
}

func TestWorkerPloughsWithinAFewTicks(t *testing.T) {
	e := New(Config{})
	e.Run(5)

	assert.GreaterOrEqual(t, e.Grid().CountCellsByState(world.StatePloughed), 1)
}

func TestDeterministicRunsWithSameSeed(t *testing.T) {
	a := New(Config{Seed: 7})
	b := New(Config{Seed: 7})

	a.Run(30)
	b.Run(30)

	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestCellCountInvariantOverLongRun(t *testing.T) {
	e := New(Config{Width: 6, Height: 6, Seed: 3})
	e.Run(60)
	snap := e.Snapshot()

	total := 0
	for _, n := range snap.CellCounts {
		total += n
	}
	assert.Equal(t, 36, total)
	assert.GreaterOrEqual(t, snap.Harvested, 0)
}
