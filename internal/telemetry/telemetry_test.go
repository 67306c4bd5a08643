package telemetry

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrodyn/fieldsim/internal/sim"
)

func TestRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	rec, err := OpenRecorder(path)
	require.NoError(t, err)
	defer rec.Close()

	cfg := sim.Config{Width: 6, Height: 6, Seed: 11}
	runID, err := rec.StartRun(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	e := sim.New(cfg)
	for i := 0; i < 3; i++ {
		e.Step()
		require.NoError(t, rec.RecordSnapshot(runID, e.Snapshot()))
	}

	snaps, err := rec.Snapshots(runID)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, 1, snaps[0].Tick)
	assert.Equal(t, 3, snaps[2].Tick)
	assert.Equal(t, e.Snapshot().ActiveTasks, snaps[2].ActiveTasks)

	runs, err := rec.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, int64(11), runs[0].Seed)
	assert.Equal(t, 3, runs[0].Ticks)
}

func TestRecorderRunIDsAreUnique(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	rec, err := OpenRecorder(path)
	require.NoError(t, err)
	defer rec.Close()

	a, err := rec.StartRun(sim.Config{})
	require.NoError(t, err)
	b, err := rec.StartRun(sim.Config{})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestMetricsHandler(t *testing.T) {
	e := sim.New(sim.Config{Width: 4, Height: 4})
	e.Run(2)

	m := &Metrics{}
	m.Observe(e.Snapshot())

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler()(w, req)

	body := w.Body.String()
	assert.Contains(t, body, "fieldsim_tick 2")
	assert.Contains(t, body, `fieldsim_cells{state="initial"}`)
	assert.Contains(t, body, "fieldsim_health_score")
	assert.Equal(t, "text/plain; version=0.0.4", w.Header().Get("Content-Type"))
}
