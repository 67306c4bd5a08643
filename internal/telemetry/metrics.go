package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/agrodyn/fieldsim/internal/sim"
)

// Metrics holds the latest simulation snapshot for scraping.
type Metrics struct {
	mu   sync.RWMutex
	snap sim.Snapshot
}

// Observe replaces the snapshot served at the next scrape.
func (m *Metrics) Observe(snap sim.Snapshot) {
	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		snap := m.snap
		m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; version=0.0.4")

		fmt.Fprintf(w, "# HELP fieldsim_tick Current simulation tick\n")
		fmt.Fprintf(w, "# TYPE fieldsim_tick counter\n")
		fmt.Fprintf(w, "fieldsim_tick %d\n\n", snap.Tick)

		fmt.Fprintf(w, "# HELP fieldsim_harvested_total Crops harvested since start\n")
		fmt.Fprintf(w, "# TYPE fieldsim_harvested_total counter\n")
		fmt.Fprintf(w, "fieldsim_harvested_total %d\n\n", snap.Harvested)

		fmt.Fprintf(w, "# HELP fieldsim_active_tasks Tasks currently assigned\n")
		fmt.Fprintf(w, "# TYPE fieldsim_active_tasks gauge\n")
		fmt.Fprintf(w, "fieldsim_active_tasks %d\n\n", snap.ActiveTasks)

		fmt.Fprintf(w, "# HELP fieldsim_queued_tasks Tasks awaiting assignment\n")
		fmt.Fprintf(w, "# TYPE fieldsim_queued_tasks gauge\n")
		fmt.Fprintf(w, "fieldsim_queued_tasks %d\n\n", snap.QueuedTasks)

		fmt.Fprintf(w, "# HELP fieldsim_cells Cell count by state\n")
		fmt.Fprintf(w, "# TYPE fieldsim_cells gauge\n")
		states := make([]string, 0, len(snap.CellCounts))
		for state := range snap.CellCounts {
			states = append(states, state)
		}
		sort.Strings(states)
		for _, state := range states {
			fmt.Fprintf(w, "fieldsim_cells{state=%q} %d\n", state, snap.CellCounts[state])
		}
		fmt.Fprintln(w)

		fmt.Fprintf(w, "# HELP fieldsim_temperature_celsius Current temperature\n")
		fmt.Fprintf(w, "# TYPE fieldsim_temperature_celsius gauge\n")
		fmt.Fprintf(w, "fieldsim_temperature_celsius %.1f\n\n", snap.Weather.Temperature)

		fmt.Fprintf(w, "# HELP fieldsim_estimated_yield Predicted harvestable output\n")
		fmt.Fprintf(w, "# TYPE fieldsim_estimated_yield gauge\n")
		fmt.Fprintf(w, "fieldsim_estimated_yield %.2f\n\n", snap.Yield.EstimatedYield)

		fmt.Fprintf(w, "# HELP fieldsim_health_score Overall crop health percentage\n")
		fmt.Fprintf(w, "# TYPE fieldsim_health_score gauge\n")
		fmt.Fprintf(w, "fieldsim_health_score %.1f\n", snap.Stress.HealthScore)
	}
}

// Server wraps the metrics HTTP server.
type Server struct {
	srv     *http.Server
	Metrics *Metrics
}

// NewServer creates a metrics server on the given address.
func NewServer(addr string) *Server {
	m := &Metrics{}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return &Server{
		srv:     &http.Server{Addr: addr, Handler: mux},
		Metrics: m,
	}
}

// Start starts the metrics server in background.
func (s *Server) Start() error {
	go s.srv.ListenAndServe()
	return nil
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
