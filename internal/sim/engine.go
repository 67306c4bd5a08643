// Package sim wires the grid, weather, channel, planner, and agents into
// a single deterministic tick loop.
package sim

import (
	"math/rand"

	"github.com/agrodyn/fieldsim/internal/agent"
	"github.com/agrodyn/fieldsim/internal/bus"
	"github.com/agrodyn/fieldsim/internal/logging"
	"github.com/agrodyn/fieldsim/internal/planner"
	"github.com/agrodyn/fieldsim/internal/world"
)

// Defaults for the standard field topology.
const (
	DefaultWidth  = 10
	DefaultHeight = 10
	DefaultSeed   = 42

	// WeatherInterval is how many ticks pass between weather updates.
	WeatherInterval = 5
)

// Config parameterizes a simulation run.
type Config struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	return c
}

// Engine owns all simulation state and advances it one tick at a time.
// Everything downstream of the seed is deterministic.
type Engine struct {
	cfg     Config
	grid    *world.Grid
	weather *world.Weather
	channel *bus.Channel
	master  *planner.Planner
	workers []*agent.Worker
	monitor *agent.Monitor
	rng     *rand.Rand
	log     *logging.Logger
	tick    int
}

// New builds an engine with the standard topology: one worker per
// specialization in the field corners and one drone monitor up top.
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()

	grid := world.NewGrid(cfg.Width, cfg.Height)
	weather := world.NewWeather()
	channel := bus.NewChannel()
	rng := rand.New(rand.NewSource(cfg.Seed))

	e := &Engine{
		cfg:     cfg,
		grid:    grid,
		weather: weather,
		channel: channel,
		master:  planner.New("master", grid, weather, channel),
		rng:     rng,
		log:     logging.New("engine"),
	}

	w, h := cfg.Width, cfg.Height
	starts := []struct {
		workerType bus.WorkerType
		pos        world.Position
	}{
		{bus.WorkerPloughing, world.Position{X: 2, Y: 2}},
		{bus.WorkerSowing, world.Position{X: w - 3, Y: 2}},
		{bus.WorkerWatering, world.Position{X: 2, Y: h - 3}},
		{bus.WorkerHarvesting, world.Position{X: w - 3, Y: h - 3}},
	}
	for _, s := range starts {
		id := string(s.workerType) + "-1"
		worker := agent.NewWorker(id, s.workerType, s.pos, grid, weather, channel)
		e.workers = append(e.workers, worker)
		e.master.RegisterWorker(s.workerType, id)
	}
	e.monitor = agent.NewMonitor("drone-1", world.Position{X: w / 2, Y: 2}, grid, channel, rng)

	return e
}

// Step advances the simulation by one tick:
//
//  1. weather update on its cadence
//  2. automatic cell progression
//  3. planning cycle, then a flush so workers see this tick's offers
//  4. worker and monitor steps
//  5. a second flush so the planner sees this tick's reports
func (e *Engine) Step() {
	e.tick++

	if e.tick%WeatherInterval == 0 {
		e.weather.Update(e.rng)
	}
	e.grid.StepCells()

	e.master.Plan(e.tick)
	e.channel.Flush()

	for _, w := range e.workers {
		w.Step(e.tick)
	}
	e.monitor.Step(e.tick)
	e.channel.Flush()
}

// Run advances the simulation by n ticks.
func (e *Engine) Run(n int) {
	for i := 0; i < n; i++ {
		e.Step()
	}
	e.log.Info("run_complete", map[string]interface{}{
		"ticks":     e.tick,
		"harvested": e.grid.Harvested(),
	})
}

// Tick returns the current tick count.
func (e *Engine) Tick() int { return e.tick }

// Grid exposes the world state for rendering and telemetry.
func (e *Engine) Grid() *world.Grid { return e.grid }

// Weather exposes the shared weather state.
func (e *Engine) Weather() *world.Weather { return e.weather }

// Planner exposes the master planner.
func (e *Engine) Planner() *planner.Planner { return e.master }

// Workers returns the worker roster.
func (e *Engine) Workers() []*agent.Worker { return e.workers }

// Monitor returns the drone monitor.
func (e *Engine) Monitor() *agent.Monitor { return e.monitor }
