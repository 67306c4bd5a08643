// Package logging provides structured JSON logging for fieldsim components.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event represents a structured log event
type Event struct {
	Timestamp string                 `json:"ts"`
	Level     Level                  `json:"level"`
	Component string                 `json:"component"`
	Event     string                 `json:"event"`
	Agent     string                 `json:"agent,omitempty"`
	Tick      int                    `json:"tick,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Logger provides structured logging scoped to one component.
type Logger struct {
	component string
	agent     string
	tick      int
	out       io.Writer
}

// New creates a new logger for a component.
func New(component string) *Logger {
	return &Logger{component: component, out: os.Stderr}
}

// NewWithWriter creates a logger writing to w (for tests).
func NewWithWriter(component string, w io.Writer) *Logger {
	return &Logger{component: component, out: w}
}

// WithAgent sets the agent context.
func (l *Logger) WithAgent(agent string) *Logger {
	c := *l
	c.agent = agent
	return &c
}

// WithTick sets the tick context.
func (l *Logger) WithTick(tick int) *Logger {
	c := *l
	c.tick = tick
	return &c
}

// log emits a structured log event
func (l *Logger) log(level Level, event string, extra map[string]interface{}, err error) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: l.component,
		Event:     event,
		Agent:     l.agent,
		Tick:      l.tick,
		Extra:     extra,
	}
	if err != nil {
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]interface{}) {
	l.log(LevelDebug, event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]interface{}) {
	l.log(LevelInfo, event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]interface{}, err error) {
	l.log(LevelWarn, event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]interface{}, err error) {
	l.log(LevelError, event, extra, err)
}
