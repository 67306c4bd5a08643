package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("planner", &buf).WithTick(42)

	log.Info("task_created", map[string]interface{}{"task_id": "task-1"})

	var e Event
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if e.Component != "planner" || e.Event != "task_created" || e.Tick != 42 {
		t.Errorf("unexpected event: %+v", e)
	}
	if e.Extra["task_id"] != "task-1" {
		t.Errorf("extra not carried: %v", e.Extra)
	}
}

func TestLoggerContextsDoNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("bus", &buf)
	scoped := base.WithAgent("watering-1")

	base.Info("flush", nil)
	if strings.Contains(buf.String(), "watering-1") {
		t.Error("agent context leaked into base logger")
	}

	buf.Reset()
	scoped.Info("deliver", nil)
	if !strings.Contains(buf.String(), "watering-1") {
		t.Error("agent context missing from scoped logger")
	}
}
