// Package bus defines the topic-addressed message channel agents use to
// talk to the planner. Publishing enqueues; delivery happens synchronously
// when the engine flushes the channel at tick boundaries.
package bus

import (
	"github.com/google/uuid"

	"github.com/agrodyn/fieldsim/internal/world"
)

// Topics routed through the channel.
const (
	TopicTaskAssigned  = "task.assigned"
	TopicTaskCompleted = "task.completed"
	TopicTaskFailed    = "task.failed"
	TopicStatusUpdate  = "status.update"
	TopicAlertDisease  = "alert.disease"
)

// TaskType identifies the kind of field work a task demands.
type TaskType string

const (
	TaskPlough  TaskType = "plough"
	TaskSow     TaskType = "sow"
	TaskWater   TaskType = "water"
	TaskHarvest TaskType = "harvest"
	TaskMonitor TaskType = "monitor"
)

// WorkerType identifies the specialization of a worker agent.
type WorkerType string

const (
	WorkerPloughing  WorkerType = "ploughing"
	WorkerSowing     WorkerType = "sowing"
	WorkerWatering   WorkerType = "watering"
	WorkerHarvesting WorkerType = "harvesting"
	WorkerDrone      WorkerType = "drone"
)

// WorkerTypeFor maps a task type to the worker specialization that
// executes it. Unknown task types map to the empty worker type.
func WorkerTypeFor(t TaskType) WorkerType {
	switch t {
	case TaskPlough:
		return WorkerPloughing
	case TaskSow:
		return WorkerSowing
	case TaskWater:
		return WorkerWatering
	case TaskHarvest:
		return WorkerHarvesting
	case TaskMonitor:
		return WorkerDrone
	default:
		return ""
	}
}

// Message wraps one payload published to a topic. Messages are immutable
// after publish and discarded after delivery.
type Message struct {
	Topic    string
	ID       string
	SenderID string
	Tick     int
	Payload  any
}

// NewMessage creates a message with an auto-generated ID.
func NewMessage(topic, senderID string, tick int, payload any) Message {
	return Message{
		Topic:    topic,
		ID:       uuid.NewString(),
		SenderID: senderID,
		Tick:     tick,
		Payload:  payload,
	}
}

// AssignmentPayload offers a task to workers of a given type.
type AssignmentPayload struct {
	TaskID     string
	TaskType   TaskType
	WorkerType WorkerType
	Target     world.Position
	Priority   int
}

// CompletionPayload reports a finished task back to the planner.
type CompletionPayload struct {
	TaskID string
	Cell   world.Position
	Action string
	Yield  int
}

// FailurePayload reports a task abandoned before completion, either
// because no path to the target existed or because the cell no longer
// satisfied the task's precondition at execution time.
type FailurePayload struct {
	TaskID string
	Cell   world.Position
	Reason string
}

// DiseaseAlertPayload flags a cell the monitor flipped to diseased.
type DiseaseAlertPayload struct {
	Cell               world.Position
	DiseaseProbability float64
	WaterLevel         float64
}

// StatusPayload is a general agent status report.
type StatusPayload struct {
	AgentID   string
	AgentType WorkerType
	Position  world.Position
	Status    string
	TaskID    string
	Note      string
}

// AsAssignment extracts an AssignmentPayload, if this message carries one.
func (m Message) AsAssignment() (AssignmentPayload, bool) {
	p, ok := m.Payload.(AssignmentPayload)
	return p, ok
}

// AsCompletion extracts a CompletionPayload, if this message carries one.
func (m Message) AsCompletion() (CompletionPayload, bool) {
	p, ok := m.Payload.(CompletionPayload)
	return p, ok
}

// AsFailure extracts a FailurePayload, if this message carries one.
func (m Message) AsFailure() (FailurePayload, bool) {
	p, ok := m.Payload.(FailurePayload)
	return p, ok
}

// AsDiseaseAlert extracts a DiseaseAlertPayload, if this message carries one.
func (m Message) AsDiseaseAlert() (DiseaseAlertPayload, bool) {
	p, ok := m.Payload.(DiseaseAlertPayload)
	return p, ok
}

// AsStatus extracts a StatusPayload, if this message carries one.
func (m Message) AsStatus() (StatusPayload, bool) {
	p, ok := m.Payload.(StatusPayload)
	return p, ok
}
