package engine

import (
	"time"

	"github.com/Paintersrp/groo/internal/runtime"
)

// EventType captures lifecycle notifications emitted by the supervisor.
type EventType string

const (
	EventTypeSpawned     EventType = "spawned"
	EventTypeSpawnFailed EventType = "spawn_failed"
	EventTypeStopping    EventType = "stopping"
	EventTypeExited      EventType = "exited"
	EventTypeFailed      EventType = "failed"
	EventTypeKilled      EventType = "killed"
)

// Event represents a single lifecycle notification.
type Event struct {
	Timestamp time.Time
	Service   string
	Type      EventType
	Message   string
	PID       int
	Status    runtime.ExitStatus
	Err       error
	Reason    string
}

const (
	ReasonInitialStart = "initial_start"
	ReasonStartFailure = "start_failure"
	ReasonSelfExit     = "self_exit"
	ReasonShutdown     = "shutdown"
)

// sendEvent delivers evt without blocking the supervisor. Events are dropped
// when the receiver falls behind.
func sendEvent(events chan<- Event, evt Event) {
	if events == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	select {
	case events <- evt:
	default:
	}
}
