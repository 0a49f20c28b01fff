package engine

import (
	"sort"
	"time"

	"github.com/go-logr/logr"
)

// Observer receives engine diagnostics.
type Observer interface {
	Event(event Event)
}

// Event is a structured engine diagnostic.
type Event struct {
	Type      EventType
	RunID     string
	Step      int
	Action    string // action kind, if the event concerns one
	Path      string // entry or content path, if any
	Message   string
	Err       error
	Timestamp time.Time
	Fields    map[string]string
}

// EventType represents the type of engine event.
type EventType string

const (
	// EventStepRendered is emitted whenever a step becomes current.
	EventStepRendered EventType = "step.rendered"
	// EventStepTransition is emitted for advance, jump and skip.
	EventStepTransition EventType = "step.transition"

	EventActionStarted   EventType = "action.started"
	EventActionCompleted EventType = "action.completed"
	EventActionFailed    EventType = "action.failed"
	// EventActionSkipped is emitted for kinds without a handler.
	EventActionSkipped EventType = "action.skipped"
	// EventEntryGaveUp is emitted for each path whose delete retries ran out.
	EventEntryGaveUp EventType = "entry.gave_up"

	EventContentUnreadable EventType = "content.unreadable"
	EventHookFailed        EventType = "hook.failed"
	EventSetupCompleted    EventType = "setup.completed"
	EventRestartRequested  EventType = "setup.restart_requested"
)

// Failure reports whether the event describes something that went wrong.
func (e Event) Failure() bool {
	switch e.Type {
	case EventActionFailed, EventEntryGaveUp, EventContentUnreadable, EventHookFailed:
		return true
	default:
		return false
	}
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Event implements Observer.
func (f ObserverFunc) Event(event Event) {
	f(event)
}

// MultiObserver fans events out to several observers in order.
type MultiObserver []Observer

// Event implements Observer.
func (m MultiObserver) Event(event Event) {
	for _, o := range m {
		if o != nil {
			o.Event(event)
		}
	}
}

// LogObserver writes events through a logr.Logger. Failures are logged as
// errors, routine events at verbosity 1 and the rest at info.
type LogObserver struct {
	log           logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer logging to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{log: log, contextFields: map[string]string{}}
}

// WithFields returns a new LogObserver with additional context fields.
func (o *LogObserver) WithFields(fields map[string]string) *LogObserver {
	merged := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &LogObserver{log: o.log, contextFields: merged}
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	kv := []interface{}{"event", string(event.Type), "step", event.Step}
	if event.RunID != "" {
		kv = append(kv, "runID", event.RunID)
	}
	if event.Action != "" {
		kv = append(kv, "action", event.Action)
	}
	if event.Path != "" {
		kv = append(kv, "path", event.Path)
	}

	fields := make(map[string]string, len(o.contextFields)+len(event.Fields))
	for k, v := range o.contextFields {
		fields[k] = v
	}
	for k, v := range event.Fields {
		fields[k] = v
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}

	switch {
	case event.Failure():
		o.log.Error(event.Err, event.Message, kv...)
	case event.Type == EventStepRendered || event.Type == EventActionStarted:
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}
