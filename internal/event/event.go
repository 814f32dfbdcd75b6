// Package event provides a small publish/subscribe bus used to fan out
// shell activity (command execution, context switches) to interested
// collaborators such as the audit log.
package event

import "time"

// Event is one occurrence on the bus.
type Event struct {
	// Topic names the event kind, dot-separated (e.g. "command.executed").
	Topic string

	// Time is when the event was published.
	Time time.Time

	// Fields carries event payload data.
	Fields map[string]any
}

// New creates an event stamped with the current time.
func New(topic string, fields map[string]any) Event {
	return Event{
		Topic:  topic,
		Time:   time.Now(),
		Fields: fields,
	}
}

// String returns the field value for key if it is a string.
func (e Event) String(key string) string {
	if v, ok := e.Fields[key].(string); ok {
		return v
	}
	return ""
}
