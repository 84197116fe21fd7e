package team

import (
	"sync"
	"time"
)

// EventType identifies a stream event frame.
type EventType string

const (
	EventStart         EventType = "start"
	EventInteraction   EventType = "agent_interaction"
	EventReloadPreview EventType = "reload_preview"
	EventGitCommit     EventType = "git_commit"
	EventComplete      EventType = "complete"
	EventError         EventType = "error"
)

// Event is one envelope pushed to the stream consumer.
type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Emitter delivers run events to the stream consumer over a buffered
// channel. Emission never blocks the run loop; when the consumer falls
// behind, events drop (the persisted interaction log is the durable record,
// the stream is a live view).
type Emitter struct {
	ch     chan Event
	closed bool
	mu     sync.Mutex
}

// NewEmitter creates an emitter with the given buffer size.
func NewEmitter(bufferSize int) *Emitter {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Emitter{ch: make(chan Event, bufferSize)}
}

// Emit pushes an event. Silently dropped when the emitter is closed or the
// buffer is full.
func (e *Emitter) Emit(typ EventType, data any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.ch <- Event{Type: typ, Data: data, Timestamp: time.Now().UTC()}:
	default:
	}
}

// Events returns the read-only event channel.
func (e *Emitter) Events() <-chan Event {
	return e.ch
}

// Close closes the channel. Safe to call more than once.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}
