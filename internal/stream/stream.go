// Package stream writes newline-delimited event frames to an HTTP response,
// with keep-alive filler during idle periods.
package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/martinemde/tandem/internal/team"
)

// keepAliveFrame is the filler written during idle periods. It starts with
// a colon so consumers can tell it apart from JSON data frames.
const keepAliveFrame = ": keep-alive\n"

// Envelope is the wire shape of one data frame.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Writer emits frames to w, flushing after each one when w supports it.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter wraps an HTTP response writer for streaming.
func NewWriter(w http.ResponseWriter) *Writer {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: flusher}
}

// Send writes one data frame.
func (sw *Writer) Send(typ string, data any) error {
	payload, err := json.Marshal(Envelope{Type: typ, Data: data})
	if err != nil {
		return fmt.Errorf("stream: encode %s frame: %w", typ, err)
	}
	if _, err := sw.w.Write(append(payload, '\n')); err != nil {
		return err
	}
	sw.flush()
	return nil
}

// KeepAlive writes one filler frame.
func (sw *Writer) KeepAlive() error {
	if _, err := io.WriteString(sw.w, keepAliveFrame); err != nil {
		return err
	}
	sw.flush()
	return nil
}

func (sw *Writer) flush() {
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
}

// Pump forwards run events to the writer until the channel closes, emitting
// keep-alive filler whenever no event arrives within idle. Returns the
// first write error, which usually means the consumer went away.
func Pump(events <-chan team.Event, sw *Writer, idle time.Duration) error {
	if idle <= 0 {
		idle = 15 * time.Second
	}
	timer := time.NewTimer(idle)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := sw.Send(string(ev.Type), ev.Data); err != nil {
				return err
			}
		case <-timer.C:
			if err := sw.KeepAlive(); err != nil {
				return err
			}
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(idle)
	}
}
