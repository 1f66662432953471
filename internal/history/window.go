// Package history keeps a bounded, in-memory window of recent readings for
// on-screen charting. Nothing is persisted.
package history

import (
	"github.com/teikit/smart-locker/internal/sensor"
)

// DefaultCapacity is the number of readings kept for the chart.
const DefaultCapacity = 50

// Window is a fixed-capacity FIFO of readings. When full, pushing evicts the
// oldest reading.
// Not safe for concurrent use; the caller must synchronize.
type Window struct {
	buf   []sensor.Reading
	head  int // next write position
	count int
}

// New creates a Window holding at most capacity readings.
// A non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{buf: make([]sensor.Reading, capacity)}
}

// Push appends r, evicting the oldest reading when the window is full.
func (w *Window) Push(r sensor.Reading) {
	w.buf[w.head] = r
	w.head = (w.head + 1) % len(w.buf)
	if w.count < len(w.buf) {
		w.count++
	}
}

// Samples returns a copy of the window, oldest first.
func (w *Window) Samples() []sensor.Reading {
	if w.count == 0 {
		return nil
	}

	out := make([]sensor.Reading, w.count)
	start := (w.head - w.count + len(w.buf)) % len(w.buf)
	for i := 0; i < w.count; i++ {
		out[i] = w.buf[(start+i)%len(w.buf)]
	}
	return out
}

// Latest returns the most recent reading.
func (w *Window) Latest() (sensor.Reading, bool) {
	if w.count == 0 {
		return sensor.Reading{}, false
	}
	return w.buf[(w.head-1+len(w.buf))%len(w.buf)], true
}

// Len returns the number of readings held.
func (w *Window) Len() int {
	return w.count
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.buf)
}

// Series returns one channel across the window, oldest first. Absent values
// stay absent so gaps remain visible on a chart.
func (w *Window) Series(c sensor.Channel) []sensor.Value {
	samples := w.Samples()
	if samples == nil {
		return nil
	}
	out := make([]sensor.Value, len(samples))
	for i, r := range samples {
		out[i] = r.Get(c)
	}
	return out
}

// Summary describes one channel over the window.
type Summary struct {
	Min, Max, Last sensor.Value
	Present        int // samples with a value
}

// Summarize computes min/max/last of a channel, ignoring absent values.
func (w *Window) Summarize(c sensor.Channel) Summary {
	var s Summary
	for _, v := range w.Series(c) {
		x, ok := v.Get()
		if !ok {
			continue
		}
		s.Present++
		if !s.Min.Valid || x < s.Min.V {
			s.Min = sensor.Some(x)
		}
		if !s.Max.Valid || x > s.Max.V {
			s.Max = sensor.Some(x)
		}
		s.Last = v
	}
	return s
}
