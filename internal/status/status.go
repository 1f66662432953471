// Package status provides a thread-safe status tracker for the locker panel.
// It is read by the console renderer and the --print-state output.
package status

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/teikit/smart-locker/internal/actuator"
	"github.com/teikit/smart-locker/internal/sensor"
)

// Config contains panel configuration for display.
type Config struct {
	PollMs      int64
	Backend     string
	Chip        string
	DHTPin      int
	ProbeDevice string
	HistorySize int
	Wiring      actuator.Config

	// Fitted channels; failures are only counted for fitted channels.
	HumidityFitted bool
	ProbeFitted    bool
}

// Counts tracks polls, channel failures and operator commands since startup.
type Counts struct {
	Polls            int
	HumidityFailures int
	ProbeFailures    int
	Commands         int
	CommandFailures  int
}

// Snapshot is a point-in-time view of panel state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Reading          sensor.Reading
	Actuators        map[actuator.ID]actuator.Intent
	Counts           Counts
	LastCommandError string
	StartTime        time.Time
	Now              time.Time
	Config           Config
}

// Uptime returns the duration since the panel started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// UptimeText renders the uptime for operators, largest unit first and
// leading zero units dropped: "45s", "1m 30s", "2d 0h 5m 0s".
func (s Snapshot) UptimeText() string {
	total := int64(s.Uptime() / time.Second)
	if total < 0 {
		total = 0
	}
	parts := []struct {
		n      int64
		suffix string
	}{
		{total / 86400, "d"},
		{total / 3600 % 24, "h"},
		{total / 60 % 60, "m"},
		{total % 60, "s"},
	}

	first := len(parts) - 1
	for i, p := range parts[:len(parts)-1] {
		if p.n > 0 {
			first = i
			break
		}
	}
	out := make([]string, 0, len(parts)-first)
	for _, p := range parts[first:] {
		out = append(out, fmt.Sprintf("%d%s", p.n, p.suffix))
	}
	return strings.Join(out, " ")
}

// Tracker holds mutable panel state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
// Actuators start at their safe defaults.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	acts := make(map[actuator.ID]actuator.Intent, len(actuator.IDs))
	for _, id := range actuator.IDs {
		acts[id] = actuator.SafeDefault(id)
	}
	return &Tracker{
		snap: Snapshot{
			Actuators: acts,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordReading stores the latest reading and counts failed channels.
// Called from runLoop on every poll.
func (t *Tracker) RecordReading(r sensor.Reading) {
	t.mu.Lock()
	t.snap.Reading = r
	t.snap.Counts.Polls++
	if t.snap.Config.HumidityFitted && !r.Humidity.Valid {
		t.snap.Counts.HumidityFailures++
	}
	if t.snap.Config.ProbeFitted && !r.ProbeTemp.Valid {
		t.snap.Counts.ProbeFailures++
	}
	t.mu.Unlock()
}

// SetActuators replaces the actuator intents.
func (t *Tracker) SetActuators(states map[actuator.ID]actuator.Intent) {
	acts := make(map[actuator.ID]actuator.Intent, len(states))
	for id, in := range states {
		acts[id] = in
	}
	t.mu.Lock()
	t.snap.Actuators = acts
	t.mu.Unlock()
}

// RecordCommand counts an operator command and remembers its failure, if any.
// A successful command clears the last error.
func (t *Tracker) RecordCommand(err error) {
	t.mu.Lock()
	t.snap.Counts.Commands++
	if err != nil {
		t.snap.Counts.CommandFailures++
		t.snap.LastCommandError = err.Error()
	} else {
		t.snap.LastCommandError = ""
	}
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the panel state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	acts := make(map[actuator.ID]actuator.Intent, len(s.Actuators))
	for id, in := range s.Actuators {
		acts[id] = in
	}
	t.mu.RUnlock()
	s.Actuators = acts
	s.Now = time.Now()
	return s
}
