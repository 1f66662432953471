package status

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teikit/smart-locker/internal/actuator"
	"github.com/teikit/smart-locker/internal/sensor"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Sensors          SensorsJSON             `json:"sensors"`
	Actuators        map[string]ActuatorJSON `json:"actuators"`
	Counts           CountsJSON              `json:"counts"`
	LastCommandError string                  `json:"last_command_error,omitempty"`
	UptimeSeconds    int64                   `json:"uptime_seconds"`
	StartTime        string                  `json:"start_time"`
	Timestamp        string                  `json:"timestamp"`
	Config           ConfigJSON              `json:"config"`
}

// SensorsJSON holds the latest reading. Absent channels are null.
type SensorsJSON struct {
	HumidityPercent *float64 `json:"humidity_percent"`
	AmbientTempC    *float64 `json:"ambient_temp_c"`
	ProbeTempC      *float64 `json:"probe_temp_c"`
	ReadAt          string   `json:"read_at,omitempty"`
}

// ActuatorJSON is one actuator's state and wiring.
type ActuatorJSON struct {
	State    string `json:"state"`
	Pin      int    `json:"pin"`
	Polarity string `json:"polarity"`
}

// CountsJSON is the JSON representation of counters.
type CountsJSON struct {
	Polls            int `json:"polls"`
	HumidityFailures int `json:"humidity_failures"`
	ProbeFailures    int `json:"probe_failures"`
	Commands         int `json:"commands"`
	CommandFailures  int `json:"command_failures"`
}

// ConfigJSON is the JSON representation of panel config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	Backend     string `json:"gpio_backend"`
	Chip        string `json:"gpio_chip,omitempty"`
	DHTPin      int    `json:"dht_pin"`
	ProbeDevice string `json:"probe_device,omitempty"`
	HistorySize int    `json:"history_size"`
}

func optional(v sensor.Value) *float64 {
	x, ok := v.Get()
	if !ok {
		return nil
	}
	return &x
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Sensors: SensorsJSON{
			HumidityPercent: optional(snap.Reading.Humidity),
			AmbientTempC:    optional(snap.Reading.AmbientTemp),
			ProbeTempC:      optional(snap.Reading.ProbeTemp),
		},
		Actuators:        make(map[string]ActuatorJSON, len(actuator.IDs)),
		LastCommandError: snap.LastCommandError,
		UptimeSeconds:    int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:        snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:        snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			Polls:            snap.Counts.Polls,
			HumidityFailures: snap.Counts.HumidityFailures,
			ProbeFailures:    snap.Counts.ProbeFailures,
			Commands:         snap.Counts.Commands,
			CommandFailures:  snap.Counts.CommandFailures,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			Backend:     snap.Config.Backend,
			Chip:        snap.Config.Chip,
			DHTPin:      snap.Config.DHTPin,
			ProbeDevice: snap.Config.ProbeDevice,
			HistorySize: snap.Config.HistorySize,
		},
	}
	if !snap.Reading.Time.IsZero() {
		inner.Sensors.ReadAt = snap.Reading.Time.UTC().Format(time.RFC3339)
	}

	for _, id := range actuator.IDs {
		w := snap.Config.Wiring[id]
		inner.Actuators[id.String()] = ActuatorJSON{
			State:    snap.Actuators[id].String(),
			Pin:      w.Pin,
			Polarity: w.Polarity.String(),
		}
	}
	return inner
}

// FormatJSON returns the indented JSON status document. It fails when a
// reading cannot be encoded, such as a NaN from a faulty sensor.
func FormatJSON(snap Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode status: %w", err)
	}
	return data, nil
}
