package panel

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/teikit/smart-locker/internal/actuator"
	"github.com/teikit/smart-locker/internal/history"
	"github.com/teikit/smart-locker/internal/sensor"
	"github.com/teikit/smart-locker/internal/status"
)

func testSnapshot() status.Snapshot {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return status.Snapshot{
		Reading: sensor.Reading{
			Humidity:  sensor.Some(55.5),
			ProbeTemp: sensor.Some(23.562),
		},
		Actuators: map[actuator.ID]actuator.Intent{
			actuator.Fan:        actuator.Engaged,
			actuator.Lock:       actuator.Engaged,
			actuator.HeatingPad: actuator.Disengaged,
		},
		StartTime: start,
		Now:       start.Add(90 * time.Second),
	}
}

func TestRenderFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testSnapshot(), nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"up 1m 30s",
		"Ambient temp   ---",
		"Humidity       55.5 %",
		"Pad temp       23.6 °C",
		"Fan            ON",
		"Lock           CLOSED",
		"Heating pad    OFF",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "readings --") {
		t.Error("history section should be omitted without a window")
	}
}

func TestRenderWithHistory(t *testing.T) {
	w := history.New(history.DefaultCapacity)
	w.Push(sensor.Reading{ProbeTemp: sensor.Some(20)})
	w.Push(sensor.Reading{ProbeTemp: sensor.Some(30)})

	var buf bytes.Buffer
	if err := Render(&buf, testSnapshot(), w); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "-- last 2 readings --") {
		t.Errorf("missing history header in:\n%s", out)
	}
	if !strings.Contains(out, "min 20.0 °C  max 30.0 °C  last 30.0 °C") {
		t.Errorf("missing probe summary in:\n%s", out)
	}
	if !strings.Contains(out, "humidity       min ---") {
		t.Errorf("absent humidity summary should render ---:\n%s", out)
	}
}

func TestRenderCommandError(t *testing.T) {
	snap := testSnapshot()
	snap.LastCommandError = "lock (pin 17) DISENGAGED: line busy"

	var buf bytes.Buffer
	Render(&buf, snap, nil)
	if !strings.Contains(buf.String(), "! lock (pin 17) DISENGAGED: line busy") {
		t.Errorf("command error not shown:\n%s", buf.String())
	}
}

func TestLabel(t *testing.T) {
	if Label(actuator.Lock, actuator.Disengaged) != "OPEN" {
		t.Error("disengaged lock should read OPEN")
	}
	if Label(actuator.HeatingPad, actuator.Engaged) != "ON" {
		t.Error("engaged pad should read ON")
	}
}
