// Package actuator maps logical actuator intents onto physical pin levels.
// The mapping from intent to level depends only on the wiring polarity of
// each actuator, which is supplied per deployment and never changes at runtime.
package actuator

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/teikit/smart-locker/internal/gpio"
)

// ID identifies one of the locker's actuators.
type ID int

const (
	Fan ID = iota
	Lock
	HeatingPad
)

// IDs lists every actuator in display order.
var IDs = []ID{Fan, Lock, HeatingPad}

func (id ID) String() string {
	switch id {
	case Fan:
		return "fan"
	case Lock:
		return "lock"
	case HeatingPad:
		return "pad"
	}
	return "unknown"
}

func (id ID) valid() bool {
	return id >= Fan && id <= HeatingPad
}

// ParseID accepts the actuator names used on the command line and console.
func ParseID(s string) (ID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fan", "ventilador":
		return Fan, nil
	case "lock", "cerradura":
		return Lock, nil
	case "pad", "heater", "heating-pad", "heatingpad", "almohadilla":
		return HeatingPad, nil
	}
	return 0, errors.Errorf("unknown actuator %q", s)
}

// Intent is the logical desired state of an actuator.
type Intent bool

const (
	Disengaged Intent = false
	Engaged    Intent = true
)

func (i Intent) String() string {
	if i == Engaged {
		return "ENGAGED"
	}
	return "DISENGAGED"
}

// SafeDefault is the intent every actuator holds at startup:
// fan off, lock closed, heating pad off.
func SafeDefault(id ID) Intent {
	return id == Lock
}

// Polarity is the electrical convention of an actuator's wiring.
type Polarity int

const (
	ActiveHigh Polarity = iota
	ActiveLow
)

func (p Polarity) String() string {
	if p == ActiveLow {
		return "active-low"
	}
	return "active-high"
}

// ParsePolarity accepts "active-high" or "active-low".
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active-high", "high":
		return ActiveHigh, nil
	case "active-low", "low":
		return ActiveLow, nil
	}
	return 0, errors.Errorf("unknown polarity %q (want active-high or active-low)", s)
}

// LevelFor returns the pin level that realises intent under polarity.
// Engaged is HIGH when active-high and LOW when active-low.
func LevelFor(intent Intent, p Polarity) gpio.Level {
	if bool(intent) != (p == ActiveLow) {
		return gpio.High
	}
	return gpio.Low
}

// IntentFor is the inverse of LevelFor.
func IntentFor(level gpio.Level, p Polarity) Intent {
	return Intent((level == gpio.High) != (p == ActiveLow))
}

// Wiring describes how one actuator is connected.
type Wiring struct {
	Pin      int
	Polarity Polarity
}

// Config holds the wiring of every actuator.
type Config map[ID]Wiring

// Validate checks that every actuator is wired to its own pin.
func (c Config) Validate() error {
	used := make(map[int]ID)
	for _, id := range IDs {
		w, ok := c[id]
		if !ok {
			return errors.Errorf("no wiring configured for %s", id)
		}
		if w.Pin < 0 {
			return errors.Errorf("%s: invalid pin %d", id, w.Pin)
		}
		if w.Polarity != ActiveHigh && w.Polarity != ActiveLow {
			return errors.Errorf("%s: invalid polarity %d", id, w.Polarity)
		}
		if other, dup := used[w.Pin]; dup {
			return errors.Errorf("%s and %s share pin %d", other, id, w.Pin)
		}
		used[w.Pin] = id
	}
	for id := range c {
		if !id.valid() {
			return errors.Errorf("wiring for unknown actuator %d", int(id))
		}
	}
	return nil
}

// InitialOutputs returns each actuator pin with the level of its safe default,
// for claiming the pins before the controller takes over.
func (c Config) InitialOutputs() []gpio.Output {
	outs := make([]gpio.Output, 0, len(IDs))
	for _, id := range IDs {
		w, ok := c[id]
		if !ok {
			continue
		}
		outs = append(outs, gpio.Output{Pin: w.Pin, Initial: LevelFor(SafeDefault(id), w.Polarity)})
	}
	return outs
}
