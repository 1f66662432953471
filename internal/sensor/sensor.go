// Package sensor normalizes the locker's ambient humidity/temperature sensor
// and its one-wire contact probe into a single Reading.
//
// Each channel fails independently. A failed channel is reported as an absent
// Value, never as zero and never as the previous poll's value.
package sensor

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnavailable means a channel could not be read at all.
	ErrUnavailable = errors.New("sensor unavailable")

	// ErrNotReady means the probe did not report a valid conversion within
	// the retry budget.
	ErrNotReady = errors.New("sensor not ready")

	// ErrMalformed means the sensor answered with data that could not be parsed.
	ErrMalformed = errors.New("malformed sensor data")
)

// Value is a measurement that may be absent.
type Value struct {
	V     float64
	Valid bool
}

// Some returns a present Value.
func Some(v float64) Value {
	return Value{V: v, Valid: true}
}

// Absent is the zero Value.
var Absent = Value{}

// Get returns the measurement and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.V, v.Valid
}

func (v Value) String() string {
	if !v.Valid {
		return "---"
	}
	return fmt.Sprintf("%.2f", v.V)
}

// Reading is one poll of every channel.
type Reading struct {
	Humidity    Value // percent, not clamped
	AmbientTemp Value // degrees Celsius
	ProbeTemp   Value // degrees Celsius
	Time        time.Time
}

// Channel selects one field of a Reading.
type Channel int

const (
	ChannelHumidity Channel = iota
	ChannelAmbientTemp
	ChannelProbeTemp
)

// Channels lists every channel in display order.
var Channels = []Channel{ChannelHumidity, ChannelAmbientTemp, ChannelProbeTemp}

func (c Channel) String() string {
	switch c {
	case ChannelHumidity:
		return "humidity"
	case ChannelAmbientTemp:
		return "ambient"
	case ChannelProbeTemp:
		return "probe"
	}
	return "unknown"
}

// Unit returns the display unit of the channel.
func (c Channel) Unit() string {
	if c == ChannelHumidity {
		return "%"
	}
	return "°C"
}

// Get returns the channel's value from r.
func (r Reading) Get(c Channel) Value {
	switch c {
	case ChannelHumidity:
		return r.Humidity
	case ChannelAmbientTemp:
		return r.AmbientTemp
	case ChannelProbeTemp:
		return r.ProbeTemp
	}
	return Absent
}

// HumiditySensor reads the ambient humidity/temperature sensor.
type HumiditySensor interface {
	Read() (humidity, tempC float64, err error)
}

// TemperatureProbe reads the contact temperature probe.
type TemperatureProbe interface {
	ReadTemperature() (float64, error)
}
