package sensor

import (
	"fmt"
	"log"
	"time"
)

// Reader polls both channels and produces a Reading.
// A nil channel is treated as not fitted and always reads absent.
type Reader struct {
	humidity HumiditySensor
	probe    TemperatureProbe
	now      func() time.Time
	logf     func(format string, args ...any)
}

// NewReader creates a Reader. Either sensor may be nil.
func NewReader(humidity HumiditySensor, probe TemperatureProbe) *Reader {
	return &Reader{
		humidity: humidity,
		probe:    probe,
		now:      time.Now,
		logf:     log.Printf,
	}
}

// Poll reads both channels independently. It never fails: a failed channel is
// logged and left absent in the returned Reading.
func (r *Reader) Poll() Reading {
	reading := Reading{Time: r.now()}

	if r.humidity != nil {
		var h, t float64
		err := guard(func() (err error) {
			h, t, err = r.humidity.Read()
			return err
		})
		if err != nil {
			r.logf("humidity read failed: %v", err)
		} else {
			reading.Humidity = Some(h)
			reading.AmbientTemp = Some(t)
		}
	}

	if r.probe != nil {
		var t float64
		err := guard(func() (err error) {
			t, err = r.probe.ReadTemperature()
			return err
		})
		if err != nil {
			r.logf("probe read failed: %v", err)
		} else {
			reading.ProbeTemp = Some(t)
		}
	}

	return reading
}

// guard runs fn and turns a driver panic into ErrUnavailable.
func guard(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrUnavailable, p)
		}
	}()
	return fn()
}
