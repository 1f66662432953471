//go:build linux

package gpio

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

// rpio maps /dev/gpiomem once per process.
var rpioMu sync.Mutex

// RpioPins drives outputs through memory-mapped BCM2835 registers.
// Useful on images where the character device is not available.
type RpioPins struct {
	outputs  map[int]rpio.Pin
	open     bool
	readOnly bool
}

// NewRpioPins maps GPIO memory and configures each output at its initial level.
func NewRpioPins(outputs []Output) (*RpioPins, error) {
	rpioMu.Lock()
	defer rpioMu.Unlock()

	if err := rpio.Open(); err != nil {
		return nil, errors.Wrap(err, "open gpio memory")
	}

	p := &RpioPins{outputs: make(map[int]rpio.Pin), open: true}
	for _, out := range outputs {
		if out.Pin < 0 || out.Pin > 53 {
			rpio.Close()
			return nil, errors.Errorf("pin %d out of range", out.Pin)
		}
		pin := rpio.Pin(out.Pin)
		pin.Output()
		pin.Write(rpio.State(out.Initial))
		p.outputs[out.Pin] = pin
	}
	return p, nil
}

// InspectRpioPins maps GPIO memory to read pin levels without changing
// their direction. Write always fails on the result.
func InspectRpioPins(pins []int) (*RpioPins, error) {
	rpioMu.Lock()
	defer rpioMu.Unlock()

	if err := rpio.Open(); err != nil {
		return nil, errors.Wrap(err, "open gpio memory")
	}

	p := &RpioPins{outputs: make(map[int]rpio.Pin), open: true, readOnly: true}
	for _, pin := range pins {
		if pin < 0 || pin > 53 {
			rpio.Close()
			return nil, errors.Errorf("pin %d out of range", pin)
		}
		p.outputs[pin] = rpio.Pin(pin)
	}
	return p, nil
}

// Write drives a configured output pin.
func (p *RpioPins) Write(pin int, level Level) error {
	if p.readOnly {
		return ErrReadOnly
	}
	if !p.open {
		return errors.New("gpio memory closed")
	}
	out, ok := p.outputs[pin]
	if !ok {
		return errors.Errorf("pin %d not configured as output", pin)
	}
	if level == High {
		out.High()
	} else {
		out.Low()
	}
	return nil
}

// Read returns the level of a configured pin.
func (p *RpioPins) Read(pin int) (Level, error) {
	if !p.open {
		return Low, errors.New("gpio memory closed")
	}
	out, ok := p.outputs[pin]
	if !ok {
		return Low, errors.Errorf("pin %d not configured as output", pin)
	}
	if out.Read() == rpio.High {
		return High, nil
	}
	return Low, nil
}

// Close returns every output to input with pull-down and unmaps GPIO memory.
func (p *RpioPins) Close() error {
	rpioMu.Lock()
	defer rpioMu.Unlock()

	if !p.open {
		return nil
	}
	for _, pin := range p.outputs {
		if p.readOnly {
			break
		}
		pin.Input()
		pin.PullDown()
	}
	p.open = false
	if err := rpio.Close(); err != nil {
		return errors.Wrap(err, "close gpio memory")
	}
	return nil
}
