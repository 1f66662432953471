// Package gpio provides digital output access with hardware abstraction.
// The real implementations drive pins through the Linux GPIO character
// device or through memory-mapped registers. The fake implementation allows
// testing without hardware.
package gpio

import "errors"

// ErrReadOnly is returned by Write on pins opened for inspection only.
var ErrReadOnly = errors.New("gpio: pins opened read-only")

// Level is the electrical level of a digital pin.
type Level int

const (
	Low  Level = 0
	High Level = 1
)

func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Pins sets and reads back digital pins. Pins are addressed by BCM number.
type Pins interface {
	// Write drives an output pin to the given level.
	Write(pin int, level Level) error

	// Read returns the current level of a pin.
	Read(pin int) (Level, error)

	// Close releases GPIO resources.
	Close() error
}

// Output describes a pin to be claimed as an output and the level it must
// hold from the moment it is claimed.
type Output struct {
	Pin     int
	Initial Level
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinFan        = 22
	DefaultPinLock       = 17
	DefaultPinHeatingPad = 27
	DefaultPinDHT        = 5
)

// DefaultChip is the GPIO character device used on a Raspberry Pi.
const DefaultChip = "gpiochip0"
