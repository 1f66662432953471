//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// CdevPins is not available on non-Linux platforms.
type CdevPins struct{}

// NewCdevPins returns an error on non-Linux platforms.
func NewCdevPins(chipName string, outputs []Output) (*CdevPins, error) {
	return nil, errUnsupported
}

// InspectCdevPins returns an error on non-Linux platforms.
func InspectCdevPins(chipName string, pins []int) (*CdevPins, error) {
	return nil, errUnsupported
}

func (p *CdevPins) Write(pin int, level Level) error {
	return errUnsupported
}

func (p *CdevPins) Read(pin int) (Level, error) {
	return Low, errUnsupported
}

// Close is a no-op on non-Linux platforms.
func (p *CdevPins) Close() error {
	return nil
}

// RpioPins is not available on non-Linux platforms.
type RpioPins struct{}

// NewRpioPins returns an error on non-Linux platforms.
func NewRpioPins(outputs []Output) (*RpioPins, error) {
	return nil, errUnsupported
}

// InspectRpioPins returns an error on non-Linux platforms.
func InspectRpioPins(pins []int) (*RpioPins, error) {
	return nil, errUnsupported
}

func (p *RpioPins) Write(pin int, level Level) error {
	return errUnsupported
}

func (p *RpioPins) Read(pin int) (Level, error) {
	return Low, errUnsupported
}

// Close is a no-op on non-Linux platforms.
func (p *RpioPins) Close() error {
	return nil
}
