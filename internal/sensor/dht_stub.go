//go:build !linux || !cgo

package sensor

import "github.com/pkg/errors"

// DHT is not available without Linux and cgo.
type DHT struct {
	Pin int
}

// NewDHT returns an error on platforms the DHT driver does not support.
func NewDHT(pin int) (*DHT, error) {
	return nil, errors.New("dht: not supported on this platform (requires Linux with cgo)")
}

// Read is not implemented on unsupported platforms.
func (d *DHT) Read() (humidity, tempC float64, err error) {
	return 0, 0, errors.Wrap(ErrUnavailable, "dht: not supported")
}
