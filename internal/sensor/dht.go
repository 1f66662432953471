//go:build linux && cgo

package sensor

import (
	"sync"

	"github.com/d2r2/go-dht"
	logger "github.com/d2r2/go-logger"
	"github.com/pkg/errors"
)

var quietDHT sync.Once

// DHT reads a DHT22 (AM2302) on a BCM pin.
type DHT struct {
	Pin int
}

// NewDHT returns a DHT22 reader. The driver's own chatter is limited to errors.
func NewDHT(pin int) (*DHT, error) {
	if pin < 0 {
		return nil, errors.Errorf("dht: invalid pin %d", pin)
	}
	quietDHT.Do(func() {
		logger.ChangePackageLogLevel("dht", logger.ErrorLevel)
	})
	return &DHT{Pin: pin}, nil
}

// Read performs a single measurement. The poll cadence acts as the retry.
func (d *DHT) Read() (humidity, tempC float64, err error) {
	temperature, hum, err := dht.ReadDHTxx(dht.DHT22, d.Pin, false)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrUnavailable, "dht22 pin %d: %v", d.Pin, err)
	}
	return float64(hum), float64(temperature), nil
}
