package sensor

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// DefaultW1Base is where the w1-therm kernel driver exposes devices.
const DefaultW1Base = "/sys/bus/w1/devices"

const (
	w1FamilyPrefix = "28-"
	w1SlaveFile    = "w1_slave"
	w1ReadyMarker  = "YES"
	w1TempMarker   = "t="
)

// Probe retry budget: up to 5 attempts, 200ms apart, and no retry that
// would end after ProbeDeadline from the first read.
const (
	ProbeAttempts   = 5
	ProbeRetryDelay = 200 * time.Millisecond
	ProbeDeadline   = time.Second
)

// Source returns the raw content of a w1_slave device file.
type Source interface {
	ReadRaw() ([]byte, error)
}

// FileSource reads a w1_slave file from disk.
type FileSource struct {
	Path string
}

// ReadRaw reads the whole device file. Each read triggers a new conversion.
func (s FileSource) ReadRaw() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "read %s: %v", s.Path, err)
	}
	return data, nil
}

// DiscoverProbe returns the w1_slave file of the first DS18B20 under base.
func DiscoverProbe(base string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(base, w1FamilyPrefix+"*", w1SlaveFile))
	if err != nil {
		return "", errors.Wrapf(err, "glob %s", base)
	}
	if len(matches) == 0 {
		return "", errors.Wrapf(ErrUnavailable, "no %s* device under %s", w1FamilyPrefix, base)
	}
	sort.Strings(matches)
	return matches[0], nil
}

// ParseW1Slave extracts degrees Celsius from w1_slave content:
//
//	72 01 4b 46 7f ff 0e 10 57 : crc=57 YES
//	72 01 4b 46 7f ff 0e 10 57 t=23125
func ParseW1Slave(data []byte) (float64, error) {
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	if len(lines) < 2 {
		return 0, errors.Wrapf(ErrMalformed, "expected 2 lines, got %d", len(lines))
	}

	if !bytes.HasSuffix(bytes.TrimSpace(lines[0]), []byte(w1ReadyMarker)) {
		return 0, errors.Wrap(ErrNotReady, "crc status not YES")
	}

	dataLine := bytes.TrimSpace(lines[1])
	idx := bytes.Index(dataLine, []byte(w1TempMarker))
	if idx < 0 {
		return 0, errors.Wrapf(ErrMalformed, "no %q in %q", w1TempMarker, dataLine)
	}

	raw := string(dataLine[idx+len(w1TempMarker):])
	milli, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "parse %q: %v", raw, err)
	}
	return float64(milli) / 1000, nil
}

// Probe reads a DS18B20 through its w1_slave file, retrying while the sensor
// reports that the conversion is not ready.
type Probe struct {
	src      Source
	attempts int
	delay    time.Duration
	deadline time.Duration
	now      func() time.Time
	sleep    func(time.Duration)
}

// NewProbe returns a Probe with the default retry budget.
func NewProbe(src Source) *Probe {
	return &Probe{
		src:      src,
		attempts: ProbeAttempts,
		delay:    ProbeRetryDelay,
		deadline: ProbeDeadline,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// ReadTemperature returns the probe temperature in degrees Celsius.
// Only ErrNotReady is retried; I/O and parse failures return at once.
// A retry is skipped when the wait plus the slowest read so far would pass
// the deadline, so a probe that blocks on conversion gets fewer attempts.
func (p *Probe) ReadTemperature() (float64, error) {
	start := p.now()
	var lastErr error
	var slowest time.Duration
	attempt := 0
	for attempt < p.attempts {
		if attempt > 0 {
			if p.now().Sub(start)+p.delay+slowest > p.deadline {
				break
			}
			p.sleep(p.delay)
		}
		attempt++

		readStart := p.now()
		data, err := p.src.ReadRaw()
		if d := p.now().Sub(readStart); d > slowest {
			slowest = d
		}
		if err != nil {
			return 0, err
		}

		temp, err := ParseW1Slave(data)
		if err == nil {
			return temp, nil
		}
		if !errors.Is(err, ErrNotReady) {
			return 0, err
		}
		lastErr = err
	}
	return 0, errors.Wrapf(lastErr, "gave up after %d attempts in %v", attempt, p.now().Sub(start).Round(time.Millisecond))
}
