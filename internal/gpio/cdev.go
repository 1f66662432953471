//go:build linux

package gpio

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
)

// CdevPins drives outputs through the Linux GPIO character device.
type CdevPins struct {
	chip     *gpiocdev.Chip
	lines    map[int]*gpiocdev.Line
	readOnly bool
}

// NewCdevPins opens the named chip and requests every output line at its
// initial level.
func NewCdevPins(chipName string, outputs []Output) (*CdevPins, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, errors.Wrapf(err, "open gpio chip %s", chipName)
	}

	p := &CdevPins{chip: chip, lines: make(map[int]*gpiocdev.Line)}
	for _, out := range outputs {
		line, err := chip.RequestLine(out.Pin, gpiocdev.AsOutput(int(out.Initial)))
		if err != nil {
			p.Close()
			return nil, errors.Wrapf(err, "request output pin %d", out.Pin)
		}
		p.lines[out.Pin] = line
	}
	return p, nil
}

// InspectCdevPins requests lines as-is so their current levels can be read
// without driving them. Write always fails on the result.
func InspectCdevPins(chipName string, pins []int) (*CdevPins, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, errors.Wrapf(err, "open gpio chip %s", chipName)
	}

	p := &CdevPins{chip: chip, lines: make(map[int]*gpiocdev.Line), readOnly: true}
	for _, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsIs)
		if err != nil {
			p.Close()
			return nil, errors.Wrapf(err, "request pin %d", pin)
		}
		p.lines[pin] = line
	}
	return p, nil
}

// Write drives a requested output line.
func (p *CdevPins) Write(pin int, level Level) error {
	if p.readOnly {
		return ErrReadOnly
	}
	line, ok := p.lines[pin]
	if !ok {
		return errors.Errorf("pin %d not requested", pin)
	}
	if err := line.SetValue(int(level)); err != nil {
		return errors.Wrapf(err, "set pin %d %s", pin, level)
	}
	return nil
}

// Read returns the value currently held by a requested line.
func (p *CdevPins) Read(pin int) (Level, error) {
	line, ok := p.lines[pin]
	if !ok {
		return Low, errors.Errorf("pin %d not requested", pin)
	}
	v, err := line.Value()
	if err != nil {
		return Low, errors.Wrapf(err, "read pin %d", pin)
	}
	if v != 0 {
		return High, nil
	}
	return Low, nil
}

// Close releases all lines and the chip.
// Lines are reconfigured to input with pull-down (Pi boot default) first so
// relay boards are not left latched by a stale output driver.
func (p *CdevPins) Close() error {
	var errs []error

	pins := make([]int, 0, len(p.lines))
	for pin := range p.lines {
		pins = append(pins, pin)
	}
	sort.Ints(pins)

	for _, pin := range pins {
		line := p.lines[pin]
		if p.readOnly {
			if err := line.Close(); err != nil {
				errs = append(errs, errors.Wrapf(err, "close pin %d", pin))
			}
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, errors.Wrapf(err, "reconfigure pin %d", pin))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, errors.Wrapf(err, "close pin %d", pin))
		}
	}
	p.lines = map[int]*gpiocdev.Line{}

	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close chip"))
		}
		p.chip = nil
	}

	if len(errs) > 0 {
		return errors.Errorf("close errors: %v", errs)
	}
	return nil
}
