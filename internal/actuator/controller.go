package actuator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/teikit/smart-locker/internal/gpio"
)

// ErrWriteFailure matches every error caused by a failed physical write.
var ErrWriteFailure = errors.New("actuator write failed")

// WriteError reports that the output for an actuator could not be driven.
type WriteError struct {
	ID     ID
	Pin    int
	Intent Intent
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s (pin %d) %s: %v", e.ID, e.Pin, e.Intent, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is reports ErrWriteFailure as matching.
func (e *WriteError) Is(target error) bool { return target == ErrWriteFailure }

// Controller owns the logical intent of every actuator and drives the pins.
// It is safe for concurrent use.
type Controller struct {
	pins gpio.Pins
	cfg  Config

	mu     sync.Mutex
	intent map[ID]Intent
	level  map[ID]gpio.Level
}

// NewController creates a controller with every actuator at its safe default.
// It does not touch the hardware; see AssertDefaults.
func NewController(pins gpio.Pins, cfg Config) (*Controller, error) {
	if pins == nil {
		return nil, errors.New("actuator: nil pins")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("actuator config: %w", err)
	}

	c := &Controller{
		pins:   pins,
		cfg:    make(Config, len(cfg)),
		intent: make(map[ID]Intent, len(IDs)),
		level:  make(map[ID]gpio.Level, len(IDs)),
	}
	for _, id := range IDs {
		w := cfg[id]
		c.cfg[id] = w
		c.intent[id] = SafeDefault(id)
		c.level[id] = LevelFor(SafeDefault(id), w.Polarity)
	}
	return c, nil
}

// SetIntent drives the actuator to intent and records it.
// Calling it again with the same intent re-asserts the same level.
// On a write failure the recorded intent is left unchanged.
func (c *Controller) SetIntent(id ID, intent Intent) error {
	if !id.valid() {
		return fmt.Errorf("actuator: unknown id %d", int(id))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drive(id, intent)
}

// drive must be called with mu held.
func (c *Controller) drive(id ID, intent Intent) error {
	w := c.cfg[id]
	level := LevelFor(intent, w.Polarity)
	if err := c.pins.Write(w.Pin, level); err != nil {
		return &WriteError{ID: id, Pin: w.Pin, Intent: intent, Err: err}
	}
	c.intent[id] = intent
	c.level[id] = level
	return nil
}

// CurrentState returns the last intent successfully set for id, or its safe
// default. The pin is not read.
func (c *Controller) CurrentState(id ID) Intent {
	if !id.valid() {
		return Disengaged
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intent[id]
}

// Level returns the pin level last driven for id.
func (c *Controller) Level(id ID) gpio.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level[id]
}

// States returns a copy of every actuator's intent.
func (c *Controller) States() map[ID]Intent {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[ID]Intent, len(c.intent))
	for id, in := range c.intent {
		out[id] = in
	}
	return out
}

// Wiring returns the configured wiring for id.
func (c *Controller) Wiring(id ID) Wiring {
	return c.cfg[id]
}

// AssertDefaults drives every actuator to its safe default. All actuators are
// attempted; the returned error joins every failure.
func (c *Controller) AssertDefaults() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, id := range IDs {
		if err := c.drive(id, SafeDefault(id)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Verify reads the pin back and translates its level into an intent.
func (c *Controller) Verify(id ID) (Intent, error) {
	if !id.valid() {
		return Disengaged, fmt.Errorf("actuator: unknown id %d", int(id))
	}
	w := c.cfg[id]
	level, err := c.pins.Read(w.Pin)
	if err != nil {
		return Disengaged, fmt.Errorf("read back %s (pin %d): %w", id, w.Pin, err)
	}
	return IntentFor(level, w.Polarity), nil
}
