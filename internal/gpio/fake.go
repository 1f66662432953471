package gpio

import (
	"fmt"
	"sync"
)

// Write records a single call to FakePins.Write.
type Write struct {
	Pin   int
	Level Level
}

// FakePins is a test double that keeps pin levels in memory and records
// every write.
type FakePins struct {
	mu sync.Mutex

	// Levels holds the current level of every pin that has been written or
	// preset.
	Levels map[int]Level

	// Writes contains every successful write in order.
	Writes []Write

	// WriteErrors, if set for a pin, is returned by Write for that pin.
	WriteErrors map[int]error

	// ReadErrors, if set for a pin, is returned by Read for that pin.
	ReadErrors map[int]error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePins creates FakePins with the given outputs preset to their
// initial levels. Presetting is not recorded as a write.
func NewFakePins(outputs ...Output) *FakePins {
	f := &FakePins{
		Levels:      make(map[int]Level),
		WriteErrors: make(map[int]error),
		ReadErrors:  make(map[int]error),
	}
	for _, out := range outputs {
		f.Levels[out.Pin] = out.Initial
	}
	return f
}

// Write records the level for pin unless an error is scripted for it.
func (f *FakePins) Write(pin int, level Level) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.WriteErrors[pin]; err != nil {
		return err
	}
	f.Levels[pin] = level
	f.Writes = append(f.Writes, Write{Pin: pin, Level: level})
	return nil
}

// Read returns the stored level of pin.
func (f *FakePins) Read(pin int) (Level, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ReadErrors[pin]; err != nil {
		return Low, err
	}
	level, ok := f.Levels[pin]
	if !ok {
		return Low, fmt.Errorf("pin %d not configured", pin)
	}
	return level, nil
}

// Close marks the pins as closed.
func (f *FakePins) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// WritesTo returns the recorded writes for a single pin.
func (f *FakePins) WritesTo(pin int) []Level {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Level
	for _, w := range f.Writes {
		if w.Pin == pin {
			out = append(out, w.Level)
		}
	}
	return out
}

// Reset clears recorded writes and scripted errors, keeping current levels.
func (f *FakePins) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Writes = nil
	f.WriteErrors = make(map[int]error)
	f.ReadErrors = make(map[int]error)
	f.Closed = false
}
