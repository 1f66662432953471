package gpio

import (
	"errors"
	"testing"
)

func TestFakePinsPreset(t *testing.T) {
	f := NewFakePins(Output{Pin: 22, Initial: High}, Output{Pin: 17, Initial: Low})

	got, err := f.Read(22)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != High {
		t.Errorf("pin 22: expected HIGH, got %s", got)
	}

	got, err = f.Read(17)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Low {
		t.Errorf("pin 17: expected LOW, got %s", got)
	}

	if len(f.Writes) != 0 {
		t.Errorf("preset should not be recorded as writes, got %d", len(f.Writes))
	}
}

func TestFakePinsWriteAndRead(t *testing.T) {
	f := NewFakePins(Output{Pin: 27, Initial: High})

	if err := f.Write(27, Low); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Write(27, High); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := f.Read(27)
	if got != High {
		t.Errorf("expected HIGH after last write, got %s", got)
	}

	writes := f.WritesTo(27)
	if len(writes) != 2 || writes[0] != Low || writes[1] != High {
		t.Errorf("expected writes [LOW HIGH], got %v", writes)
	}
}

func TestFakePinsUnknownPin(t *testing.T) {
	f := NewFakePins()

	if _, err := f.Read(4); err == nil {
		t.Error("expected error reading unconfigured pin")
	}
}

func TestFakePinsWriteError(t *testing.T) {
	f := NewFakePins(Output{Pin: 17, Initial: Low})
	f.WriteErrors[17] = errors.New("simulated error")

	err := f.Write(17, High)
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}

	got, _ := f.Read(17)
	if got != Low {
		t.Errorf("failed write must not change level, got %s", got)
	}
	if len(f.Writes) != 0 {
		t.Errorf("failed write must not be recorded, got %d", len(f.Writes))
	}
}

func TestFakePinsReadError(t *testing.T) {
	f := NewFakePins(Output{Pin: 17, Initial: Low})
	f.ReadErrors[17] = errors.New("bus error")

	if _, err := f.Read(17); err == nil {
		t.Error("expected scripted read error")
	}
}

func TestFakePinsCloseAndReset(t *testing.T) {
	f := NewFakePins(Output{Pin: 22, Initial: High})
	f.Write(22, Low)
	f.WriteErrors[22] = errors.New("boom")

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed || len(f.Writes) != 0 {
		t.Error("Reset should clear writes and closed flag")
	}
	if err := f.Write(22, High); err != nil {
		t.Errorf("Reset should clear scripted errors, got %v", err)
	}
}

func TestLevelString(t *testing.T) {
	if High.String() != "HIGH" {
		t.Errorf("High: got %q", High.String())
	}
	if Low.String() != "LOW" {
		t.Errorf("Low: got %q", Low.String())
	}
}
