package panel

import (
	"errors"
	"strings"
	"testing"

	"github.com/teikit/smart-locker/internal/actuator"
)

func TestParseCommandSet(t *testing.T) {
	tests := []struct {
		line string
		id   actuator.ID
		want actuator.Intent
	}{
		{"fan on", actuator.Fan, actuator.Engaged},
		{"FAN OFF", actuator.Fan, actuator.Disengaged},
		{"pad on", actuator.HeatingPad, actuator.Engaged},
		{"heater 0", actuator.HeatingPad, actuator.Disengaged},
		{"lock open", actuator.Lock, actuator.Disengaged},
		{"lock close", actuator.Lock, actuator.Engaged},
		{"lock engage", actuator.Lock, actuator.Engaged},
		{"  fan   disengage ", actuator.Fan, actuator.Disengaged},
		{"af", actuator.Fan, actuator.Engaged},
		{"df", actuator.Fan, actuator.Disengaged},
		{"al", actuator.Lock, actuator.Disengaged},
		{"dl", actuator.Lock, actuator.Engaged},
		{"ah", actuator.HeatingPad, actuator.Engaged},
		{"dh", actuator.HeatingPad, actuator.Disengaged},
	}

	for _, tt := range tests {
		cmd, err := ParseCommand(tt.line)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.line, err)
			continue
		}
		if cmd.Kind != KindSet || cmd.ID != tt.id || cmd.Intent != tt.want {
			t.Errorf("%q: got %+v, want %s %s", tt.line, cmd, tt.id, tt.want)
		}
	}
}

func TestParseCommandControl(t *testing.T) {
	for _, line := range []string{"exit", "quit", "q"} {
		cmd, err := ParseCommand(line)
		if err != nil || cmd.Kind != KindExit {
			t.Errorf("%q: got %+v, %v", line, cmd, err)
		}
	}
	cmd, err := ParseCommand("status")
	if err != nil || cmd.Kind != KindStatus {
		t.Errorf("status: got %+v, %v", cmd, err)
	}
}

func TestParseCommandErrors(t *testing.T) {
	if _, err := ParseCommand("   "); !errors.Is(err, ErrEmpty) {
		t.Errorf("blank: expected ErrEmpty, got %v", err)
	}

	for _, line := range []string{"xx", "door open", "fan open", "lock on", "fan on now"} {
		if _, err := ParseCommand(line); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
}

func TestCommandString(t *testing.T) {
	tests := map[Command]string{
		{Kind: KindSet, ID: actuator.Lock, Intent: actuator.Disengaged}:     "lock open",
		{Kind: KindSet, ID: actuator.HeatingPad, Intent: actuator.Engaged}:  "pad on",
		{Kind: KindExit}:   "exit",
		{Kind: KindStatus}: "status",
	}
	for cmd, want := range tests {
		if got := cmd.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestScanCommands(t *testing.T) {
	input := "fan on\n\nbogus\ndl\nexit\nfan off\n"
	cmds := make(chan Command, 10)
	var reported []error

	err := ScanCommands(strings.NewReader(input), cmds, func(err error) {
		reported = append(reported, err)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(cmds)

	var got []Command
	for c := range cmds {
		got = append(got, c)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 commands (stop at exit), got %d: %+v", len(got), got)
	}
	if got[0].ID != actuator.Fan || got[0].Intent != actuator.Engaged {
		t.Errorf("command 0: got %+v", got[0])
	}
	if got[2].Kind != KindExit {
		t.Errorf("command 2: expected exit, got %+v", got[2])
	}
	if len(reported) != 1 {
		t.Errorf("expected 1 parse error, got %v", reported)
	}
}

func TestScanCommandsEOF(t *testing.T) {
	cmds := make(chan Command, 10)
	if err := ScanCommands(strings.NewReader("pad on"), cmds, func(error) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds) != 1 {
		t.Errorf("expected 1 command, got %d", len(cmds))
	}
}
