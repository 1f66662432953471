package panel

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/teikit/smart-locker/internal/actuator"
)

// Kind is the type of an operator command.
type Kind int

const (
	KindSet Kind = iota
	KindStatus
	KindExit
)

// Command is one parsed operator input line.
type Command struct {
	Kind   Kind
	ID     actuator.ID
	Intent actuator.Intent
}

// Bench-tool shorthand: a/d (activate/deactivate) followed by f/l/h.
// Activating the lock opens it.
var shortCodes = map[string]Command{
	"af": {Kind: KindSet, ID: actuator.Fan, Intent: actuator.Engaged},
	"df": {Kind: KindSet, ID: actuator.Fan, Intent: actuator.Disengaged},
	"al": {Kind: KindSet, ID: actuator.Lock, Intent: actuator.Disengaged},
	"dl": {Kind: KindSet, ID: actuator.Lock, Intent: actuator.Engaged},
	"ah": {Kind: KindSet, ID: actuator.HeatingPad, Intent: actuator.Engaged},
	"dh": {Kind: KindSet, ID: actuator.HeatingPad, Intent: actuator.Disengaged},
}

// ErrEmpty is returned for blank input lines.
var ErrEmpty = errors.New("empty command")

// ParseCommand parses an operator line such as "fan on", "lock open", "dh",
// "status" or "exit".
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}

	if len(fields) == 1 {
		switch fields[0] {
		case "exit", "quit", "q":
			return Command{Kind: KindExit}, nil
		case "status", "s", "?":
			return Command{Kind: KindStatus}, nil
		}
		if cmd, ok := shortCodes[fields[0]]; ok {
			return cmd, nil
		}
		return Command{}, errors.Errorf("unknown command %q", fields[0])
	}

	if len(fields) != 2 {
		return Command{}, errors.Errorf("expected <actuator> <state>, got %q", line)
	}

	id, err := actuator.ParseID(fields[0])
	if err != nil {
		return Command{}, err
	}
	intent, err := parseIntent(id, fields[1])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: KindSet, ID: id, Intent: intent}, nil
}

func parseIntent(id actuator.ID, word string) (actuator.Intent, error) {
	switch word {
	case "engage", "engaged":
		return actuator.Engaged, nil
	case "disengage", "disengaged":
		return actuator.Disengaged, nil
	}

	if id == actuator.Lock {
		switch word {
		case "close", "closed", "lock":
			return actuator.Engaged, nil
		case "open", "unlock":
			return actuator.Disengaged, nil
		}
		return false, errors.Errorf("lock: unknown state %q (want open or close)", word)
	}

	switch word {
	case "on", "1":
		return actuator.Engaged, nil
	case "off", "0":
		return actuator.Disengaged, nil
	}
	return false, errors.Errorf("%s: unknown state %q (want on or off)", id, word)
}

func (c Command) String() string {
	switch c.Kind {
	case KindExit:
		return "exit"
	case KindStatus:
		return "status"
	}
	return c.ID.String() + " " + strings.ToLower(Label(c.ID, c.Intent))
}
