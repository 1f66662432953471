package panel

import (
	"bufio"
	"io"
)

// ScanCommands reads operator lines from r and sends each parsed command on
// cmds. Parse failures go to report. It returns when r is exhausted or after
// an exit command has been sent. Blank lines are ignored.
func ScanCommands(r io.Reader, cmds chan<- Command, report func(error)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		cmd, err := ParseCommand(sc.Text())
		if err == ErrEmpty {
			continue
		}
		if err != nil {
			report(err)
			continue
		}
		cmds <- cmd
		if cmd.Kind == KindExit {
			return nil
		}
	}
	return sc.Err()
}
