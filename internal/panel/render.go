// Package panel is the operator console: it renders the panel state as text
// and parses operator commands.
package panel

import (
	"fmt"
	"io"
	"text/template"

	"github.com/teikit/smart-locker/internal/actuator"
	"github.com/teikit/smart-locker/internal/history"
	"github.com/teikit/smart-locker/internal/sensor"
	"github.com/teikit/smart-locker/internal/status"
)

var frameTmpl = template.Must(template.New("frame").Funcs(template.FuncMap{
	"value": func(v sensor.Value, unit string) string {
		if !v.Valid {
			return "---"
		}
		return fmt.Sprintf("%.1f %s", v.V, unit)
	},
}).Parse(frameText))

const frameText = `== Smart Locker ==  up {{.UptimeText}}
Ambient temp   {{value .Reading.AmbientTemp "°C"}}
Humidity       {{value .Reading.Humidity "%"}}
Pad temp       {{value .Reading.ProbeTemp "°C"}}
{{range .Actuators}}{{printf "%-14s" .Name}} {{.Label}}
{{end}}{{if .Window}}-- last {{.WindowLen}} readings --
{{range .Summaries}}{{printf "%-14s" .Channel}} min {{value .Min .Unit}}  max {{value .Max .Unit}}  last {{value .Last .Unit}}
{{end}}{{end}}{{if .LastCommandError}}! {{.LastCommandError}}
{{end}}`

// Label returns the operator wording for an actuator state.
func Label(id actuator.ID, in actuator.Intent) string {
	switch id {
	case actuator.Lock:
		if in == actuator.Engaged {
			return "CLOSED"
		}
		return "OPEN"
	default:
		if in == actuator.Engaged {
			return "ON"
		}
		return "OFF"
	}
}

type actuatorRow struct {
	Name  string
	Label string
}

type summaryRow struct {
	Channel string
	Unit    string
	history.Summary
}

func displayName(id actuator.ID) string {
	switch id {
	case actuator.Fan:
		return "Fan"
	case actuator.Lock:
		return "Lock"
	case actuator.HeatingPad:
		return "Heating pad"
	}
	return id.String()
}

// Render writes one text frame of the panel state. window may be nil.
func Render(w io.Writer, snap status.Snapshot, window *history.Window) error {
	data := struct {
		status.Snapshot
		Actuators []actuatorRow
		Window    bool
		WindowLen int
		Summaries []summaryRow
	}{
		Snapshot: snap,
	}

	for _, id := range actuator.IDs {
		data.Actuators = append(data.Actuators, actuatorRow{
			Name:  displayName(id),
			Label: Label(id, snap.Actuators[id]),
		})
	}

	if window != nil && window.Len() > 0 {
		data.Window = true
		data.WindowLen = window.Len()
		for _, c := range sensor.Channels {
			data.Summaries = append(data.Summaries, summaryRow{
				Channel: c.String(),
				Unit:    c.Unit(),
				Summary: window.Summarize(c),
			})
		}
	}

	return frameTmpl.Execute(w, data)
}
