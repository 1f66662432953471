// Command locker-panel polls the locker sensors, shows them on the console and
// lets the operator switch the fan, lock and heating pad.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/teikit/smart-locker/internal/actuator"
	"github.com/teikit/smart-locker/internal/gpio"
	"github.com/teikit/smart-locker/internal/history"
	"github.com/teikit/smart-locker/internal/panel"
	"github.com/teikit/smart-locker/internal/sensor"
	"github.com/teikit/smart-locker/internal/status"
)

// probeOff disables the contact probe when passed as --probe-device.
const probeOff = "off"

type options struct {
	Poll time.Duration `long:"poll" env:"LOCKER_POLL" default:"2s" description:"Sensor polling interval"`

	DHTPin      int    `long:"dht-pin" env:"LOCKER_DHT_PIN" default:"5" description:"BCM pin of the DHT22 (-1 if not fitted)"`
	ProbeDevice string `long:"probe-device" env:"LOCKER_PROBE_DEVICE" description:"w1_slave file of the contact probe (empty: auto-discover, \"off\": not fitted)"`
	W1Base      string `long:"w1-base" env:"LOCKER_W1_BASE" default:"/sys/bus/w1/devices" description:"One-wire sysfs directory searched by auto-discovery"`

	FanPin       int    `long:"fan-pin" env:"LOCKER_FAN_PIN" default:"22" description:"BCM pin of the fan relay"`
	LockPin      int    `long:"lock-pin" env:"LOCKER_LOCK_PIN" default:"17" description:"BCM pin of the lock relay"`
	PadPin       int    `long:"pad-pin" env:"LOCKER_PAD_PIN" default:"27" description:"BCM pin of the heating pad relay"`
	FanPolarity  string `long:"fan-polarity" env:"LOCKER_FAN_POLARITY" default:"active-low" choice:"active-high" choice:"active-low" description:"Level that switches the fan on"`
	LockPolarity string `long:"lock-polarity" env:"LOCKER_LOCK_POLARITY" choice:"active-high" choice:"active-low" description:"Level that closes the lock (required, depends on the relay board)"`
	PadPolarity  string `long:"pad-polarity" env:"LOCKER_PAD_POLARITY" default:"active-low" choice:"active-high" choice:"active-low" description:"Level that switches the heating pad on"`

	Backend string `long:"gpio-backend" env:"LOCKER_GPIO_BACKEND" default:"cdev" choice:"cdev" choice:"rpio" description:"GPIO access method"`
	Chip    string `long:"gpio-chip" env:"LOCKER_GPIO_CHIP" default:"gpiochip0" description:"GPIO character device (cdev backend)"`

	History int `long:"history" env:"LOCKER_HISTORY" default:"50" description:"Number of readings kept for the console summary"`

	PrintState bool `long:"print-state" description:"Print current readings and actuator levels and exit"`
	JSON       bool `long:"json" description:"Print state as JSON (with --print-state)"`
	Quiet      bool `short:"q" long:"quiet" description:"Do not redraw the console frame on every poll"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// validate rejects settings go-flags cannot check on its own.
func (o options) validate() error {
	if o.Poll <= 0 {
		return fmt.Errorf("--poll must be positive, got %v", o.Poll)
	}
	return nil
}

// wiring builds the actuator config from the flags. The lock polarity has no
// default: relay boards differ and a wrong guess leaves the locker open.
func (o options) wiring() (actuator.Config, error) {
	if o.LockPolarity == "" {
		return nil, errors.New("--lock-polarity is required (active-high or active-low)")
	}
	cfg := actuator.Config{}
	for _, w := range []struct {
		id       actuator.ID
		pin      int
		polarity string
	}{
		{actuator.Fan, o.FanPin, o.FanPolarity},
		{actuator.Lock, o.LockPin, o.LockPolarity},
		{actuator.HeatingPad, o.PadPin, o.PadPolarity},
	} {
		p, err := actuator.ParsePolarity(w.polarity)
		if err != nil {
			return nil, fmt.Errorf("%s polarity: %w", w.id, err)
		}
		cfg[w.id] = actuator.Wiring{Pin: w.pin, Polarity: p}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("actuator wiring: %w", err)
	}
	return cfg, nil
}

func openPins(o options, cfg actuator.Config) (gpio.Pins, error) {
	if o.PrintState {
		pins := make([]int, 0, len(cfg))
		for _, out := range cfg.InitialOutputs() {
			pins = append(pins, out.Pin)
		}
		if o.Backend == "rpio" {
			return gpio.InspectRpioPins(pins)
		}
		return gpio.InspectCdevPins(o.Chip, pins)
	}
	if o.Backend == "rpio" {
		return gpio.NewRpioPins(cfg.InitialOutputs())
	}
	return gpio.NewCdevPins(o.Chip, cfg.InitialOutputs())
}

// openSensors returns the fitted sensor channels; an unfitted one is nil.
func openSensors(o options) (sensor.HumiditySensor, sensor.TemperatureProbe, string) {
	var humidity sensor.HumiditySensor
	if o.DHTPin >= 0 {
		d, err := sensor.NewDHT(o.DHTPin)
		if err != nil {
			log.Printf("humidity sensor disabled: %v", err)
		} else {
			humidity = d
		}
	}

	device := o.ProbeDevice
	switch device {
	case probeOff:
		return humidity, nil, ""
	case "":
		found, err := sensor.DiscoverProbe(o.W1Base)
		if err != nil {
			log.Printf("probe disabled: %v", err)
			return humidity, nil, ""
		}
		device = found
	}
	return humidity, sensor.NewProbe(sensor.FileSource{Path: device}), device
}

// statusConfig describes the running panel. The history size is taken from
// the window, which replaces a non-positive --history with its default.
func statusConfig(opts options, cfg actuator.Config, window *history.Window, device string, humidityFitted, probeFitted bool) status.Config {
	return status.Config{
		PollMs:         opts.Poll.Milliseconds(),
		Backend:        opts.Backend,
		Chip:           opts.Chip,
		DHTPin:         opts.DHTPin,
		ProbeDevice:    device,
		HistorySize:    window.Cap(),
		Wiring:         cfg,
		HumidityFitted: humidityFitted,
		ProbeFitted:    probeFitted,
	}
}

func run(opts options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	cfg, err := opts.wiring()
	if err != nil {
		return err
	}

	pins, err := openPins(opts, cfg)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer pins.Close()

	ctrl, err := actuator.NewController(pins, cfg)
	if err != nil {
		return fmt.Errorf("init actuators: %w", err)
	}

	humidity, probe, device := openSensors(opts)
	reader := sensor.NewReader(humidity, probe)
	window := history.New(opts.History)

	tracker := status.NewTracker(time.Now(), statusConfig(opts, cfg, window, device, humidity != nil, probe != nil))

	// Print state mode
	if opts.PrintState {
		return printState(os.Stdout, reader, ctrl, tracker, opts.JSON)
	}

	if err := ctrl.AssertDefaults(); err != nil {
		return fmt.Errorf("assert safe defaults: %w", err)
	}
	defer func() {
		if err := ctrl.AssertDefaults(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("started: poll=%v backend=%s dht-pin=%d probe=%q fan=%d/%s lock=%d/%s pad=%d/%s",
		opts.Poll, opts.Backend, opts.DHTPin, device,
		cfg[actuator.Fan].Pin, cfg[actuator.Fan].Polarity,
		cfg[actuator.Lock].Pin, cfg[actuator.Lock].Polarity,
		cfg[actuator.HeatingPad].Pin, cfg[actuator.HeatingPad].Polarity)

	cmds := make(chan panel.Command)
	go func() {
		err := panel.ScanCommands(os.Stdin, cmds, func(err error) {
			log.Printf("command: %v", err)
		})
		if err != nil {
			log.Printf("stdin: %v", err)
		}
		close(cmds)
	}()

	ticker := time.NewTicker(opts.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var out io.Writer = os.Stdout
	if opts.Quiet {
		out = nil
	}
	l := &loop{
		reader:  reader,
		ctrl:    ctrl,
		tracker: tracker,
		window:  window,
		out:     out,
		status:  os.Stdout,
	}
	return runLoop(l, ticker.C, cmds, sigCh)
}

// poller is satisfied by *sensor.Reader.
type poller interface {
	Poll() sensor.Reading
}

// loop holds what runLoop drives. out receives a frame after every poll and
// command; nil disables redrawing. status receives the JSON for "status".
type loop struct {
	reader  poller
	ctrl    *actuator.Controller
	tracker *status.Tracker
	window  *history.Window
	out     io.Writer
	status  io.Writer
}

// runLoop serializes polling and operator commands on one goroutine. It polls
// once immediately and returns on a signal or an exit command.
func runLoop(l *loop, tick <-chan time.Time, cmds <-chan panel.Command, sig <-chan os.Signal) error {
	l.poll()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			return nil

		case <-tick:
			l.poll()

		case cmd, ok := <-cmds:
			if !ok {
				// stdin closed; keep polling until signalled
				cmds = nil
				continue
			}
			if cmd.Kind == panel.KindExit {
				log.Printf("exit requested")
				return nil
			}
			l.command(cmd)
		}
	}
}

func (l *loop) poll() {
	r := l.reader.Poll()
	l.window.Push(r)
	l.tracker.RecordReading(r)
	l.tracker.SetActuators(l.ctrl.States())
	l.draw()
}

func (l *loop) command(cmd panel.Command) {
	switch cmd.Kind {
	case panel.KindStatus:
		if l.status == nil {
			return
		}
		data, err := status.FormatJSON(l.tracker.Snapshot())
		if err != nil {
			log.Printf("status: %v", err)
			return
		}
		fmt.Fprintf(l.status, "%s\n", data)
		return
	case panel.KindSet:
		err := l.ctrl.SetIntent(cmd.ID, cmd.Intent)
		l.tracker.RecordCommand(err)
		if err != nil {
			log.Printf("command %s failed: %v", cmd, err)
		} else {
			log.Printf("command %s: %s", cmd, panel.Label(cmd.ID, cmd.Intent))
		}
		l.tracker.SetActuators(l.ctrl.States())
		l.draw()
	}
}

func (l *loop) draw() {
	if l.out == nil {
		return
	}
	if err := panel.Render(l.out, l.tracker.Snapshot(), l.window); err != nil {
		log.Printf("render: %v", err)
	}
}

// printState polls once, reads every actuator pin back and writes the result.
// The text form ends with the level read on each pin. Read-back failures are
// reported after the output.
func printState(w io.Writer, reader poller, ctrl *actuator.Controller, tracker *status.Tracker, asJSON bool) error {
	tracker.RecordReading(reader.Poll())

	states := make(map[actuator.ID]actuator.Intent, len(actuator.IDs))
	unread := make(map[actuator.ID]struct{})
	var errs []error
	for _, id := range actuator.IDs {
		in, err := ctrl.Verify(id)
		if err != nil {
			errs = append(errs, err)
			unread[id] = struct{}{}
			in = actuator.SafeDefault(id)
		}
		states[id] = in
	}
	tracker.SetActuators(states)

	snap := tracker.Snapshot()
	if asJSON {
		data, err := status.FormatJSON(snap)
		if err != nil {
			return fmt.Errorf("format status: %w", err)
		}
		fmt.Fprintf(w, "%s\n", data)
		return errors.Join(errs...)
	}

	if err := panel.Render(w, snap, nil); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	for _, id := range actuator.IDs {
		if _, failed := unread[id]; failed {
			fmt.Fprintf(w, "%-14s pin %d unreadable\n", id, ctrl.Wiring(id).Pin)
			continue
		}
		wr := ctrl.Wiring(id)
		fmt.Fprintf(w, "%-14s pin %d %s (%s)\n", id, wr.Pin, actuator.LevelFor(states[id], wr.Polarity), wr.Polarity)
	}
	return errors.Join(errs...)
}
