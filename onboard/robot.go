package onboard

import (
	"context"
	"io"

	"github.com/CodedInternet/gominer/onboard/hardware"
	"github.com/CodedInternet/gominer/onboard/mechatronics"
	"github.com/CodedInternet/gominer/onboard/sensor"
	"github.com/CodedInternet/gominer/onboard/state"
	"github.com/CodedInternet/gominer/onboard/subsystem"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	EVENT_BUFFER = 64
)

// Robot is the assembled controller: registry, queue, supervisor, monitor and
// the hardware they drive.
type Robot struct {
	Config     RobotConfig
	State      *state.GlobalRobotState
	Queue      *mechatronics.Queue
	Supervisor *mechatronics.Supervisor
	Monitor    *sensor.Monitor
	Benchmark  *mechatronics.Benchmark

	board   hardware.Board
	arduino *hardware.Arduino
	events  chan mechatronics.Event
	l       hclog.Logger
}

// OpenBoard connects the hardware selected by cfg.Mode. print mode writes to
// w. The arduino is only opened in production with a serial port configured.
func OpenBoard(cfg RobotConfig, w io.Writer, l hclog.Logger) (board hardware.Board, arduino *hardware.Arduino, err error) {
	switch cfg.Mode {
	case MODE_PRODUCTION:
		board, err = hardware.NewGobotBoard(cfg.ActiveLow, l)
		if err != nil {
			return
		}
		if cfg.Serial.Port != "" {
			arduino, err = hardware.OpenArduino(cfg.Serial.Port, cfg.Serial.Baud, cfg.Serial.Firmware, l)
			if err != nil {
				board.Close()
				return nil, nil, err
			}
		}

	case MODE_TEST:
		board = hardware.NewMemoryBoard()

	case MODE_PRINT:
		board = hardware.NewPrintBoard(w)

	default:
		err = errors.Errorf("unable to open board for mode %q", cfg.Mode)
	}

	return
}

// NewRobot builds every component on board. arduino may be nil.
func NewRobot(cfg RobotConfig, board hardware.Board, arduino *hardware.Arduino, l hclog.Logger) (r *Robot, err error) {
	r = &Robot{
		Config:  cfg,
		State:   state.NewGlobalRobotState(),
		Queue:   mechatronics.NewQueue(cfg.QueueDepth),
		board:   board,
		arduino: arduino,
		events:  make(chan mechatronics.Event, EVENT_BUFFER),
		l:       l,
	}
	reg := r.State

	b := &builder{cfg: cfg, board: board, arduino: arduino, l: l.Named("motor")}
	p, err := b.build(reg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build motors")
	}

	bindings, err := bindLimits(cfg, board, reg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to bind limits")
	}

	drive := subsystem.NewDriveTrain(reg.Life(), reg.Drive(), p.driveLeft, p.driveRight)
	dumper := subsystem.NewDumper(reg.Life(), reg.Dumper(), p.dumper, subsystem.DumperRates{
		Dumping:   cfg.Rates.Dumping,
		Resetting: cfg.Rates.Resetting,
	})
	intake := subsystem.NewIntake(reg.Life(), reg.Intake(), p.ladder, p.actuator, subsystem.IntakeRates{
		Digging:  cfg.Rates.Digging,
		Raising:  cfg.Rates.Raising,
		Lowering: cfg.Rates.Lowering,
	})

	r.Supervisor = mechatronics.NewSupervisor(reg, r.Queue, drive, dumper, intake, l,
		mechatronics.WithCyclePeriod(cfg.CyclePeriod),
		mechatronics.WithEvents(r.events),
	)
	r.Monitor = sensor.NewMonitor(cfg.MonitorPeriod, l, bindings...)
	r.Benchmark = mechatronics.NewBenchmark(reg, l)

	l.Info("robot built", "mode", cfg.Mode, "limits", len(bindings), "queue", r.Queue.Cap())
	return
}

// Submit queues cmd without blocking.
func (r *Robot) Submit(cmd mechatronics.Command) error {
	return r.Queue.Submit(cmd)
}

func (r *Robot) Snapshot() state.RobotSnapshot {
	return r.State.Snapshot()
}

func (r *Robot) Queued() int {
	return r.Queue.Len()
}

// Events carries the outcome of every dispatched command.
func (r *Robot) Events() <-chan mechatronics.Event {
	return r.events
}

// Run starts the supervisor, the monitor and, when enabled, the benchmark and
// blocks until ctx is done.
func (r *Robot) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	// limits are polled once before the first cycle
	r.Monitor.Poll()

	g.Go(func() error {
		return r.Supervisor.Run(ctx)
	})
	if r.Monitor.Len() > 0 {
		g.Go(func() error {
			return r.Monitor.Run(ctx)
		})
	}
	if r.Config.Bench {
		g.Go(func() error {
			return r.Benchmark.Run(ctx)
		})
	}

	return g.Wait()
}

// Close releases the hardware. Call it after Run has returned.
func (r *Robot) Close() (err error) {
	if r.arduino != nil {
		err = r.arduino.Close()
	}
	if cerr := r.board.Close(); err == nil {
		err = cerr
	}
	return
}
