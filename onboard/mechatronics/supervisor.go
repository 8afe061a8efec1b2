// Package mechatronics runs the control loop: it drains the command queue,
// dispatches each command to its subsystem and ticks every subsystem once per
// cycle.
package mechatronics

import (
	"context"
	"runtime"
	"time"

	"github.com/CodedInternet/gominer/onboard/state"
	"github.com/CodedInternet/gominer/onboard/subsystem"
	"github.com/hashicorp/go-hclog"
)

const (
	DEFAULT_CYCLE_PERIOD = time.Millisecond
)

// Event reports the outcome of one dispatched command.
type Event struct {
	Command Command
	Err     error
	Cycle   uint64
}

type Supervisor struct {
	state  *state.GlobalRobotState
	queue  *Queue
	drive  *subsystem.DriveTrain
	dumper *subsystem.Dumper
	intake *subsystem.Intake
	all    []subsystem.Subsystem
	period time.Duration
	events chan<- Event
	l      hclog.Logger
}

type Option func(*Supervisor)

// WithCyclePeriod sets the pause between cycles. Zero only yields the
// processor.
func WithCyclePeriod(d time.Duration) Option {
	return func(s *Supervisor) {
		s.period = d
	}
}

// WithEvents publishes an Event per dispatched command on ch. Events are
// dropped while ch is full.
func WithEvents(ch chan<- Event) Option {
	return func(s *Supervisor) {
		s.events = ch
	}
}

func NewSupervisor(st *state.GlobalRobotState, q *Queue, drive *subsystem.DriveTrain, dumper *subsystem.Dumper, intake *subsystem.Intake, l hclog.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		state:  st,
		queue:  q,
		drive:  drive,
		dumper: dumper,
		intake: intake,
		all:    []subsystem.Subsystem{drive, dumper, intake},
		period: DEFAULT_CYCLE_PERIOD,
		l:      l.Named("supervisor"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Step runs a single cycle and reports whether a command was dispatched.
func (s *Supervisor) Step() bool {
	cycle := s.state.IncrementCycle()

	cmd, ok := s.queue.TryNext()
	if ok {
		err := s.Dispatch(cmd)
		s.publish(Event{Command: cmd, Err: err, Cycle: cycle})
	}

	for _, sub := range s.all {
		sub.Tick()
	}
	return ok
}

func (s *Supervisor) publish(e Event) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- e:
	default:
		s.l.Trace("event dropped", "command", e.Command.ID)
	}
}

// Dispatch applies cmd to the plant. Invalid commands are rejected without
// touching any subsystem.
func (s *Supervisor) Dispatch(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		s.l.Warn("rejected command", "command", cmd.String(), "error", err)
		return err
	}
	s.l.Debug("dispatch", "command", cmd.String(), "id", cmd.ID)

	switch cmd.Verb {
	case EnterDrive:
		s.enter(s.drive)
	case EnterDump:
		s.enter(s.dumper)
	case EnterDig:
		s.enter(s.intake)
	case Drive:
		s.drive.Drive(cmd.Left, cmd.Right)
	case Brake:
		s.drive.Brake()
	case Dump:
		s.dumper.Dump()
	case ResetDumper:
		s.dumper.Reset()
	case StopDumper:
		s.dumper.Stop()
	case Dig:
		s.intake.Dig()
	case StopDigger:
		s.intake.StopLadder()
	case Raise:
		s.intake.Raise()
	case Lower:
		s.intake.Lower()
	case StopActuators:
		s.intake.StopActuators()
	case Kill:
		s.state.Life().Kill()
		s.Halt()
		s.l.Warn("killed")
	case Revive:
		s.state.Life().Revive()
		s.l.Info("revived")
	}
	return nil
}

// enter disables every other subsystem before enabling target.
func (s *Supervisor) enter(target subsystem.Subsystem) {
	for _, sub := range s.all {
		if sub != target {
			sub.Disable()
		}
	}
	target.Enable()
	s.l.Info("mode", "enabled", target.Name())
}

// Halt stops every motor and leaves the enable flags as they are.
func (s *Supervisor) Halt() {
	for _, sub := range s.all {
		sub.Halt()
	}
}

// Run loops until ctx is cancelled, then halts every motor.
func (s *Supervisor) Run(ctx context.Context) error {
	s.l.Info("starting", "period", s.period, "queue", s.queue.Cap())
	defer func() {
		s.Halt()
		s.l.Info("stopped", "cycles", s.state.CycleCounter())
	}()

	if s.period <= 0 {
		for ctx.Err() == nil {
			s.Step()
			runtime.Gosched()
		}
		return nil
	}

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		s.Step()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
