package mechatronics

import (
	"github.com/CodedInternet/gominer/onboard/hardware"
	"github.com/CodedInternet/gominer/onboard/motor"
	"github.com/CodedInternet/gominer/onboard/state"
	"github.com/CodedInternet/gominer/onboard/subsystem"
	"github.com/hashicorp/go-hclog"
)

var testLogger = hclog.NewNullLogger()

type rig struct {
	reg   *state.GlobalRobotState
	board *hardware.MemoryBoard
	queue *Queue
	sup   *Supervisor
}

func newRig(opts ...Option) *rig {
	r := &rig{
		reg:   state.NewGlobalRobotState(),
		board: hardware.NewMemoryBoard(),
		queue: NewQueue(DEFAULT_QUEUE_DEPTH),
	}

	leaf := func(name string) motor.Port {
		return motor.NewAnalogMotor(name, r.board.Analog(name), testLogger)
	}

	drive := r.reg.Drive()
	dumper := r.reg.Dumper()
	intake := r.reg.Intake()

	r.sup = NewSupervisor(r.reg, r.queue,
		subsystem.NewDriveTrain(r.reg.Life(), drive,
			motor.NewGroup(drive.Left, leaf("left")),
			motor.NewGroup(drive.Right, motor.Invert(leaf("right")))),
		subsystem.NewDumper(r.reg.Life(), dumper,
			motor.WithLimits(motor.NewGroup(dumper.Motor, leaf("dumper")), dumper.Limits.Upper, dumper.Limits.Lower),
			subsystem.DumperRates{Dumping: 1, Resetting: 1}),
		subsystem.NewIntake(r.reg.Life(), intake,
			motor.NewGroup(intake.Ladder, leaf("ladder")),
			motor.NewGroup(intake.Actuator, leaf("rail_left"), leaf("rail_right")),
			subsystem.IntakeRates{Digging: 0.75, Raising: 0.5, Lowering: 0.5}),
		testLogger, opts...)

	return r
}

// run submits every command and steps until the queue is drained.
func (r *rig) run(cmds ...Command) (errs []error) {
	for _, cmd := range cmds {
		errs = append(errs, r.queue.Submit(cmd))
		for r.sup.Step() {
		}
	}
	return
}

func (r *rig) motors() map[string]float32 {
	snap := r.reg.Snapshot()
	return map[string]float32{
		"left":     snap.Drive.Left.Speed,
		"right":    snap.Drive.Right.Speed,
		"dumper":   snap.Dumper.Motor.Speed,
		"ladder":   snap.Intake.Ladder.Motor.Speed,
		"actuator": snap.Intake.Actuator.Speed,
	}
}
