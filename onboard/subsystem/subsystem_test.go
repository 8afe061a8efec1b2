package subsystem

import (
	"errors"
	"testing"

	"github.com/CodedInternet/gominer/onboard/hardware"
	"github.com/CodedInternet/gominer/onboard/motor"
	"github.com/CodedInternet/gominer/onboard/state"
	"github.com/hashicorp/go-hclog"
	. "github.com/smartystreets/goconvey/convey"
)

var testLogger = hclog.NewNullLogger()

func port(board *hardware.MemoryBoard, name string, cell *state.MotorState) motor.Port {
	return motor.NewGroup(cell, motor.NewAnalogMotor(name, board.Analog(name), testLogger))
}

func TestDriveTrain(t *testing.T) {
	Convey("a drive train", t, func() {
		reg := state.NewGlobalRobotState()
		board := hardware.NewMemoryBoard()
		cell := reg.Drive()
		d := NewDriveTrain(reg.Life(), cell, port(board, "left", cell.Left), port(board, "right", cell.Right))

		Convey("brakes while disabled", func() {
			d.Drive(1, 1)
			So(cell.Left.Speed(), ShouldEqual, 0)
			So(d.Phase(), ShouldEqual, state.PhaseDisabled)
		})

		Convey("drives once enabled", func() {
			d.Enable()
			So(d.Phase(), ShouldEqual, state.PhaseIdle)
			d.Drive(1, -0.5)
			So(cell.Left.Speed(), ShouldEqual, 1)
			So(cell.Right.Speed(), ShouldEqual, -0.5)
			So(board.Analog("right").Value(), ShouldEqual, -0.5)
			So(d.Phase(), ShouldEqual, state.PhaseActive)

			Convey("brake stops both sides", func() {
				d.Brake()
				So(cell.Left.Speed(), ShouldEqual, 0)
				So(cell.Right.Speed(), ShouldEqual, 0)
				So(d.Phase(), ShouldEqual, state.PhaseIdle)
			})

			Convey("disable brakes before clearing the flag", func() {
				d.Disable()
				So(cell.Enabled(), ShouldBeFalse)
				So(cell.Left.Speed(), ShouldEqual, 0)
			})

			Convey("a dead robot brakes instead of driving", func() {
				reg.Life().Kill()
				d.Drive(0.5, 0.5)
				So(cell.Left.Speed(), ShouldEqual, 0)
				So(cell.Enabled(), ShouldBeTrue)
			})

			Convey("tick stops motion once the robot dies", func() {
				reg.Life().Kill()
				d.Tick()
				So(cell.Left.Speed(), ShouldEqual, 0)
				So(cell.Right.Speed(), ShouldEqual, 0)
			})

			Convey("tick retries a stop that failed", func() {
				board.Analog("left").Fail(errors.New("simulated write error"))
				d.Disable()
				So(cell.Left.LastWriteOK(), ShouldBeFalse)
				So(cell.Left.Speed(), ShouldEqual, 1)

				board.Analog("left").Fail(nil)
				d.Tick()
				So(cell.Left.Speed(), ShouldEqual, 0)
				So(cell.Left.LastWriteOK(), ShouldBeTrue)
			})
		})
	})
}

func TestDumper(t *testing.T) {
	Convey("a dumper", t, func() {
		reg := state.NewGlobalRobotState()
		board := hardware.NewMemoryBoard()
		cell := reg.Dumper()
		d := NewDumper(reg.Life(), cell, port(board, "dumper", cell.Motor), DumperRates{Dumping: 1, Resetting: 0.5})
		d.Enable()

		Convey("dumps and resets at the configured rates", func() {
			d.Dump()
			So(cell.Motor.Speed(), ShouldEqual, 1)
			d.Reset()
			So(cell.Motor.Speed(), ShouldEqual, -0.5)
			d.Stop()
			So(cell.Motor.Speed(), ShouldEqual, 0)
		})

		Convey("refuses to dump against the upper limit", func() {
			cell.Limits.SetUpper(true)
			d.Dump()
			So(cell.Motor.Speed(), ShouldEqual, 0)
		})

		Convey("refuses to reset against the lower limit", func() {
			cell.Limits.SetLower(true)
			d.Reset()
			So(cell.Motor.Speed(), ShouldEqual, 0)

			Convey("but may still dump", func() {
				d.Dump()
				So(cell.Motor.Speed(), ShouldEqual, 1)
			})
		})

		Convey("tick halts a reset when the lower limit trips mid motion", func() {
			d.Reset()
			cell.Limits.SetLower(true)
			d.Tick()
			So(cell.Motor.Speed(), ShouldEqual, 0)
		})

		Convey("tick leaves a move away from a tripped limit alone", func() {
			d.Reset()
			cell.Limits.SetUpper(true)
			d.Tick()
			So(cell.Motor.Speed(), ShouldEqual, -0.5)
		})

		Convey("halt keeps the enable flag", func() {
			d.Dump()
			d.Halt()
			So(cell.Motor.Speed(), ShouldEqual, 0)
			So(cell.Enabled(), ShouldBeTrue)
		})
	})
}

func TestIntake(t *testing.T) {
	Convey("an intake", t, func() {
		reg := state.NewGlobalRobotState()
		board := hardware.NewMemoryBoard()
		cell := reg.Intake()
		actuator := motor.NewGroup(cell.Actuator,
			motor.NewAnalogMotor("al", board.Analog("al"), testLogger),
			motor.NewAnalogMotor("ar", board.Analog("ar"), testLogger),
		)
		i := NewIntake(reg.Life(), cell, port(board, "ladder", cell.Ladder), actuator,
			IntakeRates{Digging: 0.75, Raising: 0.5, Lowering: 0.25})

		Convey("does nothing until enabled", func() {
			i.Dig()
			i.Raise()
			So(cell.Ladder.Speed(), ShouldEqual, 0)
			So(cell.Actuator.Speed(), ShouldEqual, 0)
		})

		Convey("once enabled", func() {
			i.Enable()

			Convey("digs and stops the ladder", func() {
				i.Dig()
				So(cell.Ladder.Speed(), ShouldEqual, 0.75)
				i.StopLadder()
				So(cell.Ladder.Speed(), ShouldEqual, 0)
			})

			Convey("moves both rails together", func() {
				i.Raise()
				So(cell.Actuator.Speed(), ShouldEqual, 0.5)
				So(board.Analog("al").Value(), ShouldEqual, 0.5)
				So(board.Analog("ar").Value(), ShouldEqual, 0.5)
				i.Lower()
				So(cell.Actuator.Speed(), ShouldEqual, -0.25)
				i.StopActuators()
				So(cell.Actuator.Speed(), ShouldEqual, 0)
			})

			Convey("will not raise with either upper limit tripped", func() {
				cell.LeftLimits.SetUpper(true)
				i.Raise()
				So(cell.Actuator.Speed(), ShouldEqual, 0)
				So(board.Analog("ar").Value(), ShouldEqual, 0)
			})

			Convey("will not lower with either lower limit tripped", func() {
				cell.RightLimits.SetLower(true)
				i.Lower()
				So(cell.Actuator.Speed(), ShouldEqual, 0)
			})

			Convey("tick stops both rails when one side trips", func() {
				i.Raise()
				cell.RightLimits.SetUpper(true)
				i.Tick()
				So(cell.Actuator.Speed(), ShouldEqual, 0)
				So(board.Analog("al").Value(), ShouldEqual, 0)
			})

			Convey("disable stops everything", func() {
				i.Dig()
				i.Raise()
				i.Disable()
				So(cell.Ladder.Speed(), ShouldEqual, 0)
				So(cell.Actuator.Speed(), ShouldEqual, 0)
				So(i.Phase(), ShouldEqual, state.PhaseDisabled)
			})
		})
	})
}
