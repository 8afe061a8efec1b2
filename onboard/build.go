package onboard

import (
	"fmt"

	"github.com/CodedInternet/gominer/onboard/hardware"
	"github.com/CodedInternet/gominer/onboard/motor"
	"github.com/CodedInternet/gominer/onboard/sensor"
	"github.com/CodedInternet/gominer/onboard/state"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

// builder composes motor ports from config onto a board.
type builder struct {
	cfg     RobotConfig
	board   hardware.Board
	arduino *hardware.Arduino
	l       hclog.Logger
}

func (b *builder) analog(mc MotorConfig) (hardware.AnalogOutput, error) {
	if mc.Driver == DRIVER_ARDUINO {
		if b.arduino != nil {
			return b.arduino.AnalogOutput(mc.Channel)
		}
		if b.cfg.Mode == MODE_PRODUCTION {
			return nil, errors.New("arduino driver configured without a serial port")
		}
		return b.board.AnalogOutput("arduino" + mc.Channel)
	}
	return b.board.AnalogOutput(mc.Channel)
}

func (b *builder) leaf(name string, mc MotorConfig) (p motor.Port, err error) {
	l := b.l.Named(name)

	switch mc.Driver {
	case DRIVER_ANALOG, DRIVER_ARDUINO:
		var out hardware.AnalogOutput
		if out, err = b.analog(mc); err != nil {
			return
		}
		p = motor.NewAnalogMotor(name, out, l)

	case DRIVER_HOVERBOARD:
		var pwm hardware.PwmOutput
		var dir hardware.DigitalOutput
		if pwm, err = b.board.PwmOutput(mc.Pwm); err != nil {
			return
		}
		if dir, err = b.board.DigitalOutput(mc.Direction); err != nil {
			return
		}
		p = motor.NewHoverboardMotor(name, pwm, dir, mc.Period, l)

	case DRIVER_ROBOCLAW:
		var pwm hardware.PwmOutput
		if pwm, err = b.board.PwmOutput(mc.Pwm); err != nil {
			return
		}
		p = motor.NewRoboClawMotor(name, pwm, mc.Period, mc.Neutral, mc.Span, l)

	default:
		return nil, errors.Errorf("no such driver %q", mc.Driver)
	}

	if mc.Inverted {
		p = motor.Invert(p)
	}
	return
}

// slot builds every motor of one slot. Outside production an unconfigured
// slot gets a single analog motor on a pin named after the slot.
func (b *builder) slot(name string, set MotorSet) (ports []motor.Port, err error) {
	if len(set) == 0 {
		if b.cfg.Mode == MODE_PRODUCTION {
			return nil, errors.Errorf("motor slot %s is not configured", name)
		}
		set = MotorSet{{Driver: DRIVER_ANALOG, Channel: name}}
	}

	for i, mc := range set {
		var p motor.Port
		if p, err = b.leaf(fmt.Sprintf("%s.%d", name, i), mc); err != nil {
			return nil, errors.Wrapf(err, "motor %s.%d", name, i)
		}
		ports = append(ports, p)
	}
	return
}

func (b *builder) group(name string, set MotorSet, cell *state.MotorState) (*motor.Group, error) {
	ports, err := b.slot(name, set)
	if err != nil {
		return nil, err
	}
	return motor.NewGroup(cell, ports...), nil
}

type ports struct {
	driveLeft, driveRight motor.Port
	dumper                motor.Port
	ladder                motor.Port
	actuator              motor.Port
}

// build composes every port the subsystems need. Ports with limit switches
// are wrapped in a limit gate reading the registry.
func (b *builder) build(reg *state.GlobalRobotState) (p ports, err error) {
	m := b.cfg.Motors

	if p.driveLeft, err = b.group("drive_left", m.DriveLeft, reg.Drive().Left); err != nil {
		return
	}
	if p.driveRight, err = b.group("drive_right", m.DriveRight, reg.Drive().Right); err != nil {
		return
	}

	dumper := reg.Dumper()
	if p.dumper, err = b.group("dumper", m.Dumper, dumper.Motor); err != nil {
		return
	}
	p.dumper = motor.WithLimits(p.dumper, dumper.Limits.Upper, dumper.Limits.Lower)

	intake := reg.Intake()
	if p.ladder, err = b.group("ladder", m.Ladder, intake.Ladder); err != nil {
		return
	}

	left, err := b.slot("actuator_left", m.ActuatorLeft)
	if err != nil {
		return
	}
	right, err := b.slot("actuator_right", m.ActuatorRight)
	if err != nil {
		return
	}
	p.actuator = motor.WithLimits(
		motor.NewGroup(intake.Actuator, append(left, right...)...),
		func() bool { return intake.LeftLimits.Upper() || intake.RightLimits.Upper() },
		func() bool { return intake.LeftLimits.Lower() || intake.RightLimits.Lower() },
	)

	return
}

// bindLimits binds every configured limit pin to its registry cell.
func bindLimits(cfg RobotConfig, board hardware.Board, reg *state.GlobalRobotState) (bindings []sensor.Binding, err error) {
	dumper := reg.Dumper().Limits
	left := reg.Intake().LeftLimits
	right := reg.Intake().RightLimits

	for _, lim := range []struct {
		name, pin string
		publish   func(bool)
	}{
		{"upper_dumper", cfg.Limits.UpperDumper, dumper.SetUpper},
		{"lower_dumper", cfg.Limits.LowerDumper, dumper.SetLower},
		{"upper_left_intake", cfg.Limits.UpperLeftIntake, left.SetUpper},
		{"lower_left_intake", cfg.Limits.LowerLeftIntake, left.SetLower},
		{"upper_right_intake", cfg.Limits.UpperRightIntake, right.SetUpper},
		{"lower_right_intake", cfg.Limits.LowerRightIntake, right.SetLower},
	} {
		if lim.pin == "" {
			continue
		}

		var in hardware.DigitalInput
		if in, err = board.DigitalInput(lim.pin); err != nil {
			return nil, errors.Wrapf(err, "limit %s", lim.name)
		}
		bindings = append(bindings, sensor.Binding{
			Name:    lim.name,
			Input:   hardware.Debounce(in, cfg.DebounceSamples),
			Publish: lim.publish,
		})
	}
	return
}
