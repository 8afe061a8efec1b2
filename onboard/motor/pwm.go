package motor

import (
	"github.com/CodedInternet/gominer/calcs"
	"github.com/CodedInternet/gominer/onboard/hardware"
	"github.com/hashicorp/go-hclog"
)

const (
	HOVERBOARD_PERIOD = 50000

	// RC servo framing in nanoseconds: 50Hz frame, 1.5ms neutral, +-0.5ms travel.
	ROBOCLAW_PERIOD  = 20000000
	ROBOCLAW_NEUTRAL = 1500000
	ROBOCLAW_SPAN    = 500000
)

// HoverboardMotor drives a bidirectional hoverboard controller: the magnitude
// becomes the PWM duty cycle and a direction pin carries the sign.
type HoverboardMotor struct {
	leaf
	pwm       hardware.PwmOutput
	direction hardware.DigitalOutput
	period    uint32
	periodSet bool
}

func NewHoverboardMotor(name string, pwm hardware.PwmOutput, direction hardware.DigitalOutput, period uint32, l hclog.Logger) *HoverboardMotor {
	if period == 0 {
		period = HOVERBOARD_PERIOD
	}
	return &HoverboardMotor{
		leaf:      newLeaf(name, l),
		pwm:       pwm,
		direction: direction,
		period:    period,
	}
}

func (m *HoverboardMotor) ensurePeriod() error {
	if m.periodSet {
		return nil
	}
	if err := m.pwm.SetPeriod(m.period); err != nil {
		return err
	}
	m.periodSet = true
	return nil
}

func (m *HoverboardMotor) SetSpeed(s float32) {
	s = calcs.ClampSpeed(s)

	err := m.ensurePeriod()
	if err == nil && s != 0 {
		err = m.direction.Write(s < 0)
	}
	if err == nil {
		err = m.pwm.SetDutyCycle(calcs.DutyCycle(s, m.period))
	}
	m.commit(s, err)
}

// Stop drops the duty cycle and leaves the direction pin alone.
func (m *HoverboardMotor) Stop() {
	m.SetSpeed(0)
}

// RoboClawMotor drives a RoboClaw in RC mode, where the pulse width encodes
// the speed around a neutral width.
type RoboClawMotor struct {
	leaf
	pwm       hardware.PwmOutput
	period    uint32
	neutral   uint32
	span      uint32
	periodSet bool
}

func NewRoboClawMotor(name string, pwm hardware.PwmOutput, period, neutral, span uint32, l hclog.Logger) *RoboClawMotor {
	if period == 0 {
		period = ROBOCLAW_PERIOD
	}
	if neutral == 0 {
		neutral = ROBOCLAW_NEUTRAL
	}
	if span == 0 {
		span = ROBOCLAW_SPAN
	}
	return &RoboClawMotor{
		leaf:    newLeaf(name, l),
		pwm:     pwm,
		period:  period,
		neutral: neutral,
		span:    span,
	}
}

func (m *RoboClawMotor) SetSpeed(s float32) {
	s = calcs.ClampSpeed(s)

	var err error
	if !m.periodSet {
		if err = m.pwm.SetPeriod(m.period); err == nil {
			m.periodSet = true
		}
	}
	if err == nil {
		err = m.pwm.SetDutyCycle(calcs.PulseWidth(s, m.neutral, m.span))
	}
	m.commit(s, err)
}

// Stop returns the output to the neutral pulse width.
func (m *RoboClawMotor) Stop() {
	m.SetSpeed(0)
}
