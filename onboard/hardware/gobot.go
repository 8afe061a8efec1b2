package hardware

import (
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"gobot.io/x/gobot/platforms/raspi"
)

type pwmPinner interface {
	SetPeriod(period uint32) error
	SetDutyCycle(duty uint32) error
}

// GobotBoard drives Raspberry Pi header pins through gobot. Pin names are
// header numbers as gobot expects them ("11", "32", ...).
type GobotBoard struct {
	adaptor   *raspi.Adaptor
	activeLow bool
	lock      sync.Mutex
	pwms      map[string]pwmPinner
	l         hclog.Logger
}

// NewGobotBoard connects to the Pi. With activeLow set, digital inputs read
// true when the pin is pulled low.
func NewGobotBoard(activeLow bool, l hclog.Logger) (b *GobotBoard, err error) {
	b = &GobotBoard{
		adaptor:   raspi.NewAdaptor(),
		activeLow: activeLow,
		pwms:      make(map[string]pwmPinner),
		l:         l.Named("gobot"),
	}

	if err = b.adaptor.Connect(); err != nil {
		return nil, errors.Wrap(err, "unable to connect to raspi")
	}

	b.l.Info("connected", "board", b.adaptor.Name())
	return
}

type gobotInput struct {
	board *GobotBoard
	pin   string
}

func (i gobotInput) Read() (bool, error) {
	v, err := i.board.adaptor.DigitalRead(i.pin)
	if err != nil {
		return false, errors.Wrapf(err, "read pin %s", i.pin)
	}
	return (v != 0) != i.board.activeLow, nil
}

type gobotOutput struct {
	board *GobotBoard
	pin   string
}

func (o gobotOutput) Write(high bool) error {
	var v byte
	if high {
		v = 1
	}
	return errors.Wrapf(o.board.adaptor.DigitalWrite(o.pin, v), "write pin %s", o.pin)
}

type gobotPwm struct {
	pin  string
	pwm  pwmPinner
	lock *sync.Mutex
}

func (p gobotPwm) SetPeriod(period uint32) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	return errors.Wrapf(p.pwm.SetPeriod(period), "set period on pin %s", p.pin)
}

func (p gobotPwm) SetDutyCycle(duty uint32) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	return errors.Wrapf(p.pwm.SetDutyCycle(duty), "set duty cycle on pin %s", p.pin)
}

func (b *GobotBoard) DigitalInput(pin string) (DigitalInput, error) {
	return gobotInput{b, pin}, nil
}

func (b *GobotBoard) DigitalOutput(pin string) (DigitalOutput, error) {
	return gobotOutput{b, pin}, nil
}

func (b *GobotBoard) PwmOutput(pin string) (PwmOutput, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if p, ok := b.pwms[pin]; ok {
		return gobotPwm{pin, p, &b.lock}, nil
	}

	raw, err := b.adaptor.PWMPin(pin)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open pwm pin %s", pin)
	}
	if e, ok := raw.(interface{ Enable(bool) error }); ok {
		if err = e.Enable(true); err != nil {
			return nil, errors.Wrapf(err, "unable to enable pwm pin %s", pin)
		}
	}

	b.pwms[pin] = raw
	return gobotPwm{pin, raw, &b.lock}, nil
}

// AnalogOutput is not available on the Pi header; analog leaves go through the
// Arduino instead.
func (b *GobotBoard) AnalogOutput(pin string) (AnalogOutput, error) {
	return nil, errors.Errorf("raspi has no analog output %s", pin)
}

func (b *GobotBoard) Close() error {
	return errors.Wrap(b.adaptor.Finalize(), "finalize raspi")
}
