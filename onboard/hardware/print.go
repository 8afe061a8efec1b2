package hardware

import (
	"fmt"
	"io"
	"sync"
)

// PrintBoard writes every output change as a line of text. Inputs are held in
// memory and read as clear unless set.
type PrintBoard struct {
	*MemoryBoard
	lock sync.Mutex
	w    io.Writer
}

func NewPrintBoard(w io.Writer) *PrintBoard {
	return &PrintBoard{
		MemoryBoard: NewMemoryBoard(),
		w:           w,
	}
}

func (b *PrintBoard) printf(format string, args ...interface{}) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	_, err := fmt.Fprintf(b.w, format, args...)
	return err
}

type printDigital struct {
	*MemoryDigital
	board *PrintBoard
	name  string
}

func (p printDigital) Write(high bool) error {
	if err := p.MemoryDigital.Write(high); err != nil {
		return err
	}
	return p.board.printf("%s digital %t\n", p.name, high)
}

type printAnalog struct {
	*MemoryAnalog
	board *PrintBoard
	name  string
}

func (p printAnalog) Write(value float32) error {
	if err := p.MemoryAnalog.Write(value); err != nil {
		return err
	}
	return p.board.printf("%s analog %.3f\n", p.name, value)
}

type printPwm struct {
	*MemoryPwm
	board *PrintBoard
	name  string
}

func (p printPwm) SetPeriod(period uint32) error {
	if err := p.MemoryPwm.SetPeriod(period); err != nil {
		return err
	}
	return p.board.printf("%s period %d\n", p.name, period)
}

func (p printPwm) SetDutyCycle(duty uint32) error {
	if err := p.MemoryPwm.SetDutyCycle(duty); err != nil {
		return err
	}
	return p.board.printf("%s duty %d\n", p.name, duty)
}

func (b *PrintBoard) DigitalOutput(pin string) (DigitalOutput, error) {
	return printDigital{b.Digital(pin), b, pin}, nil
}

func (b *PrintBoard) AnalogOutput(pin string) (AnalogOutput, error) {
	return printAnalog{b.Analog(pin), b, pin}, nil
}

func (b *PrintBoard) PwmOutput(pin string) (PwmOutput, error) {
	return printPwm{b.Pwm(pin), b, pin}, nil
}
