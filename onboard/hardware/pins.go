// Package hardware holds the pin-level interfaces the controller drives and
// the boards that provide them: in-memory for tests, stdout for dry runs, a
// Raspberry Pi through gobot, and an Arduino over a serial link.
package hardware

type DigitalInput interface {
	Read() (bool, error)
}

type DigitalOutput interface {
	Write(high bool) error
}

// AnalogOutput takes a signed unit value in [-1, 1].
type AnalogOutput interface {
	Write(value float32) error
}

type PwmOutput interface {
	SetPeriod(period uint32) error
	SetDutyCycle(duty uint32) error
}

// Board hands out pins by name. Asking for the same name twice returns a
// handle onto the same physical pin.
type Board interface {
	DigitalInput(pin string) (DigitalInput, error)
	DigitalOutput(pin string) (DigitalOutput, error)
	PwmOutput(pin string) (PwmOutput, error)
	AnalogOutput(pin string) (AnalogOutput, error)
	Close() error
}

// InputFunc adapts a plain function to DigitalInput.
type InputFunc func() (bool, error)

func (f InputFunc) Read() (bool, error) {
	return f()
}
