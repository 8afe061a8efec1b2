package hardware

import "sync"

// MemoryDigital is an in-memory digital pin usable as both input and output.
type MemoryDigital struct {
	lock   sync.Mutex
	level  bool
	fail   error
	writes int
}

func (p *MemoryDigital) Read() (bool, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.fail != nil {
		return false, p.fail
	}
	return p.level, nil
}

func (p *MemoryDigital) Write(high bool) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.fail != nil {
		return p.fail
	}
	p.level = high
	p.writes++
	return nil
}

// Set drives the pin level from outside, as a switch would.
func (p *MemoryDigital) Set(high bool) {
	p.lock.Lock()
	p.level = high
	p.lock.Unlock()
}

func (p *MemoryDigital) Level() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.level
}

// Fail makes every following Read and Write return err. nil clears it.
func (p *MemoryDigital) Fail(err error) {
	p.lock.Lock()
	p.fail = err
	p.lock.Unlock()
}

type MemoryAnalog struct {
	lock   sync.Mutex
	value  float32
	fail   error
	writes int
}

func (p *MemoryAnalog) Write(value float32) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.fail != nil {
		return p.fail
	}
	p.value = value
	p.writes++
	return nil
}

func (p *MemoryAnalog) Value() float32 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.value
}

func (p *MemoryAnalog) Writes() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.writes
}

func (p *MemoryAnalog) Fail(err error) {
	p.lock.Lock()
	p.fail = err
	p.lock.Unlock()
}

type MemoryPwm struct {
	lock         sync.Mutex
	period, duty uint32
	fail         error
}

func (p *MemoryPwm) SetPeriod(period uint32) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.fail != nil {
		return p.fail
	}
	p.period = period
	return nil
}

func (p *MemoryPwm) SetDutyCycle(duty uint32) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.fail != nil {
		return p.fail
	}
	p.duty = duty
	return nil
}

func (p *MemoryPwm) Period() uint32 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.period
}

func (p *MemoryPwm) DutyCycle() uint32 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.duty
}

func (p *MemoryPwm) Fail(err error) {
	p.lock.Lock()
	p.fail = err
	p.lock.Unlock()
}

// MemoryBoard backs every pin with memory. Pins are created on first use, so
// a test may grab a pin before or after the robot is built.
type MemoryBoard struct {
	lock     sync.Mutex
	digitals map[string]*MemoryDigital
	analogs  map[string]*MemoryAnalog
	pwms     map[string]*MemoryPwm
}

func NewMemoryBoard() *MemoryBoard {
	return &MemoryBoard{
		digitals: make(map[string]*MemoryDigital),
		analogs:  make(map[string]*MemoryAnalog),
		pwms:     make(map[string]*MemoryPwm),
	}
}

func (b *MemoryBoard) Digital(pin string) *MemoryDigital {
	b.lock.Lock()
	defer b.lock.Unlock()

	p, ok := b.digitals[pin]
	if !ok {
		p = new(MemoryDigital)
		b.digitals[pin] = p
	}
	return p
}

func (b *MemoryBoard) Analog(pin string) *MemoryAnalog {
	b.lock.Lock()
	defer b.lock.Unlock()

	p, ok := b.analogs[pin]
	if !ok {
		p = new(MemoryAnalog)
		b.analogs[pin] = p
	}
	return p
}

func (b *MemoryBoard) Pwm(pin string) *MemoryPwm {
	b.lock.Lock()
	defer b.lock.Unlock()

	p, ok := b.pwms[pin]
	if !ok {
		p = new(MemoryPwm)
		b.pwms[pin] = p
	}
	return p
}

func (b *MemoryBoard) DigitalInput(pin string) (DigitalInput, error) {
	return b.Digital(pin), nil
}

func (b *MemoryBoard) DigitalOutput(pin string) (DigitalOutput, error) {
	return b.Digital(pin), nil
}

func (b *MemoryBoard) PwmOutput(pin string) (PwmOutput, error) {
	return b.Pwm(pin), nil
}

func (b *MemoryBoard) AnalogOutput(pin string) (AnalogOutput, error) {
	return b.Analog(pin), nil
}

func (b *MemoryBoard) Close() error {
	return nil
}
