// Package motor implements motor ports: leaf ports bound to hardware outputs
// and the decorators composed around them at startup.
package motor

import (
	"time"

	"github.com/CodedInternet/gominer/calcs"
	errs "github.com/CodedInternet/gominer/onboard/errors"
	"github.com/CodedInternet/gominer/onboard/hardware"
	"github.com/CodedInternet/gominer/onboard/state"
	"github.com/hashicorp/go-hclog"
)

const (
	// WARN_INTERVAL bounds how often a failing port logs.
	WARN_INTERVAL = time.Second
)

// Port accepts a signed unit speed. Ports never return errors; a failed
// hardware write is logged and shows up as LastWriteOK() == false.
type Port interface {
	SetSpeed(s float32)
	Stop()
	Speed() float32
	LastWriteOK() bool
}

// leaf holds what every hardware-bound port shares: a name for logs and the
// cell its accepted speed is published to.
type leaf struct {
	name     string
	cell     *state.MotorState
	l        hclog.Logger
	lastWarn time.Time
}

func newLeaf(name string, l hclog.Logger) leaf {
	return leaf{
		name: name,
		cell: new(state.MotorState),
		l:    l,
	}
}

func (b *leaf) commit(speed float32, err error) {
	if err != nil {
		b.cell.SetLastWriteOK(false)
		if now := time.Now(); now.Sub(b.lastWarn) >= WARN_INTERVAL {
			b.lastWarn = now
			b.l.Warn("motor write failed", "error", errs.HardwareWriteError{Port: b.name, Err: err})
		}
		return
	}

	b.cell.SetSpeed(speed)
	b.cell.SetLastWriteOK(true)
}

func (b *leaf) Speed() float32 {
	return b.cell.Speed()
}

func (b *leaf) LastWriteOK() bool {
	return b.cell.LastWriteOK()
}

func (b *leaf) Name() string {
	return b.name
}

// AnalogMotor writes the speed straight to a signed analog output.
type AnalogMotor struct {
	leaf
	out hardware.AnalogOutput
}

func NewAnalogMotor(name string, out hardware.AnalogOutput, l hclog.Logger) *AnalogMotor {
	return &AnalogMotor{
		leaf: newLeaf(name, l),
		out:  out,
	}
}

func (m *AnalogMotor) SetSpeed(s float32) {
	s = calcs.ClampSpeed(s)
	m.commit(s, m.out.Write(s))
}

func (m *AnalogMotor) Stop() {
	m.SetSpeed(0)
}
