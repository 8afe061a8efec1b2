package subsystem

import (
	"github.com/CodedInternet/gominer/onboard/motor"
	"github.com/CodedInternet/gominer/onboard/state"
)

type DumperRates struct {
	Dumping   float32
	Resetting float32
}

// Dumper tips the hopper. Dumping moves toward the upper limit and resetting
// toward the lower one.
type Dumper struct {
	gate
	cell  *state.DumperState
	motor motor.Port
	rates DumperRates
}

func NewDumper(life *state.LifeState, cell *state.DumperState, m motor.Port, rates DumperRates) *Dumper {
	return &Dumper{
		gate:  gate{life, &cell.Switch},
		cell:  cell,
		motor: m,
		rates: rates,
	}
}

func (d *Dumper) Name() string {
	return "dumper"
}

func (d *Dumper) Dump() {
	if !d.ready() || d.cell.Limits.Upper() {
		d.motor.Stop()
		return
	}
	d.motor.SetSpeed(d.rates.Dumping)
}

// Reset only moves while the lower limit is clear.
func (d *Dumper) Reset() {
	if !d.ready() || d.cell.Limits.Lower() {
		d.motor.Stop()
		return
	}
	d.motor.SetSpeed(-d.rates.Resetting)
}

func (d *Dumper) Stop() {
	d.motor.Stop()
}

func (d *Dumper) Disable() {
	d.Stop()
	d.sw.SetEnabled(false)
}

func (d *Dumper) Halt() {
	d.Stop()
}

func (d *Dumper) Tick() {
	s := d.motor.Speed()
	switch {
	case !d.ready():
		settle(d.motor)
	case s > 0 && d.cell.Limits.Upper(), s < 0 && d.cell.Limits.Lower():
		d.motor.Stop()
	}
}

func (d *Dumper) Phase() state.Phase {
	return d.cell.Phase()
}
