package subsystem

import (
	"github.com/CodedInternet/gominer/onboard/motor"
	"github.com/CodedInternet/gominer/onboard/state"
)

// DriveTrain is a skid-steer pair. It has no limit switches.
type DriveTrain struct {
	gate
	cell        *state.DriveState
	left, right motor.Port
}

func NewDriveTrain(life *state.LifeState, cell *state.DriveState, left, right motor.Port) *DriveTrain {
	return &DriveTrain{
		gate:  gate{life, &cell.Switch},
		cell:  cell,
		left:  left,
		right: right,
	}
}

func (d *DriveTrain) Name() string {
	return "drive"
}

// Drive sets both sides. Speeds must already be range checked. While dead or
// disabled it brakes instead.
func (d *DriveTrain) Drive(left, right float32) {
	if !d.ready() {
		d.Brake()
		return
	}
	d.left.SetSpeed(left)
	d.right.SetSpeed(right)
}

func (d *DriveTrain) Brake() {
	d.left.Stop()
	d.right.Stop()
}

func (d *DriveTrain) Disable() {
	d.Brake()
	d.sw.SetEnabled(false)
}

func (d *DriveTrain) Halt() {
	d.Brake()
}

func (d *DriveTrain) Tick() {
	if !d.ready() {
		settle(d.left)
		settle(d.right)
	}
}

func (d *DriveTrain) Phase() state.Phase {
	return d.cell.Phase()
}
