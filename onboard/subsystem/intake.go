package subsystem

import (
	"github.com/CodedInternet/gominer/onboard/motor"
	"github.com/CodedInternet/gominer/onboard/state"
)

type IntakeRates struct {
	Digging  float32
	Raising  float32
	Lowering float32
}

// Intake is the bucket ladder plus the two lift rails it rides on. The rails
// are one motor group, so a trip on either side stops both.
type Intake struct {
	gate
	cell     *state.IntakeState
	ladder   motor.Port
	actuator motor.Port
	rates    IntakeRates
}

func NewIntake(life *state.LifeState, cell *state.IntakeState, ladder, actuator motor.Port, rates IntakeRates) *Intake {
	return &Intake{
		gate:     gate{life, &cell.Switch},
		cell:     cell,
		ladder:   ladder,
		actuator: actuator,
		rates:    rates,
	}
}

func (i *Intake) Name() string {
	return "intake"
}

func (i *Intake) upperTripped() bool {
	return i.cell.LeftLimits.Upper() || i.cell.RightLimits.Upper()
}

func (i *Intake) lowerTripped() bool {
	return i.cell.LeftLimits.Lower() || i.cell.RightLimits.Lower()
}

func (i *Intake) Dig() {
	if !i.ready() {
		i.ladder.Stop()
		return
	}
	i.ladder.SetSpeed(i.rates.Digging)
}

func (i *Intake) StopLadder() {
	i.ladder.Stop()
}

func (i *Intake) Raise() {
	if !i.ready() || i.upperTripped() {
		i.actuator.Stop()
		return
	}
	i.actuator.SetSpeed(i.rates.Raising)
}

func (i *Intake) Lower() {
	if !i.ready() || i.lowerTripped() {
		i.actuator.Stop()
		return
	}
	i.actuator.SetSpeed(-i.rates.Lowering)
}

func (i *Intake) StopActuators() {
	i.actuator.Stop()
}

func (i *Intake) Halt() {
	i.StopLadder()
	i.StopActuators()
}

func (i *Intake) Disable() {
	i.Halt()
	i.sw.SetEnabled(false)
}

func (i *Intake) Tick() {
	if !i.ready() {
		settle(i.ladder)
		settle(i.actuator)
		return
	}

	s := i.actuator.Speed()
	if (s > 0 && i.upperTripped()) || (s < 0 && i.lowerTripped()) {
		i.actuator.Stop()
	}
}

func (i *Intake) Phase() state.Phase {
	return i.cell.Phase()
}
