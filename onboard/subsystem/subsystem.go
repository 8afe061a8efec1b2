// Package subsystem holds the drive train, dumper and intake. Each one gates
// every motor write on the life flag and its own enable flag, and the supervisor
// is its only caller.
package subsystem

import (
	"github.com/CodedInternet/gominer/onboard/motor"
	"github.com/CodedInternet/gominer/onboard/state"
)

type Subsystem interface {
	Name() string
	Enable()
	Disable()
	// Halt stops every motor without touching the enable flag.
	Halt()
	// Tick runs once per supervisor cycle and stops any motor that should no
	// longer be moving.
	Tick()
	Phase() state.Phase
}

type gate struct {
	life *state.LifeState
	sw   *state.Switch
}

func (g gate) ready() bool {
	return g.life.IsAlive() && g.sw.Enabled()
}

func (g gate) Enabled() bool {
	return g.sw.Enabled()
}

func (g gate) Enable() {
	g.sw.SetEnabled(true)
}

// settle stops p if it is moving or its last write did not land.
func settle(p motor.Port) {
	if p.Speed() != 0 || !p.LastWriteOK() {
		p.Stop()
	}
}
