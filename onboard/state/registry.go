package state

import "sync/atomic"

// Phase is the coarse state of a subsystem.
type Phase string

const (
	PhaseDisabled Phase = "disabled"
	PhaseIdle     Phase = "idle"
	PhaseActive   Phase = "active"
)

func phaseOf(enabled bool, motors ...*MotorState) Phase {
	if !enabled {
		return PhaseDisabled
	}
	for _, m := range motors {
		if m.Speed() != 0 {
			return PhaseActive
		}
	}
	return PhaseIdle
}

type DriveState struct {
	Switch
	Left, Right *MotorState
}

func (d *DriveState) Phase() Phase {
	return phaseOf(d.Enabled(), d.Left, d.Right)
}

type DumperState struct {
	Switch
	Motor  *MotorState
	Limits *LimitState
}

func (d *DumperState) Phase() Phase {
	return phaseOf(d.Enabled(), d.Motor)
}

// IntakeState covers the bucket ladder and the paired lift rails. Both rails
// share one actuator cell since they are driven as a single group.
type IntakeState struct {
	Switch
	Ladder      *MotorState
	Actuator    *MotorState
	LeftLimits  *LimitState
	RightLimits *LimitState
}

func (i *IntakeState) Phase() Phase {
	return phaseOf(i.Enabled(), i.Ladder, i.Actuator)
}

// GlobalRobotState is the root of the registry. It is constructed before any
// subsystem and outlives all of them.
type GlobalRobotState struct {
	life   *LifeState
	drive  *DriveState
	dumper *DumperState
	intake *IntakeState

	cycleCounter    atomic.Uint64
	cyclesPerSecond atomic.Uint64
}

func NewGlobalRobotState() *GlobalRobotState {
	return &GlobalRobotState{
		life: new(LifeState),
		drive: &DriveState{
			Left:  new(MotorState),
			Right: new(MotorState),
		},
		dumper: &DumperState{
			Motor:  new(MotorState),
			Limits: new(LimitState),
		},
		intake: &IntakeState{
			Ladder:      new(MotorState),
			Actuator:    new(MotorState),
			LeftLimits:  new(LimitState),
			RightLimits: new(LimitState),
		},
	}
}

func (g *GlobalRobotState) Life() *LifeState {
	return g.life
}

func (g *GlobalRobotState) Drive() *DriveState {
	return g.drive
}

func (g *GlobalRobotState) Dumper() *DumperState {
	return g.dumper
}

func (g *GlobalRobotState) Intake() *IntakeState {
	return g.intake
}

// IncrementCycle bumps the cycle counter and returns the new value. The
// counter wraps at 2^64.
func (g *GlobalRobotState) IncrementCycle() uint64 {
	return g.cycleCounter.Add(1)
}

func (g *GlobalRobotState) CycleCounter() uint64 {
	return g.cycleCounter.Load()
}

func (g *GlobalRobotState) CyclesPerSecond() uint64 {
	return g.cyclesPerSecond.Load()
}

func (g *GlobalRobotState) SetCyclesPerSecond(cps uint64) {
	g.cyclesPerSecond.Store(cps)
}
