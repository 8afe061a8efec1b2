package state

type MotorSnapshot struct {
	Speed       float32 `json:"speed"`
	LastWriteOK bool    `json:"last_write_ok"`
}

type LimitSnapshot struct {
	Upper bool `json:"upper"`
	Lower bool `json:"lower"`
}

type DriveSnapshot struct {
	Enabled bool          `json:"enabled"`
	Phase   Phase         `json:"phase"`
	Left    MotorSnapshot `json:"left"`
	Right   MotorSnapshot `json:"right"`
}

type DumperSnapshot struct {
	Enabled    bool          `json:"enabled"`
	Phase      Phase         `json:"phase"`
	Motor      MotorSnapshot `json:"motor"`
	UpperLimit bool          `json:"upper_limit"`
	LowerLimit bool          `json:"lower_limit"`
}

type LadderSnapshot struct {
	Motor MotorSnapshot `json:"motor"`
}

type IntakeSnapshot struct {
	Enabled    bool           `json:"enabled"`
	Phase      Phase          `json:"phase"`
	Ladder     LadderSnapshot `json:"ladder"`
	Actuator   MotorSnapshot  `json:"actuator"`
	LeftLimit  LimitSnapshot  `json:"left_limit"`
	RightLimit LimitSnapshot  `json:"right_limit"`
}

// RobotSnapshot is a plain-data copy of the registry. Every field is read
// atomically on its own; no instant is shared across fields.
type RobotSnapshot struct {
	Alive           bool           `json:"alive"`
	CyclesPerSecond uint64         `json:"cycles_per_second"`
	CycleCounter    uint64         `json:"cycle_counter"`
	Drive           DriveSnapshot  `json:"drive"`
	Dumper          DumperSnapshot `json:"dumper"`
	Intake          IntakeSnapshot `json:"intake"`
}

func (m *MotorState) snapshot() MotorSnapshot {
	return MotorSnapshot{
		Speed:       m.Speed(),
		LastWriteOK: m.LastWriteOK(),
	}
}

func (l *LimitState) snapshot() LimitSnapshot {
	return LimitSnapshot{
		Upper: l.Upper(),
		Lower: l.Lower(),
	}
}

// Snapshot reads every cell once.
func (g *GlobalRobotState) Snapshot() (s RobotSnapshot) {
	s.Alive = g.life.IsAlive()
	s.CyclesPerSecond = g.CyclesPerSecond()
	s.CycleCounter = g.CycleCounter()

	s.Drive = DriveSnapshot{
		Enabled: g.drive.Enabled(),
		Phase:   g.drive.Phase(),
		Left:    g.drive.Left.snapshot(),
		Right:   g.drive.Right.snapshot(),
	}

	s.Dumper = DumperSnapshot{
		Enabled:    g.dumper.Enabled(),
		Phase:      g.dumper.Phase(),
		Motor:      g.dumper.Motor.snapshot(),
		UpperLimit: g.dumper.Limits.Upper(),
		LowerLimit: g.dumper.Limits.Lower(),
	}

	s.Intake = IntakeSnapshot{
		Enabled:    g.intake.Enabled(),
		Phase:      g.intake.Phase(),
		Ladder:     LadderSnapshot{Motor: g.intake.Ladder.snapshot()},
		Actuator:   g.intake.Actuator.snapshot(),
		LeftLimit:  g.intake.LeftLimits.snapshot(),
		RightLimit: g.intake.RightLimits.snapshot(),
	}

	return
}
