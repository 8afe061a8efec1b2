// Package state is the process-wide registry of atomically readable cells
// mirroring the last known state of every motor, limit switch, subsystem
// and the control loop. It performs no coordination: each cell has a single
// writer by convention and any number of readers.
package state

import (
	"math"
	"sync/atomic"
)

// Float32 is a lock-free float cell.
type Float32 struct {
	bits atomic.Uint32
}

func (f *Float32) Load() float32 {
	return math.Float32frombits(f.bits.Load())
}

func (f *Float32) Store(v float32) {
	if v == 0 {
		v = 0 // collapse -0
	}
	f.bits.Store(math.Float32bits(v))
}

// MotorState is the published speed of one motor port plus whether its last
// hardware write succeeded. The zero value is a stopped, healthy motor.
type MotorState struct {
	speed  Float32
	failed atomic.Bool
}

func (m *MotorState) Speed() float32 {
	return m.speed.Load()
}

func (m *MotorState) SetSpeed(s float32) {
	m.speed.Store(s)
}

func (m *MotorState) LastWriteOK() bool {
	return !m.failed.Load()
}

func (m *MotorState) SetLastWriteOK(ok bool) {
	m.failed.Store(!ok)
}

// LimitState holds the upper and lower switch of one limit assembly.
// Written only by the sensor monitor.
type LimitState struct {
	upper, lower atomic.Bool
}

func (l *LimitState) Upper() bool {
	return l.upper.Load()
}

func (l *LimitState) Lower() bool {
	return l.lower.Load()
}

func (l *LimitState) SetUpper(tripped bool) {
	l.upper.Store(tripped)
}

func (l *LimitState) SetLower(tripped bool) {
	l.lower.Store(tripped)
}

// LifeState is the global life flag. The zero value is alive.
type LifeState struct {
	dead atomic.Bool
}

func (l *LifeState) IsAlive() bool {
	return !l.dead.Load()
}

func (l *LifeState) Kill() {
	l.dead.Store(true)
}

func (l *LifeState) Revive() {
	l.dead.Store(false)
}

// Switch is a subsystem enable flag. The zero value is disabled.
type Switch struct {
	enabled atomic.Bool
}

func (s *Switch) Enabled() bool {
	return s.enabled.Load()
}

func (s *Switch) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}
