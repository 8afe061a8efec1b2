package motor

import (
	"github.com/CodedInternet/gominer/calcs"
	"github.com/CodedInternet/gominer/onboard/state"
)

type inverted struct {
	inner Port
}

// Invert negates every speed before it reaches p.
func Invert(p Port) Port {
	return &inverted{p}
}

func (i *inverted) SetSpeed(s float32) {
	i.inner.SetSpeed(negate(s))
}

func (i *inverted) Stop() {
	i.inner.Stop()
}

func (i *inverted) Speed() float32 {
	return negate(i.inner.Speed())
}

func (i *inverted) LastWriteOK() bool {
	return i.inner.LastWriteOK()
}

func negate(s float32) float32 {
	if s == 0 {
		return 0
	}
	return -s
}

// LimitFunc reports whether a limit switch is tripped.
type LimitFunc func() bool

type limited struct {
	inner        Port
	upper, lower LimitFunc
}

// WithLimits gates p on a pair of limit switches. A positive write while
// upper is tripped, or a negative one while lower is tripped, becomes a
// Stop. A nil limit is never tripped.
func WithLimits(p Port, upper, lower LimitFunc) Port {
	return &limited{p, upper, lower}
}

func tripped(f LimitFunc) bool {
	return f != nil && f()
}

func (g *limited) SetSpeed(s float32) {
	if (s > 0 && tripped(g.upper)) || (s < 0 && tripped(g.lower)) {
		g.inner.Stop()
		return
	}
	g.inner.SetSpeed(s)
}

func (g *limited) Stop() {
	g.inner.Stop()
}

func (g *limited) Speed() float32 {
	return g.inner.Speed()
}

func (g *limited) LastWriteOK() bool {
	return g.inner.LastWriteOK()
}

// Group fans one write out to every member and publishes the result on a
// single cell, so physically paired motors read as one.
type Group struct {
	cell    *state.MotorState
	members []Port
}

func NewGroup(cell *state.MotorState, members ...Port) *Group {
	if cell == nil {
		cell = new(state.MotorState)
	}
	return &Group{
		cell:    cell,
		members: members,
	}
}

func (g *Group) SetSpeed(s float32) {
	s = calcs.ClampSpeed(s)
	for _, m := range g.members {
		m.SetSpeed(s)
	}
	g.publish(s)
}

func (g *Group) Stop() {
	for _, m := range g.members {
		m.Stop()
	}
	g.publish(0)
}

// publish records s only if every member accepted it; otherwise the cell
// keeps its previous speed and is flagged degraded.
func (g *Group) publish(s float32) {
	ok := true
	for _, m := range g.members {
		ok = ok && m.LastWriteOK()
	}
	if ok {
		g.cell.SetSpeed(s)
	}
	g.cell.SetLastWriteOK(ok)
}

func (g *Group) Speed() float32 {
	return g.cell.Speed()
}

func (g *Group) LastWriteOK() bool {
	return g.cell.LastWriteOK()
}

func (g *Group) Len() int {
	return len(g.members)
}
