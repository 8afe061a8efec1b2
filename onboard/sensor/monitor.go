// Package sensor polls limit switch inputs and publishes them to the state
// registry.
package sensor

import (
	"context"
	"time"

	"github.com/CodedInternet/gominer/onboard/hardware"
	"github.com/hashicorp/go-hclog"
)

const (
	DEFAULT_POLL_PERIOD = time.Millisecond
)

// Binding ties one digital input to the cell it is published to.
type Binding struct {
	Name    string
	Input   hardware.DigitalInput
	Publish func(tripped bool)
}

type Monitor struct {
	bindings []Binding
	failing  []bool
	period   time.Duration
	l        hclog.Logger
}

func NewMonitor(period time.Duration, l hclog.Logger, bindings ...Binding) *Monitor {
	if period <= 0 {
		period = DEFAULT_POLL_PERIOD
	}
	return &Monitor{
		bindings: bindings,
		failing:  make([]bool, len(bindings)),
		period:   period,
		l:        l.Named("monitor"),
	}
}

// Poll reads every input once. An input that cannot be read is published as
// tripped.
func (m *Monitor) Poll() {
	for i, b := range m.bindings {
		v, err := b.Input.Read()
		if err != nil {
			if !m.failing[i] {
				m.l.Warn("limit unreadable, treating as tripped", "limit", b.Name, "error", err)
			}
			m.failing[i] = true
			b.Publish(true)
			continue
		}

		if m.failing[i] {
			m.l.Info("limit readable again", "limit", b.Name)
			m.failing[i] = false
		}
		b.Publish(v)
	}
}

func (m *Monitor) Len() int {
	return len(m.bindings)
}

func (m *Monitor) Run(ctx context.Context) error {
	m.l.Info("starting", "limits", len(m.bindings), "period", m.period)

	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		m.Poll()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
