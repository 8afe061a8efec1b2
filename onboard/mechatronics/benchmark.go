package mechatronics

import (
	"context"
	"time"

	"github.com/CodedInternet/gominer/onboard/state"
	"github.com/hashicorp/go-hclog"
)

const (
	BENCH_SAMPLES  = 5
	BENCH_INTERVAL = time.Second
)

// Benchmark samples the cycle counter once per interval and publishes the
// rolling average rate as cycles_per_second.
type Benchmark struct {
	state    *state.GlobalRobotState
	interval time.Duration
	samples  [BENCH_SAMPLES]uint64
	n, idx   int
	last     uint64
	l        hclog.Logger
}

func NewBenchmark(st *state.GlobalRobotState, l hclog.Logger) *Benchmark {
	return &Benchmark{
		state:    st,
		interval: BENCH_INTERVAL,
		l:        l.Named("bench"),
	}
}

// Sample records the counter reading taken one interval after the previous
// one and returns the new average.
func (b *Benchmark) Sample(counter uint64) uint64 {
	delta := counter - b.last
	b.last = counter

	b.samples[b.idx] = delta
	b.idx = (b.idx + 1) % BENCH_SAMPLES
	if b.n < BENCH_SAMPLES {
		b.n++
	}

	var sum uint64
	for i := 0; i < b.n; i++ {
		sum += b.samples[i]
	}
	avg := sum / uint64(b.n)

	b.state.SetCyclesPerSecond(avg)
	return avg
}

func (b *Benchmark) Run(ctx context.Context) error {
	b.last = b.state.CycleCounter()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cps := b.Sample(b.state.CycleCounter())
			b.l.Debug("cycle rate", "cps", cps)
		}
	}
}
