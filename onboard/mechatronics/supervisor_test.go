package mechatronics

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/CodedInternet/gominer/onboard/state"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSupervisorDispatch(t *testing.T) {
	Convey("a supervisor", t, func() {
		r := newRig()

		Convey("counts a cycle per step", func() {
			So(r.sup.Step(), ShouldBeFalse)
			So(r.sup.Step(), ShouldBeFalse)
			So(r.reg.CycleCounter(), ShouldEqual, 2)
		})

		Convey("drives from stopped", func() {
			r.run(NewCommand(EnterDrive), NewDrive(1, -1))
			snap := r.reg.Snapshot()
			So(snap.Drive.Enabled, ShouldBeTrue)
			So(snap.Drive.Left.Speed, ShouldEqual, 1)
			So(snap.Drive.Right.Speed, ShouldEqual, -1)
			So(r.board.Analog("right").Value(), ShouldEqual, 1)
		})

		Convey("kills during drive", func() {
			r.run(NewCommand(EnterDrive), NewDrive(1, 1), NewCommand(Kill))
			snap := r.reg.Snapshot()
			So(snap.Alive, ShouldBeFalse)
			So(snap.Drive.Left.Speed, ShouldEqual, 0)
			So(snap.Drive.Right.Speed, ShouldEqual, 0)
			So(snap.Drive.Enabled, ShouldBeTrue)

			Convey("ignores motion until revived", func() {
				r.run(NewDrive(0.5, 0.5))
				So(r.reg.Snapshot().Drive.Left.Speed, ShouldEqual, 0)

				r.run(NewCommand(Revive))
				So(r.reg.Snapshot().Alive, ShouldBeTrue)
				So(r.reg.Snapshot().Drive.Left.Speed, ShouldEqual, 0)

				r.run(NewDrive(0.5, 0.5))
				So(r.reg.Snapshot().Drive.Left.Speed, ShouldEqual, 0.5)
			})
		})

		Convey("stops the dumper at its upper limit", func() {
			r.run(NewCommand(EnterDump), NewCommand(Dump))
			So(r.reg.Snapshot().Dumper.Motor.Speed, ShouldEqual, 1)

			r.reg.Dumper().Limits.SetUpper(true)
			r.run(NewCommand(Dump))
			snap := r.reg.Snapshot()
			So(snap.Dumper.Motor.Speed, ShouldEqual, 0)
			So(snap.Dumper.UpperLimit, ShouldBeTrue)
		})

		Convey("keeps modes exclusive", func() {
			r.run(NewCommand(EnterDig), NewCommand(EnterDrive))
			snap := r.reg.Snapshot()
			So(snap.Intake.Enabled, ShouldBeFalse)
			So(snap.Drive.Enabled, ShouldBeTrue)
			So(snap.Dumper.Enabled, ShouldBeFalse)
		})

		Convey("disables the old mode's motors on a switch", func() {
			r.run(NewCommand(EnterDig), NewCommand(Dig), NewCommand(EnterDump))
			So(r.reg.Snapshot().Intake.Ladder.Motor.Speed, ShouldEqual, 0)
		})

		Convey("rejects an out of range drive without mutation", func() {
			r.run(NewCommand(EnterDrive))
			before := r.reg.Snapshot()
			errs := r.run(NewDrive(2, 0.5))
			So(errs[0], ShouldNotBeNil)
			after := r.reg.Snapshot()
			So(after.Drive, ShouldResemble, before.Drive)

			Convey("even when it bypasses the queue", func() {
				So(r.sup.Dispatch(Command{Verb: Drive, Left: 2}), ShouldNotBeNil)
				So(r.reg.Snapshot().Drive, ShouldResemble, before.Drive)
			})
		})

		Convey("will not raise the intake with one rail tripped", func() {
			r.reg.Intake().LeftLimits.SetUpper(true)
			r.run(NewCommand(EnterDig), NewCommand(Raise))
			snap := r.reg.Snapshot()
			So(snap.Intake.Actuator.Speed, ShouldEqual, 0)
			So(snap.Intake.LeftLimit.Upper, ShouldBeTrue)
			So(snap.Intake.RightLimit.Upper, ShouldBeFalse)
		})

		Convey("turns action verbs for a disabled subsystem into stops", func() {
			r.run(NewCommand(EnterDrive), NewCommand(Dig), NewCommand(Dump))
			m := r.motors()
			So(m["ladder"], ShouldEqual, 0)
			So(m["dumper"], ShouldEqual, 0)
		})
	})
}

func TestSupervisorEvents(t *testing.T) {
	Convey("dispatch outcomes are published", t, func() {
		events := make(chan Event, 1)
		r := newRig(WithEvents(events))

		cmd := NewCommand(EnterDrive)
		r.run(cmd)
		e := <-events
		So(e.Command.ID, ShouldEqual, cmd.ID)
		So(e.Err, ShouldBeNil)
		So(e.Cycle, ShouldEqual, 1)

		Convey("and dropped rather than blocking when nobody listens", func() {
			r.run(NewCommand(Brake), NewCommand(Brake), NewCommand(Brake))
			So(len(events), ShouldEqual, 1)
		})
	})
}

func TestSupervisorRun(t *testing.T) {
	for _, period := range []time.Duration{0, time.Millisecond} {
		Convey("the loop processes commands and halts on cancel", t, func() {
			r := newRig(WithCyclePeriod(period))
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error)
			go func() {
				done <- r.sup.Run(ctx)
			}()

			So(r.queue.Submit(NewCommand(EnterDrive)), ShouldBeNil)
			So(r.queue.Submit(NewDrive(0.5, 0.5)), ShouldBeNil)

			settled := false
			for deadline := time.Now().Add(time.Second); time.Now().Before(deadline); time.Sleep(time.Millisecond) {
				if r.reg.Snapshot().Drive.Left.Speed == 0.5 {
					settled = true
					break
				}
			}
			So(settled, ShouldBeTrue)

			cancel()
			So(<-done, ShouldBeNil)
			So(r.reg.Snapshot().Drive.Left.Speed, ShouldEqual, 0)
		})
	}
}

func allEnabled(snap state.RobotSnapshot) (n int) {
	for _, e := range []bool{snap.Drive.Enabled, snap.Dumper.Enabled, snap.Intake.Enabled} {
		if e {
			n++
		}
	}
	return
}

func TestSupervisorProperties(t *testing.T) {
	Convey("invariants hold over a random command sequence", t, func() {
		r := newRig()
		rnd := rand.New(rand.NewSource(7))
		verbs := Verbs()
		speeds := []float32{-1.5, -1, -0.5, 0, 0.25, 1, 1.25}

		var lastCycle uint64
		violations := map[string]int{}

		for i := 0; i < 5000; i++ {
			// the sensor side flips limits at random
			if rnd.Intn(4) == 0 {
				r.reg.Dumper().Limits.SetUpper(rnd.Intn(2) == 0)
				r.reg.Dumper().Limits.SetLower(rnd.Intn(2) == 0)
				r.reg.Intake().LeftLimits.SetUpper(rnd.Intn(3) == 0)
				r.reg.Intake().RightLimits.SetLower(rnd.Intn(3) == 0)
			}

			v := verbs[rnd.Intn(len(verbs))]
			if v == Kill && rnd.Intn(3) != 0 {
				v = Revive
			}
			cmd := NewCommand(v)
			if v == Drive {
				cmd.Left = speeds[rnd.Intn(len(speeds))]
				cmd.Right = speeds[rnd.Intn(len(speeds))]
			}

			accepted := r.queue.Submit(cmd) == nil
			r.sup.Step()

			snap := r.reg.Snapshot()
			m := r.motors()

			if !snap.Alive {
				for _, s := range m {
					if s != 0 {
						violations["dead robot moving"]++
					}
				}
			}
			if !snap.Drive.Enabled && (m["left"] != 0 || m["right"] != 0) {
				violations["disabled drive moving"]++
			}
			if !snap.Dumper.Enabled && m["dumper"] != 0 {
				violations["disabled dumper moving"]++
			}
			if !snap.Intake.Enabled && (m["ladder"] != 0 || m["actuator"] != 0) {
				violations["disabled intake moving"]++
			}
			if (m["dumper"] > 0 && snap.Dumper.UpperLimit) || (m["dumper"] < 0 && snap.Dumper.LowerLimit) {
				violations["dumper against limit"]++
			}
			up := snap.Intake.LeftLimit.Upper || snap.Intake.RightLimit.Upper
			down := snap.Intake.LeftLimit.Lower || snap.Intake.RightLimit.Lower
			if (m["actuator"] > 0 && up) || (m["actuator"] < 0 && down) {
				violations["actuator against limit"]++
			}
			if accepted && (v == EnterDrive || v == EnterDump || v == EnterDig) && allEnabled(snap) != 1 {
				violations["mode not exclusive"]++
			}
			if allEnabled(snap) > 1 {
				violations["more than one mode"]++
			}
			if accepted && v == Drive && snap.Alive && snap.Drive.Enabled &&
				(m["left"] != cmd.Left || m["right"] != cmd.Right) {
				violations["drive not applied"]++
			}
			if snap.CycleCounter < lastCycle {
				violations["cycle counter regressed"]++
			}
			lastCycle = snap.CycleCounter
		}

		So(violations, ShouldBeEmpty)
	})
}

func TestBenchmark(t *testing.T) {
	Convey("the benchmark averages the last samples", t, func() {
		reg := state.NewGlobalRobotState()
		b := NewBenchmark(reg, testLogger)

		So(b.Sample(100), ShouldEqual, 100)
		So(b.Sample(300), ShouldEqual, 150)
		So(reg.CyclesPerSecond(), ShouldEqual, 150)

		Convey("over a window of five", func() {
			counter := uint64(300)
			for i := 0; i < BENCH_SAMPLES; i++ {
				counter += 1000
				b.Sample(counter)
			}
			So(reg.CyclesPerSecond(), ShouldEqual, 1000)
		})
	})
}
