package sensor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CodedInternet/gominer/onboard/hardware"
	"github.com/CodedInternet/gominer/onboard/state"
	"github.com/hashicorp/go-hclog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMonitor(t *testing.T) {
	Convey("a monitor", t, func() {
		reg := state.NewGlobalRobotState()
		board := hardware.NewMemoryBoard()
		limits := reg.Dumper().Limits

		m := NewMonitor(time.Millisecond, hclog.NewNullLogger(),
			Binding{Name: "upper_dumper", Input: board.Digital("upper"), Publish: limits.SetUpper},
			Binding{Name: "lower_dumper", Input: board.Digital("lower"), Publish: limits.SetLower},
		)
		So(m.Len(), ShouldEqual, 2)

		Convey("publishes every input", func() {
			board.Digital("upper").Set(true)
			m.Poll()
			So(limits.Upper(), ShouldBeTrue)
			So(limits.Lower(), ShouldBeFalse)

			board.Digital("upper").Set(false)
			m.Poll()
			So(limits.Upper(), ShouldBeFalse)
		})

		Convey("fails safe on a read error", func() {
			board.Digital("lower").Fail(errors.New("simulated read error"))
			m.Poll()
			So(limits.Lower(), ShouldBeTrue)

			Convey("and recovers when the input reads again", func() {
				board.Digital("lower").Fail(nil)
				m.Poll()
				So(limits.Lower(), ShouldBeFalse)
			})
		})

		Convey("runs until cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error)
			go func() {
				done <- m.Run(ctx)
			}()

			board.Digital("upper").Set(true)
			seen := false
			for deadline := time.Now().Add(time.Second); time.Now().Before(deadline); time.Sleep(time.Millisecond) {
				if limits.Upper() {
					seen = true
					break
				}
			}
			So(seen, ShouldBeTrue)

			cancel()
			So(<-done, ShouldBeNil)
		})
	})
}
