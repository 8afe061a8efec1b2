package main

import (
	"testing"

	"github.com/CodedInternet/gominer/comms"
	errs "github.com/CodedInternet/gominer/onboard/errors"
	"github.com/CodedInternet/gominer/onboard/mechatronics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestShell(t *testing.T) {
	Convey("shell commands go through the conductor", t, func() {
		robot := newTestRobot(4)
		conductor := comms.NewConductor(robot, nil, testLogger)

		next := func() mechatronics.Command {
			cmd, ok := robot.Queue.TryNext()
			So(ok, ShouldBeTrue)
			return cmd
		}

		Convey("mode selects an enter verb", func() {
			out, err := runShellCommand(conductor, []string{"mode", "dump"})
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "queued ")
			So(next().Verb, ShouldEqual, mechatronics.EnterDump)

			_, err = runShellCommand(conductor, []string{"mode"})
			So(err, ShouldNotBeNil)
			_, err = runShellCommand(conductor, []string{"mode", "fly"})
			So(err, ShouldNotBeNil)
		})

		Convey("drive parses both speeds", func() {
			_, err := runShellCommand(conductor, []string{"drive", "0.5", "-1"})
			So(err, ShouldBeNil)
			cmd := next()
			So(cmd.Left, ShouldEqual, 0.5)
			So(cmd.Right, ShouldEqual, -1)

			_, err = runShellCommand(conductor, []string{"drive", "0.5", "x"})
			So(err, ShouldNotBeNil)
			_, err = runShellCommand(conductor, []string{"drive", "2", "0"})
			So(err, ShouldHaveSameTypeAs, errs.InvalidCommandError{})
			So(robot.Queued(), ShouldEqual, 0)
		})

		Convey("bare words map onto verbs", func() {
			words := map[string]mechatronics.Verb{
				"reset":         mechatronics.ResetDumper,
				"stopactuators": mechatronics.StopActuators,
				"kill":          mechatronics.Kill,
			}
			for word, verb := range words {
				_, err := runShellCommand(conductor, []string{word})
				So(err, ShouldBeNil)
				So(next().Verb, ShouldEqual, verb)
			}

			_, err := runShellCommand(conductor, []string{"kill", "now"})
			So(err, ShouldNotBeNil)
		})

		Convey("status prints the snapshot", func() {
			out, err := runShellCommand(conductor, []string{"status"})
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, `"alive": true`)
			So(out, ShouldContainSubstring, `"queued": 0`)
		})

		Convey("unknown words are errors", func() {
			_, err := runShellCommand(conductor, []string{"fly"})
			So(err, ShouldNotBeNil)
			_, err = runShellCommand(conductor, nil)
			So(err, ShouldNotBeNil)
		})
	})
}
