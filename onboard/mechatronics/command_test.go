package mechatronics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	errs "github.com/CodedInternet/gominer/onboard/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestVerbs(t *testing.T) {
	Convey("verbs round trip through their names", t, func() {
		for _, v := range Verbs() {
			parsed, err := ParseVerb(v.String())
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, v)
		}
		So(len(Verbs()), ShouldEqual, 15)
	})

	Convey("unknown verbs are typed errors", t, func() {
		_, err := ParseVerb("jump")
		var unknown errs.UnknownVerbError
		So(errors.As(err, &unknown), ShouldBeTrue)
		So(unknown.Verb, ShouldEqual, "jump")
	})

	Convey("verbs marshal as text", t, func() {
		b, err := ResetDumper.MarshalText()
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, "reset_dumper")
		So(Verb(99).Valid(), ShouldBeFalse)
	})
}

func TestCommandValidation(t *testing.T) {
	Convey("drive speeds must be within the unit range", t, func() {
		So(NewDrive(1, -1).Validate(), ShouldBeNil)
		So(NewDrive(0, 0).Validate(), ShouldBeNil)

		var invalid errs.InvalidCommandError
		So(errors.As(NewDrive(2, 0.5).Validate(), &invalid), ShouldBeTrue)
		So(invalid.Command, ShouldEqual, "drive")
		So(NewDrive(0.5, -1.5).Validate(), ShouldNotBeNil)
		So(NewDrive(float32(math.NaN()), 0).Validate(), ShouldNotBeNil)
	})

	Convey("other verbs carry no arguments to check", t, func() {
		So(NewCommand(Kill).Validate(), ShouldBeNil)
		So(Command{Verb: Verb(-1)}.Validate(), ShouldNotBeNil)
	})

	Convey("every command gets its own id", t, func() {
		So(NewCommand(Dig).ID, ShouldNotEqual, NewCommand(Dig).ID)
	})
}

func TestQueue(t *testing.T) {
	Convey("a queue", t, func() {
		q := NewQueue(2)

		Convey("keeps commands in order", func() {
			So(q.Submit(NewCommand(EnterDrive)), ShouldBeNil)
			So(q.Submit(NewDrive(1, 1)), ShouldBeNil)
			first, ok := q.TryNext()
			So(ok, ShouldBeTrue)
			So(first.Verb, ShouldEqual, EnterDrive)
			second, _ := q.TryNext()
			So(second.Verb, ShouldEqual, Drive)
			_, ok = q.TryNext()
			So(ok, ShouldBeFalse)
		})

		Convey("rejects when full", func() {
			So(q.Submit(NewCommand(Dig)), ShouldBeNil)
			So(q.Submit(NewCommand(Dig)), ShouldBeNil)
			So(q.Submit(NewCommand(Kill)), ShouldEqual, errs.ErrQueueFull)
			So(q.Len(), ShouldEqual, 2)

			Convey("and a waiting submit gives up with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
				defer cancel()
				So(q.SubmitWait(ctx, NewCommand(Kill)), ShouldEqual, context.DeadlineExceeded)
			})
		})

		Convey("rejects invalid commands before queueing", func() {
			So(q.Submit(NewDrive(2, 0)), ShouldNotBeNil)
			So(q.Len(), ShouldEqual, 0)
		})
	})

	Convey("depth is bounded", t, func() {
		So(NewQueue(0).Cap(), ShouldEqual, DEFAULT_QUEUE_DEPTH)
		So(NewQueue(1000).Cap(), ShouldEqual, MAX_QUEUE_DEPTH)
	})
}
