package errors

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrors(t *testing.T) {
	Convey("messages name the offending value", t, func() {
		So(InvalidCommandError{"drive", "left out of range"}.Error(), ShouldEqual, "invalid command drive: left out of range")
		So(InvalidCommandError{Reason: "empty"}.Error(), ShouldContainSubstring, "UNKOWN")
		So(UnknownVerbError{"jump"}.Error(), ShouldContainSubstring, "jump")
		So(UnknownModeError{"fly"}.Error(), ShouldContainSubstring, "fly")
	})

	Convey("hardware errors unwrap to their cause", t, func() {
		cause := errors.New("simulated pwm failure")
		err := error(HardwareWriteError{Port: "dumper", Err: cause})
		So(errors.Is(err, cause), ShouldBeTrue)

		var hw HardwareWriteError
		So(errors.As(err, &hw), ShouldBeTrue)
		So(hw.Port, ShouldEqual, "dumper")
	})
}
