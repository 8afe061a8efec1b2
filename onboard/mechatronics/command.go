package mechatronics

import (
	"fmt"

	"github.com/CodedInternet/gominer/calcs"
	errs "github.com/CodedInternet/gominer/onboard/errors"
	"github.com/google/uuid"
)

type Verb int

const (
	EnterDrive Verb = iota
	EnterDump
	EnterDig
	Drive
	Brake
	Dump
	ResetDumper
	StopDumper
	Dig
	StopDigger
	Raise
	Lower
	StopActuators
	Kill
	Revive
)

var verbNames = [...]string{
	EnterDrive:    "enter_drive",
	EnterDump:     "enter_dump",
	EnterDig:      "enter_dig",
	Drive:         "drive",
	Brake:         "brake",
	Dump:          "dump",
	ResetDumper:   "reset_dumper",
	StopDumper:    "stop_dumper",
	Dig:           "dig",
	StopDigger:    "stop_digger",
	Raise:         "raise",
	Lower:         "lower",
	StopActuators: "stop_actuators",
	Kill:          "kill",
	Revive:        "revive",
}

// Verbs lists every command verb in dispatch table order.
func Verbs() []Verb {
	v := make([]Verb, len(verbNames))
	for i := range verbNames {
		v[i] = Verb(i)
	}
	return v
}

func (v Verb) Valid() bool {
	return v >= 0 && int(v) < len(verbNames)
}

func (v Verb) String() string {
	if !v.Valid() {
		return fmt.Sprintf("verb(%d)", int(v))
	}
	return verbNames[v]
}

func (v Verb) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func ParseVerb(name string) (Verb, error) {
	for i, n := range verbNames {
		if n == name {
			return Verb(i), nil
		}
	}
	return 0, errs.UnknownVerbError{Verb: name}
}

// Command is one queued instruction for the supervisor. Left and Right are
// only meaningful for Drive.
type Command struct {
	ID    uuid.UUID `json:"id"`
	Verb  Verb      `json:"verb"`
	Left  float32   `json:"left,omitempty"`
	Right float32   `json:"right,omitempty"`
}

func NewCommand(v Verb) Command {
	return Command{
		ID:   uuid.New(),
		Verb: v,
	}
}

func NewDrive(left, right float32) Command {
	cmd := NewCommand(Drive)
	cmd.Left = left
	cmd.Right = right
	return cmd
}

func (c Command) Validate() error {
	if !c.Verb.Valid() {
		return errs.UnknownVerbError{Verb: c.Verb.String()}
	}

	if c.Verb == Drive {
		if !calcs.InUnitRange(c.Left) {
			return errs.InvalidCommandError{Command: c.Verb.String(), Reason: fmt.Sprintf("left speed %v outside [-1, 1]", c.Left)}
		}
		if !calcs.InUnitRange(c.Right) {
			return errs.InvalidCommandError{Command: c.Verb.String(), Reason: fmt.Sprintf("right speed %v outside [-1, 1]", c.Right)}
		}
	}
	return nil
}

func (c Command) String() string {
	if c.Verb == Drive {
		return fmt.Sprintf("%s(%.3f, %.3f)", c.Verb, c.Left, c.Right)
	}
	return c.Verb.String()
}
