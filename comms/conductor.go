package comms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/CodedInternet/gominer/calcs"
	errs "github.com/CodedInternet/gominer/onboard/errors"
	"github.com/CodedInternet/gominer/onboard/mechatronics"
	"github.com/CodedInternet/gominer/onboard/state"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/mapstructure"
)

const (
	FRAMERATE = 10
)

// Device is what the conductor needs from the robot.
type Device interface {
	Submit(cmd mechatronics.Command) error
	Snapshot() state.RobotSnapshot
	Queued() int
}

// Recorder is told about every command offered to the device.
type Recorder interface {
	Record(cmd mechatronics.Command, err error)
}

// Cmd is a command as it arrives from a client. Left and Right are pointers
// so that a missing value can be told apart from zero.
type Cmd struct {
	Cmd   string   `json:"cmd" mapstructure:"cmd"`
	Left  *float64 `json:"left,omitempty" mapstructure:"left"`
	Right *float64 `json:"right,omitempty" mapstructure:"right"`
}

// DecodeCmd builds a Cmd from a loosely typed map, as decoded from a
// websocket frame or assembled by the shell. Unknown keys are rejected.
func DecodeCmd(raw map[string]interface{}) (cmd Cmd, err error) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &cmd,
	})
	if err != nil {
		return
	}

	if err = dec.Decode(raw); err != nil {
		name, _ := raw["cmd"].(string)
		err = errs.InvalidCommandError{Command: name, Reason: err.Error()}
	}
	return
}

func checkSpeed(verb, side string, v float64) error {
	if !calcs.InUnitRange64(v) {
		return errs.InvalidCommandError{Command: verb, Reason: fmt.Sprintf("%s speed %v outside [-1, 1]", side, v)}
	}
	return nil
}

// Command validates the verb, its arity and the speed range.
func (c Cmd) Command() (cmd mechatronics.Command, err error) {
	verb, err := mechatronics.ParseVerb(c.Cmd)
	if err != nil {
		return
	}

	if verb != mechatronics.Drive {
		if c.Left != nil || c.Right != nil {
			return cmd, errs.InvalidCommandError{Command: c.Cmd, Reason: "takes no speeds"}
		}
		return mechatronics.NewCommand(verb), nil
	}

	if c.Left == nil || c.Right == nil {
		return cmd, errs.InvalidCommandError{Command: c.Cmd, Reason: "needs both left and right speeds"}
	}
	if err = checkSpeed(c.Cmd, "left", *c.Left); err != nil {
		return
	}
	if err = checkSpeed(c.Cmd, "right", *c.Right); err != nil {
		return
	}
	return mechatronics.NewDrive(float32(*c.Left), float32(*c.Right)), nil
}

// Conductor is the command ingress and status egress shared by the HTTP API,
// the websockets and the shell.
type Conductor struct {
	Device   Device
	Recorder Recorder
	l        hclog.Logger
}

func NewConductor(device Device, recorder Recorder, l hclog.Logger) *Conductor {
	return &Conductor{
		Device:   device,
		Recorder: recorder,
		l:        l.Named("conductor"),
	}
}

// ProcessCommand validates cmd and offers it to the device. The returned id
// identifies the command in the journal.
func (c *Conductor) ProcessCommand(cmd Cmd) (id uuid.UUID, err error) {
	command, err := cmd.Command()
	if err != nil {
		c.l.Debug("rejected command", "cmd", cmd.Cmd, "error", err)
		return
	}

	err = c.Device.Submit(command)
	if c.Recorder != nil {
		c.Recorder.Record(command, err)
	}
	if err != nil {
		c.l.Warn("command not queued", "command", command.String(), "error", err)
		return
	}

	return command.ID, nil
}

// HandleMessage processes one json command frame and returns the reply frame.
func (c *Conductor) HandleMessage(msg []byte) []byte {
	var reply CommandReply

	var raw map[string]interface{}
	if err := json.Unmarshal(msg, &raw); err != nil {
		reply.Error = "invalid json"
	} else if cmd, err := DecodeCmd(raw); err != nil {
		reply.Error = err.Error()
	} else if id, err := c.ProcessCommand(cmd); err != nil {
		reply.Error = err.Error()
	} else {
		reply.ID = &id
	}

	b, _ := json.Marshal(reply)
	return b
}

func (c *Conductor) State() StatePayload {
	return StatePayload{
		RobotSnapshot: c.Device.Snapshot(),
		Queued:        c.Device.Queued(),
	}
}

// UpdateClients pushes the state to hub rate times per second until ctx is
// done. A rate of zero uses FRAMERATE.
func (c *Conductor) UpdateClients(ctx context.Context, hub *Hub, rate int) error {
	if rate <= 0 {
		rate = FRAMERATE
	}

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if hub.ClientCount() == 0 {
				continue
			}
			if err := hub.BroadcastJSON(c.State()); err != nil {
				c.l.Error("unable to encode state", "error", err)
			}
		}
	}
}
