package comms

import (
	"github.com/CodedInternet/gominer/onboard/state"
	"github.com/google/uuid"
)

// StatePayload is one frame of the status stream: the snapshot fields
// flattened, plus the current queue depth.
type StatePayload struct {
	state.RobotSnapshot
	Queued int `json:"queued"`
}

type CommandReply struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	Error string     `json:"error,omitempty"`
}
