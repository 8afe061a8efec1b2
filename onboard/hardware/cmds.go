package hardware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CodedInternet/gominer/calcs"
)

const (
	CMD_ALLSTOP = 'S'
	CMD_MOTOR   = 'M'
	CMD_VERSION = 'V'

	CMD_MAX_RETRIES = 5
	CMD_TIMEOUT     = 50 * time.Millisecond

	ARDUINO_QUEUE_DEPTH = 64
)

var (
	ERR_MAX_RETRIES = errors.New("CMD_MAX_RETRIES reached while waiting for the arduino")
	ERR_QUEUE_FULL  = errors.New("arduino transmit queue is full")
	ERR_LINK_DOWN   = errors.New("arduino serial link is down")
)

// motorCmd sets one motor channel on the arduino. value is the speed mapped
// onto [-255, 255].
type motorCmd struct {
	channel uint8
	value   int
}

func newMotorCmd(channel uint8, speed float32) motorCmd {
	return motorCmd{
		channel: channel,
		value:   calcs.Signed8(speed),
	}
}

func (c motorCmd) Bytes() []byte {
	return []byte(fmt.Sprintf("%c%d %d\n", CMD_MOTOR, c.channel, c.value))
}

func versionRequest() []byte {
	return []byte{CMD_VERSION, '\n'}
}

func allStop() []byte {
	return []byte{CMD_ALLSTOP, '\n'}
}

// parseVersionLine strips framing from a version reply. Firmware answers
// either "V0.2.1" or a bare "0.2.1".
func parseVersionLine(line string) string {
	line = strings.TrimSpace(line)
	return strings.TrimPrefix(line, string(rune(CMD_VERSION)))
}
