package hardware

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Masterminds/semver"
	"github.com/goburrow/serial"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

const (
	ARDUINO_FIRMWARE = "~0.2.0"
	ARDUINO_BAUD     = 115200
)

// Arduino owns the serial link to a motor co-processor. Motor writes are
// queued and sent by a single writer goroutine so callers never block on the
// port.
type Arduino struct {
	port    io.ReadWriteCloser
	lock    *sync.Mutex
	tx      chan motorCmd
	done    chan struct{}
	stopped sync.WaitGroup
	down    atomic.Bool
	version string
	l       hclog.Logger

	// last value sent per channel, owned by the writer goroutine
	last map[uint8]int
}

// OpenArduino opens the serial device at address and performs the version
// handshake. An empty constraint uses ARDUINO_FIRMWARE.
func OpenArduino(address string, baud int, constraint string, l hclog.Logger) (*Arduino, error) {
	if baud == 0 {
		baud = ARDUINO_BAUD
	}

	port, err := serial.Open(&serial.Config{
		Address:  address,
		BaudRate: baud,
		Timeout:  CMD_TIMEOUT,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open serial port %s", address)
	}

	a, err := NewArduino(port, constraint, l)
	if err != nil {
		port.Close()
		return nil, err
	}
	return a, nil
}

// NewArduino runs the handshake over an already open stream and starts the
// writer.
func NewArduino(port io.ReadWriteCloser, constraint string, l hclog.Logger) (a *Arduino, err error) {
	if constraint == "" {
		constraint = ARDUINO_FIRMWARE
	}

	a = &Arduino{
		port: port,
		lock: new(sync.Mutex),
		tx:   make(chan motorCmd, ARDUINO_QUEUE_DEPTH),
		done: make(chan struct{}),
		last: make(map[uint8]int),
		l:    l.Named("arduino"),
	}

	a.version, err = a.handshake()
	if err != nil {
		return nil, err
	}

	if err = checkFirmware(a.version, constraint); err != nil {
		return nil, err
	}
	a.l.Info("connected", "firmware", a.version)

	a.stopped.Add(1)
	go a.listen()

	return
}

func (a *Arduino) handshake() (version string, err error) {
	r := bufio.NewReader(a.port)

	for i := 0; i < CMD_MAX_RETRIES; i++ {
		if err = a.send(versionRequest()); err != nil {
			return "", errors.Wrap(err, "version request")
		}

		line, rerr := r.ReadString('\n')
		version = parseVersionLine(line)
		if version != "" {
			return version, nil
		}
		if rerr != nil && rerr != serial.ErrTimeout {
			return "", errors.Wrap(rerr, "version reply")
		}
	}

	return "", ERR_MAX_RETRIES
}

func checkFirmware(version, constraint string) error {
	semVer, err := semver.NewVersion(version)
	if err != nil {
		if version == "DEV" {
			// bench builds flashed straight from the firmware tree
			return nil
		}
		return errors.Wrapf(err, "unusable firmware version %q", version)
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "bad firmware constraint %q", constraint)
	}

	if !c.Check(semVer) {
		return fmt.Errorf("unable to use arduino: recieved firmware %s - require %s", version, constraint)
	}
	return nil
}

func (a *Arduino) send(b []byte) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	_, err := a.port.Write(b)
	return err
}

func (a *Arduino) listen() {
	defer a.stopped.Done()

	for {
		select {
		case cmd := <-a.tx:
			a.write(cmd)
		case <-a.done:
			return
		}
	}
}

func (a *Arduino) write(cmd motorCmd) {
	if prev, ok := a.last[cmd.channel]; ok && prev == cmd.value && !a.down.Load() {
		return
	}

	if err := a.send(cmd.Bytes()); err != nil {
		if !a.down.Swap(true) {
			a.l.Error("serial link down", "error", err)
		}
		delete(a.last, cmd.channel)
		return
	}

	if a.down.Swap(false) {
		a.l.Info("serial link restored")
	}
	a.last[cmd.channel] = cmd.value
}

// SetMotor queues a speed for channel. It never blocks.
func (a *Arduino) SetMotor(channel uint8, speed float32) error {
	select {
	case <-a.done:
		return ERR_LINK_DOWN
	default:
	}

	select {
	case a.tx <- newMotorCmd(channel, speed):
	default:
		return ERR_QUEUE_FULL
	}

	if a.down.Load() {
		return ERR_LINK_DOWN
	}
	return nil
}

func (a *Arduino) Version() string {
	return a.version
}

type arduinoChannel struct {
	arduino *Arduino
	channel uint8
}

func (c arduinoChannel) Write(value float32) error {
	return c.arduino.SetMotor(c.channel, value)
}

// AnalogOutput maps a channel number ("0".."255") to a signed output.
func (a *Arduino) AnalogOutput(pin string) (AnalogOutput, error) {
	ch, err := strconv.ParseUint(pin, 10, 8)
	if err != nil {
		return nil, errors.Wrapf(err, "bad arduino channel %q", pin)
	}
	return arduinoChannel{a, uint8(ch)}, nil
}

// Close stops the writer, commands every channel to stop and releases the
// port.
func (a *Arduino) Close() error {
	select {
	case <-a.done:
		return nil
	default:
	}

	close(a.done)
	a.stopped.Wait()

	stopErr := a.send(allStop())
	if err := a.port.Close(); err != nil {
		return err
	}
	return stopErr
}
