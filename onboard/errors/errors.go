package errors

import (
	"errors"
	"fmt"
)

// ErrQueueFull is returned to a producer when the command queue has no room.
var ErrQueueFull = errors.New("command queue is full")

// InvalidCommandError rejects a command before it reaches the queue.
type InvalidCommandError struct {
	Command string
	Reason  string
}

func (err InvalidCommandError) Error() string {
	if len(err.Command) == 0 {
		err.Command = "UNKOWN"
	}
	return fmt.Sprintf("invalid command %s: %s", err.Command, err.Reason)
}

type UnknownVerbError struct {
	Verb string
}

func (err UnknownVerbError) Error() string {
	return fmt.Sprintf("no such command %q", err.Verb)
}

type UnknownModeError struct {
	Mode string
}

func (err UnknownModeError) Error() string {
	return fmt.Sprintf("no such mode %q", err.Mode)
}

// HardwareWriteError names the port a failed output write belongs to.
type HardwareWriteError struct {
	Port string
	Err  error
}

func (err HardwareWriteError) Error() string {
	if len(err.Port) == 0 {
		err.Port = "UNKOWN"
	}
	return fmt.Sprintf("write to port %s failed: %v", err.Port, err.Err)
}

func (err HardwareWriteError) Unwrap() error {
	return err.Err
}
