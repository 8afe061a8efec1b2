package mechatronics

import (
	"context"

	errs "github.com/CodedInternet/gominer/onboard/errors"
)

const (
	MAX_QUEUE_DEPTH     = 32
	DEFAULT_QUEUE_DEPTH = 16
)

// Queue is the bounded command queue between any number of producers and the
// supervisor.
type Queue struct {
	ch chan Command
}

// NewQueue creates a queue holding depth commands. Zero or less selects
// DEFAULT_QUEUE_DEPTH; anything above MAX_QUEUE_DEPTH is capped.
func NewQueue(depth int) *Queue {
	if depth <= 0 {
		depth = DEFAULT_QUEUE_DEPTH
	}
	if depth > MAX_QUEUE_DEPTH {
		depth = MAX_QUEUE_DEPTH
	}
	return &Queue{ch: make(chan Command, depth)}
}

// Submit validates cmd and enqueues it without blocking. A full queue returns
// errs.ErrQueueFull.
func (q *Queue) Submit(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	select {
	case q.ch <- cmd:
		return nil
	default:
		return errs.ErrQueueFull
	}
}

// SubmitWait is Submit but waits for room until ctx is done.
func (q *Queue) SubmitWait(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	select {
	case q.ch <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryNext dequeues one command if any is waiting.
func (q *Queue) TryNext() (cmd Command, ok bool) {
	select {
	case cmd = <-q.ch:
		return cmd, true
	default:
		return
	}
}

func (q *Queue) Len() int {
	return len(q.ch)
}

func (q *Queue) Cap() int {
	return cap(q.ch)
}
