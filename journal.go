package main

import (
	"context"
	"time"

	"github.com/CodedInternet/gominer/onboard/mechatronics"
	"github.com/asdine/storm/v3"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

const (
	STAGE_SUBMIT   = "submit"
	STAGE_DISPATCH = "dispatch"

	OUTCOME_ACCEPTED   = "accepted"
	OUTCOME_REJECTED   = "rejected"
	OUTCOME_DISPATCHED = "dispatched"
	OUTCOME_FAILED     = "failed"

	JOURNAL_DEFAULT_LIMIT = 50
	JOURNAL_MAX_LIMIT     = 1000
)

// JournalEntry is one line of the command journal. A command appears once
// when it is offered to the queue and again when the supervisor runs it.
type JournalEntry struct {
	ID        int       `storm:"increment" json:"seq"` // pk
	CommandID string    `storm:"index" json:"id"`
	Time      time.Time `json:"time"`
	Verb      string    `json:"verb"`
	Left      float32   `json:"left,omitempty"`
	Right     float32   `json:"right,omitempty"`
	Stage     string    `json:"stage"`
	Outcome   string    `json:"outcome"`
	Cycle     uint64    `json:"cycle,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func newEntry(cmd mechatronics.Command, stage string, err error) *JournalEntry {
	e := &JournalEntry{
		CommandID: cmd.ID.String(),
		Time:      time.Now().UTC(),
		Verb:      cmd.Verb.String(),
		Left:      cmd.Left,
		Right:     cmd.Right,
		Stage:     stage,
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// Journal persists command history in a storm database.
type Journal struct {
	db *storm.DB
	l  hclog.Logger
}

func OpenJournal(path string, l hclog.Logger) (j *Journal, err error) {
	db, err := storm.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open journal %s", path)
	}

	// create the buckets and indexes up front
	if err = db.Init(&JournalEntry{}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "unable to init journal")
	}

	return &Journal{db: db, l: l.Named("journal")}, nil
}

func (j *Journal) save(e *JournalEntry) {
	if err := j.db.Save(e); err != nil {
		j.l.Error("unable to save entry", "command", e.CommandID, "error", err)
	}
}

// Record stores the outcome of offering cmd to the queue.
func (j *Journal) Record(cmd mechatronics.Command, err error) {
	e := newEntry(cmd, STAGE_SUBMIT, err)
	e.Outcome = OUTCOME_ACCEPTED
	if err != nil {
		e.Outcome = OUTCOME_REJECTED
	}
	j.save(e)
}

// Dispatched stores the outcome of running a command.
func (j *Journal) Dispatched(ev mechatronics.Event) {
	e := newEntry(ev.Command, STAGE_DISPATCH, ev.Err)
	e.Cycle = ev.Cycle
	e.Outcome = OUTCOME_DISPATCHED
	if ev.Err != nil {
		e.Outcome = OUTCOME_FAILED
	}
	j.save(e)
}

// Consume journals events until ctx is done or events is closed.
func (j *Journal) Consume(ctx context.Context, events <-chan mechatronics.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			j.Dispatched(ev)
		}
	}
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(n int) (entries []JournalEntry, err error) {
	err = j.db.All(&entries, storm.Limit(n), storm.Reverse())
	if err == storm.ErrNotFound {
		err = nil
	}
	if entries == nil {
		entries = []JournalEntry{}
	}
	return
}

// ByCommand returns every entry for one command id in the order written.
func (j *Journal) ByCommand(id string) (entries []JournalEntry, err error) {
	err = j.db.Find("CommandID", id, &entries)
	return
}

func (j *Journal) Close() error {
	return j.db.Close()
}
