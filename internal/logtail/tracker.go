package logtail

import (
	"path/filepath"

	"github.com/five82/intelwatch/internal/chatlog"
)

// Tracker owns the FileState of every file polled so far. States are keyed by
// base file name and live as long as the Tracker. A Tracker is not safe for
// concurrent use; the poll loop is its only caller.
type Tracker struct {
	states    map[string]FileState
	chunkSize int
}

// NewTracker returns an empty Tracker. A chunkSize of zero uses DefaultChunkSize.
func NewTracker(chunkSize int) *Tracker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Tracker{
		states:    make(map[string]FileState),
		chunkSize: chunkSize,
	}
}

// Poll returns the messages appended to path since the previous Poll of a file
// with the same name. The first successful Poll records a baseline and returns
// nothing. On error the stored state is left untouched.
func (t *Tracker) Poll(path string) ([]chatlog.Message, error) {
	name := filepath.Base(path)

	var prior *FileState
	if st, ok := t.states[name]; ok {
		prior = &st
	}

	res, err := Scan(path, prior, t.chunkSize)
	if err != nil {
		return nil, err
	}
	if res.HasLatest && (prior == nil || res.Latest.After(prior.Last)) {
		t.states[name] = FileState{Last: res.Latest}
	}
	return res.Messages, nil
}

// State reports the stored state for a file name.
func (t *Tracker) State(name string) (FileState, bool) {
	st, ok := t.states[name]
	return st, ok
}

// Len reports how many files have a recorded state.
func (t *Tracker) Len() int {
	return len(t.states)
}
