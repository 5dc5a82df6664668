package state

import (
	"sync"
	"time"

	"github.com/five82/intelwatch/internal/match"
)

// MaxAlerts bounds the recent alert history kept for display.
const MaxAlerts = 50

// WatchedFile is a log file the last cycle polled.
type WatchedFile struct {
	Channel string
	Name    string
	Path    string
}

// Alert records one matched message.
type Alert struct {
	At       time.Time
	Channel  string
	File     string
	Category match.Category
	Term     string
	Text     string
}

// Snapshot represents the latest poll activity available to the UI.
type Snapshot struct {
	Files       []WatchedFile
	Alerts      []Alert // newest last
	Cycles      int
	Messages    int // new messages seen since start
	LastCycle   time.Time
	LastError   error
	FileErrors  int // per-file failures in the last cycle
	TotalAlerts int
}

// Healthy reports whether the last cycle finished without any error, either
// a per-file failure or one that aborted the whole cycle.
func (s Snapshot) Healthy() bool {
	return s.LastError == nil
}

// Cycle is the outcome of one poll cycle.
type Cycle struct {
	At       time.Time
	Files    []WatchedFile
	Alerts   []Alert
	Messages int
	Errors   []error
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Record folds a finished cycle into the snapshot. The watched file list is
// replaced; alerts are appended and trimmed to MaxAlerts. When the cycle had
// errors the last one is kept for visibility.
func (s *Store) Record(c Cycle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Files = cloneFiles(c.Files)
	s.snapshot.Cycles++
	s.snapshot.Messages += c.Messages
	s.snapshot.LastCycle = c.At
	s.snapshot.FileErrors = len(c.Errors)
	s.snapshot.TotalAlerts += len(c.Alerts)

	if len(c.Errors) > 0 {
		s.snapshot.LastError = c.Errors[len(c.Errors)-1]
	} else {
		s.snapshot.LastError = nil
	}

	if len(c.Alerts) > 0 {
		alerts := append(s.snapshot.Alerts, c.Alerts...)
		if len(alerts) > MaxAlerts {
			alerts = alerts[len(alerts)-MaxAlerts:]
		}
		s.snapshot.Alerts = cloneAlerts(alerts)
	}
}

// Fail records an error that aborted a whole cycle, such as an unreadable
// log directory. Previous data is kept.
func (s *Store) Fail(at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Cycles++
	s.snapshot.LastCycle = at
	s.snapshot.LastError = err
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Files = cloneFiles(s.snapshot.Files)
	snap.Alerts = cloneAlerts(s.snapshot.Alerts)
	return snap
}

func cloneFiles(files []WatchedFile) []WatchedFile {
	if len(files) == 0 {
		return nil
	}
	dup := make([]WatchedFile, len(files))
	copy(dup, files)
	return dup
}

func cloneAlerts(alerts []Alert) []Alert {
	if len(alerts) == 0 {
		return nil
	}
	dup := make([]Alert, len(alerts))
	copy(dup, alerts)
	return dup
}
