package app

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/intelwatch/internal/match"
	"github.com/five82/intelwatch/internal/settings"
	"github.com/five82/intelwatch/internal/state"
)

type countingAlerter struct {
	plays atomic.Int32
}

func (c *countingAlerter) Play() { c.plays.Add(1) }

type staticSettings settings.Snapshot

func (s staticSettings) Snapshot() settings.Snapshot { return settings.Snapshot(s) }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
}

func TestCycle_BaselineThenSingleAlert(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Intel_20230101_000000.txt")
	writeFile(t, path, "A\nB\n[ 2023.01.01 00:00:01 ] target-system here\n")

	alerter := &countingAlerter{}
	store := &state.Store{}
	p := NewPoller(PollerOptions{
		Dir:      dir,
		Settings: staticSettings{Channels: []string{"Intel"}, Systems: []string{"target-system"}},
		Alerter:  alerter,
		Store:    store,
	})

	first := p.Cycle()
	if len(first.Alerts) != 0 || alerter.plays.Load() != 0 {
		t.Fatalf("first cycle alerted %d times, want baseline only", alerter.plays.Load())
	}
	if len(first.Files) != 1 || first.Files[0].Name != "Intel_20230101_000000.txt" {
		t.Fatalf("first cycle files = %+v", first.Files)
	}

	appendFile(t, path, "[ 2023.01.01 00:00:02 ] target-system again\n")
	second := p.Cycle()
	if got := alerter.plays.Load(); got != 1 {
		t.Fatalf("alerts after append = %d, want 1", got)
	}
	if len(second.Alerts) != 1 {
		t.Fatalf("second cycle alerts = %+v, want 1", second.Alerts)
	}
	a := second.Alerts[0]
	if a.Category != match.System || a.Term != "target-system" || a.Channel != "Intel" {
		t.Fatalf("alert = %+v", a)
	}

	third := p.Cycle()
	if len(third.Alerts) != 0 || third.Messages != 0 || alerter.plays.Load() != 1 {
		t.Fatalf("idle cycle produced %d alerts, %d messages", len(third.Alerts), third.Messages)
	}

	snap := store.Snapshot()
	if snap.Cycles != 3 || snap.TotalAlerts != 1 || snap.Messages != 1 {
		t.Fatalf("activity snapshot = %+v", snap)
	}
}

func TestCycle_KAppendedLinesYieldKMessages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Local_20230101_000000.txt")
	writeFile(t, path, "[ 2023.01.01 00:00:00 ] start\n")

	alerter := &countingAlerter{}
	p := NewPoller(PollerOptions{
		Dir:      dir,
		Settings: staticSettings{Channels: []string{"Local"}, Characters: []string{"Bob"}},
		Alerter:  alerter,
	})
	p.Cycle()

	appendFile(t, path,
		"[ 2023.01.01 00:00:01 ] Bob > one\n"+
			"[ 2023.01.01 00:00:02 ] Alice > two\n"+
			"[ 2023.01.01 00:00:03 ] Bob > three\n"+
			"[ 2023.01.01 00:00:04 ] Carol > four\n")
	cycle := p.Cycle()
	if cycle.Messages != 4 {
		t.Fatalf("Messages = %d, want 4", cycle.Messages)
	}
	if len(cycle.Alerts) != 2 || alerter.plays.Load() != 2 {
		t.Fatalf("alerts = %d plays = %d, want 2", len(cycle.Alerts), alerter.plays.Load())
	}
	st, ok := p.tracker.State("Local_20230101_000000.txt")
	if !ok || !st.Last.Equal(time.Date(2023, 1, 1, 0, 0, 4, 0, time.UTC)) {
		t.Fatalf("FileState = %v, %v; want 00:00:04", st, ok)
	}
}

func TestCycle_FollowsNewestFilePerChannel(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "ALLY_20230101_100000.txt")
	writeFile(t, old, "[ 2023.01.01 10:00:00 ] old\n")

	p := NewPoller(PollerOptions{
		Dir:      dir,
		Settings: staticSettings{Channels: []string{"ALLY"}},
	})
	if c := p.Cycle(); len(c.Files) != 1 || c.Files[0].Name != "ALLY_20230101_100000.txt" {
		t.Fatalf("files = %+v", c.Files)
	}

	writeFile(t, filepath.Join(dir, "ALLY_20230102_100000.txt"), "[ 2023.01.02 10:00:00 ] new\n")
	if c := p.Cycle(); len(c.Files) != 1 || c.Files[0].Name != "ALLY_20230102_100000.txt" {
		t.Fatalf("files after rollover = %+v", c.Files)
	}
}

func TestCycle_MissingDirectoryIsRecorded(t *testing.T) {
	store := &state.Store{}
	p := NewPoller(PollerOptions{
		Dir:      filepath.Join(t.TempDir(), "gone"),
		Settings: staticSettings{Channels: []string{"Local"}},
		Store:    store,
	})
	c := p.Cycle()
	if len(c.Files) != 0 {
		t.Fatalf("files = %+v, want none", c.Files)
	}
	if snap := store.Snapshot(); snap.Cycles != 1 {
		t.Fatalf("Cycles = %d, want 1", snap.Cycles)
	}
}

func TestCycle_SettingsReadFreshEachCycle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Local_20230101_000000.txt")
	writeFile(t, path, "[ 2023.01.01 00:00:00 ] start\n")

	store := settings.NewStore(filepath.Join(t.TempDir(), "settings.jin"))
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := store.Add(settings.Channels); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Set(settings.Channels, 0, "Local"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	alerter := &countingAlerter{}
	p := NewPoller(PollerOptions{Dir: dir, Settings: store, Alerter: alerter})
	p.Cycle()

	appendFile(t, path, "[ 2023.01.01 00:00:01 ] Scout > red in Jita\n")
	if _, err := store.Add(settings.Systems); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Set(settings.Systems, 0, "Jita"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if c := p.Cycle(); len(c.Alerts) != 1 {
		t.Fatalf("alerts = %+v, want edit to apply on the next cycle", c.Alerts)
	}
}

func TestRun_StopsOnCancelAndHonoursNudge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Local_20230101_000000.txt")
	writeFile(t, path, "[ 2023.01.01 00:00:00 ] start\n")

	alerter := &countingAlerter{}
	store := &state.Store{}
	p := NewPoller(PollerOptions{
		Dir:      dir,
		Settings: staticSettings{Channels: []string{"Local"}, Systems: []string{"Jita"}},
		Alerter:  alerter,
		Store:    store,
		Interval: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return store.Snapshot().Cycles >= 1 })
	appendFile(t, path, "[ 2023.01.01 00:00:01 ] Scout > Jita\n")
	p.Nudge()
	waitFor(t, func() bool { return alerter.plays.Load() == 1 })

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCycle_EmptyWatchlistCountsMessagesWithoutAlerts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Local_20230101_000000.txt")
	writeFile(t, path, "[ 2023.01.01 00:00:00 ] start\n")

	alerter := &countingAlerter{}
	p := NewPoller(PollerOptions{
		Dir:      dir,
		Settings: staticSettings{Channels: []string{"Local"}},
		Alerter:  alerter,
	})
	p.Cycle()

	appendFile(t, path, "[ 2023.01.01 00:00:01 ] anything\n")
	c := p.Cycle()
	if c.Messages != 1 || len(c.Alerts) != 0 || alerter.plays.Load() != 0 {
		t.Fatalf("cycle = %+v plays = %d, want 1 message and no alerts", c, alerter.plays.Load())
	}
	if st, ok := p.tracker.State("Local_20230101_000000.txt"); !ok || st.Last.Second() != 1 {
		t.Fatalf("FileState = %v, %v; want advanced to 00:00:01", st, ok)
	}
}
