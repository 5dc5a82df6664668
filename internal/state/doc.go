// Package state provides thread-safe sharing of poll activity between the
// background poller and the UI.
//
// # Architecture
//
//	Producer (Poller):              Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ ListMonitored()  │           │                  │
//	│ Tracker.Poll()   │           │                  │
//	│ match.Match()    │           │                  │
//	│       ↓          │           │                  │
//	│ store.Record()   │──────────→│ store.Snapshot() │
//	│       ↓          │  (mutex)  │       ↓          │
//	│ repeat...        │           │ render footer    │
//	└──────────────────┘           └──────────────────┘
//
// The Store holds only what the UI displays: the files polled in the last
// cycle, a bounded list of recent alerts, counters, and the last error. The
// per-file "last seen" timestamps are not here; they belong to the poller's
// logtail.Tracker and never leave its goroutine.
//
// # Update Semantics
//
//	store.Record(cycle)
//	→ Files      = cycle.Files (replaced)
//	→ Alerts     = previous + cycle.Alerts, trimmed to MaxAlerts
//	→ LastError  = last per-file error of the cycle, or nil
//
//	store.Fail(at, err)
//	→ Files, Alerts unchanged
//	→ LastError  = err
//
// # Copying
//
// Snapshot clones slices so the UI can hold on to a
// snapshot while the poller keeps recording. The zero Store is ready to use.
package state
