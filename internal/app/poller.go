package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/intelwatch/internal/chatlog"
	"github.com/five82/intelwatch/internal/logtail"
	"github.com/five82/intelwatch/internal/match"
	"github.com/five82/intelwatch/internal/settings"
	"github.com/five82/intelwatch/internal/state"
)

const defaultPollInterval = time.Second

// Alerter is the fire-and-forget sound trigger.
type Alerter interface {
	Play()
}

// SettingsSource supplies the lists for one cycle.
type SettingsSource interface {
	Snapshot() settings.Snapshot
}

// PollerOptions configure a Poller.
type PollerOptions struct {
	Dir       string
	Settings  SettingsSource
	Alerter   Alerter
	Store     *state.Store
	Logger    *zap.Logger
	Interval  time.Duration
	ChunkSize int
}

// Poller runs the scan cycle: select files, read what was appended, match,
// alert. It owns the per-file state and is driven by a single goroutine.
type Poller struct {
	dir      string
	settings SettingsSource
	alerter  Alerter
	store    *state.Store
	logger   *zap.Logger
	interval time.Duration
	tracker  *logtail.Tracker
	nudge    chan struct{}
	now      func() time.Time
}

// NewPoller returns a Poller for opts, filling in defaults.
func NewPoller(opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	return &Poller{
		dir:      opts.Dir,
		settings: opts.Settings,
		alerter:  opts.Alerter,
		store:    store,
		logger:   logger,
		interval: interval,
		tracker:  logtail.NewTracker(opts.ChunkSize),
		nudge:    make(chan struct{}, 1),
		now:      time.Now,
	}
}

// Nudge asks for a cycle before the next tick. Requests made while one is
// already pending are merged.
func (p *Poller) Nudge() {
	select {
	case p.nudge <- struct{}{}:
	default:
	}
}

// Run cycles immediately and then on every tick or nudge until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("poll loop started",
		zap.String("dir", p.dir),
		zap.Duration("interval", p.interval))

	for {
		p.Cycle()
		select {
		case <-ctx.Done():
			p.logger.Info("poll loop stopped", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
		case <-p.nudge:
		}
	}
}

// Cycle runs one scan over the currently selected files and records the
// outcome in the activity store. Per-file failures are logged and skipped.
func (p *Poller) Cycle() state.Cycle {
	now := p.now()
	var snap settings.Snapshot
	if p.settings != nil {
		snap = p.settings.Snapshot()
	}

	files, err := chatlog.ListMonitored(p.dir, snap.Channels)
	if err != nil {
		p.logger.Warn("list log files failed", zap.String("dir", p.dir), zap.Error(err))
		p.store.Fail(now, err)
		return state.Cycle{At: now, Errors: []error{err}}
	}

	watch := snap.Watchlist()
	cycle := state.Cycle{At: now}
	for _, f := range files {
		cycle.Files = append(cycle.Files, state.WatchedFile{Channel: f.Channel, Name: f.Name, Path: f.Path})

		msgs, err := p.tracker.Poll(f.Path)
		if err != nil {
			p.logger.Warn("poll log file failed", zap.String("file", f.Name), zap.Error(err))
			cycle.Errors = append(cycle.Errors, err)
			continue
		}
		cycle.Messages += len(msgs)
		if watch.Empty() {
			continue
		}

		for _, msg := range msgs {
			hit, ok := match.Match(msg.Text, watch)
			if !ok {
				continue
			}
			if p.alerter != nil {
				p.alerter.Play()
			}
			p.logger.Info("watch term matched",
				zap.String("channel", f.Channel),
				zap.String("file", f.Name),
				zap.Stringer("category", hit.Category),
				zap.String("term", hit.Term),
				zap.String("text", msg.Text))
			cycle.Alerts = append(cycle.Alerts, state.Alert{
				At:       now,
				Channel:  f.Channel,
				File:     f.Name,
				Category: hit.Category,
				Term:     hit.Term,
				Text:     msg.Text,
			})
		}
	}

	if cycle.Messages > 0 {
		p.logger.Debug("cycle finished",
			zap.Int("files", len(cycle.Files)),
			zap.Int("messages", cycle.Messages),
			zap.Int("alerts", len(cycle.Alerts)))
	}
	p.store.Record(cycle)
	return cycle
}
