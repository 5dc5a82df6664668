// Package alert plays the audible notification for a matched chat line.
//
// Play never blocks and never reports failure to its caller: the sound runs
// on its own goroutine, overlapping requests are dropped while one is still
// playing, and errors end up in the log.
package alert

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Sounder produces one alert sound and returns when it has finished.
type Sounder interface {
	Sound(ctx context.Context) error
}

// CommandSounder runs an external player, e.g. ["paplay", "alert.wav"].
type CommandSounder struct {
	Args []string
}

// Sound runs the configured command and waits for it.
func (c CommandSounder) Sound(ctx context.Context) error {
	if len(c.Args) == 0 {
		return fmt.Errorf("alert command is empty")
	}
	out, err := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("run %s: %w (%s)", c.Args[0], err, trimOutput(out))
	}
	return nil
}

// BellSounder rings the terminal bell.
type BellSounder struct {
	W io.Writer
}

// Sound writes a BEL character.
func (b BellSounder) Sound(context.Context) error {
	if _, err := io.WriteString(b.W, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

// Player triggers a Sounder without blocking the caller.
type Player struct {
	sounder Sounder
	logger  *zap.Logger
	timeout time.Duration

	muted   atomic.Bool
	playing atomic.Bool
	played  atomic.Int64
	wg      sync.WaitGroup
}

// NewPlayer returns a Player for s. A nil logger discards output.
func NewPlayer(s Sounder, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{sounder: s, logger: logger, timeout: defaultTimeout}
}

// Play starts the sound in the background. It returns immediately; while muted
// or while a previous sound is still running the request is dropped.
func (p *Player) Play() {
	if p == nil || p.sounder == nil || p.muted.Load() {
		return
	}
	if !p.playing.CompareAndSwap(false, true) {
		p.logger.Debug("alert already playing, request dropped")
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.playing.Store(false)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("alert sounder panicked", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.sounder.Sound(ctx); err != nil {
			p.logger.Warn("alert playback failed", zap.Error(err))
			return
		}
		p.played.Add(1)
	}()
}

// SetMuted suppresses or re-enables playback.
func (p *Player) SetMuted(muted bool) {
	p.muted.Store(muted)
}

// Muted reports whether playback is suppressed.
func (p *Player) Muted() bool {
	return p.muted.Load()
}

// Played reports how many sounds completed successfully.
func (p *Player) Played() int64 {
	return p.played.Load()
}

// Wait blocks until in-flight playback has finished.
func (p *Player) Wait() {
	p.wg.Wait()
}

func trimOutput(out []byte) string {
	const limit = 200
	s := string(out)
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
