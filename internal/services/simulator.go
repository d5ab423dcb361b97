package services

import (
	"context"
	"time"

	"github.com/xvierd/clockin/internal/domain"
)

// enterRunningLocked starts a fresh set of loops for a new run epoch.
// t.mu must be held.
func (t *Tracker) enterRunningLocked() {
	if t.closed {
		return
	}
	if t.cancel != nil {
		t.cancel()
	}
	t.epoch++
	epoch := t.epoch

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	t.spawn(func() { t.tickLoop(ctx, epoch) })
	if t.cfg.KeyboardInterval > 0 {
		t.spawn(func() {
			t.counterLoop(ctx, epoch, t.cfg.KeyboardInterval, func(c *domain.ActivityCounters) { c.KeyboardCount++ })
		})
	}
	if t.cfg.MouseInterval > 0 {
		t.spawn(func() {
			t.counterLoop(ctx, epoch, t.cfg.MouseInterval, func(c *domain.ActivityCounters) { c.MouseCount++ })
		})
	}
	if t.cfg.ScreenshotMaxDelay > 0 {
		t.spawn(func() { t.screenshotLoop(ctx, epoch) })
	}
}

// leaveRunningLocked invalidates the current epoch and cancels its loops.
// Loops that are mid-flight see the epoch change and drop their update.
// t.mu must be held.
func (t *Tracker) leaveRunningLocked() {
	t.epoch++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Tracker) spawn(fn func()) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		fn()
	}()
}

// ifCurrent runs fn under the lock when epoch is still current.
func (t *Tracker) ifCurrent(epoch uint64, fn func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.epoch != epoch {
		return false
	}
	fn()
	return true
}

func (t *Tracker) tickLoop(ctx context.Context, epoch uint64) {
	interval := t.cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !t.ifCurrent(epoch, func() { t.timer.Tick() }) {
				return
			}
		}
	}
}

func (t *Tracker) counterLoop(ctx context.Context, epoch uint64, interval time.Duration, bump func(*domain.ActivityCounters)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !t.ifCurrent(epoch, func() { bump(&t.counters) }) {
				return
			}
		}
	}
}

// screenshotLoop waits a random delay, captures, records the time and
// schedules the next capture. A failed capture is not recorded.
func (t *Tracker) screenshotLoop(ctx context.Context, epoch uint64) {
	for {
		timer := time.NewTimer(t.randDelay(t.cfg.ScreenshotMaxDelay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		var size int
		if t.capturer != nil {
			img, err := t.capturer.Capture(ctx)
			if err != nil {
				t.logger.Warn("screenshot capture failed", "err", err)
				continue
			}
			size = len(img)
		}

		var at time.Time
		ok := t.ifCurrent(epoch, func() {
			at = t.now()
			t.counters.LastScreenshotTime = &at
		})
		if !ok {
			return
		}

		t.logger.Debug("screenshot captured", "at", at.Format(time.TimeOnly), "bytes", size)
		t.notify("Screenshot captured", at.Format(time.Kitchen))
	}
}
