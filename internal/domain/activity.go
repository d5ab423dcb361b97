package domain

import "time"

// MaxActivityHistory is the default bound of the stored snapshot history.
const MaxActivityHistory = 100

// ActivityCounters holds the simulated input counters of the current process.
type ActivityCounters struct {
	KeyboardCount      int64
	MouseCount         int64
	LastScreenshotTime *time.Time
}

// Snapshot captures the counters at now.
func (c ActivityCounters) Snapshot(now time.Time) ActivitySnapshot {
	snap := ActivitySnapshot{
		ID:            generateID(),
		KeyboardCount: c.KeyboardCount,
		MouseCount:    c.MouseCount,
		Timestamp:     now,
	}
	if c.LastScreenshotTime != nil {
		t := *c.LastScreenshotTime
		snap.LastScreenshotTime = &t
	}
	return snap
}

// Clone returns a copy that shares no pointers with c.
func (c ActivityCounters) Clone() ActivityCounters {
	if c.LastScreenshotTime != nil {
		t := *c.LastScreenshotTime
		c.LastScreenshotTime = &t
	}
	return c
}

// ActivitySnapshot is a persisted point-in-time copy of the counters.
type ActivitySnapshot struct {
	ID                 string     `json:"id,omitempty"`
	KeyboardCount      int64      `json:"keyboardCount"`
	MouseCount         int64      `json:"mouseCount"`
	LastScreenshotTime *time.Time `json:"lastScreenshotTime"`
	Timestamp          time.Time  `json:"timestamp"`
}

// AppendHistory appends snap and evicts the oldest entries so that at most
// limit remain. A non-positive limit falls back to MaxActivityHistory.
func AppendHistory(history []ActivitySnapshot, snap ActivitySnapshot, limit int) []ActivitySnapshot {
	if limit <= 0 {
		limit = MaxActivityHistory
	}
	history = append(history, snap)
	if over := len(history) - limit; over > 0 {
		history = append([]ActivitySnapshot(nil), history[over:]...)
	}
	return history
}
