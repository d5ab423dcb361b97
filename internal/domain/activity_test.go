package domain

import (
	"testing"
	"time"
)

func TestAppendHistory_EvictsOldest(t *testing.T) {
	var history []ActivitySnapshot
	for i := 0; i < MaxActivityHistory+25; i++ {
		history = AppendHistory(history, ActivitySnapshot{KeyboardCount: int64(i)}, MaxActivityHistory)
		if len(history) > MaxActivityHistory {
			t.Fatalf("len(history) = %d after %d appends", len(history), i+1)
		}
	}

	if history[0].KeyboardCount != 25 {
		t.Errorf("oldest KeyboardCount = %d, want 25", history[0].KeyboardCount)
	}
	if last := history[len(history)-1].KeyboardCount; last != MaxActivityHistory+24 {
		t.Errorf("newest KeyboardCount = %d, want %d", last, MaxActivityHistory+24)
	}
}

func TestAppendHistory_DefaultLimit(t *testing.T) {
	var history []ActivitySnapshot
	for i := 0; i < MaxActivityHistory+1; i++ {
		history = AppendHistory(history, ActivitySnapshot{}, 0)
	}
	if len(history) != MaxActivityHistory {
		t.Errorf("len(history) = %d, want %d", len(history), MaxActivityHistory)
	}
}

func TestActivityCounters_Snapshot(t *testing.T) {
	shot := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c := ActivityCounters{KeyboardCount: 3, MouseCount: 6, LastScreenshotTime: &shot}
	now := shot.Add(time.Minute)

	snap := c.Snapshot(now)
	if snap.ID == "" {
		t.Error("Snapshot() ID is empty")
	}
	if snap.KeyboardCount != 3 || snap.MouseCount != 6 || !snap.Timestamp.Equal(now) {
		t.Errorf("Snapshot() = %+v", snap)
	}

	*snap.LastScreenshotTime = now
	if !c.LastScreenshotTime.Equal(shot) {
		t.Error("Snapshot() shares LastScreenshotTime with counters")
	}
}
