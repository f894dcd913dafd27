package nudge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextLevel_NoRecord(t *testing.T) {
	policy := DefaultPolicy()

	elig := policy.NextLevel(nil, time.Now())

	assert.Equal(t, 1, elig.Level)
	assert.Equal(t, 0, elig.DaysSinceLast)
	assert.True(t, elig.Eligible)
}

func TestNextLevel_CooldownNotMet(t *testing.T) {
	policy := DefaultPolicy()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := &Record{CurrentLevel: 1, LastSentAt: now.Add(-24 * time.Hour)}

	elig := policy.NextLevel(rec, now)

	assert.Equal(t, 1, elig.Level, "reports the current level, not the next")
	assert.Equal(t, 1, elig.DaysSinceLast)
	assert.False(t, elig.Eligible)
}

func TestNextLevel_CooldownMet(t *testing.T) {
	policy := DefaultPolicy()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := &Record{CurrentLevel: 1, LastSentAt: now.Add(-48 * time.Hour)}

	elig := policy.NextLevel(rec, now)

	assert.Equal(t, 2, elig.Level)
	assert.Equal(t, 2, elig.DaysSinceLast)
	assert.True(t, elig.Eligible)
}

func TestNextLevel_CeilingHolds(t *testing.T) {
	policy := DefaultPolicy()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Ineligible forever once at the ceiling, however much time passes.
	for _, elapsed := range []time.Duration{time.Hour, 72 * time.Hour, 365 * 24 * time.Hour} {
		rec := &Record{CurrentLevel: 3, LastSentAt: now.Add(-elapsed)}
		elig := policy.NextLevel(rec, now)
		assert.Equal(t, 3, elig.Level)
		assert.False(t, elig.Eligible, "elapsed=%s", elapsed)
	}
}

func TestNextLevel_WholeDaysFloorTruncated(t *testing.T) {
	policy := DefaultPolicy()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		days     int
		eligible bool
	}{
		{"just under two days", 47 * time.Hour, 1, false},
		{"exactly two days", 48 * time.Hour, 2, true},
		{"just over two days", 49 * time.Hour, 2, true},
		{"future timestamp clamps to zero", -time.Hour, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Record{CurrentLevel: 1, LastSentAt: now.Add(-tt.elapsed)}
			elig := policy.NextLevel(rec, now)
			assert.Equal(t, tt.days, elig.DaysSinceLast)
			assert.Equal(t, tt.eligible, elig.Eligible)
		})
	}
}

func TestNextLevel_Level2Escalates(t *testing.T) {
	policy := DefaultPolicy()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := &Record{CurrentLevel: 2, LastSentAt: now.Add(-72 * time.Hour)}

	elig := policy.NextLevel(rec, now)

	assert.Equal(t, 3, elig.Level)
	assert.Equal(t, 3, elig.DaysSinceLast)
	assert.True(t, elig.Eligible)
}

func TestConfigForLevel(t *testing.T) {
	assert.Equal(t, "", ConfigForLevel(1).SubjectPrefix)
	assert.Equal(t, "Reminder: ", ConfigForLevel(2).SubjectPrefix)
	assert.Equal(t, "URGENT: ", ConfigForLevel(3).SubjectPrefix)
	assert.Equal(t, "friendly", ConfigForLevel(1).Tone)
	assert.Equal(t, "urgent", ConfigForLevel(3).Tone)

	// Out-of-range levels fall back to level 1.
	assert.Equal(t, ConfigForLevel(1), ConfigForLevel(0))
	assert.Equal(t, ConfigForLevel(1), ConfigForLevel(7))
}
