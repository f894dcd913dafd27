package nudge

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "nudge_history.json"))
}

func TestStore_GetMissingFile(t *testing.T) {
	store := testStore(t)

	_, ok, err := store.Get("nobody@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_RecordAndGet(t *testing.T) {
	store := testStore(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record("a@example.com", "Asha", 1, now))

	rec, ok, err := store.Get("a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Asha", rec.StudentName)
	assert.Equal(t, 1, rec.CurrentLevel)
	assert.True(t, rec.LastSentAt.Equal(now))
	require.Len(t, rec.History, 1)
	assert.Equal(t, 1, rec.History[0].Level)
}

func TestStore_HistoryAppendOnly(t *testing.T) {
	store := testStore(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record("a@example.com", "Asha", 1, base))
	require.NoError(t, store.Record("a@example.com", "Asha", 2, base.Add(48*time.Hour)))
	require.NoError(t, store.Record("a@example.com", "Asha", 3, base.Add(96*time.Hour)))

	rec, ok, err := store.Get("a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, rec.CurrentLevel)
	require.Len(t, rec.History, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{rec.History[0].Level, rec.History[1].Level, rec.History[2].Level})
}

func TestStore_LevelNeverDecreases(t *testing.T) {
	store := testStore(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record("a@example.com", "Asha", 3, now))
	require.NoError(t, store.Record("a@example.com", "Asha", 1, now.Add(time.Hour)))

	rec, _, err := store.Get("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.CurrentLevel)
	require.Len(t, rec.History, 2)
	assert.Equal(t, 3, rec.History[1].Level, "appended entry is clamped to the stored level")
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nudge_history.json")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, NewStore(path).Record("a@example.com", "Asha", 2, now))

	rec, ok, err := NewStore(path).Get("a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, rec.CurrentLevel)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nudge_history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	store := NewStore(path)

	_, _, err := store.Get("a@example.com")
	assert.Error(t, err)

	err = store.Record("a@example.com", "Asha", 1, time.Now())
	assert.Error(t, err)
}

func TestStore_All(t *testing.T) {
	store := testStore(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record("a@example.com", "Asha", 1, now))
	require.NoError(t, store.Record("b@example.com", "Ben", 2, now))

	records, err := store.All()
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, records["b@example.com"].CurrentLevel)
}
