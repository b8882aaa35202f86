package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battnotify/pkg/model"
	"battnotify/pkg/storage"
)

func newTestDB(t *testing.T) *storage.SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLite_SaveAlert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	event := model.AlertEvent{
		Level:    "low",
		Percent:  15,
		Charging: false,
		Title:    "Battery Low: 15%",
		Message:  "Please connect your charger.",
	}
	require.NoError(t, db.SaveAlert(ctx, event))

	got, err := db.ListAlerts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "low", got[0].Level)
	assert.Equal(t, 15, got[0].Percent)
	assert.False(t, got[0].Charging)
	assert.Equal(t, "Battery Low: 15%", got[0].Title)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestSQLite_ListAlerts_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, level := range []string{"low", "high", "low"} {
		event := model.AlertEvent{
			Level:     level,
			Percent:   10 + i,
			Charging:  level == "high",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.SaveAlert(ctx, event))
	}

	got, err := db.ListAlerts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 12, got[0].Percent, "newest first")
	assert.Equal(t, 10, got[2].Percent)

	limited, err := db.ListAlerts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLite_SampleStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, pct := range []int{40, 60, 80} {
		rec := model.SampleRecord{
			Percent:    pct,
			Charging:   i == 2,
			State:      "Discharging",
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.SaveSample(ctx, rec))
	}

	stats, err := db.SampleStats(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, 40, stats.MinPercent)
	assert.Equal(t, 80, stats.MaxPercent)
	assert.InDelta(t, 60.0, stats.AvgPercent, 0.001)
	assert.Equal(t, base, stats.FirstAt)
	assert.Equal(t, base.Add(2*time.Hour), stats.LastAt)
}

func TestSQLite_SampleStats_SinceFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveSample(ctx, model.SampleRecord{Percent: 10, RecordedAt: base}))
	require.NoError(t, db.SaveSample(ctx, model.SampleRecord{Percent: 90, RecordedAt: base.Add(2 * time.Hour)}))

	stats, err := db.SampleStats(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Count)
	assert.Equal(t, 90, stats.MinPercent)
}

func TestSQLite_SampleStats_Empty(t *testing.T) {
	db := newTestDB(t)

	stats, err := db.SampleStats(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Count)
	assert.True(t, stats.FirstAt.IsZero())
	assert.True(t, stats.LastAt.IsZero())
}

func TestSQLite_MigrationIdempotency(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	db1, err := storage.NewSQLite(dbPath)
	require.NoError(t, err)
	db1.Close()

	db2, err := storage.NewSQLite(dbPath)
	require.NoError(t, err)
	db2.Close()
}

func TestOpen_DriverSelection(t *testing.T) {
	none, err := storage.Open(model.Settings{HistoryDriver: "none"})
	require.NoError(t, err)
	assert.Nil(t, none)

	blank, err := storage.Open(model.Settings{})
	require.NoError(t, err)
	assert.Nil(t, blank)

	db, err := storage.Open(model.Settings{
		HistoryDriver: "sqlite",
		HistoryPath:   filepath.Join(t.TempDir(), "h.db"),
	})
	require.NoError(t, err)
	require.NotNil(t, db)
	db.Close()

	_, err = storage.Open(model.Settings{HistoryDriver: "cassandra"})
	assert.Error(t, err)
}
