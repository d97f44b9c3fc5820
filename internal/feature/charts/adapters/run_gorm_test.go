package adapters

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockcharts/internal/feature/charts/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&RunModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func TestNewRunRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewRunRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestRunGorm_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRunRepository(db)
	ctx := context.Background()

	started := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	run := &entity.Run{
		StartedAt: started,
		Elapsed:   1234 * time.Millisecond,
		Symbols:   2,
		Charts:    2,
		Trigger:   "http",
	}

	require.NoError(t, repo.Save(ctx, run))
	assert.NotZero(t, run.ID, "ID should be assigned")

	var got RunModel
	require.NoError(t, db.First(&got, run.ID).Error)
	assert.Equal(t, int64(1234), got.ElapsedMS)
	assert.Equal(t, 2, got.Charts)
	assert.Equal(t, "http", got.Trigger)
	assert.True(t, started.Equal(got.StartedAt))
}

func TestRunGorm_Save_TruncatesLongError(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRunRepository(db)

	run := &entity.Run{StartedAt: time.Now(), Trigger: "cron", Error: strings.Repeat("x", 5000)}
	require.NoError(t, repo.Save(context.Background(), run))

	var got RunModel
	require.NoError(t, db.First(&got, run.ID).Error)
	assert.Len(t, got.Error, 1024)
}

func TestRunGorm_Recent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRunRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := &entity.Run{StartedAt: base.Add(time.Duration(i) * time.Hour), Charts: i, Trigger: "http"}
		require.NoError(t, repo.Save(ctx, run))
	}
	require.NoError(t, repo.Save(ctx, &entity.Run{StartedAt: base.Add(-time.Hour), Trigger: "cron", Error: "network error"}))

	tests := []struct {
		name        string
		limit       int
		expectedLen int
		firstCharts int
	}{
		{"limit 3 newest first", 3, 3, 4},
		{"limit larger than rows", 100, 6, 4},
		{"zero means no limit", 0, 6, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Recent(ctx, tt.limit)
			require.NoError(t, err)
			require.Len(t, got, tt.expectedLen)
			assert.Equal(t, tt.firstCharts, got[0].Charts)
			for i := 1; i < len(got); i++ {
				assert.False(t, got[i].StartedAt.After(got[i-1].StartedAt), "rows must be newest first")
			}
		})
	}

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	last := all[len(all)-1]
	assert.False(t, last.Succeeded())
	assert.Equal(t, "cron", last.Trigger)
}

func TestRunGorm_Recent_Empty(t *testing.T) {
	repo := NewRunRepository(setupTestDB(t))

	got, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
