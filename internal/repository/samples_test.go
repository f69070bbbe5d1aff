package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutplan/constants"
	"cutplan/internal/entity"
)

func openTestRepo(t *testing.T) SampleRepository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "cutplan-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewSampleRepository(context.Background(), db, DialectSQLite, nil)
	require.NoError(t, err)
	return repo
}

func testSample(accuracy float64, createdAt time.Time) *entity.AccuracySample {
	return &entity.AccuracySample{
		ID:                  uuid.New(),
		TotalParts:          12,
		CorrectParts:        int(accuracy * 12),
		Accuracy:            accuracy,
		DimensionAccuracy:   accuracy,
		MaterialAccuracy:    1,
		EdgingAccuracy:      0.9,
		GroovingAccuracy:    0.95,
		QuantityAccuracy:    1,
		LabelAccuracy:       0.85,
		FewShotExamplesUsed: 2,
		PatternsApplied:     1,
		ClientTemplateUsed:  true,
		Provider:            "openai",
		DocumentDifficulty:  constants.DifficultyMedium,
		CreatedAt:           createdAt,
	}
}

func TestInsertAndListRecent(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	older := testSample(0.8, base)
	newer := testSample(0.95, base.Add(48*time.Hour))
	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))

	samples, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, newer.ID, samples[0].ID, "newest first")

	got := samples[0]
	assert.Equal(t, 0.95, got.Accuracy)
	assert.Equal(t, 2, got.FewShotExamplesUsed)
	assert.True(t, got.ClientTemplateUsed)
	assert.Equal(t, constants.DifficultyMedium, got.DocumentDifficulty)
	assert.Equal(t, "openai", got.Provider)
	assert.True(t, got.CreatedAt.Equal(newer.CreatedAt))
}

func TestListRecentHonorsLimit(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, testSample(0.9, base.Add(time.Duration(i)*time.Hour))))
	}

	samples, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, samples, 3)
}

func TestListSince(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, testSample(0.7, base)))
	require.NoError(t, repo.Insert(ctx, testSample(0.8, base.AddDate(0, 0, 10))))
	require.NoError(t, repo.Insert(ctx, testSample(0.9, base.AddDate(0, 0, 20))))

	samples, err := repo.ListSince(ctx, base.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.True(t, samples[0].CreatedAt.Before(samples[1].CreatedAt), "chronological order")
}

func TestListSinceFractionalSecondBoundary(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	since := time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)
	first := testSample(0.9, since.Add(200*time.Millisecond))
	second := testSample(0.8, since.Add(700*time.Millisecond))
	third := testSample(0.7, since.Add(time.Second))
	// insert out of order to exercise the ORDER BY
	require.NoError(t, repo.Insert(ctx, second))
	require.NoError(t, repo.Insert(ctx, third))
	require.NoError(t, repo.Insert(ctx, first))

	samples, err := repo.ListSince(ctx, since)
	require.NoError(t, err)
	require.Len(t, samples, 3, "fractional-second samples inside the window must not drop out")
	assert.Equal(t, first.ID, samples[0].ID)
	assert.Equal(t, second.ID, samples[1].ID)
	assert.Equal(t, third.ID, samples[2].ID)

	recent, err := repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, third.ID, recent[0].ID, "whole-second sample is the newest")
}

func TestRebindPostgresPlaceholders(t *testing.T) {
	repo := &sampleRepo{dialect: DialectPostgres}
	assert.Equal(t, "SELECT $1, $2", repo.rebind("SELECT ?, ?"))

	repo.dialect = DialectSQLite
	assert.Equal(t, "SELECT ?, ?", repo.rebind("SELECT ?, ?"))
}
