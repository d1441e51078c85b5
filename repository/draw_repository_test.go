package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottohouse/repository/testutil"
)

func TestDrawRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		draw := testutil.CreateTestDraw(1, decimal.NewFromInt(100000))

		err := repo.Create(ctx, draw)
		require.NoError(t, err)

		assert.NotZero(t, draw.ID)
		assert.False(t, draw.IsCompleted)
		assert.False(t, draw.CreatedAt.IsZero())
	})

	t.Run("duplicate draw number", func(t *testing.T) {
		first := testutil.CreateTestDraw(7, decimal.NewFromInt(100000))
		require.NoError(t, repo.Create(ctx, first))

		second := testutil.CreateTestDraw(7, decimal.NewFromInt(100000))
		assert.Error(t, repo.Create(ctx, second))
	})
}

func TestDrawRepository_GetCurrentOpen(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no open draw", func(t *testing.T) {
		draw, err := repo.GetCurrentOpen(ctx)
		require.NoError(t, err)
		assert.Nil(t, draw)
	})

	t.Run("earliest upcoming draw wins", func(t *testing.T) {
		later := testutil.CreateTestDraw(1, decimal.NewFromInt(100000))
		later.DrawTime = time.Now().Add(48 * time.Hour).UTC()
		require.NoError(t, repo.Create(ctx, later))

		sooner := testutil.CreateTestDraw(2, decimal.NewFromInt(100000))
		sooner.DrawTime = time.Now().Add(24 * time.Hour).UTC()
		require.NoError(t, repo.Create(ctx, sooner))

		draw, err := repo.GetCurrentOpen(ctx)
		require.NoError(t, err)
		require.NotNil(t, draw)
		assert.Equal(t, sooner.ID, draw.ID)
	})
}

func TestDrawRepository_Update(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	draw := testutil.CreateTestDraw(1, decimal.NewFromInt(100000))
	require.NoError(t, repo.Create(ctx, draw))

	now := time.Now().UTC().Truncate(time.Second)
	draw.WinningNumbers = []int64{3, 9, 14, 21, 28, 35}
	draw.IsCompleted = true
	draw.IsActive = false
	draw.CompletedAt = &now

	require.NoError(t, repo.Update(ctx, draw))

	stored, err := repo.GetByID(ctx, draw.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 9, 14, 21, 28, 35}, stored.WinningNumbers)
	assert.True(t, stored.IsCompleted)
	assert.False(t, stored.IsActive)
	require.NotNil(t, stored.CompletedAt)
}

func TestDrawRepository_IncrementJackpot(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	t.Run("open draw accumulates", func(t *testing.T) {
		draw := testutil.CreateTestDraw(1, decimal.NewFromInt(100000))
		require.NoError(t, repo.Create(ctx, draw))

		jackpot, err := repo.IncrementJackpot(ctx, draw.ID, decimal.NewFromFloat(250.50))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(100250.50).Equal(jackpot))
	})

	t.Run("completed draw is frozen", func(t *testing.T) {
		draw := testutil.CreateTestDraw(2, decimal.NewFromInt(100000))
		require.NoError(t, repo.Create(ctx, draw))

		now := time.Now().UTC()
		draw.WinningNumbers = []int64{1, 2, 3, 4, 5, 6}
		draw.IsCompleted = true
		draw.IsActive = false
		draw.CompletedAt = &now
		require.NoError(t, repo.Update(ctx, draw))

		_, err := repo.IncrementJackpot(ctx, draw.ID, decimal.NewFromInt(500))
		assert.Error(t, err)
	})
}

func TestDrawRepository_NextDrawNumber(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	next, err := repo.NextDrawNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	draw := testutil.CreateTestDraw(12, decimal.NewFromInt(100000))
	require.NoError(t, repo.Create(ctx, draw))

	next, err = repo.NextDrawNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(13), next)
}
