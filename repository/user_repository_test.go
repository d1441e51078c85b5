package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottohouse/repository/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		user := testutil.CreateTestUser("alice")

		err := repo.Create(ctx, user)
		require.NoError(t, err)

		assert.NotZero(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
		assert.False(t, user.UpdatedAt.IsZero())
		assert.Equal(t, 0, user.ReferralCount)
	})

	t.Run("duplicate username", func(t *testing.T) {
		first := testutil.CreateTestUser("bob")
		require.NoError(t, repo.Create(ctx, first))

		second := testutil.CreateTestUser("bob")
		second.ReferralCode = "REF-bob-2"
		err := repo.Create(ctx, second)
		assert.Error(t, err)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		created := testutil.CreateTestUser("carol")
		require.NoError(t, repo.Create(ctx, created))

		user, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, created.Username, user.Username)
		assert.True(t, created.Balance.Equal(user.Balance))
		assert.Equal(t, created.ReferralCode, user.ReferralCode)
	})
}

func TestUserRepository_GetByReferralCode(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("unknown code", func(t *testing.T) {
		user, err := repo.GetByReferralCode(ctx, "NO-SUCH-CODE")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("known code", func(t *testing.T) {
		created := testutil.CreateTestUser("dave")
		require.NoError(t, repo.Create(ctx, created))

		user, err := repo.GetByReferralCode(ctx, "REF-dave")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, created.ID, user.ID)
	})
}

func TestUserRepository_UpdateBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful update", func(t *testing.T) {
		user := testutil.CreateTestUser("erin")
		require.NoError(t, repo.Create(ctx, user))

		newBalance := decimal.NewFromInt(2500)
		require.NoError(t, repo.UpdateBalance(ctx, user.ID, newBalance))

		stored, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, newBalance.Equal(stored.Balance))
	})

	t.Run("user not found", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, 999999, decimal.NewFromInt(100))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestUserRepository_IncrementReferralCount(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("frank")
	require.NoError(t, repo.Create(ctx, user))

	count, err := repo.IncrementReferralCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.IncrementReferralCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUserRepository_AddWinnings(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("grace")
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.AddWinnings(ctx, user.ID, decimal.NewFromInt(500)))
	require.NoError(t, repo.AddWinnings(ctx, user.ID, decimal.NewFromFloat(12.50)))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(512.50).Equal(stored.TotalWinnings))
}
