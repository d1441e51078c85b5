package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
	"lottohouse/domain/testhelpers"
)

func newWalletServiceWithMocks() (interfaces.WalletService, *testhelpers.MockUserRepository, *testhelpers.MockTransactionRepository, *testhelpers.MockReferralRepository) {
	userRepo := new(testhelpers.MockUserRepository)
	transactionRepo := new(testhelpers.MockTransactionRepository)
	referralRepo := new(testhelpers.MockReferralRepository)
	svc := NewWalletService(userRepo, transactionRepo, referralRepo, entities.DefaultGameRules())
	return svc, userRepo, transactionRepo, referralRepo
}

func TestRegisterUser_WithReferralCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, userRepo, _, referralRepo := newWalletServiceWithMocks()

	referrer := &entities.User{ID: 1, Username: "referrer", ReferralCode: "ABCD1234"}

	userRepo.On("GetByUsername", ctx, "alice").Return(nil, nil)
	userRepo.On("GetByReferralCode", ctx, "ABCD1234").Return(referrer, nil)
	userRepo.On("Create", ctx, mock.MatchedBy(func(user *entities.User) bool {
		return user.Username == "alice" &&
			user.Balance.IsZero() &&
			user.ReferredBy != nil && *user.ReferredBy == 1 &&
			user.ReferralCode != ""
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.User).ID = 2
	})
	referralRepo.On("Create", ctx, mock.MatchedBy(func(ref *entities.Referral) bool {
		return ref.ReferrerID == 1 && ref.ReferredID == 2 && ref.BonusAmount.Equal(decimal.NewFromInt(100))
	})).Return(nil)

	user, err := svc.RegisterUser(ctx, "alice", "ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	userRepo.AssertExpectations(t)
	referralRepo.AssertExpectations(t)
}

func TestRegisterUser_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty username", func(t *testing.T) {
		t.Parallel()
		svc, _, _, _ := newWalletServiceWithMocks()
		_, err := svc.RegisterUser(ctx, "   ", "")
		assert.True(t, entities.IsValidation(err))
	})

	t.Run("taken username", func(t *testing.T) {
		t.Parallel()
		svc, userRepo, _, _ := newWalletServiceWithMocks()
		userRepo.On("GetByUsername", ctx, "alice").Return(&entities.User{ID: 1, Username: "alice"}, nil)
		_, err := svc.RegisterUser(ctx, "alice", "")
		assert.True(t, entities.IsValidation(err))
	})

	t.Run("unknown referral code", func(t *testing.T) {
		t.Parallel()
		svc, userRepo, _, _ := newWalletServiceWithMocks()
		userRepo.On("GetByUsername", ctx, "alice").Return(nil, nil)
		userRepo.On("GetByReferralCode", ctx, "NOPE").Return(nil, nil)
		_, err := svc.RegisterUser(ctx, "alice", "NOPE")
		assert.True(t, entities.IsValidation(err))
	})
}

func TestRecordDeposit_FirstQualifyingDepositPaysReferrer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, userRepo, transactionRepo, referralRepo := newWalletServiceWithMocks()

	depositor := &entities.User{ID: 2, Username: "alice", Balance: decimal.Zero}
	referrer := &entities.User{ID: 1, Username: "referrer", Balance: decimal.NewFromInt(500)}
	referral := &entities.Referral{ID: 10, ReferrerID: 1, ReferredID: 2, BonusAmount: decimal.NewFromInt(100)}

	userRepo.On("GetByIDForUpdate", ctx, int64(2)).Return(depositor, nil)
	userRepo.On("UpdateBalance", ctx, int64(2), decimal.NewFromInt(1000)).Return(nil)
	transactionRepo.On("Record", ctx, mock.MatchedBy(func(txn *entities.Transaction) bool {
		return txn.UserID == 2 && txn.Type == entities.TransactionTypeDeposit && txn.Amount.Equal(decimal.NewFromInt(1000))
	})).Return(nil)

	referralRepo.On("GetByReferredForUpdate", ctx, int64(2)).Return(referral, nil)
	referralRepo.On("MarkDeposited", ctx, int64(10)).Return(nil)
	userRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(referrer, nil)
	userRepo.On("UpdateBalance", ctx, int64(1), decimal.NewFromInt(600)).Return(nil)
	transactionRepo.On("Record", ctx, mock.MatchedBy(func(txn *entities.Transaction) bool {
		return txn.UserID == 1 && txn.Type == entities.TransactionTypeReferralBonus && txn.Amount.Equal(decimal.NewFromInt(100))
	})).Return(nil)
	userRepo.On("IncrementReferralCount", ctx, int64(1)).Return(1, nil)

	result, err := svc.RecordDeposit(ctx, 2, decimal.NewFromInt(1000))
	require.NoError(t, err)

	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, result.ReferralBonusPaid)
	assert.False(t, result.MilestoneBonusPaid)

	userRepo.AssertExpectations(t)
	transactionRepo.AssertExpectations(t)
	referralRepo.AssertExpectations(t)
}

func TestRecordDeposit_BelowMinimumPaysNoBonus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, userRepo, transactionRepo, referralRepo := newWalletServiceWithMocks()

	depositor := &entities.User{ID: 2, Username: "alice", Balance: decimal.Zero}
	referral := &entities.Referral{ID: 10, ReferrerID: 1, ReferredID: 2, BonusAmount: decimal.NewFromInt(100)}

	userRepo.On("GetByIDForUpdate", ctx, int64(2)).Return(depositor, nil)
	userRepo.On("UpdateBalance", ctx, int64(2), decimal.NewFromInt(999)).Return(nil)
	transactionRepo.On("Record", ctx, mock.Anything).Return(nil)
	referralRepo.On("GetByReferredForUpdate", ctx, int64(2)).Return(referral, nil)

	result, err := svc.RecordDeposit(ctx, 2, decimal.NewFromInt(999))
	require.NoError(t, err)

	assert.False(t, result.ReferralBonusPaid)
	referralRepo.AssertNotCalled(t, "MarkDeposited", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "IncrementReferralCount", mock.Anything, mock.Anything)
}

func TestRecordDeposit_SecondDepositPaysNoBonus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, userRepo, transactionRepo, referralRepo := newWalletServiceWithMocks()

	depositor := &entities.User{ID: 2, Username: "alice", Balance: decimal.NewFromInt(1000)}
	referral := &entities.Referral{ID: 10, ReferrerID: 1, ReferredID: 2, BonusAmount: decimal.NewFromInt(100), HasMadeDeposit: true}

	userRepo.On("GetByIDForUpdate", ctx, int64(2)).Return(depositor, nil)
	userRepo.On("UpdateBalance", ctx, int64(2), decimal.NewFromInt(3000)).Return(nil)
	transactionRepo.On("Record", ctx, mock.Anything).Return(nil)
	referralRepo.On("GetByReferredForUpdate", ctx, int64(2)).Return(referral, nil)

	result, err := svc.RecordDeposit(ctx, 2, decimal.NewFromInt(2000))
	require.NoError(t, err)

	assert.False(t, result.ReferralBonusPaid)
	referralRepo.AssertNotCalled(t, "MarkDeposited", mock.Anything, mock.Anything)
}

func TestRecordDeposit_MilestoneBonusAtThreshold(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, userRepo, transactionRepo, referralRepo := newWalletServiceWithMocks()

	depositor := &entities.User{ID: 2, Username: "alice", Balance: decimal.Zero}
	referrer := &entities.User{ID: 1, Username: "referrer", Balance: decimal.NewFromInt(500), ReferralCount: 4}
	referral := &entities.Referral{ID: 10, ReferrerID: 1, ReferredID: 2, BonusAmount: decimal.NewFromInt(100)}

	userRepo.On("GetByIDForUpdate", ctx, int64(2)).Return(depositor, nil)
	userRepo.On("UpdateBalance", ctx, int64(2), decimal.NewFromInt(1000)).Return(nil)
	transactionRepo.On("Record", ctx, mock.MatchedBy(func(txn *entities.Transaction) bool {
		return txn.Type == entities.TransactionTypeDeposit
	})).Return(nil)

	referralRepo.On("GetByReferredForUpdate", ctx, int64(2)).Return(referral, nil)
	referralRepo.On("MarkDeposited", ctx, int64(10)).Return(nil)
	userRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(referrer, nil)

	// Referral bonus first, then the milestone on the updated balance
	userRepo.On("UpdateBalance", ctx, int64(1), decimal.NewFromInt(600)).Return(nil)
	userRepo.On("IncrementReferralCount", ctx, int64(1)).Return(5, nil)
	userRepo.On("UpdateBalance", ctx, int64(1), decimal.NewFromInt(1600)).Return(nil)
	transactionRepo.On("Record", ctx, mock.MatchedBy(func(txn *entities.Transaction) bool {
		return txn.UserID == 1 && txn.Type == entities.TransactionTypeReferralBonus
	})).Return(nil).Twice()

	result, err := svc.RecordDeposit(ctx, 2, decimal.NewFromInt(1000))
	require.NoError(t, err)

	assert.True(t, result.ReferralBonusPaid)
	assert.True(t, result.MilestoneBonusPaid)

	userRepo.AssertExpectations(t)
	transactionRepo.AssertExpectations(t)
	referralRepo.AssertExpectations(t)
}

func TestAdminDeposit_RequiresAdministrator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, userRepo, _, _ := newWalletServiceWithMocks()

	userRepo.On("GetByID", ctx, int64(9)).Return(&entities.User{ID: 9, Username: "mallory"}, nil)

	_, err := svc.AdminDeposit(ctx, 9, 2, decimal.NewFromInt(100))
	assert.True(t, entities.IsValidation(err))
}

func TestRecordDeposit_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("non-positive amount", func(t *testing.T) {
		t.Parallel()
		svc, _, _, _ := newWalletServiceWithMocks()
		_, err := svc.RecordDeposit(ctx, 2, decimal.Zero)
		assert.True(t, entities.IsValidation(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		svc, userRepo, _, _ := newWalletServiceWithMocks()
		userRepo.On("GetByIDForUpdate", ctx, int64(99)).Return(nil, nil)
		_, err := svc.RecordDeposit(ctx, 99, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
	})

	t.Run("blocked user", func(t *testing.T) {
		t.Parallel()
		svc, userRepo, _, _ := newWalletServiceWithMocks()
		userRepo.On("GetByIDForUpdate", ctx, int64(2)).Return(&entities.User{ID: 2, IsBlocked: true}, nil)
		_, err := svc.RecordDeposit(ctx, 2, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, entities.ErrUserBlocked)
	})
}

func TestReconcileBalance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, userRepo, transactionRepo, _ := newWalletServiceWithMocks()

	user := &entities.User{ID: 2, Username: "alice", Balance: decimal.NewFromInt(400)}
	userRepo.On("GetByID", ctx, int64(2)).Return(user, nil)
	transactionRepo.On("SumByUser", ctx, int64(2)).Return(decimal.NewFromInt(400), nil)

	sum, balance, err := svc.ReconcileBalance(ctx, 2)
	require.NoError(t, err)
	assert.True(t, sum.Equal(balance))
}
