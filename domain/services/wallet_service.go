package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
)

const referralCodeLength = 8

// walletService implements deposits, registration and the referral bonus rule
type walletService struct {
	userRepo        interfaces.UserRepository
	transactionRepo interfaces.TransactionRepository
	referralRepo    interfaces.ReferralRepository
	rules           entities.GameRules
}

// NewWalletService creates a new wallet service
func NewWalletService(
	userRepo interfaces.UserRepository,
	transactionRepo interfaces.TransactionRepository,
	referralRepo interfaces.ReferralRepository,
	rules entities.GameRules,
) interfaces.WalletService {
	return &walletService{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		referralRepo:    referralRepo,
		rules:           rules,
	}
}

// RegisterUser creates a new account and, when a valid referral code is
// supplied, links it to the referrer.
func (s *walletService) RegisterUser(ctx context.Context, username, referralCode string) (*entities.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, entities.NewValidationError("username", "username cannot be empty")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, entities.NewValidationError("username", "username is already taken")
	}

	var referrer *entities.User
	if referralCode != "" {
		referrer, err = s.userRepo.GetByReferralCode(ctx, referralCode)
		if err != nil {
			return nil, fmt.Errorf("failed to look up referral code: %w", err)
		}
		if referrer == nil {
			return nil, entities.NewValidationError("referralCode", "unknown referral code")
		}
	}

	code, err := generateReferralCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate referral code: %w", err)
	}

	user := &entities.User{
		Username:      username,
		Balance:       decimal.Zero,
		TotalWinnings: decimal.Zero,
		ReferralCode:  code,
	}
	if referrer != nil {
		referrerID := referrer.ID
		user.ReferredBy = &referrerID
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if referrer != nil {
		referral := &entities.Referral{
			ReferrerID:  referrer.ID,
			ReferredID:  user.ID,
			BonusAmount: s.rules.ReferralBonus,
		}
		if err := s.referralRepo.Create(ctx, referral); err != nil {
			return nil, fmt.Errorf("failed to create referral link: %w", err)
		}
	}

	return user, nil
}

// RecordDeposit credits a user's balance through the ledger and applies the
// referral bonus rule for the referred user's first qualifying deposit.
func (s *walletService) RecordDeposit(ctx context.Context, userID int64, amount decimal.Decimal) (*interfaces.DepositResult, error) {
	return s.deposit(ctx, userID, amount, entities.TransactionTypeDeposit, "Deposit")
}

// AdminDeposit credits a user's balance on behalf of an operator
func (s *walletService) AdminDeposit(ctx context.Context, adminID, userID int64, amount decimal.Decimal) (*interfaces.DepositResult, error) {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil || !admin.IsAdmin {
		return nil, entities.NewValidationError("adminID", "not an administrator")
	}
	return s.deposit(ctx, userID, amount, entities.TransactionTypeAdminDeposit, fmt.Sprintf("Deposit processed by %s", admin.Username))
}

func (s *walletService) deposit(ctx context.Context, userID int64, amount decimal.Decimal, txType entities.TransactionType, description string) (*interfaces.DepositResult, error) {
	if !amount.IsPositive() {
		return nil, entities.NewValidationError("amount", "deposit amount must be positive")
	}
	amount = amount.Round(2)

	user, err := s.userRepo.GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, entities.ErrUserNotFound
	}
	if user.IsBlocked {
		return nil, entities.ErrUserBlocked
	}

	newBalance := user.CalculateNewBalance(amount)
	if err := s.userRepo.UpdateBalance(ctx, userID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to credit balance: %w", err)
	}

	entry := &entities.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: description,
	}
	if err := s.transactionRepo.Record(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record deposit transaction: %w", err)
	}

	result := &interfaces.DepositResult{
		Transaction: entry,
		NewBalance:  newBalance,
	}

	if err := s.applyReferralBonus(ctx, userID, amount, result); err != nil {
		return nil, err
	}

	return result, nil
}

// applyReferralBonus pays the referrer once the referred user's first
// qualifying deposit lands. The has_made_deposit flag is checked and set
// under a row lock so the bonus can never pay twice.
func (s *walletService) applyReferralBonus(ctx context.Context, depositorID int64, amount decimal.Decimal, result *interfaces.DepositResult) error {
	referral, err := s.referralRepo.GetByReferredForUpdate(ctx, depositorID)
	if err != nil {
		return fmt.Errorf("failed to check referral: %w", err)
	}
	if referral == nil || !referral.QualifiesForBonus(amount, s.rules.MinQualifyingDeposit) {
		return nil
	}

	if err := s.referralRepo.MarkDeposited(ctx, referral.ID); err != nil {
		return fmt.Errorf("failed to mark referral deposited: %w", err)
	}

	referrer, err := s.userRepo.GetByIDForUpdate(ctx, referral.ReferrerID)
	if err != nil {
		return fmt.Errorf("failed to get referrer: %w", err)
	}
	if referrer == nil {
		return fmt.Errorf("referrer %d: %w", referral.ReferrerID, entities.ErrUserNotFound)
	}

	if err := s.creditBonus(ctx, referrer, referral.BonusAmount, "Referral bonus"); err != nil {
		return err
	}
	result.ReferralBonusPaid = true

	newCount, err := s.userRepo.IncrementReferralCount(ctx, referrer.ID)
	if err != nil {
		return fmt.Errorf("failed to increment referral count: %w", err)
	}

	// The milestone bonus pays exactly once, the moment the count reaches
	// the configured threshold.
	if newCount == s.rules.MilestoneReferralCount {
		if err := s.creditBonus(ctx, referrer, s.rules.MilestoneBonus, fmt.Sprintf("Referral milestone bonus (%d referrals)", newCount)); err != nil {
			return err
		}
		result.MilestoneBonusPaid = true
	}

	log.WithFields(log.Fields{
		"referrerID":    referrer.ID,
		"referredID":    depositorID,
		"bonus":         referral.BonusAmount,
		"referralCount": newCount,
	}).Info("referral bonus paid")

	return nil
}

func (s *walletService) creditBonus(ctx context.Context, user *entities.User, amount decimal.Decimal, description string) error {
	newBalance := user.CalculateNewBalance(amount)
	if err := s.userRepo.UpdateBalance(ctx, user.ID, newBalance); err != nil {
		return fmt.Errorf("failed to credit bonus: %w", err)
	}
	user.Balance = newBalance
	entry := &entities.Transaction{
		UserID:      user.ID,
		Type:        entities.TransactionTypeReferralBonus,
		Amount:      amount,
		Description: description,
	}
	if err := s.transactionRepo.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record bonus transaction: %w", err)
	}
	return nil
}

// GetUserTransactions returns a user's ledger entries
func (s *walletService) GetUserTransactions(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error) {
	entries, err := s.transactionRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return entries, nil
}

// ReconcileBalance returns the ledger sum and stored balance for a user
func (s *walletService) ReconcileBalance(ctx context.Context, userID int64) (decimal.Decimal, decimal.Decimal, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return decimal.Zero, decimal.Zero, entities.ErrUserNotFound
	}

	sum, err := s.transactionRepo.SumByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum ledger: %w", err)
	}

	if !sum.Equal(user.Balance) {
		log.WithFields(log.Fields{
			"userID":    userID,
			"ledgerSum": sum,
			"balance":   user.Balance,
		}).Warn("ledger sum does not reconcile with stored balance")
	}

	return sum, user.Balance, nil
}

// generateReferralCode produces a short URL-safe random code
func generateReferralCode() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b)[:referralCodeLength], nil
}
