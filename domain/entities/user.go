package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered player account.
// Balance and TotalWinnings change only alongside a Transaction insert;
// accounts are soft-blocked, never deleted.
type User struct {
	ID            int64           `db:"id"`
	Username      string          `db:"username"`
	Balance       decimal.Decimal `db:"balance"`
	TotalWinnings decimal.Decimal `db:"total_winnings"`
	ReferralCode  string          `db:"referral_code"`
	ReferredBy    *int64          `db:"referred_by"`
	ReferralCount int             `db:"referral_count"`
	IsBlocked     bool            `db:"is_blocked"`
	IsAdmin       bool            `db:"is_admin"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// CanAfford checks whether the balance covers an amount.
func (u *User) CanAfford(amount decimal.Decimal) bool {
	return u.Balance.GreaterThanOrEqual(amount)
}

// CalculateNewBalance returns the balance after applying a signed change.
func (u *User) CalculateNewBalance(change decimal.Decimal) decimal.Decimal {
	return u.Balance.Add(change)
}
