package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of ledger entry.
type TransactionType string

// All transaction types supported by the system.
const (
	TransactionTypeDeposit        TransactionType = "deposit"
	TransactionTypeTicketPurchase TransactionType = "ticket_purchase"
	TransactionTypeWinnings       TransactionType = "winnings"
	TransactionTypeReferralBonus  TransactionType = "referral_bonus"
	TransactionTypeAdminDeposit   TransactionType = "admin_deposit"
)

// IsCreditType returns true if the type increases a user's balance.
func (tt TransactionType) IsCreditType() bool {
	return tt == TransactionTypeDeposit ||
		tt == TransactionTypeWinnings ||
		tt == TransactionTypeReferralBonus ||
		tt == TransactionTypeAdminDeposit
}

// String returns the string representation of the transaction type.
func (tt TransactionType) String() string {
	return string(tt)
}

// Transaction is an immutable ledger entry. The sum of a user's transaction
// amounts must reconcile with their current balance; balances are never
// mutated outside this accounting trail.
type Transaction struct {
	ID          int64           `db:"id"`
	UserID      int64           `db:"user_id"`
	TicketID    *int64          `db:"ticket_id"`
	Type        TransactionType `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}

// IsCredit returns true if the entry increases the balance.
func (t *Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// Validate performs basic consistency checks on the entry.
func (t *Transaction) Validate() error {
	if t.Amount.IsZero() {
		return errors.New("transaction amount cannot be zero")
	}
	if t.Type.IsCreditType() && t.Amount.IsNegative() {
		return errors.New("credit transaction cannot carry a negative amount")
	}
	if t.Type == TransactionTypeTicketPurchase && t.Amount.IsPositive() {
		return errors.New("ticket purchase must carry a negative amount")
	}
	return nil
}
