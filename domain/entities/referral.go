package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral links a referrer to a referred user. The bonus triggers once, on
// the referred user's first qualifying deposit; HasMadeDeposit is the
// idempotency flag.
type Referral struct {
	ID             int64           `db:"id"`
	ReferrerID     int64           `db:"referrer_id"`
	ReferredID     int64           `db:"referred_id"`
	BonusAmount    decimal.Decimal `db:"bonus_amount"`
	HasMadeDeposit bool            `db:"has_made_deposit"`
	CreatedAt      time.Time       `db:"created_at"`
}

// QualifiesForBonus reports whether a deposit of the given amount triggers
// the referral bonus.
func (r *Referral) QualifiesForBonus(depositAmount, minQualifyingDeposit decimal.Decimal) bool {
	return !r.HasMadeDeposit && depositAmount.GreaterThanOrEqual(minQualifyingDeposit)
}
