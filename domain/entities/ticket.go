package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is a user's numbered entry against a specific draw. At most one
// ticket exists per (user, draw) pair; the database unique constraint is the
// guard against concurrent double purchase. MatchCount and WinningAmount are
// populated once at settlement and never altered afterward.
type Ticket struct {
	ID            int64            `db:"id"`
	DrawID        int64            `db:"draw_id"`
	UserID        int64            `db:"user_id"`
	Numbers       []int64          `db:"numbers"`
	Cost          decimal.Decimal  `db:"cost"`
	MatchCount    *int             `db:"match_count"`
	WinningAmount *decimal.Decimal `db:"winning_amount"`
	PurchasedAt   time.Time        `db:"purchased_at"`
}

// IsSettled reports whether settlement has populated the derived fields.
func (t *Ticket) IsSettled() bool {
	return t.MatchCount != nil
}

// Matches returns the settled match count, or 0 if not settled yet.
func (t *Ticket) Matches() int {
	if t.MatchCount == nil {
		return 0
	}
	return *t.MatchCount
}

// Winnings returns the settled winning amount, or zero if not settled.
func (t *Ticket) Winnings() decimal.Decimal {
	if t.WinningAmount == nil {
		return decimal.Zero
	}
	return *t.WinningAmount
}
