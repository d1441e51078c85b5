package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// DrawStatus is the derived lifecycle state of a draw.
type DrawStatus string

const (
	// DrawStatusScheduled means the draw is open for ticket purchases.
	DrawStatusScheduled DrawStatus = "scheduled"
	// DrawStatusLocked means ticket sales are closed pending the draw.
	DrawStatusLocked DrawStatus = "locked"
	// DrawStatusCompleted means winning numbers are assigned and settlement ran.
	DrawStatusCompleted DrawStatus = "completed"
)

// Draw represents a single scheduled lottery draw.
// WinningNumbers is nil until the draw completes and is assigned exactly once.
type Draw struct {
	ID             int64           `db:"id"`
	DrawNumber     int64           `db:"draw_number"`
	DrawTime       time.Time       `db:"draw_time"`
	WinningNumbers []int64         `db:"winning_numbers"`
	Jackpot        decimal.Decimal `db:"jackpot"`
	IsActive       bool            `db:"is_active"`
	IsCompleted    bool            `db:"is_completed"`
	CompletedAt    *time.Time      `db:"completed_at"`
	CreatedAt      time.Time       `db:"created_at"`
}

// LockTime returns the instant ticket sales close for this draw.
func (d *Draw) LockTime(lockWindow time.Duration) time.Time {
	return d.DrawTime.Add(-lockWindow)
}

// StatusAt derives the lifecycle state at a given instant. The lock
// transition is purely time-derived so concurrent observers agree on it
// without writing anything.
func (d *Draw) StatusAt(now time.Time, lockWindow time.Duration) DrawStatus {
	if d.IsCompleted {
		return DrawStatusCompleted
	}
	if !now.Before(d.LockTime(lockWindow)) {
		return DrawStatusLocked
	}
	return DrawStatusScheduled
}

// IsOpenForPurchase reports whether tickets can be purchased at now.
func (d *Draw) IsOpenForPurchase(now time.Time, lockWindow time.Duration) bool {
	return d.IsActive && d.StatusAt(now, lockWindow) == DrawStatusScheduled
}

// Complete assigns the winning numbers and closes the draw. The caller is
// responsible for running settlement in the same unit of work.
func (d *Draw) Complete(winningNumbers []int64, now time.Time) {
	d.WinningNumbers = winningNumbers
	d.IsCompleted = true
	d.IsActive = false
	d.CompletedAt = &now
}
