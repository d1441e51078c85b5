package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"lottohouse/domain/entities"
)

// UnitOfWork represents a database transaction boundary. Repositories
// obtained from it share one transaction; Commit persists all writes
// together, Rollback discards them.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() UserRepository
	DrawRepository() DrawRepository
	TicketRepository() TicketRepository
	TransactionRepository() TransactionRepository
	ReferralRepository() ReferralRepository
	ChatMessageRepository() ChatMessageRepository
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// PurchaseResult is returned from a successful ticket purchase
type PurchaseResult struct {
	Ticket     *entities.Ticket
	Draw       *entities.Draw
	NewBalance decimal.Decimal
}

// TierResult describes the settlement of one prize tier
type TierResult struct {
	MatchCount  int
	Share       decimal.Decimal
	Pool        decimal.Decimal
	WinnerCount int
	PerTicket   decimal.Decimal
}

// SettlementResult is returned from completing a draw
type SettlementResult struct {
	Draw           *entities.Draw
	WinningNumbers []int64
	TotalTickets   int
	Tiers          []TierResult
	TotalPaid      decimal.Decimal
	// RolledOver signals zero winners at the top tier; RolloverAmount is the
	// undistributed top-tier pool for the operator to carry into the next
	// draw's jackpot at creation time.
	RolledOver     bool
	RolloverAmount decimal.Decimal
}

// DepositResult is returned from recording a deposit
type DepositResult struct {
	Transaction        *entities.Transaction
	NewBalance         decimal.Decimal
	ReferralBonusPaid  bool
	MilestoneBonusPaid bool
}

// RankInfo pairs a derived rank with the participation count behind it
type RankInfo struct {
	Rank         entities.Rank
	Label        string
	Participated int
}

// DrawService owns the draw lifecycle and prize settlement
type DrawService interface {
	// CreateDraw schedules a new draw. The jackpot is the distributable
	// pool and may include an operator-carried rollover from a prior draw.
	CreateDraw(ctx context.Context, drawNumber int64, drawTime time.Time, jackpot decimal.Decimal) (*entities.Draw, error)

	// GetCurrentDraw returns the open draw, or nil if none is scheduled
	GetCurrentDraw(ctx context.Context) (*entities.Draw, error)

	// GetDraw returns a draw by ID
	GetDraw(ctx context.Context, drawID int64) (*entities.Draw, error)

	// CompleteDraw assigns the winning numbers and runs prize settlement
	// synchronously. Completing an already-completed draw returns
	// entities.ErrAlreadyCompleted without any further writes.
	CompleteDraw(ctx context.Context, drawID int64, winningNumbers []int64) (*SettlementResult, error)
}

// TicketService owns the ticket ledger
type TicketService interface {
	// PurchaseTicket atomically debits the ticket price, records the
	// purchase transaction and inserts the ticket
	PurchaseTicket(ctx context.Context, userID, drawID int64, numbers []int64) (*PurchaseResult, error)

	// GetUserTickets returns a user's tickets for one draw
	GetUserTickets(ctx context.Context, userID, drawID int64) ([]*entities.Ticket, error)
}

// WalletService owns deposits, the referral bonus rule and registration
type WalletService interface {
	// RegisterUser creates an account, generating a referral code. If
	// referralCode names an existing user, a referral link is created.
	RegisterUser(ctx context.Context, username, referralCode string) (*entities.User, error)

	// RecordDeposit credits the balance, records a deposit transaction and
	// applies the referral bonus rule
	RecordDeposit(ctx context.Context, userID int64, amount decimal.Decimal) (*DepositResult, error)

	// AdminDeposit credits a user's balance on behalf of an operator
	AdminDeposit(ctx context.Context, adminID, userID int64, amount decimal.Decimal) (*DepositResult, error)

	// GetUserTransactions returns a user's ledger entries
	GetUserTransactions(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error)

	// ReconcileBalance returns the ledger sum and the stored balance so
	// callers can verify they agree
	ReconcileBalance(ctx context.Context, userID int64) (ledgerSum, balance decimal.Decimal, err error)
}

// RankService derives user ranks from participation
type RankService interface {
	// GetUserRank derives the rank from the user's lifetime ticket count
	GetUserRank(ctx context.Context, userID int64) (*RankInfo, error)
}

// ChatService owns the informational support chat
type ChatService interface {
	PostMessage(ctx context.Context, userID *int64, content string, isAdmin bool) (*entities.ChatMessage, error)
	ListMessages(ctx context.Context, limit int) ([]*entities.ChatMessage, error)
}
