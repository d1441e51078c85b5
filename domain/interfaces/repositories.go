package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"lottohouse/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// GetByIDForUpdate retrieves a user by ID with a row lock
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// GetByReferralCode retrieves a user by their referral code
	GetByReferralCode(ctx context.Context, code string) (*entities.User, error)

	// Create inserts a new user, populating ID and timestamps
	Create(ctx context.Context, user *entities.User) error

	// UpdateBalance sets a user's balance. Must only be called alongside a
	// transaction ledger insert in the same unit of work.
	UpdateBalance(ctx context.Context, userID int64, newBalance decimal.Decimal) error

	// AddWinnings adds to a user's lifetime winnings total
	AddWinnings(ctx context.Context, userID int64, amount decimal.Decimal) error

	// IncrementReferralCount bumps the referral counter and returns the new count
	IncrementReferralCount(ctx context.Context, userID int64) (int, error)

	// SetBlocked toggles the soft-block flag
	SetBlocked(ctx context.Context, userID int64, blocked bool) error
}

// DrawRepository defines the interface for draw data access
type DrawRepository interface {
	// Create inserts a new draw, populating ID and created_at
	Create(ctx context.Context, draw *entities.Draw) error

	// GetByID retrieves a draw by ID
	GetByID(ctx context.Context, id int64) (*entities.Draw, error)

	// GetByIDForUpdate retrieves a draw by ID with a row lock for settlement
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Draw, error)

	// GetByDrawNumber retrieves a draw by its sequential number
	GetByDrawNumber(ctx context.Context, drawNumber int64) (*entities.Draw, error)

	// GetCurrentOpen returns the earliest active uncompleted draw, or nil
	GetCurrentOpen(ctx context.Context) (*entities.Draw, error)

	// ListActive returns all active uncompleted draws
	ListActive(ctx context.Context) ([]*entities.Draw, error)

	// Update persists winning numbers, jackpot and completion flags
	Update(ctx context.Context, draw *entities.Draw) error

	// IncrementJackpot atomically adds to an uncompleted draw's jackpot and
	// returns the new total
	IncrementJackpot(ctx context.Context, drawID int64, amount decimal.Decimal) (decimal.Decimal, error)

	// NextDrawNumber returns the next unused sequential draw number
	NextDrawNumber(ctx context.Context) (int64, error)
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create inserts a ticket, populating ID and purchased_at. A unique
	// (user_id, draw_id) violation surfaces entities.ErrDuplicateTicket.
	Create(ctx context.Context, ticket *entities.Ticket) error

	// GetByUserAndDraw returns the user's ticket for a draw, or nil
	GetByUserAndDraw(ctx context.Context, userID, drawID int64) (*entities.Ticket, error)

	// ListByDraw returns all tickets for a draw
	ListByDraw(ctx context.Context, drawID int64) ([]*entities.Ticket, error)

	// ListByUser returns a user's tickets, most recent first
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Ticket, error)

	// CountByUserAndDraw returns how many tickets a user holds in a draw
	CountByUserAndDraw(ctx context.Context, userID, drawID int64) (int, error)

	// CountByUser returns a user's lifetime ticket count
	CountByUser(ctx context.Context, userID int64) (int, error)

	// SetSettlement writes the derived match count and winning amount once
	SetSettlement(ctx context.Context, ticketID int64, matchCount int, winningAmount decimal.Decimal) error
}

// TransactionRepository defines the interface for the append-only ledger
type TransactionRepository interface {
	// Record inserts a ledger entry, populating ID and created_at
	Record(ctx context.Context, tx *entities.Transaction) error

	// ListByUser returns a user's ledger entries, most recent first
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error)

	// SumByUser returns the signed sum of a user's ledger entries
	SumByUser(ctx context.Context, userID int64) (decimal.Decimal, error)
}

// ReferralRepository defines the interface for referral data access
type ReferralRepository interface {
	// Create inserts a referral link
	Create(ctx context.Context, referral *entities.Referral) error

	// GetByReferred returns the referral row where the user is the referred
	// party, or nil
	GetByReferred(ctx context.Context, referredID int64) (*entities.Referral, error)

	// GetByReferredForUpdate is GetByReferred with a row lock, used to make
	// the first-qualifying-deposit check race-free
	GetByReferredForUpdate(ctx context.Context, referredID int64) (*entities.Referral, error)

	// MarkDeposited sets has_made_deposit once
	MarkDeposited(ctx context.Context, referralID int64) error

	// ListByReferrer returns all referrals created by a referrer
	ListByReferrer(ctx context.Context, referrerID int64) ([]*entities.Referral, error)
}

// ChatMessageRepository defines the interface for support chat persistence
type ChatMessageRepository interface {
	// Create inserts a chat message
	Create(ctx context.Context, msg *entities.ChatMessage) error

	// ListRecent returns the most recent messages, oldest first
	ListRecent(ctx context.Context, limit int) ([]*entities.ChatMessage, error)
}
