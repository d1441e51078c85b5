package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"lottohouse/database"
	"lottohouse/domain/entities"
)

const userColumns = `id, username, balance, total_winnings, referral_code, referred_by, referral_count, is_blocked, is_admin, created_at, updated_at`

// UserRepository implements user data access
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository over the pool
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a user repository bound to a transaction
func newUserRepositoryWithTx(tx Queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Balance,
		&user.TotalWinnings,
		&user.ReferralCode,
		&user.ReferredBy,
		&user.ReferralCount,
		&user.IsBlocked,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// GetByIDForUpdate retrieves a user by ID with a row lock
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d for update: %w", id, err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return user, nil
}

// GetByReferralCode retrieves a user by their referral code
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, code))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by referral code: %w", err)
	}
	return user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (username, balance, total_winnings, referral_code, referred_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, referral_count, is_blocked, is_admin, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		user.Username,
		user.Balance,
		user.TotalWinnings,
		user.ReferralCode,
		user.ReferredBy,
	).Scan(
		&user.ID,
		&user.ReferralCount,
		&user.IsBlocked,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", user.Username, err)
	}

	return nil
}

// UpdateBalance sets a user's balance
func (r *UserRepository) UpdateBalance(ctx context.Context, userID int64, newBalance decimal.Decimal) error {
	query := `UPDATE users SET balance = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.q.Exec(ctx, query, userID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", userID)
	}

	return nil
}

// AddWinnings adds to a user's lifetime winnings total
func (r *UserRepository) AddWinnings(ctx context.Context, userID int64, amount decimal.Decimal) error {
	query := `UPDATE users SET total_winnings = total_winnings + $2, updated_at = NOW() WHERE id = $1`

	result, err := r.q.Exec(ctx, query, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to add winnings for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", userID)
	}

	return nil
}

// IncrementReferralCount bumps the referral counter and returns the new count
func (r *UserRepository) IncrementReferralCount(ctx context.Context, userID int64) (int, error) {
	query := `
		UPDATE users
		SET referral_count = referral_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING referral_count
	`

	var count int
	if err := r.q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to increment referral count for user %d: %w", userID, err)
	}

	return count, nil
}

// SetBlocked toggles the soft-block flag
func (r *UserRepository) SetBlocked(ctx context.Context, userID int64, blocked bool) error {
	query := `UPDATE users SET is_blocked = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.q.Exec(ctx, query, userID, blocked)
	if err != nil {
		return fmt.Errorf("failed to set blocked flag for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", userID)
	}

	return nil
}
