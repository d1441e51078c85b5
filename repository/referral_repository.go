package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lottohouse/database"
	"lottohouse/domain/entities"
)

const referralColumns = `id, referrer_id, referred_id, bonus_amount, has_made_deposit, created_at`

// ReferralRepository implements referral link data access
type ReferralRepository struct {
	q Queryable
}

// NewReferralRepository creates a new referral repository over the pool
func NewReferralRepository(db *database.DB) *ReferralRepository {
	return &ReferralRepository{q: db.Pool}
}

// newReferralRepositoryWithTx creates a referral repository bound to a transaction
func newReferralRepositoryWithTx(tx Queryable) *ReferralRepository {
	return &ReferralRepository{q: tx}
}

func scanReferral(row pgx.Row) (*entities.Referral, error) {
	var ref entities.Referral
	err := row.Scan(
		&ref.ID,
		&ref.ReferrerID,
		&ref.ReferredID,
		&ref.BonusAmount,
		&ref.HasMadeDeposit,
		&ref.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// Create inserts a referral link
func (r *ReferralRepository) Create(ctx context.Context, ref *entities.Referral) error {
	query := `
		INSERT INTO referrals (referrer_id, referred_id, bonus_amount)
		VALUES ($1, $2, $3)
		RETURNING id, has_made_deposit, created_at
	`

	err := r.q.QueryRow(ctx, query,
		ref.ReferrerID,
		ref.ReferredID,
		ref.BonusAmount,
	).Scan(&ref.ID, &ref.HasMadeDeposit, &ref.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create referral %d -> %d: %w", ref.ReferrerID, ref.ReferredID, err)
	}

	return nil
}

// GetByReferred retrieves the referral link for a referred user, nil if none
func (r *ReferralRepository) GetByReferred(ctx context.Context, referredID int64) (*entities.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referred_id = $1`

	ref, err := scanReferral(r.q.QueryRow(ctx, query, referredID))
	if err != nil {
		return nil, fmt.Errorf("failed to get referral for user %d: %w", referredID, err)
	}
	return ref, nil
}

// GetByReferredForUpdate retrieves the referral link with a row lock
func (r *ReferralRepository) GetByReferredForUpdate(ctx context.Context, referredID int64) (*entities.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referred_id = $1 FOR UPDATE`

	ref, err := scanReferral(r.q.QueryRow(ctx, query, referredID))
	if err != nil {
		return nil, fmt.Errorf("failed to get referral for user %d for update: %w", referredID, err)
	}
	return ref, nil
}

// MarkDeposited flags the referred user's first qualifying deposit
func (r *ReferralRepository) MarkDeposited(ctx context.Context, referralID int64) error {
	query := `UPDATE referrals SET has_made_deposit = TRUE WHERE id = $1 AND has_made_deposit = FALSE`

	result, err := r.q.Exec(ctx, query, referralID)
	if err != nil {
		return fmt.Errorf("failed to mark referral %d deposited: %w", referralID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("referral %d not found or already deposited", referralID)
	}

	return nil
}

// ListByReferrer retrieves all referral links a user has generated
func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID int64) ([]*entities.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referrer_id = $1 ORDER BY created_at ASC`

	rows, err := r.q.Query(ctx, query, referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals for user %d: %w", referrerID, err)
	}
	defer rows.Close()

	var refs []*entities.Referral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan referral: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate referrals: %w", err)
	}

	return refs, nil
}
