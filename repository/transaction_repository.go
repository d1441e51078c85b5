package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"lottohouse/database"
	"lottohouse/domain/entities"
)

const transactionColumns = `id, user_id, ticket_id, type, amount, description, created_at`

// TransactionRepository implements balance ledger data access
type TransactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository over the pool
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a transaction repository bound to a transaction
func newTransactionRepositoryWithTx(tx Queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

func scanTransaction(row pgx.Row) (*entities.Transaction, error) {
	var txn entities.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.TicketID,
		&txn.Type,
		&txn.Amount,
		&txn.Description,
		&txn.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Record appends a ledger entry
func (r *TransactionRepository) Record(ctx context.Context, txn *entities.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (user_id, ticket_id, type, amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		txn.UserID,
		txn.TicketID,
		txn.Type,
		txn.Amount,
		txn.Description,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s transaction for user %d: %w", txn.Type, txn.UserID, err)
	}

	return nil
}

// ListByUser retrieves a user's ledger entries, most recent first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var txns []*entities.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// SumByUser sums a user's ledger entries. A user's balance should always
// equal this sum; ReconcileBalance checks the invariant.
func (r *TransactionRepository) SumByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1`

	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions for user %d: %w", userID, err)
	}

	return sum, nil
}
