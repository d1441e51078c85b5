package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"lottohouse/database"
	"lottohouse/domain/entities"
)

const ticketColumns = `id, draw_id, user_id, numbers, cost, match_count, winning_amount, purchased_at`

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// TicketRepository implements ticket data access
type TicketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository over the pool
func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{q: db.Pool}
}

// newTicketRepositoryWithTx creates a ticket repository bound to a transaction
func newTicketRepositoryWithTx(tx Queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var ticket entities.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.DrawID,
		&ticket.UserID,
		&ticket.Numbers,
		&ticket.Cost,
		&ticket.MatchCount,
		&ticket.WinningAmount,
		&ticket.PurchasedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Create inserts a new ticket. The (user_id, draw_id) pair is unique;
// a second insert for the same pair returns entities.ErrDuplicateTicket.
func (r *TicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	query := `
		INSERT INTO tickets (draw_id, user_id, numbers, cost)
		VALUES ($1, $2, $3, $4)
		RETURNING id, purchased_at
	`

	err := r.q.QueryRow(ctx, query,
		ticket.DrawID,
		ticket.UserID,
		ticket.Numbers,
		ticket.Cost,
	).Scan(&ticket.ID, &ticket.PurchasedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "tickets_user_draw_unique" {
			return entities.ErrDuplicateTicket
		}
		return fmt.Errorf("failed to create ticket for user %d in draw %d: %w", ticket.UserID, ticket.DrawID, err)
	}

	return nil
}

// GetByUserAndDraw retrieves a user's ticket for a draw, nil if none
func (r *TicketRepository) GetByUserAndDraw(ctx context.Context, userID, drawID int64) (*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = $1 AND draw_id = $2`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, userID, drawID))
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket for user %d in draw %d: %w", userID, drawID, err)
	}
	return ticket, nil
}

// ListByDraw retrieves all tickets for a draw
func (r *TicketRepository) ListByDraw(ctx context.Context, drawID int64) ([]*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE draw_id = $1 ORDER BY purchased_at ASC`

	rows, err := r.q.Query(ctx, query, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for draw %d: %w", drawID, err)
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, nil
}

// ListByUser retrieves a user's tickets, most recent first
func (r *TicketRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = $1 ORDER BY purchased_at DESC LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for user %d: %w", userID, err)
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, nil
}

// CountByUserAndDraw counts a user's tickets in a single draw
func (r *TicketRepository) CountByUserAndDraw(ctx context.Context, userID, drawID int64) (int, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE user_id = $1 AND draw_id = $2`

	var count int
	if err := r.q.QueryRow(ctx, query, userID, drawID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets for user %d in draw %d: %w", userID, drawID, err)
	}

	return count, nil
}

// CountByUser counts a user's lifetime ticket purchases
func (r *TicketRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE user_id = $1`

	var count int
	if err := r.q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets for user %d: %w", userID, err)
	}

	return count, nil
}

// SetSettlement records a ticket's match count and winning amount
func (r *TicketRepository) SetSettlement(ctx context.Context, ticketID int64, matchCount int, winningAmount decimal.Decimal) error {
	query := `UPDATE tickets SET match_count = $2, winning_amount = $3 WHERE id = $1`

	result, err := r.q.Exec(ctx, query, ticketID, matchCount, winningAmount)
	if err != nil {
		return fmt.Errorf("failed to settle ticket %d: %w", ticketID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %d not found", ticketID)
	}

	return nil
}
