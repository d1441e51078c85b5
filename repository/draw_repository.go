package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"lottohouse/database"
	"lottohouse/domain/entities"
)

const drawColumns = `id, draw_number, draw_time, winning_numbers, jackpot, is_active, is_completed, completed_at, created_at`

// DrawRepository implements draw data access
type DrawRepository struct {
	q Queryable
}

// NewDrawRepository creates a new draw repository over the pool
func NewDrawRepository(db *database.DB) *DrawRepository {
	return &DrawRepository{q: db.Pool}
}

// newDrawRepositoryWithTx creates a draw repository bound to a transaction
func newDrawRepositoryWithTx(tx Queryable) *DrawRepository {
	return &DrawRepository{q: tx}
}

func scanDraw(row pgx.Row) (*entities.Draw, error) {
	var draw entities.Draw
	err := row.Scan(
		&draw.ID,
		&draw.DrawNumber,
		&draw.DrawTime,
		&draw.WinningNumbers,
		&draw.Jackpot,
		&draw.IsActive,
		&draw.IsCompleted,
		&draw.CompletedAt,
		&draw.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// Create inserts a new draw
func (r *DrawRepository) Create(ctx context.Context, draw *entities.Draw) error {
	query := `
		INSERT INTO draws (draw_number, draw_time, jackpot, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_completed, created_at
	`

	err := r.q.QueryRow(ctx, query,
		draw.DrawNumber,
		draw.DrawTime,
		draw.Jackpot,
		draw.IsActive,
	).Scan(&draw.ID, &draw.IsCompleted, &draw.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create draw #%d: %w", draw.DrawNumber, err)
	}

	return nil
}

// GetByID retrieves a draw by ID
func (r *DrawRepository) GetByID(ctx context.Context, id int64) (*entities.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE id = $1`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get draw %d: %w", id, err)
	}
	return draw, nil
}

// GetByIDForUpdate retrieves a draw by ID with a row lock
func (r *DrawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE id = $1 FOR UPDATE`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get draw %d for update: %w", id, err)
	}
	return draw, nil
}

// GetByDrawNumber retrieves a draw by its public number
func (r *DrawRepository) GetByDrawNumber(ctx context.Context, drawNumber int64) (*entities.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE draw_number = $1`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, drawNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to get draw #%d: %w", drawNumber, err)
	}
	return draw, nil
}

// GetCurrentOpen retrieves the next active, uncompleted draw whose
// scheduled time is still ahead.
func (r *DrawRepository) GetCurrentOpen(ctx context.Context) (*entities.Draw, error) {
	query := `
		SELECT ` + drawColumns + `
		FROM draws
		WHERE is_active = TRUE AND is_completed = FALSE AND draw_time > NOW()
		ORDER BY draw_time ASC
		LIMIT 1
	`

	draw, err := scanDraw(r.q.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to get current open draw: %w", err)
	}
	return draw, nil
}

// ListActive retrieves all active, uncompleted draws ordered by draw time
func (r *DrawRepository) ListActive(ctx context.Context) ([]*entities.Draw, error) {
	query := `
		SELECT ` + drawColumns + `
		FROM draws
		WHERE is_active = TRUE AND is_completed = FALSE
		ORDER BY draw_time ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active draws: %w", err)
	}
	defer rows.Close()

	var draws []*entities.Draw
	for rows.Next() {
		draw, err := scanDraw(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		draws = append(draws, draw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draws: %w", err)
	}

	return draws, nil
}

// Update persists draw state changes
func (r *DrawRepository) Update(ctx context.Context, draw *entities.Draw) error {
	query := `
		UPDATE draws
		SET draw_time = $2,
		    winning_numbers = $3,
		    jackpot = $4,
		    is_active = $5,
		    is_completed = $6,
		    completed_at = $7
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		draw.ID,
		draw.DrawTime,
		draw.WinningNumbers,
		draw.Jackpot,
		draw.IsActive,
		draw.IsCompleted,
		draw.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update draw %d: %w", draw.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("draw %d not found", draw.ID)
	}

	return nil
}

// IncrementJackpot adds to a draw's jackpot and returns the new total
func (r *DrawRepository) IncrementJackpot(ctx context.Context, drawID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE draws
		SET jackpot = jackpot + $2
		WHERE id = $1 AND is_completed = FALSE
		RETURNING jackpot
	`

	var jackpot decimal.Decimal
	if err := r.q.QueryRow(ctx, query, drawID, amount).Scan(&jackpot); err != nil {
		return decimal.Zero, fmt.Errorf("failed to increment jackpot for draw %d: %w", drawID, err)
	}

	return jackpot, nil
}

// NextDrawNumber returns the next unused public draw number
func (r *DrawRepository) NextDrawNumber(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(MAX(draw_number), 0) + 1 FROM draws`

	var next int64
	if err := r.q.QueryRow(ctx, query).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to get next draw number: %w", err)
	}

	return next, nil
}
