package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
)

// drawService implements business logic for the draw lifecycle and prize
// settlement. Repositories must come from a single unit of work so that
// settlement writes commit or roll back together.
type drawService struct {
	drawRepo        interfaces.DrawRepository
	ticketRepo      interfaces.TicketRepository
	userRepo        interfaces.UserRepository
	transactionRepo interfaces.TransactionRepository
	rules           entities.GameRules
}

// NewDrawService creates a new draw service
func NewDrawService(
	drawRepo interfaces.DrawRepository,
	ticketRepo interfaces.TicketRepository,
	userRepo interfaces.UserRepository,
	transactionRepo interfaces.TransactionRepository,
	rules entities.GameRules,
) interfaces.DrawService {
	return &drawService{
		drawRepo:        drawRepo,
		ticketRepo:      ticketRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		rules:           rules,
	}
}

// CreateDraw schedules a new draw accepting tickets
func (s *drawService) CreateDraw(ctx context.Context, drawNumber int64, drawTime time.Time, jackpot decimal.Decimal) (*entities.Draw, error) {
	if !jackpot.IsPositive() {
		return nil, entities.NewValidationError("jackpot", "jackpot must be positive")
	}
	if !drawTime.After(time.Now()) {
		return nil, entities.NewValidationError("drawTime", "draw time must be in the future")
	}

	existing, err := s.drawRepo.GetByDrawNumber(ctx, drawNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check draw number: %w", err)
	}
	if existing != nil {
		return nil, entities.NewValidationError("drawNumber", fmt.Sprintf("draw number %d already exists", drawNumber))
	}

	// Closing the previous draw is an operator responsibility; an overlap is
	// a data-integrity warning, not a failure.
	active, err := s.drawRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active draws: %w", err)
	}
	if len(active) > 0 {
		log.WithFields(log.Fields{
			"newDrawNumber": drawNumber,
			"activeDraws":   len(active),
		}).Warn("creating draw while another draw is still active")
	}

	draw := &entities.Draw{
		DrawNumber: drawNumber,
		DrawTime:   drawTime,
		Jackpot:    jackpot.Round(2),
		IsActive:   true,
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to create draw: %w", err)
	}

	return draw, nil
}

// GetCurrentDraw returns the open draw if one exists
func (s *drawService) GetCurrentDraw(ctx context.Context) (*entities.Draw, error) {
	draw, err := s.drawRepo.GetCurrentOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current draw: %w", err)
	}
	return draw, nil
}

// GetDraw returns a draw by ID
func (s *drawService) GetDraw(ctx context.Context, drawID int64) (*entities.Draw, error) {
	draw, err := s.drawRepo.GetByID(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, entities.ErrDrawNotFound
	}
	return draw, nil
}

// CompleteDraw assigns the winning numbers and settles all prizes for the
// draw in the caller's unit of work. The completed flag is checked under a
// row lock in the same transaction as the payout writes, so a second
// invocation can never double-pay.
func (s *drawService) CompleteDraw(ctx context.Context, drawID int64, winningNumbers []int64) (*interfaces.SettlementResult, error) {
	if err := entities.ValidateSelection(winningNumbers, s.rules.PickCount, s.rules.MaxNumber); err != nil {
		return nil, err
	}

	draw, err := s.drawRepo.GetByIDForUpdate(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock draw: %w", err)
	}
	if draw == nil {
		return nil, entities.ErrDrawNotFound
	}
	if draw.IsCompleted {
		return nil, entities.ErrAlreadyCompleted
	}

	tickets, err := s.ticketRepo.ListByDraw(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets for draw %d: %w", drawID, err)
	}

	plan := DistributePrizes(draw.Jackpot, tickets, winningNumbers, s.rules)

	for _, award := range plan.Awards {
		if err := s.ticketRepo.SetSettlement(ctx, award.Ticket.ID, award.MatchCount, award.Amount); err != nil {
			return nil, fmt.Errorf("failed to settle ticket %d: %w", award.Ticket.ID, err)
		}
		if !award.Amount.IsPositive() {
			continue
		}
		if err := s.creditWinnings(ctx, draw, award); err != nil {
			return nil, err
		}
	}

	draw.Complete(winningNumbers, time.Now().UTC())
	if err := s.drawRepo.Update(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to update draw: %w", err)
	}

	if plan.RolledOver {
		log.WithFields(log.Fields{
			"drawNumber":     draw.DrawNumber,
			"rolloverAmount": plan.RolloverAmount,
		}).Info("no top-tier winners, rollover pending operator carry-forward")
	}

	return &interfaces.SettlementResult{
		Draw:           draw,
		WinningNumbers: winningNumbers,
		TotalTickets:   len(tickets),
		Tiers:          plan.Tiers,
		TotalPaid:      plan.TotalPaid,
		RolledOver:     plan.RolledOver,
		RolloverAmount: plan.RolloverAmount,
	}, nil
}

// creditWinnings pays one winning ticket: balance update, winnings ledger
// entry and lifetime winnings bump, all within the ambient unit of work.
func (s *drawService) creditWinnings(ctx context.Context, draw *entities.Draw, award TicketAward) error {
	user, err := s.userRepo.GetByIDForUpdate(ctx, award.Ticket.UserID)
	if err != nil {
		return fmt.Errorf("failed to get winner %d: %w", award.Ticket.UserID, err)
	}
	if user == nil {
		return fmt.Errorf("winner %d for ticket %d: %w", award.Ticket.UserID, award.Ticket.ID, entities.ErrUserNotFound)
	}

	newBalance := user.CalculateNewBalance(award.Amount)
	if err := s.userRepo.UpdateBalance(ctx, user.ID, newBalance); err != nil {
		return fmt.Errorf("failed to credit winner %d: %w", user.ID, err)
	}
	if err := s.userRepo.AddWinnings(ctx, user.ID, award.Amount); err != nil {
		return fmt.Errorf("failed to record lifetime winnings for %d: %w", user.ID, err)
	}

	ticketID := award.Ticket.ID
	entry := &entities.Transaction{
		UserID:      user.ID,
		TicketID:    &ticketID,
		Type:        entities.TransactionTypeWinnings,
		Amount:      award.Amount,
		Description: fmt.Sprintf("Winnings for draw #%d (%d matches)", draw.DrawNumber, award.MatchCount),
	}
	if err := s.transactionRepo.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record winnings transaction: %w", err)
	}

	return nil
}
