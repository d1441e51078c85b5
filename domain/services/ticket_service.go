package services

import (
	"context"
	"fmt"
	"time"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
)

// ticketService implements business logic for ticket purchases
type ticketService struct {
	drawRepo        interfaces.DrawRepository
	ticketRepo      interfaces.TicketRepository
	userRepo        interfaces.UserRepository
	transactionRepo interfaces.TransactionRepository
	rules           entities.GameRules
}

// NewTicketService creates a new ticket service
func NewTicketService(
	drawRepo interfaces.DrawRepository,
	ticketRepo interfaces.TicketRepository,
	userRepo interfaces.UserRepository,
	transactionRepo interfaces.TransactionRepository,
	rules entities.GameRules,
) interfaces.TicketService {
	return &ticketService{
		drawRepo:        drawRepo,
		ticketRepo:      ticketRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		rules:           rules,
	}
}

// PurchaseTicket buys one ticket for a user. The balance debit, the ledger
// entry and the ticket insert ride the caller's unit of work and commit or
// roll back together.
func (s *ticketService) PurchaseTicket(ctx context.Context, userID, drawID int64, numbers []int64) (*interfaces.PurchaseResult, error) {
	if err := entities.ValidateSelection(numbers, s.rules.PickCount, s.rules.MaxNumber); err != nil {
		return nil, err
	}

	draw, err := s.drawRepo.GetByID(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, entities.ErrDrawNotFound
	}
	if draw.IsCompleted || !draw.IsActive {
		return nil, entities.ErrDrawNotOpen
	}
	if !draw.IsOpenForPurchase(time.Now(), s.rules.LockWindow) {
		return nil, entities.ErrDrawLocked
	}

	user, err := s.userRepo.GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, entities.ErrUserNotFound
	}
	if user.IsBlocked {
		return nil, entities.ErrUserBlocked
	}

	count, err := s.ticketRepo.CountByUserAndDraw(ctx, userID, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}
	if count > 0 {
		return nil, entities.ErrDuplicateTicket
	}
	// Unreachable while the one-ticket-per-draw constraint holds; kept as a
	// guard for configurations that relax it.
	if count >= s.rules.PerDrawTicketCap {
		return nil, entities.ErrTicketCapExceeded
	}

	price := s.rules.TicketPrice
	if !user.CanAfford(price) {
		return nil, entities.ErrInsufficientBalance
	}

	newBalance := user.Balance.Sub(price)
	if err := s.userRepo.UpdateBalance(ctx, userID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to debit balance: %w", err)
	}

	ticket := &entities.Ticket{
		DrawID:  drawID,
		UserID:  userID,
		Numbers: numbers,
		Cost:    price,
	}
	// The unique (user_id, draw_id) constraint is the guard against a
	// concurrent double purchase; a violation surfaces as ErrDuplicateTicket.
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	ticketID := ticket.ID
	entry := &entities.Transaction{
		UserID:      userID,
		TicketID:    &ticketID,
		Type:        entities.TransactionTypeTicketPurchase,
		Amount:      price.Neg(),
		Description: fmt.Sprintf("Ticket for draw #%d", draw.DrawNumber),
	}
	if err := s.transactionRepo.Record(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record purchase transaction: %w", err)
	}

	return &interfaces.PurchaseResult{
		Ticket:     ticket,
		Draw:       draw,
		NewBalance: newBalance,
	}, nil
}

// GetUserTickets returns a user's tickets for a draw
func (s *ticketService) GetUserTickets(ctx context.Context, userID, drawID int64) ([]*entities.Ticket, error) {
	ticket, err := s.ticketRepo.GetByUserAndDraw(ctx, userID, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	if ticket == nil {
		return nil, nil
	}
	return []*entities.Ticket{ticket}, nil
}
