package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lottohouse/domain/entities"
	"lottohouse/domain/interfaces"
	"lottohouse/domain/testhelpers"
)

func newTicketServiceWithMocks() (interfaces.TicketService, *testhelpers.MockDrawRepository, *testhelpers.MockTicketRepository, *testhelpers.MockUserRepository, *testhelpers.MockTransactionRepository) {
	drawRepo := new(testhelpers.MockDrawRepository)
	ticketRepo := new(testhelpers.MockTicketRepository)
	userRepo := new(testhelpers.MockUserRepository)
	transactionRepo := new(testhelpers.MockTransactionRepository)
	svc := NewTicketService(drawRepo, ticketRepo, userRepo, transactionRepo, entities.DefaultGameRules())
	return svc, drawRepo, ticketRepo, userRepo, transactionRepo
}

func openDraw(id int64) *entities.Draw {
	return &entities.Draw{
		ID:         id,
		DrawNumber: id,
		DrawTime:   time.Now().Add(24 * time.Hour),
		Jackpot:    decimal.NewFromInt(10000),
		IsActive:   true,
	}
}

func TestPurchaseTicket_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, drawRepo, ticketRepo, userRepo, transactionRepo := newTicketServiceWithMocks()

	draw := openDraw(7)
	user := &entities.User{ID: 42, Username: "alice", Balance: decimal.NewFromInt(500)}
	numbers := []int64{1, 2, 3, 4, 5, 6}

	drawRepo.On("GetByID", ctx, int64(7)).Return(draw, nil)
	userRepo.On("GetByIDForUpdate", ctx, int64(42)).Return(user, nil)
	ticketRepo.On("CountByUserAndDraw", ctx, int64(42), int64(7)).Return(0, nil)
	userRepo.On("UpdateBalance", ctx, int64(42), decimal.NewFromInt(400)).Return(nil)
	ticketRepo.On("Create", ctx, mock.MatchedBy(func(ticket *entities.Ticket) bool {
		return ticket.DrawID == 7 && ticket.UserID == 42 && ticket.Cost.Equal(decimal.NewFromInt(100))
	})).Return(nil)
	transactionRepo.On("Record", ctx, mock.MatchedBy(func(txn *entities.Transaction) bool {
		return txn.UserID == 42 &&
			txn.Type == entities.TransactionTypeTicketPurchase &&
			txn.Amount.Equal(decimal.NewFromInt(-100))
	})).Return(nil)

	result, err := svc.PurchaseTicket(ctx, 42, 7, numbers)
	require.NoError(t, err)
	assert.Equal(t, numbers, result.Ticket.Numbers)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(400)))

	drawRepo.AssertExpectations(t)
	ticketRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	transactionRepo.AssertExpectations(t)
}

func TestPurchaseTicket_InvalidSelection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _, _, _ := newTicketServiceWithMocks()

	tests := []struct {
		name    string
		numbers []int64
	}{
		{name: "too few", numbers: []int64{1, 2, 3}},
		{name: "duplicate", numbers: []int64{1, 1, 2, 3, 4, 5}},
		{name: "out of range", numbers: []int64{1, 2, 3, 4, 5, 38}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := svc.PurchaseTicket(ctx, 42, 7, tt.numbers)
			assert.Nil(t, result)
			assert.True(t, entities.IsValidation(err))
		})
	}
}

func TestPurchaseTicket_DrawNotOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("draw missing", func(t *testing.T) {
		t.Parallel()
		svc, drawRepo, _, _, _ := newTicketServiceWithMocks()
		drawRepo.On("GetByID", ctx, int64(7)).Return(nil, nil)

		_, err := svc.PurchaseTicket(ctx, 42, 7, []int64{1, 2, 3, 4, 5, 6})
		assert.ErrorIs(t, err, entities.ErrDrawNotFound)
	})

	t.Run("draw completed", func(t *testing.T) {
		t.Parallel()
		svc, drawRepo, _, _, _ := newTicketServiceWithMocks()
		draw := openDraw(7)
		draw.IsCompleted = true
		drawRepo.On("GetByID", ctx, int64(7)).Return(draw, nil)

		_, err := svc.PurchaseTicket(ctx, 42, 7, []int64{1, 2, 3, 4, 5, 6})
		assert.ErrorIs(t, err, entities.ErrDrawNotOpen)
	})

	t.Run("draw inside lock window", func(t *testing.T) {
		t.Parallel()
		svc, drawRepo, _, _, _ := newTicketServiceWithMocks()
		draw := openDraw(7)
		draw.DrawTime = time.Now().Add(30 * time.Second) // inside the 60s window
		drawRepo.On("GetByID", ctx, int64(7)).Return(draw, nil)

		_, err := svc.PurchaseTicket(ctx, 42, 7, []int64{1, 2, 3, 4, 5, 6})
		assert.ErrorIs(t, err, entities.ErrDrawLocked)
	})
}

func TestPurchaseTicket_DuplicateTicket(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, drawRepo, ticketRepo, userRepo, _ := newTicketServiceWithMocks()

	user := &entities.User{ID: 42, Username: "alice", Balance: decimal.NewFromInt(500)}
	drawRepo.On("GetByID", ctx, int64(7)).Return(openDraw(7), nil)
	userRepo.On("GetByIDForUpdate", ctx, int64(42)).Return(user, nil)
	ticketRepo.On("CountByUserAndDraw", ctx, int64(42), int64(7)).Return(1, nil)

	_, err := svc.PurchaseTicket(ctx, 42, 7, []int64{1, 2, 3, 4, 5, 6})
	assert.ErrorIs(t, err, entities.ErrDuplicateTicket)

	ticketRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseTicket_InsufficientBalance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, drawRepo, ticketRepo, userRepo, _ := newTicketServiceWithMocks()

	user := &entities.User{ID: 42, Username: "alice", Balance: decimal.NewFromInt(99)}
	drawRepo.On("GetByID", ctx, int64(7)).Return(openDraw(7), nil)
	userRepo.On("GetByIDForUpdate", ctx, int64(42)).Return(user, nil)
	ticketRepo.On("CountByUserAndDraw", ctx, int64(42), int64(7)).Return(0, nil)

	_, err := svc.PurchaseTicket(ctx, 42, 7, []int64{1, 2, 3, 4, 5, 6})
	assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
	assert.True(t, entities.IsRetryable(err))

	userRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseTicket_BlockedUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, drawRepo, _, userRepo, _ := newTicketServiceWithMocks()

	user := &entities.User{ID: 42, Username: "alice", Balance: decimal.NewFromInt(500), IsBlocked: true}
	drawRepo.On("GetByID", ctx, int64(7)).Return(openDraw(7), nil)
	userRepo.On("GetByIDForUpdate", ctx, int64(42)).Return(user, nil)

	_, err := svc.PurchaseTicket(ctx, 42, 7, []int64{1, 2, 3, 4, 5, 6})
	assert.ErrorIs(t, err, entities.ErrUserBlocked)
}

func TestGetUserTickets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, ticketRepo, _, _ := newTicketServiceWithMocks()

	ticket := &entities.Ticket{ID: 1, UserID: 42, DrawID: 7, Numbers: []int64{1, 2, 3, 4, 5, 6}}
	ticketRepo.On("GetByUserAndDraw", ctx, int64(42), int64(7)).Return(ticket, nil)
	ticketRepo.On("GetByUserAndDraw", ctx, int64(42), int64(8)).Return(nil, nil)

	tickets, err := svc.GetUserTickets(ctx, 42, 7)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, int64(1), tickets[0].ID)

	tickets, err = svc.GetUserTickets(ctx, 42, 8)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}
