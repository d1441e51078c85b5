package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lottohouse/domain/entities"
	"lottohouse/domain/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type ticketHandlerFixture struct {
	userRepo        *testhelpers.MockUserRepository
	drawRepo        *testhelpers.MockDrawRepository
	ticketRepo      *testhelpers.MockTicketRepository
	transactionRepo *testhelpers.MockTransactionRepository
	uow             *testhelpers.MockUnitOfWork
	router          *gin.Engine
}

func newTicketHandlerFixture() *ticketHandlerFixture {
	f := &ticketHandlerFixture{
		userRepo:        new(testhelpers.MockUserRepository),
		drawRepo:        new(testhelpers.MockDrawRepository),
		ticketRepo:      new(testhelpers.MockTicketRepository),
		transactionRepo: new(testhelpers.MockTransactionRepository),
		uow:             new(testhelpers.MockUnitOfWork),
	}
	f.uow.SetRepositories(f.userRepo, f.drawRepo, f.ticketRepo, f.transactionRepo, nil, nil)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Rollback").Return(nil)

	factory := new(testhelpers.MockUnitOfWorkFactory)
	factory.On("Create").Return(f.uow)

	handler := NewTicketHandler(factory, entities.DefaultGameRules())
	f.router = gin.New()
	f.router.POST("/api/tickets", handler.PurchaseTicket)
	return f
}

func (f *ticketHandlerFixture) purchase(t *testing.T, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/tickets", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func openTestDraw(id int64) *entities.Draw {
	return &entities.Draw{
		ID:         id,
		DrawNumber: id,
		DrawTime:   time.Now().Add(24 * time.Hour),
		Jackpot:    decimal.NewFromInt(100000),
		IsActive:   true,
	}
}

func TestPurchaseTicketEndpoint_Success(t *testing.T) {
	t.Parallel()

	f := newTicketHandlerFixture()
	f.uow.On("Commit").Return(nil)

	f.drawRepo.On("GetByID", mock.Anything, int64(1)).Return(openTestDraw(1), nil)
	f.userRepo.On("GetByIDForUpdate", mock.Anything, int64(7)).Return(&entities.User{
		ID:       7,
		Username: "alice",
		Balance:  decimal.NewFromInt(500),
	}, nil)
	f.ticketRepo.On("CountByUserAndDraw", mock.Anything, int64(7), int64(1)).Return(0, nil)
	f.userRepo.On("UpdateBalance", mock.Anything, int64(7), mock.MatchedBy(func(b decimal.Decimal) bool {
		return b.Equal(decimal.NewFromInt(400))
	})).Return(nil)
	f.ticketRepo.On("Create", mock.Anything, mock.MatchedBy(func(ticket *entities.Ticket) bool {
		return ticket.UserID == 7 && ticket.DrawID == 1
	})).Return(nil)
	f.transactionRepo.On("Record", mock.Anything, mock.MatchedBy(func(txn *entities.Transaction) bool {
		return txn.Type == entities.TransactionTypeTicketPurchase && txn.Amount.Equal(decimal.NewFromInt(-100))
	})).Return(nil)

	rec := f.purchase(t, gin.H{"user_id": 7, "draw_id": 1, "numbers": []int64{3, 9, 14, 21, 28, 35}})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		NewBalance decimal.Decimal `json:"new_balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, decimal.NewFromInt(400).Equal(resp.NewBalance))

	f.uow.AssertCalled(t, "Commit")
}

func TestPurchaseTicketEndpoint_DuplicateIsConflict(t *testing.T) {
	t.Parallel()

	f := newTicketHandlerFixture()

	f.drawRepo.On("GetByID", mock.Anything, int64(1)).Return(openTestDraw(1), nil)
	f.userRepo.On("GetByIDForUpdate", mock.Anything, int64(7)).Return(&entities.User{
		ID:      7,
		Balance: decimal.NewFromInt(500),
	}, nil)
	f.ticketRepo.On("CountByUserAndDraw", mock.Anything, int64(7), int64(1)).Return(1, nil)

	rec := f.purchase(t, gin.H{"user_id": 7, "draw_id": 1, "numbers": []int64{1, 2, 3, 4, 5, 6}})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assertErrorResponse(t, rec, false)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestPurchaseTicketEndpoint_InsufficientBalanceIsRetryable(t *testing.T) {
	t.Parallel()

	f := newTicketHandlerFixture()

	f.drawRepo.On("GetByID", mock.Anything, int64(1)).Return(openTestDraw(1), nil)
	f.userRepo.On("GetByIDForUpdate", mock.Anything, int64(7)).Return(&entities.User{
		ID:      7,
		Balance: decimal.NewFromInt(50),
	}, nil)
	f.ticketRepo.On("CountByUserAndDraw", mock.Anything, int64(7), int64(1)).Return(0, nil)

	rec := f.purchase(t, gin.H{"user_id": 7, "draw_id": 1, "numbers": []int64{1, 2, 3, 4, 5, 6}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assertErrorResponse(t, rec, true)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestPurchaseTicketEndpoint_InvalidSelection(t *testing.T) {
	t.Parallel()

	f := newTicketHandlerFixture()

	rec := f.purchase(t, gin.H{"user_id": 7, "draw_id": 1, "numbers": []int64{1, 2, 3}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.uow.AssertNotCalled(t, "Commit")
}

func assertErrorResponse(t *testing.T, rec *httptest.ResponseRecorder, retryable bool) {
	t.Helper()

	var resp struct {
		Error     string `json:"error"`
		Retryable bool   `json:"retryable"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, retryable, resp.Retryable)
}
