package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"lottohouse/domain/entities"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(username string) *entities.User {
	return &entities.User{
		Username:      username,
		Balance:       decimal.NewFromInt(1000),
		TotalWinnings: decimal.Zero,
		ReferralCode:  "REF-" + username,
	}
}

// CreateTestUserWithBalance creates a test user with a specific balance
func CreateTestUserWithBalance(username string, balance decimal.Decimal) *entities.User {
	user := CreateTestUser(username)
	user.Balance = balance
	return user
}

// CreateTestDraw creates an open test draw scheduled in the future
func CreateTestDraw(drawNumber int64, jackpot decimal.Decimal) *entities.Draw {
	return &entities.Draw{
		DrawNumber: drawNumber,
		DrawTime:   time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second),
		Jackpot:    jackpot,
		IsActive:   true,
	}
}

// CreateTestTicket creates a test ticket for the given user and draw
func CreateTestTicket(userID, drawID int64, numbers []int64) *entities.Ticket {
	return &entities.Ticket{
		DrawID:  drawID,
		UserID:  userID,
		Numbers: numbers,
		Cost:    decimal.NewFromInt(100),
	}
}

// CreateTestDeposit creates a deposit ledger entry
func CreateTestDeposit(userID int64, amount decimal.Decimal) *entities.Transaction {
	return &entities.Transaction{
		UserID:      userID,
		Type:        entities.TransactionTypeDeposit,
		Amount:      amount,
		Description: "Test deposit",
	}
}
