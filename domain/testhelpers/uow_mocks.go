package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lottohouse/domain/interfaces"
)

// MockUnitOfWork is a mock implementation of UnitOfWork for testing
type MockUnitOfWork struct {
	mock.Mock

	userRepo        interfaces.UserRepository
	drawRepo        interfaces.DrawRepository
	ticketRepo      interfaces.TicketRepository
	transactionRepo interfaces.TransactionRepository
	referralRepo    interfaces.ReferralRepository
	chatMessageRepo interfaces.ChatMessageRepository
}

// SetRepositories wires the repositories the mock unit of work hands out.
// Pass nil for repositories the code under test never touches.
func (m *MockUnitOfWork) SetRepositories(
	userRepo interfaces.UserRepository,
	drawRepo interfaces.DrawRepository,
	ticketRepo interfaces.TicketRepository,
	transactionRepo interfaces.TransactionRepository,
	referralRepo interfaces.ReferralRepository,
	chatMessageRepo interfaces.ChatMessageRepository,
) {
	m.userRepo = userRepo
	m.drawRepo = drawRepo
	m.ticketRepo = ticketRepo
	m.transactionRepo = transactionRepo
	m.referralRepo = referralRepo
	m.chatMessageRepo = chatMessageRepo
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() interfaces.UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) DrawRepository() interfaces.DrawRepository {
	return m.drawRepo
}

func (m *MockUnitOfWork) TicketRepository() interfaces.TicketRepository {
	return m.ticketRepo
}

func (m *MockUnitOfWork) TransactionRepository() interfaces.TransactionRepository {
	return m.transactionRepo
}

func (m *MockUnitOfWork) ReferralRepository() interfaces.ReferralRepository {
	return m.referralRepo
}

func (m *MockUnitOfWork) ChatMessageRepository() interfaces.ChatMessageRepository {
	return m.chatMessageRepo
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	args := m.Called()
	return args.Get(0).(interfaces.UnitOfWork)
}
