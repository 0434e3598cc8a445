package usecase

import (
	context "context"
	iter "iter"

	entity "github.com/fireesports/ledger/internal/domain/entity"
	usecase "github.com/fireesports/ledger/internal/domain/port/usecase"
	mock "github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockTransactionUseCase is a mock type for the TransactionUseCase type
type MockTransactionUseCase struct {
	mock.Mock
}

var _ usecase.TransactionUseCase = (*MockTransactionUseCase)(nil)

func (_m *MockTransactionUseCase) result(ret mock.Arguments) (*usecase.TransactionResult, error) {
	var r0 *usecase.TransactionResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*usecase.TransactionResult)
	}
	return r0, ret.Error(1)
}

// Credit provides a mock function with given fields: ctx, req
func (_m *MockTransactionUseCase) Credit(ctx context.Context, req usecase.CreditRequest) (*usecase.TransactionResult, error) {
	return _m.result(_m.Called(ctx, req))
}

// Debit provides a mock function with given fields: ctx, req
func (_m *MockTransactionUseCase) Debit(ctx context.Context, req usecase.DebitRequest) (*usecase.TransactionResult, error) {
	return _m.result(_m.Called(ctx, req))
}

// AddFunds provides a mock function with given fields: ctx, accountID, amount, description, idempotencyKey
func (_m *MockTransactionUseCase) AddFunds(ctx context.Context, accountID string, amount int64, description string, idempotencyKey string) (*usecase.TransactionResult, error) {
	return _m.result(_m.Called(ctx, accountID, amount, description, idempotencyKey))
}

// Withdraw provides a mock function with given fields: ctx, accountID, amount, description, idempotencyKey
func (_m *MockTransactionUseCase) Withdraw(ctx context.Context, accountID string, amount int64, description string, idempotencyKey string) (*usecase.TransactionResult, error) {
	return _m.result(_m.Called(ctx, accountID, amount, description, idempotencyKey))
}

// AwardPrize provides a mock function with given fields: ctx, accountID, tournamentID, amount, idempotencyKey
func (_m *MockTransactionUseCase) AwardPrize(ctx context.Context, accountID string, tournamentID string, amount int64, idempotencyKey string) (*usecase.TransactionResult, error) {
	return _m.result(_m.Called(ctx, accountID, tournamentID, amount, idempotencyKey))
}

// NewMockTransactionUseCase creates a new instance of MockTransactionUseCase. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTransactionUseCase(t testingT) *MockTransactionUseCase {
	m := &MockTransactionUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockTournamentUseCase is a mock type for the TournamentUseCase type
type MockTournamentUseCase struct {
	mock.Mock
}

var _ usecase.TournamentUseCase = (*MockTournamentUseCase)(nil)

// Join provides a mock function with given fields: ctx, req
func (_m *MockTournamentUseCase) Join(ctx context.Context, req usecase.JoinRequest) (*entity.JoinResult, error) {
	ret := _m.Called(ctx, req)
	var r0 *entity.JoinResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.JoinResult)
	}
	return r0, ret.Error(1)
}

// Resume provides a mock function with given fields: ctx, accountID, sagaKey
func (_m *MockTournamentUseCase) Resume(ctx context.Context, accountID string, sagaKey string) (*entity.JoinResult, error) {
	ret := _m.Called(ctx, accountID, sagaKey)
	var r0 *entity.JoinResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.JoinResult)
	}
	return r0, ret.Error(1)
}

// CreateTournament provides a mock function with given fields: ctx, tournament
func (_m *MockTournamentUseCase) CreateTournament(ctx context.Context, tournament *entity.Tournament) error {
	ret := _m.Called(ctx, tournament)
	return ret.Error(0)
}

// NewMockTournamentUseCase creates a new instance of MockTournamentUseCase. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTournamentUseCase(t testingT) *MockTournamentUseCase {
	m := &MockTournamentUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockQueryUseCase is a mock type for the QueryUseCase type
type MockQueryUseCase struct {
	mock.Mock
}

var _ usecase.QueryUseCase = (*MockQueryUseCase)(nil)

// GetBalance provides a mock function with given fields: ctx, accountID
func (_m *MockQueryUseCase) GetBalance(ctx context.Context, accountID string) (*usecase.BalanceView, error) {
	ret := _m.Called(ctx, accountID)
	var r0 *usecase.BalanceView
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*usecase.BalanceView)
	}
	return r0, ret.Error(1)
}

// ListTransactions provides a mock function with given fields: ctx, accountID, cursor, limit
func (_m *MockQueryUseCase) ListTransactions(ctx context.Context, accountID string, cursor string, limit int) (*usecase.TransactionPage, error) {
	ret := _m.Called(ctx, accountID, cursor, limit)
	var r0 *usecase.TransactionPage
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*usecase.TransactionPage)
	}
	return r0, ret.Error(1)
}

// Transactions provides a mock function with given fields: ctx, accountID
func (_m *MockQueryUseCase) Transactions(ctx context.Context, accountID string) iter.Seq2[*entity.Transaction, error] {
	ret := _m.Called(ctx, accountID)
	return ret.Get(0).(iter.Seq2[*entity.Transaction, error])
}

// JoinedTournaments provides a mock function with given fields: ctx, accountID
func (_m *MockQueryUseCase) JoinedTournaments(ctx context.Context, accountID string) ([]*entity.JoinedTournament, error) {
	ret := _m.Called(ctx, accountID)
	var r0 []*entity.JoinedTournament
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.JoinedTournament)
	}
	return r0, ret.Error(1)
}

// GetTournament provides a mock function with given fields: ctx, tournamentID
func (_m *MockQueryUseCase) GetTournament(ctx context.Context, tournamentID string) (*entity.Tournament, error) {
	ret := _m.Called(ctx, tournamentID)
	var r0 *entity.Tournament
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Tournament)
	}
	return r0, ret.Error(1)
}

// NewMockQueryUseCase creates a new instance of MockQueryUseCase. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockQueryUseCase(t testingT) *MockQueryUseCase {
	m := &MockQueryUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockAccountUseCase is a mock type for the AccountUseCase type
type MockAccountUseCase struct {
	mock.Mock
}

var _ usecase.AccountUseCase = (*MockAccountUseCase)(nil)

// CreateAccount provides a mock function with given fields: ctx, accountID
func (_m *MockAccountUseCase) CreateAccount(ctx context.Context, accountID string) (*entity.Account, bool, error) {
	ret := _m.Called(ctx, accountID)
	var r0 *entity.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Account)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

// AccountExists provides a mock function with given fields: ctx, accountID
func (_m *MockAccountUseCase) AccountExists(ctx context.Context, accountID string) (bool, error) {
	ret := _m.Called(ctx, accountID)
	return ret.Bool(0), ret.Error(1)
}

// SeedAccounts provides a mock function with given fields: ctx, balances
func (_m *MockAccountUseCase) SeedAccounts(ctx context.Context, balances map[string]int64) error {
	ret := _m.Called(ctx, balances)
	return ret.Error(0)
}

// NewMockAccountUseCase creates a new instance of MockAccountUseCase. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockAccountUseCase(t testingT) *MockAccountUseCase {
	m := &MockAccountUseCase{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
