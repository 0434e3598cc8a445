package persistence

import (
	context "context"

	entity "github.com/fireesports/ledger/internal/domain/entity"
	persistence "github.com/fireesports/ledger/internal/domain/port/persistence"
	mock "github.com/stretchr/testify/mock"
)

// MockLedgerStore is a mock type for the LedgerStore type
type MockLedgerStore struct {
	mock.Mock
}

var _ persistence.LedgerStore = (*MockLedgerStore)(nil)

// CreateAccount provides a mock function with given fields: ctx, account
func (_m *MockLedgerStore) CreateAccount(ctx context.Context, account *entity.Account) error {
	ret := _m.Called(ctx, account)
	return ret.Error(0)
}

// GetAccount provides a mock function with given fields: ctx, accountID
func (_m *MockLedgerStore) GetAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	ret := _m.Called(ctx, accountID)
	var r0 *entity.Account
	if rf, ok := ret.Get(0).(func(context.Context, string) *entity.Account); ok {
		r0 = rf(ctx, accountID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Account)
	}
	return r0, ret.Error(1)
}

// AppendTransaction provides a mock function with given fields: ctx, req
func (_m *MockLedgerStore) AppendTransaction(ctx context.Context, req persistence.AppendRequest) (*entity.Transaction, bool, error) {
	ret := _m.Called(ctx, req)
	var r0 *entity.Transaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Transaction)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

// FindByIdempotencyKey provides a mock function with given fields: ctx, accountID, key
func (_m *MockLedgerStore) FindByIdempotencyKey(ctx context.Context, accountID string, key string) (*entity.Transaction, error) {
	ret := _m.Called(ctx, accountID, key)
	var r0 *entity.Transaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Transaction)
	}
	return r0, ret.Error(1)
}

// GetTransaction provides a mock function with given fields: ctx, transactionID
func (_m *MockLedgerStore) GetTransaction(ctx context.Context, transactionID string) (*entity.Transaction, error) {
	ret := _m.Called(ctx, transactionID)
	var r0 *entity.Transaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Transaction)
	}
	return r0, ret.Error(1)
}

// ListTransactions provides a mock function with given fields: ctx, accountID, beforeSeq, limit
func (_m *MockLedgerStore) ListTransactions(ctx context.Context, accountID string, beforeSeq uint64, limit int) ([]*entity.Transaction, error) {
	ret := _m.Called(ctx, accountID, beforeSeq, limit)
	var r0 []*entity.Transaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.Transaction)
	}
	return r0, ret.Error(1)
}

// SumCompletedDeltas provides a mock function with given fields: ctx, accountID
func (_m *MockLedgerStore) SumCompletedDeltas(ctx context.Context, accountID string) (int64, int64, error) {
	ret := _m.Called(ctx, accountID)
	return ret.Get(0).(int64), ret.Get(1).(int64), ret.Error(2)
}

// ListAccounts provides a mock function with given fields: ctx, afterID, limit
func (_m *MockLedgerStore) ListAccounts(ctx context.Context, afterID string, limit int) ([]*entity.Account, error) {
	ret := _m.Called(ctx, afterID, limit)
	var r0 []*entity.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.Account)
	}
	return r0, ret.Error(1)
}

// NewMockLedgerStore creates a new instance of MockLedgerStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockLedgerStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLedgerStore {
	m := &MockLedgerStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
