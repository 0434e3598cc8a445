package persistence

import (
	context "context"
	time "time"

	entity "github.com/fireesports/ledger/internal/domain/entity"
	persistence "github.com/fireesports/ledger/internal/domain/port/persistence"
	mock "github.com/stretchr/testify/mock"
)

// MockJoinSagaRepository is a mock type for the JoinSagaRepository type
type MockJoinSagaRepository struct {
	mock.Mock
}

var _ persistence.JoinSagaRepository = (*MockJoinSagaRepository)(nil)

// FindByKey provides a mock function with given fields: ctx, accountID, key
func (_m *MockJoinSagaRepository) FindByKey(ctx context.Context, accountID string, key string) (*entity.JoinSaga, error) {
	ret := _m.Called(ctx, accountID, key)
	var r0 *entity.JoinSaga
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.JoinSaga)
	}
	return r0, ret.Error(1)
}

// Create provides a mock function with given fields: ctx, saga
func (_m *MockJoinSagaRepository) Create(ctx context.Context, saga *entity.JoinSaga) error {
	ret := _m.Called(ctx, saga)
	return ret.Error(0)
}

// Save provides a mock function with given fields: ctx, saga
func (_m *MockJoinSagaRepository) Save(ctx context.Context, saga *entity.JoinSaga) error {
	ret := _m.Called(ctx, saga)
	return ret.Error(0)
}

// ListByAccount provides a mock function with given fields: ctx, accountID, limit
func (_m *MockJoinSagaRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*entity.JoinSaga, error) {
	ret := _m.Called(ctx, accountID, limit)
	var r0 []*entity.JoinSaga
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.JoinSaga)
	}
	return r0, ret.Error(1)
}

// NewMockJoinSagaRepository creates a new instance of MockJoinSagaRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockJoinSagaRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockJoinSagaRepository {
	m := &MockJoinSagaRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockSagaLockRepository is a mock type for the SagaLockRepository type
type MockSagaLockRepository struct {
	mock.Mock
}

var _ persistence.SagaLockRepository = (*MockSagaLockRepository)(nil)

// AcquireLock provides a mock function with given fields: ctx, key, owner, duration
func (_m *MockSagaLockRepository) AcquireLock(ctx context.Context, key string, owner string, duration time.Duration) error {
	ret := _m.Called(ctx, key, owner, duration)
	return ret.Error(0)
}

// ReleaseLock provides a mock function with given fields: ctx, key, owner
func (_m *MockSagaLockRepository) ReleaseLock(ctx context.Context, key string, owner string) error {
	ret := _m.Called(ctx, key, owner)
	return ret.Error(0)
}

// CleanupExpiredLocks provides a mock function with given fields: ctx
func (_m *MockSagaLockRepository) CleanupExpiredLocks(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

// NewMockSagaLockRepository creates a new instance of MockSagaLockRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockSagaLockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSagaLockRepository {
	m := &MockSagaLockRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockOutboxRepository is a mock type for the OutboxRepository type
type MockOutboxRepository struct {
	mock.Mock
}

var _ persistence.OutboxRepository = (*MockOutboxRepository)(nil)

// Save provides a mock function with given fields: ctx, event
func (_m *MockOutboxRepository) Save(ctx context.Context, event *entity.OutboxEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

// GetPendingEvents provides a mock function with given fields: ctx, limit
func (_m *MockOutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*entity.OutboxEvent, error) {
	ret := _m.Called(ctx, limit)
	var r0 []*entity.OutboxEvent
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.OutboxEvent)
	}
	return r0, ret.Error(1)
}

// MarkAsProcessed provides a mock function with given fields: ctx, eventID
func (_m *MockOutboxRepository) MarkAsProcessed(ctx context.Context, eventID string) error {
	ret := _m.Called(ctx, eventID)
	return ret.Error(0)
}

// MarkAsFailed provides a mock function with given fields: ctx, eventID, errMsg
func (_m *MockOutboxRepository) MarkAsFailed(ctx context.Context, eventID string, errMsg string) error {
	ret := _m.Called(ctx, eventID, errMsg)
	return ret.Error(0)
}

// IncrementRetryCount provides a mock function with given fields: ctx, eventID, errMsg
func (_m *MockOutboxRepository) IncrementRetryCount(ctx context.Context, eventID string, errMsg string) error {
	ret := _m.Called(ctx, eventID, errMsg)
	return ret.Error(0)
}

// NewMockOutboxRepository creates a new instance of MockOutboxRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockOutboxRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOutboxRepository {
	m := &MockOutboxRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockUnitOfWork is a mock type for the UnitOfWork type
type MockUnitOfWork struct {
	mock.Mock
}

var _ persistence.UnitOfWork = (*MockUnitOfWork)(nil)

// Begin provides a mock function with given fields: ctx
func (_m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	ret := _m.Called(ctx)
	var r0 context.Context
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(context.Context)
	}
	return r0, ret.Error(1)
}

// Commit provides a mock function with given fields: ctx
func (_m *MockUnitOfWork) Commit(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// Rollback provides a mock function with given fields: ctx
func (_m *MockUnitOfWork) Rollback(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// GetJoinSagaRepository provides a mock function with given fields: ctx
func (_m *MockUnitOfWork) GetJoinSagaRepository(ctx context.Context) persistence.JoinSagaRepository {
	ret := _m.Called(ctx)
	return ret.Get(0).(persistence.JoinSagaRepository)
}

// GetOutboxRepository provides a mock function with given fields: ctx
func (_m *MockUnitOfWork) GetOutboxRepository(ctx context.Context) persistence.OutboxRepository {
	ret := _m.Called(ctx)
	return ret.Get(0).(persistence.OutboxRepository)
}

// NewMockUnitOfWork creates a new instance of MockUnitOfWork. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockUnitOfWork(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
