package core

import (
	context "context"
	time "time"

	core "github.com/fireesports/ledger/internal/domain/port/core"
	mock "github.com/stretchr/testify/mock"
)

// MockTimeProvider is a mock type for the TimeProvider type
type MockTimeProvider struct {
	mock.Mock
}

type MockTimeProvider_Expecter struct {
	mock *mock.Mock
}

func (_m *MockTimeProvider) EXPECT() *MockTimeProvider_Expecter {
	return &MockTimeProvider_Expecter{mock: &_m.Mock}
}

// Now provides a mock function with no fields
func (_m *MockTimeProvider) Now() time.Time {
	ret := _m.Called()
	return ret.Get(0).(time.Time)
}

// MockTimeProvider_Now_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Now'
type MockTimeProvider_Now_Call struct {
	*mock.Call
}

// Now is a helper method to define mock.On call
func (_e *MockTimeProvider_Expecter) Now() *MockTimeProvider_Now_Call {
	return &MockTimeProvider_Now_Call{Call: _e.mock.On("Now")}
}

func (_c *MockTimeProvider_Now_Call) Return(_a0 time.Time) *MockTimeProvider_Now_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockTimeProvider_Now_Call) Maybe() *MockTimeProvider_Now_Call {
	_c.Call.Maybe()
	return _c
}

// Since provides a mock function with given fields: t
func (_m *MockTimeProvider) Since(t time.Time) core.Duration {
	ret := _m.Called(t)
	return ret.Get(0).(core.Duration)
}

// MockTimeProvider_Since_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Since'
type MockTimeProvider_Since_Call struct {
	*mock.Call
}

// Since is a helper method to define mock.On call
func (_e *MockTimeProvider_Expecter) Since(t interface{}) *MockTimeProvider_Since_Call {
	return &MockTimeProvider_Since_Call{Call: _e.mock.On("Since", t)}
}

func (_c *MockTimeProvider_Since_Call) Return(_a0 core.Duration) *MockTimeProvider_Since_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockTimeProvider_Since_Call) Maybe() *MockTimeProvider_Since_Call {
	_c.Call.Maybe()
	return _c
}

// Until provides a mock function with given fields: t
func (_m *MockTimeProvider) Until(t time.Time) core.Duration {
	ret := _m.Called(t)
	return ret.Get(0).(core.Duration)
}

// Sleep provides a mock function with given fields: d
func (_m *MockTimeProvider) Sleep(d core.Duration) {
	_m.Called(d)
}

// WithTimeout provides a mock function with given fields: ctx, timeout
func (_m *MockTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	ret := _m.Called(ctx, timeout)
	return ret.Get(0).(context.Context), ret.Get(1).(context.CancelFunc)
}

// ParseDuration provides a mock function with given fields: s
func (_m *MockTimeProvider) ParseDuration(s string) (core.Duration, error) {
	ret := _m.Called(s)
	return ret.Get(0).(core.Duration), ret.Error(1)
}

// NewMockTimeProvider creates a new instance of MockTimeProvider. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockTimeProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTimeProvider {
	m := &MockTimeProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
