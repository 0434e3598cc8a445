package core

import (
	core "github.com/fireesports/ledger/internal/domain/port/core"
	mock "github.com/stretchr/testify/mock"
)

// MockLogger is a mock type for the Logger type
type MockLogger struct {
	mock.Mock
}

type MockLogger_Expecter struct {
	mock *mock.Mock
}

func (_m *MockLogger) EXPECT() *MockLogger_Expecter {
	return &MockLogger_Expecter{mock: &_m.Mock}
}

// MockLogger_log_Call is a *mock.Call shared by the four level methods
type MockLogger_log_Call struct {
	*mock.Call
}

func (_c *MockLogger_log_Call) Run(run func(message string, fields map[string]any)) *MockLogger_log_Call {
	_c.Call.Run(func(args mock.Arguments) {
		fields, _ := args.Get(1).(map[string]any)
		run(args.String(0), fields)
	})
	return _c
}

func (_c *MockLogger_log_Call) Return() *MockLogger_log_Call {
	_c.Call.Return()
	return _c
}

func (_c *MockLogger_log_Call) Maybe() *MockLogger_log_Call {
	_c.Call.Maybe()
	return _c
}

// Debug provides a mock function with given fields: message, fields
func (_m *MockLogger) Debug(message string, fields map[string]any) {
	_m.Called(message, fields)
}

// Debug is a helper method to define mock.On call
func (_e *MockLogger_Expecter) Debug(message interface{}, fields interface{}) *MockLogger_log_Call {
	return &MockLogger_log_Call{Call: _e.mock.On("Debug", message, fields)}
}

// Info provides a mock function with given fields: message, fields
func (_m *MockLogger) Info(message string, fields map[string]any) {
	_m.Called(message, fields)
}

// Info is a helper method to define mock.On call
func (_e *MockLogger_Expecter) Info(message interface{}, fields interface{}) *MockLogger_log_Call {
	return &MockLogger_log_Call{Call: _e.mock.On("Info", message, fields)}
}

// Warn provides a mock function with given fields: message, fields
func (_m *MockLogger) Warn(message string, fields map[string]any) {
	_m.Called(message, fields)
}

// Warn is a helper method to define mock.On call
func (_e *MockLogger_Expecter) Warn(message interface{}, fields interface{}) *MockLogger_log_Call {
	return &MockLogger_log_Call{Call: _e.mock.On("Warn", message, fields)}
}

// Error provides a mock function with given fields: message, fields
func (_m *MockLogger) Error(message string, fields map[string]any) {
	_m.Called(message, fields)
}

// Error is a helper method to define mock.On call
func (_e *MockLogger_Expecter) Error(message interface{}, fields interface{}) *MockLogger_log_Call {
	return &MockLogger_log_Call{Call: _e.mock.On("Error", message, fields)}
}

// SetLevel provides a mock function with given fields: level
func (_m *MockLogger) SetLevel(level core.LogLevel) {
	_m.Called(level)
}

// GetLevel provides a mock function with no fields
func (_m *MockLogger) GetLevel() core.LogLevel {
	ret := _m.Called()
	return ret.Get(0).(core.LogLevel)
}

// Flush provides a mock function with no fields
func (_m *MockLogger) Flush() error {
	ret := _m.Called()
	return ret.Error(0)
}

// NewMockLogger creates a new instance of MockLogger. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLogger {
	m := &MockLogger{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// NewRelaxedLogger returns a MockLogger that accepts any log call
func NewRelaxedLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLogger {
	m := NewMockLogger(t)
	m.EXPECT().Debug(mock.Anything, mock.Anything).Maybe()
	m.EXPECT().Info(mock.Anything, mock.Anything).Maybe()
	m.EXPECT().Warn(mock.Anything, mock.Anything).Maybe()
	m.EXPECT().Error(mock.Anything, mock.Anything).Maybe()
	return m
}
