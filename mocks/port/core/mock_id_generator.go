package core

import (
	mock "github.com/stretchr/testify/mock"
)

// MockIDGenerator is a mock type for the IDGenerator type
type MockIDGenerator struct {
	mock.Mock
}

// NewID provides a mock function with no fields
func (_m *MockIDGenerator) NewID() string {
	ret := _m.Called()
	return ret.String(0)
}

// DeriveKey provides a mock function with given fields: parts
func (_m *MockIDGenerator) DeriveKey(parts ...string) string {
	ret := _m.Called(parts)
	return ret.String(0)
}

// NewMockIDGenerator creates a new instance of MockIDGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockIDGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIDGenerator {
	m := &MockIDGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
