package external

import (
	context "context"

	entity "github.com/fireesports/ledger/internal/domain/entity"
	external "github.com/fireesports/ledger/internal/domain/port/external"
	mock "github.com/stretchr/testify/mock"
)

// MockTournamentRegistry is a mock type for the TournamentRegistry type
type MockTournamentRegistry struct {
	mock.Mock
}

var _ external.TournamentRegistry = (*MockTournamentRegistry)(nil)

// GetTournament provides a mock function with given fields: ctx, tournamentID
func (_m *MockTournamentRegistry) GetTournament(ctx context.Context, tournamentID string) (*entity.Tournament, error) {
	ret := _m.Called(ctx, tournamentID)
	var r0 *entity.Tournament
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Tournament)
	}
	return r0, ret.Error(1)
}

// RegisterParticipant provides a mock function with given fields: ctx, reg
func (_m *MockTournamentRegistry) RegisterParticipant(ctx context.Context, reg external.Registration) (*entity.TournamentEntry, error) {
	ret := _m.Called(ctx, reg)
	var r0 *entity.TournamentEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.TournamentEntry)
	}
	return r0, ret.Error(1)
}

// ListEntries provides a mock function with given fields: ctx, accountID
func (_m *MockTournamentRegistry) ListEntries(ctx context.Context, accountID string) ([]*entity.TournamentEntry, error) {
	ret := _m.Called(ctx, accountID)
	var r0 []*entity.TournamentEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*entity.TournamentEntry)
	}
	return r0, ret.Error(1)
}

// NewMockTournamentRegistry creates a new instance of MockTournamentRegistry. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTournamentRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTournamentRegistry {
	m := &MockTournamentRegistry{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockTournamentAdmin is a mock type for the TournamentAdmin type
type MockTournamentAdmin struct {
	mock.Mock
}

// CreateTournament provides a mock function with given fields: ctx, tournament
func (_m *MockTournamentAdmin) CreateTournament(ctx context.Context, tournament *entity.Tournament) error {
	ret := _m.Called(ctx, tournament)
	return ret.Error(0)
}

// NewMockTournamentAdmin creates a new instance of MockTournamentAdmin. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTournamentAdmin(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTournamentAdmin {
	m := &MockTournamentAdmin{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
