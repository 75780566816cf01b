package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pontoamd/ponto-server/internal/geo"
	"github.com/pontoamd/ponto-server/internal/model"
	"github.com/pontoamd/ponto-server/internal/report"
	"github.com/pontoamd/ponto-server/internal/service"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, handle, password, displayName string, role model.Role) (model.User, error) {
	args := m.Called(ctx, handle, password, displayName, role)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, handle, password string) (model.User, service.TokenPair, error) {
	args := m.Called(ctx, handle, password)
	return args.Get(0).(model.User), args.Get(1).(service.TokenPair), args.Error(2)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(service.TokenPair), args.Error(1)
}

// MockAttendanceService mocks the AttendanceService interface
type MockAttendanceService struct {
	mock.Mock
}

func (m *MockAttendanceService) NextAction(ctx context.Context, userID uuid.UUID) (model.Kind, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Kind), args.Error(1)
}

func (m *MockAttendanceService) Commit(ctx context.Context, userID uuid.UUID, kind model.Kind, image []byte, fix *geo.Fix) (model.AttendanceEvent, error) {
	args := m.Called(ctx, userID, kind, image, fix)
	return args.Get(0).(model.AttendanceEvent), args.Error(1)
}

func (m *MockAttendanceService) History(ctx context.Context, userID uuid.UUID) ([]model.AttendanceEvent, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.AttendanceEvent), args.Error(1)
}

func (m *MockAttendanceService) Evidence(ctx context.Context, eventID uuid.UUID) (model.AttendanceEvent, []byte, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(model.AttendanceEvent), args.Get(1).([]byte), args.Error(2)
}

// MockRosterService mocks the RosterService interface
type MockRosterService struct {
	mock.Mock
}

func (m *MockRosterService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockRosterService) ToggleRole(ctx context.Context, actorID, targetID uuid.UUID) (model.User, error) {
	args := m.Called(ctx, actorID, targetID)
	return args.Get(0).(model.User), args.Error(1)
}

// MockCorrectionService mocks the CorrectionService interface
type MockCorrectionService struct {
	mock.Mock
}

func (m *MockCorrectionService) History(ctx context.Context, userID uuid.UUID) ([]model.AttendanceEvent, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.AttendanceEvent), args.Error(1)
}

func (m *MockCorrectionService) Amend(ctx context.Context, eventID uuid.UUID, date, clock string, kind model.Kind) (model.AttendanceEvent, error) {
	args := m.Called(ctx, eventID, date, clock, kind)
	return args.Get(0).(model.AttendanceEvent), args.Error(1)
}

// MockReportService mocks the ReportService interface
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Rows(ctx context.Context, start, end string) ([]report.Row, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]report.Row), args.Error(1)
}

func (m *MockReportService) Export(ctx context.Context, start, end string) (service.Artifact, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(service.Artifact), args.Error(1)
}
