package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pontoamd/ponto-server/internal/model"
)

// MockEventStore mocks the EventStore interface
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Create(ctx context.Context, event model.AttendanceEvent) (model.AttendanceEvent, error) {
	args := m.Called(ctx, event)
	// Allows Return(func(...)) to echo the inserted event back.
	if fn, ok := args.Get(0).(func(context.Context, model.AttendanceEvent) (model.AttendanceEvent, error)); ok {
		return fn(ctx, event)
	}
	return args.Get(0).(model.AttendanceEvent), args.Error(1)
}

func (m *MockEventStore) GetByID(ctx context.Context, id uuid.UUID) (model.AttendanceEvent, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.AttendanceEvent), args.Error(1)
}

func (m *MockEventStore) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.AttendanceEvent, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.AttendanceEvent), args.Error(1)
}

func (m *MockEventStore) GetByRange(ctx context.Context, startMillis, endMillis int64) ([]model.AttendanceEvent, error) {
	args := m.Called(ctx, startMillis, endMillis)
	return args.Get(0).([]model.AttendanceEvent), args.Error(1)
}

func (m *MockEventStore) UpdateTimestampKind(ctx context.Context, id uuid.UUID, timestamp int64, kind model.Kind) error {
	args := m.Called(ctx, id, timestamp, kind)
	return args.Error(0)
}

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByHandle(ctx context.Context, handle string) (model.User, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserStore) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

// MockTokenManager mocks the TokenManager interface
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID uuid.UUID, role model.Role) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) ParseAccessToken(token string) (uuid.UUID, model.Role, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Get(1).(model.Role), args.Error(2)
}

func (m *MockTokenManager) ParseRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockStorage mocks the Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}

func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
