package console_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bloomadmin/internal/domain"
)

// MockBackend is a testify mock of console.Backend.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockBackend) CreateProduct(ctx context.Context, p domain.ProductPayload) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockBackend) UpdateProduct(ctx context.Context, id int64, p domain.ProductPayload) error {
	return m.Called(ctx, id, p).Error(0)
}

func (m *MockBackend) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBackend) ListOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockBackend) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockBackend) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockBackend) CreateUser(ctx context.Context, p domain.UserPayload) (domain.User, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockBackend) UpdateUser(ctx context.Context, id int64, p domain.UserPayload) (domain.User, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockBackend) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBackend) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockBackend) MarkNotificationRead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBackend) DeleteNotification(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
