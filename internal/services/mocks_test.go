package services_test

import (
	"spiritbeads/internal/models"
	"spiritbeads/internal/repositories"
	"spiritbeads/pkg/stripe"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of
// repositories.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(categorySlug string) ([]models.Product, error) {
	args := m.Called(categorySlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of
// repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetBySessionID(sessionID string) (*models.Order, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkPaid(orderID, eventID string, details repositories.PaidDetails) (bool, error) {
	args := m.Called(orderID, eventID, details)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) MarkFailed(orderID, eventID string) error {
	args := m.Called(orderID, eventID)
	return args.Error(0)
}

// MockCustomOrderRepository is a mock implementation of
// repositories.CustomOrderRepository.
type MockCustomOrderRepository struct {
	mock.Mock
}

func (m *MockCustomOrderRepository) Create(request *models.CustomOrderRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *MockCustomOrderRepository) GetByID(id string) (*models.CustomOrderRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomOrderRequest), args.Error(1)
}

// MockSessionCreator is a mock implementation of stripe.SessionCreator.
type MockSessionCreator struct {
	mock.Mock
}

func (m *MockSessionCreator) CreateCheckoutSession(params stripe.SessionParams) (*stripe.Session, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Session), args.Error(1)
}

// MockMailer is a mock implementation of mailer.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to []string, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}
