package services_test

import (
	"errors"
	"fmt"
	"testing"

	"spiritbeads/internal/config"
	"spiritbeads/internal/models"
	"spiritbeads/internal/repositories"
	"spiritbeads/internal/services"
	"spiritbeads/pkg/stripe"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func checkoutConfig() *config.Config {
	return &config.Config{
		FrontendURL:      "https://shop.example.com",
		AllowedCountries: []string{"US"},
		Currency:         "usd",
	}
}

func TestCheckoutService_CreateCheckoutSession(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	sessions := new(MockSessionCreator)
	service := services.NewCheckoutService(orderRepo, productRepo, sessions, nil, checkoutConfig())

	product := &models.Product{
		ID:    "p1",
		Name:  "River Stone Classic",
		Price: decimal.NewFromFloat(19.99),
	}
	productRepo.On("GetByID", "p1").Return(product, nil).Once()

	sessions.On("CreateCheckoutSession", mock.MatchedBy(func(params stripe.SessionParams) bool {
		return len(params.LineItems) == 1 &&
			params.LineItems[0].UnitAmount == 1999 &&
			params.LineItems[0].Quantity == 2 &&
			params.LineItems[0].Currency == "usd" &&
			params.SuccessURL == "https://shop.example.com/success?session_id={CHECKOUT_SESSION_ID}" &&
			params.CancelURL == "https://shop.example.com/cancel" &&
			len(params.AllowedCountries) == 1 && params.AllowedCountries[0] == "US"
	})).Return(&stripe.Session{ID: "cs_123", URL: "https://checkout.stripe.com/pay/cs_123"}, nil).Once()

	orderRepo.On("Create", mock.MatchedBy(func(order *models.Order) bool {
		return order.StripeSessionID == "cs_123" &&
			order.AmountTotal == 3998 &&
			order.Status == models.OrderStatusPending &&
			len(order.Items) == 1 &&
			order.Items[0].ProductID == "p1" &&
			order.Items[0].UnitPrice == 1999 &&
			order.Items[0].Quantity == 2
	})).Return(nil).Once()

	url, err := service.CreateCheckoutSession([]services.CartItem{{ID: "p1", Quantity: 2}})

	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_123", url)
	productRepo.AssertExpectations(t)
	sessions.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestCheckoutService_AmountTotalMatchesLineSum(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	sessions := new(MockSessionCreator)
	service := services.NewCheckoutService(orderRepo, productRepo, sessions, nil, checkoutConfig())

	productRepo.On("GetByID", "p1").Return(&models.Product{
		ID: "p1", Name: "Thunderbird Classic", Price: decimal.NewFromFloat(24.99),
	}, nil).Once()
	productRepo.On("GetByID", "p2").Return(&models.Product{
		ID: "p2", Name: "Sunrise Mini", Price: decimal.NewFromFloat(14.99),
	}, nil).Once()

	sessions.On("CreateCheckoutSession", mock.Anything).
		Return(&stripe.Session{ID: "cs_456", URL: "https://checkout.stripe.com/pay/cs_456"}, nil).Once()

	orderRepo.On("Create", mock.MatchedBy(func(order *models.Order) bool {
		var lineSum int64
		for _, item := range order.Items {
			lineSum += item.UnitPrice * int64(item.Quantity)
		}
		return order.AmountTotal == lineSum && order.AmountTotal == 3*2499+1*1499
	})).Return(nil).Once()

	_, err := service.CreateCheckoutSession([]services.CartItem{
		{ID: "p1", Quantity: 3},
		{ID: "p2", Quantity: 1},
	})

	assert.NoError(t, err)
	orderRepo.AssertExpectations(t)
}

func TestCheckoutService_MissingProductAbortsBeforeSession(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	sessions := new(MockSessionCreator)
	service := services.NewCheckoutService(orderRepo, productRepo, sessions, nil, checkoutConfig())

	productRepo.On("GetByID", "p1").Return(&models.Product{
		ID: "p1", Name: "Thunderbird Classic", Price: decimal.NewFromFloat(24.99),
	}, nil).Once()
	productRepo.On("GetByID", "missing").
		Return(nil, fmt.Errorf("product with ID missing: %w", repositories.ErrNotFound)).Once()

	url, err := service.CreateCheckoutSession([]services.CartItem{
		{ID: "p1", Quantity: 1},
		{ID: "missing", Quantity: 1},
	})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
	assert.Empty(t, url)
	// No session, no order: the first missing product aborts everything.
	sessions.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCheckoutService_EmptyCartRejected(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	sessions := new(MockSessionCreator)
	service := services.NewCheckoutService(orderRepo, productRepo, sessions, nil, checkoutConfig())

	url, err := service.CreateCheckoutSession(nil)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrValidation))
	assert.Empty(t, url)
}

func TestCheckoutService_NonPositiveQuantityRejected(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	sessions := new(MockSessionCreator)
	service := services.NewCheckoutService(orderRepo, productRepo, sessions, nil, checkoutConfig())

	_, err := service.CreateCheckoutSession([]services.CartItem{{ID: "p1", Quantity: 0}})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrValidation))
	productRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestCheckoutService_ProviderFailureReturnsError(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	sessions := new(MockSessionCreator)
	service := services.NewCheckoutService(orderRepo, productRepo, sessions, nil, checkoutConfig())

	productRepo.On("GetByID", "p1").Return(&models.Product{
		ID: "p1", Name: "River Stone Classic", Price: decimal.NewFromFloat(19.99),
	}, nil).Once()
	sessions.On("CreateCheckoutSession", mock.Anything).
		Return(nil, fmt.Errorf("stripe returned 500: internal error")).Once()

	_, err := service.CreateCheckoutSession([]services.CartItem{{ID: "p1", Quantity: 1}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create checkout session")
	orderRepo.AssertNotCalled(t, "Create", mock.Anything)
}
