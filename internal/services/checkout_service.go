package services

import (
	"fmt"

	"spiritbeads/internal/config"
	"spiritbeads/internal/metrics"
	"spiritbeads/internal/models"
	"spiritbeads/internal/repositories"
	"spiritbeads/pkg/rabbitmq"
	"spiritbeads/pkg/stripe"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var cents = decimal.NewFromInt(100)

// CartItem is one requested line of a checkout.
type CartItem struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// CheckoutService validates a cart, creates the Stripe checkout session and
// persists the pending order with its price snapshots.
type CheckoutService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	sessions    stripe.SessionCreator
	mqClient    *rabbitmq.Client
	cfg         *config.Config
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, sessions stripe.SessionCreator, mqClient *rabbitmq.Client, cfg *config.Config) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		sessions:    sessions,
		mqClient:    mqClient,
		cfg:         cfg,
	}
}

// CreateCheckoutSession validates every cart line, creates the provider
// session and persists the pending order. The first missing product aborts
// the whole request before any session or order exists. Product lookups are
// not transactional with order creation; a price change or deletion in the
// gap is tolerated because each OrderItem snapshots the price it was sold
// at.
func (s *CheckoutService) CreateCheckoutSession(items []CartItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no items provided: %w", ErrValidation)
	}

	var total int64
	lineItems := make([]stripe.LineItem, 0, len(items))
	orderItems := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		if item.Quantity < 1 {
			return "", fmt.Errorf("quantity for product %s must be positive: %w", item.ID, ErrValidation)
		}
		product, err := s.productRepo.GetByID(item.ID)
		if err != nil {
			return "", fmt.Errorf("product %s lookup failed: %w", item.ID, err)
		}

		unitAmount := product.Price.Mul(cents).IntPart()
		lineItems = append(lineItems, stripe.LineItem{
			Name:       product.Name,
			UnitAmount: unitAmount,
			Quantity:   item.Quantity,
			Currency:   s.cfg.Currency,
		})
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			UnitPrice: unitAmount,
			Quantity:  item.Quantity,
		})
		total += unitAmount * int64(item.Quantity)
	}

	session, err := s.sessions.CreateCheckoutSession(stripe.SessionParams{
		LineItems:        lineItems,
		SuccessURL:       s.cfg.FrontendURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:        s.cfg.FrontendURL + "/cancel",
		AllowedCountries: s.cfg.AllowedCountries,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		StripeSessionID: session.ID,
		AmountTotal:     total,
		Currency:        s.cfg.Currency,
		Status:          models.OrderStatusPending,
		Items:           orderItems,
	}
	if err := s.orderRepo.Create(order); err != nil {
		// The provider session exists but no order references it; the
		// session simply expires unpaid on the Stripe side.
		return "", fmt.Errorf("failed to persist order for session %s: %w", session.ID, err)
	}

	metrics.CheckoutSessionsCreated.Inc()

	if s.mqClient != nil {
		payload := map[string]interface{}{
			"order_id":     order.ID,
			"session_id":   order.StripeSessionID,
			"amount_total": order.AmountTotal,
			"status":       order.Status,
		}
		if err := s.mqClient.PublishOrderEvent(rabbitmq.RoutingKeyOrderCreated, payload); err != nil {
			logrus.Warnf("failed to publish order created event for order %s: %v", order.ID, err)
		}
	}

	return session.URL, nil
}
