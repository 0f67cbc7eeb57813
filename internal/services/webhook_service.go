package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"spiritbeads/internal/metrics"
	"spiritbeads/internal/models"
	"spiritbeads/internal/repositories"
	"spiritbeads/pkg/rabbitmq"
	"spiritbeads/pkg/stripe"

	"github.com/sirupsen/logrus"
)

// WebhookService applies verified payment-provider events to the order
// ledger. Signature verification happens at the handler; by the time an
// event reaches this service it is authentic.
type WebhookService struct {
	orderRepo repositories.OrderRepository
	mqClient  *rabbitmq.Client
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(orderRepo repositories.OrderRepository, mqClient *rabbitmq.Client) *WebhookService {
	return &WebhookService{
		orderRepo: orderRepo,
		mqClient:  mqClient,
	}
}

// ProcessEvent dispatches a provider event. Unknown event types are
// acknowledged and ignored so Stripe does not retry them forever.
func (s *WebhookService) ProcessEvent(event stripe.Event) error {
	switch event.Type {
	case stripe.EventCheckoutSessionCompleted:
		return s.handleSessionCompleted(event)
	case stripe.EventCheckoutSessionExpired:
		return s.handleSessionExpired(event)
	default:
		logrus.Debugf("ignoring webhook event %s of type %s", event.ID, event.Type)
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		return nil
	}
}

// handleSessionCompleted transitions the order to paid and decrements
// inventory. The repository applies the whole thing in one transaction
// keyed by the event ID, so a replayed delivery is dropped before any side
// effect and a second event for an already-paid order changes nothing.
func (s *WebhookService) handleSessionCompleted(event stripe.Event) error {
	var session stripe.CheckoutSessionObject
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return fmt.Errorf("malformed checkout session payload: %w", err)
	}

	order, err := s.orderRepo.GetBySessionID(session.ID)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown_session").Inc()
		return err
	}

	details := repositories.PaidDetails{
		PaymentIntent: session.PaymentIntent,
		CustomerEmail: session.CustomerDetails.Email,
		ShippingAddress: &models.ShippingAddress{
			Name:       session.ShippingDetails.Name,
			Line1:      session.ShippingDetails.Address.Line1,
			Line2:      session.ShippingDetails.Address.Line2,
			City:       session.ShippingDetails.Address.City,
			State:      session.ShippingDetails.Address.State,
			PostalCode: session.ShippingDetails.Address.PostalCode,
			Country:    session.ShippingDetails.Address.Country,
		},
	}

	applied, err := s.orderRepo.MarkPaid(order.ID, event.ID, details)
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyProcessed) {
			logrus.Infof("webhook event %s already processed, skipping", event.ID)
			metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
			return nil
		}
		metrics.WebhookEvents.WithLabelValues("error").Inc()
		return err
	}
	if !applied {
		logrus.Infof("order %s already left pending, event %s recorded without side effects", order.ID, event.ID)
		metrics.WebhookEvents.WithLabelValues("stale").Inc()
		return nil
	}

	metrics.WebhookEvents.WithLabelValues("paid").Inc()
	logrus.Infof("order %s marked paid (session %s)", order.ID, session.ID)

	if s.mqClient != nil {
		payload := map[string]interface{}{
			"order_id":       order.ID,
			"customer_email": details.CustomerEmail,
			"amount_total":   order.AmountTotal,
			"currency":       order.Currency,
		}
		if err := s.mqClient.PublishOrderEvent(rabbitmq.RoutingKeyOrderPaid, payload); err != nil {
			logrus.Warnf("failed to publish order paid event for order %s: %v", order.ID, err)
		}
	}

	return nil
}

func (s *WebhookService) handleSessionExpired(event stripe.Event) error {
	var session stripe.CheckoutSessionObject
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return fmt.Errorf("malformed checkout session payload: %w", err)
	}

	order, err := s.orderRepo.GetBySessionID(session.ID)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown_session").Inc()
		return err
	}

	if err := s.orderRepo.MarkFailed(order.ID, event.ID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyProcessed) {
			metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
			return nil
		}
		metrics.WebhookEvents.WithLabelValues("error").Inc()
		return err
	}

	metrics.WebhookEvents.WithLabelValues("failed").Inc()
	logrus.Infof("order %s marked failed (session %s expired)", order.ID, session.ID)
	return nil
}
