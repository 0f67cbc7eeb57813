package handlers

import (
	"errors"

	"spiritbeads/internal/repositories"
	"spiritbeads/internal/services"
	"spiritbeads/pkg/stripe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// PaymentHandler handles checkout session creation and the Stripe webhook.
type PaymentHandler struct {
	checkout      *services.CheckoutService
	webhook       *services.WebhookService
	webhookSecret string
	validate      *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(checkout *services.CheckoutService, webhook *services.WebhookService, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{
		checkout:      checkout,
		webhook:       webhook,
		webhookSecret: webhookSecret,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the payment routes. The paths are fixed: they
// are what the storefront and the Stripe dashboard are configured with.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/create-checkout-session/", h.HandleCreateCheckoutSession)
	router.Post("/webhook/", h.HandleWebhook)
}

type checkoutRequest struct {
	Items []services.CartItem `json:"items" validate:"required,min=1,dive"`
}

// HandleCreateCheckoutSession validates the cart and returns the hosted
// payment URL for the client to redirect to.
func (h *PaymentHandler) HandleCreateCheckoutSession(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		logrus.Warnf("error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No items provided",
		})
	}

	checkoutURL, err := h.checkout.CreateCheckoutSession(req.Items)
	if err != nil {
		if errors.Is(err, services.ErrValidation) || errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		logrus.Errorf("error creating checkout session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	return c.JSON(fiber.Map{"checkout_url": checkoutURL})
}

// HandleWebhook verifies and applies an asynchronous payment-provider
// event. Signature verification against the webhook secret is the only
// authentication this endpoint has; anything that fails it is a 400.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	event, err := stripe.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		logrus.Warnf("webhook verification failed: %v", err)
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if err := h.webhook.ProcessEvent(event); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logrus.Warnf("webhook event %s references unknown session: %v", event.ID, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown checkout session",
			})
		}
		logrus.Errorf("error processing webhook event %s: %v", event.ID, err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusOK)
}
