// Package stripe is a minimal client for the two Stripe surfaces the shop
// uses: creating hosted checkout sessions and verifying webhook signatures.
package stripe

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// Config holds Stripe API credentials and endpoint.
type Config struct {
	SecretKey string
	BaseURL   string // defaults to the public API host
}

// LineItem is one purchasable line of a checkout session.
type LineItem struct {
	Name       string
	UnitAmount int64 // cents
	Quantity   int
	Currency   string
}

// SessionParams carries everything needed to create a checkout session.
type SessionParams struct {
	LineItems        []LineItem
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string
}

// Session is the subset of Stripe's checkout session object the shop needs.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// SessionCreator abstracts session creation so services can be tested
// without hitting Stripe.
type SessionCreator interface {
	CreateCheckoutSession(params SessionParams) (*Session, error)
}

// Client talks to the Stripe REST API. Outbound calls run through a circuit
// breaker so a Stripe outage fails checkout fast instead of piling up
// blocked requests.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a Stripe API client.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.stripe.com"
	}

	httpClient := resty.New().
		SetBaseURL(base).
		SetTimeout(15 * time.Second).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "stripe-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{http: httpClient, breaker: breaker}
}

// CreateCheckoutSession creates a payment-mode checkout session and returns
// its ID and hosted URL.
func (c *Client) CreateCheckoutSession(params SessionParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)

	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", item.Currency)
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}
	for i, country := range params.AllowedCountries {
		form.Set(fmt.Sprintf("shipping_address_collection[allowed_countries][%d]", i), country)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var session Session
		var apiErr apiError
		resp, err := c.http.R().
			SetFormDataFromValues(form).
			SetResult(&session).
			SetError(&apiErr).
			Post("/v1/checkout/sessions")
		if err != nil {
			return nil, fmt.Errorf("stripe request failed: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("stripe returned %d: %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return &session, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Session), nil
}
