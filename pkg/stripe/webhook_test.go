package stripe_test

import (
	"testing"
	"time"

	"spiritbeads/pkg/stripe"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_test_secret"

var testPayload = []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_123","payment_intent":"pi_1"}}}`)

func TestConstructEvent_ValidSignature(t *testing.T) {
	header := stripe.SignatureHeader(time.Now(), testPayload, testSecret)

	event, err := stripe.ConstructEvent(testPayload, header, testSecret)

	assert.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, stripe.EventCheckoutSessionCompleted, event.Type)
	assert.NotEmpty(t, event.Data.Object)
}

func TestConstructEvent_WrongSecret(t *testing.T) {
	header := stripe.SignatureHeader(time.Now(), testPayload, "whsec_other")

	_, err := stripe.ConstructEvent(testPayload, header, testSecret)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "signature verification failed")
}

func TestConstructEvent_TamperedPayload(t *testing.T) {
	header := stripe.SignatureHeader(time.Now(), testPayload, testSecret)
	tampered := append([]byte(nil), testPayload...)
	tampered[len(tampered)-2] = 'X'

	_, err := stripe.ConstructEvent(tampered, header, testSecret)

	assert.Error(t, err)
}

func TestConstructEvent_StaleTimestamp(t *testing.T) {
	header := stripe.SignatureHeader(time.Now().Add(-10*time.Minute), testPayload, testSecret)

	_, err := stripe.ConstructEvent(testPayload, header, testSecret)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tolerance")
}

func TestConstructEvent_MalformedHeader(t *testing.T) {
	for _, header := range []string{"", "t=abc,v1=00", "v1=00", "t=123", "nonsense"} {
		_, err := stripe.ConstructEvent(testPayload, header, testSecret)
		assert.Error(t, err, "header %q should be rejected", header)
	}
}

func TestConstructEvent_MalformedPayload(t *testing.T) {
	payload := []byte("{not json")
	header := stripe.SignatureHeader(time.Now(), payload, testSecret)

	_, err := stripe.ConstructEvent(payload, header, testSecret)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse webhook payload")
}

func TestConstructEvent_SecondSignatureAccepted(t *testing.T) {
	// Stripe sends multiple v1 signatures during secret rotation; any one
	// matching is enough.
	valid := stripe.SignatureHeader(time.Now(), testPayload, testSecret)
	header := valid + ",v1=deadbeef"

	_, err := stripe.ConstructEvent(testPayload, header, testSecret)

	assert.NoError(t, err)
}
