// Package gateway implements the payment gateway client.
//
// The gateway speaks a Razorpay style REST API: orders are created before a
// deposit is captured, captures are verified against an HMAC signature, and
// payouts disburse withdrawals. All monetary amounts on the wire are integer
// minor units of the given currency.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/pkg/configpkg"
)

// Order is a gateway order awaiting capture.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Payment is a captured gateway payment.
type Payment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Payout is a disbursement to a user's payout destination.
type Payout struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Mode     string `json:"mode"`
	Status   string `json:"status"`
}

// Client calls the payment gateway over HTTP.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	account   string
	http      *http.Client
}

func NewClient(config configpkg.Config) *Client {
	timeout := config.GatewayTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:   config.GatewayBaseURL,
		keyID:     config.GatewayKeyID,
		keySecret: config.GatewayKeySecret,
		account:   config.GatewayAccount,
		http:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	l := zerolog.Ctx(ctx)

	payload, err := json.Marshal(body)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.ErrGatewayFailure
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		l.Error().Err(err).Send()
		return domain.ErrGatewayFailure
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.ErrGatewayFailure
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		l.Error().Int("status", resp.StatusCode).Str("path", path).Msg("gateway request rejected")
		return domain.ErrGatewayFailure
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		l.Error().Err(err).Send()
		return domain.ErrGatewayFailure
	}

	return nil
}

// CreateOrder registers a deposit order with the gateway.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (Order, error) {
	var order Order

	err := c.post(ctx, "/v1/orders", map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}, &order)

	return order, err
}

// CapturePayment captures the authorized payment for the given amount.
func (c *Client) CapturePayment(ctx context.Context, paymentID string, amount int64, currency string) (Payment, error) {
	var payment Payment

	err := c.post(ctx, "/v1/payments/"+paymentID+"/capture", map[string]interface{}{
		"amount":   amount,
		"currency": currency,
	}, &payment)

	return payment, err
}

// CreatePayout disburses the amount to the user's payout destination.
func (c *Client) CreatePayout(ctx context.Context, amount int64, currency, mode, reference string) (Payout, error) {
	var payout Payout

	err := c.post(ctx, "/v1/payouts", map[string]interface{}{
		"account_number":  c.account,
		"amount":          amount,
		"currency":        currency,
		"mode":            mode,
		"reference_id":    reference,
		"queue_if_low_balance": true,
	}, &payout)

	return payout, err
}

// VerifySignature checks the capture callback signature. The expected value
// is an HMAC-SHA256 of "orderID|paymentID" keyed with the gateway secret.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
