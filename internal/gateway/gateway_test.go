package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/pkg/configpkg"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(configpkg.Config{
		GatewayBaseURL:   server.URL,
		GatewayKeyID:     "key_test",
		GatewayKeySecret: "secret_test",
		GatewayAccount:   "2323230099089860",
	})
}

func TestCreateOrder(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "key_test", user)
		require.Equal(t, "secret_test", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.EqualValues(t, 10000, body["amount"])
		require.Equal(t, "USD", body["currency"])

		json.NewEncoder(w).Encode(Order{
			ID:       "order_123",
			Amount:   10000,
			Currency: "USD",
			Receipt:  body["receipt"].(string),
			Status:   "created",
		})
	})

	order, err := client.CreateOrder(context.Background(), 10000, "USD", "deposit_alice_1")
	require.NoError(t, err)
	require.Equal(t, "order_123", order.ID)
	require.Equal(t, "created", order.Status)
}

func TestCreateOrderGatewayDown(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.CreateOrder(context.Background(), 10000, "USD", "deposit_alice_1")
	require.ErrorIs(t, err, domain.ErrGatewayFailure)
}

func TestCapturePayment(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/pay_42/capture", r.URL.Path)

		json.NewEncoder(w).Encode(Payment{
			ID:       "pay_42",
			OrderID:  "order_123",
			Amount:   10000,
			Currency: "USD",
			Status:   "captured",
		})
	})

	payment, err := client.CapturePayment(context.Background(), "pay_42", 10000, "USD")
	require.NoError(t, err)
	require.Equal(t, "captured", payment.Status)
}

func TestCreatePayout(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payouts", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "2323230099089860", body["account_number"])
		require.Equal(t, "IMPS", body["mode"])

		json.NewEncoder(w).Encode(Payout{
			ID:       "pout_7",
			Amount:   4900,
			Currency: "USD",
			Mode:     "IMPS",
			Status:   "processed",
		})
	})

	payout, err := client.CreatePayout(context.Background(), 4900, "USD", "IMPS", "withdrawal_bob_3")
	require.NoError(t, err)
	require.Equal(t, "processed", payout.Status)
}

func TestVerifySignature(t *testing.T) {
	client := NewClient(configpkg.Config{GatewayKeySecret: "secret_test"})

	mac := hmac.New(sha256.New, []byte("secret_test"))
	mac.Write([]byte("order_123|pay_42"))
	signature := hex.EncodeToString(mac.Sum(nil))

	require.True(t, client.VerifySignature("order_123", "pay_42", signature))
	require.False(t, client.VerifySignature("order_123", "pay_42", "forged"))
	require.False(t, client.VerifySignature("order_999", "pay_42", signature))
}
