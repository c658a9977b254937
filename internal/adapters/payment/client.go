// Package payment adapts saga intent to the payment service's HTTP
// contract. Every charge request carries a fresh idempotency key; the
// client does not retry, and it does not reuse or expose a key across calls.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/utpbw/order-integration-service/internal/domain"
)

const (
	chargesPath = "/v2/charges"

	// DefaultConnectTimeout bounds the TCP dial.
	DefaultConnectTimeout = 5 * time.Second
	// DefaultReadTimeout bounds the wait for response headers. It must
	// stay below the payment service's own processing timeout.
	DefaultReadTimeout = 8 * time.Second

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 1 << 20
)

// chargeRequest is the JSON body of POST /v2/charges.
type chargeRequest struct {
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	PaymentToken string `json:"paymentToken"`
	ReferenceID  string `json:"referenceId"`
}

// declineBody is the JSON body of an HTTP 402 response.
type declineBody struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// Client issues charges against the payment service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	// newKey generates idempotency keys; replaced in tests.
	newKey func() string
}

type Option func(*Client)

// WithTimeouts overrides the connect and read timeouts.
func WithTimeouts(connect, read time.Duration) Option {
	return func(c *Client) {
		c.http.Transport = newTransport(connect, read)
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogHandler sets a custom log handler for the Client instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Client) {
		c.logger = slog.New(handler).WithGroup("payment.Client")
	}
}

func newTransport(connect, read time.Duration) *http.Transport {
	return &http.Transport{
		DialContext:           (&net.Dialer{Timeout: connect}).DialContext,
		ResponseHeaderTimeout: read,
	}
}

// NewClient creates a payment client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("payment service base URL cannot be empty")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: newTransport(DefaultConnectTimeout, DefaultReadTimeout),
		},
		logger: slog.Default().WithGroup("payment.Client"),
		newKey: func() string { return uuid.Must(uuid.NewV4()).String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateCharge posts a charge for the order. A 2xx response is success;
// everything else comes back as a *payment.Error with a discriminable kind.
func (c *Client) CreateCharge(ctx context.Context, orderID, token string, amountCents int64, currency string) (domain.ChargeResult, error) {
	key := c.newKey()

	body, err := json.Marshal(chargeRequest{
		Amount:       amountCents,
		Currency:     currency,
		PaymentToken: token,
		ReferenceID:  orderID,
	})
	if err != nil {
		return domain.ChargeResult{}, fmt.Errorf("failed to encode charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chargesPath, bytes.NewReader(body))
	if err != nil {
		return domain.ChargeResult{}, fmt.Errorf("failed to build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Payment service unreachable, charge outcome unknown",
			"order_id", orderID, "idempotency_key", key, "error", err)
		return domain.ChargeResult{}, &Error{
			Kind:    KindTransport,
			OrderID: orderID,
			Detail:  err.Error(),
			Err:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.ChargeResult{}, &Error{
			Kind:    KindTransport,
			OrderID: orderID,
			Detail:  fmt.Sprintf("failed to read response body: %v", err),
			Err:     err,
		}
	}

	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		var decline declineBody
		_ = json.Unmarshal(data, &decline)
		c.logger.Warn("Payment declined",
			"order_id", orderID, "error_code", decline.ErrorCode, "message", decline.Message)
		return domain.ChargeResult{}, &Error{
			Kind:       KindDeclined,
			OrderID:    orderID,
			StatusCode: resp.StatusCode,
			Detail:     decline.Message,
		}

	case resp.StatusCode >= 400:
		c.logger.Error("Payment service returned an error status",
			"order_id", orderID, "status", resp.StatusCode)
		return domain.ChargeResult{}, &Error{
			Kind:       KindHTTPStatus,
			OrderID:    orderID,
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(data)),
		}
	}

	var result domain.ChargeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return domain.ChargeResult{}, &Error{
			Kind:       KindDecode,
			OrderID:    orderID,
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("failed to decode charge result: %v", err),
			Err:        err,
		}
	}
	return result, nil
}

// Close releases idle connections held by the underlying HTTP client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
