package intake

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utpbw/order-integration-service/internal/domain"
)

const validOrderJSON = `{
	"orderId": "o1",
	"paymentToken": "tok_ok",
	"totalAmount": 149.99,
	"currency": "EUR",
	"items": [{"sku": "A", "quantity": 2}]
}`

type handlerHarness struct {
	handler *Handler
	siphon  chan domain.Order
}

func newHandlerHarness(t *testing.T, depth int) *handlerHarness {
	t.Helper()

	siphon := make(chan domain.Order, depth)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	submitter, err := NewSubmitter(siphon, logger)
	require.NoError(t, err)

	return &handlerHarness{
		handler: NewHandler(submitter, logger),
		siphon:  siphon,
	}
}

func (h *handlerHarness) submit(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.handler.SubmitOrder(rec, req)
	return rec
}

func TestSubmitOrder(t *testing.T) {
	t.Parallel()

	t.Run("valid order accepted with 202", func(t *testing.T) {
		h := newHandlerHarness(t, 1)

		start := time.Now()
		rec := h.submit(validOrderJSON)
		elapsed := time.Since(start)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Less(t, elapsed, time.Second, "submit must not wait on downstream work")

		var receipt Receipt
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
		assert.Equal(t, "proc-o1", receipt.ProcessingID)
		assert.Equal(t, "o1", receipt.OrderID)
		assert.Equal(t, "Processing accepted", receipt.Status)

		// the order is queued, untouched
		select {
		case order := <-h.siphon:
			assert.Equal(t, "o1", order.OrderID)
			assert.Equal(t, []domain.OrderItem{{SKU: "A", Quantity: 2}}, order.Items)
		default:
			t.Fatal("order was not enqueued")
		}
	})

	t.Run("validation failure returns 400 and enqueues nothing", func(t *testing.T) {
		h := newHandlerHarness(t, 1)

		rec := h.submit(`{"orderId": "", "paymentToken": "t", "totalAmount": 1, "currency": "EUR", "items": []}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["detail"], "invalid order")
		assert.Empty(t, h.siphon)
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		h := newHandlerHarness(t, 1)
		rec := h.submit("not-json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, h.siphon)
	})

	t.Run("negative quantity returns 400", func(t *testing.T) {
		h := newHandlerHarness(t, 1)
		rec := h.submit(`{
			"orderId": "o2", "paymentToken": "t", "totalAmount": 1, "currency": "EUR",
			"items": [{"sku": "A", "quantity": -1}]
		}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("full queue returns 500 with opaque detail", func(t *testing.T) {
		h := newHandlerHarness(t, 1)
		require.Equal(t, http.StatusAccepted, h.submit(validOrderJSON).Code)

		rec := h.submit(validOrderJSON)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Internal server error while accepting order.", body["detail"])
	})

	t.Run("GET rejected", func(t *testing.T) {
		h := newHandlerHarness(t, 1)
		req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
		rec := httptest.NewRecorder()
		h.handler.SubmitOrder(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()
	h := newHandlerHarness(t, 1)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.handler.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestSubmitter(t *testing.T) {
	t.Parallel()

	t.Run("nil siphon rejected", func(t *testing.T) {
		_, err := NewSubmitter(nil, nil)
		assert.Error(t, err)
	})

	t.Run("validation error is typed", func(t *testing.T) {
		siphon := make(chan domain.Order, 1)
		submitter, err := NewSubmitter(siphon, slog.New(slog.NewTextHandler(io.Discard, nil)))
		require.NoError(t, err)

		_, err = submitter.Submit(t.Context(), domain.Order{})
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Empty(t, siphon, "failed validation must have no side effect")
	})

	t.Run("full siphon surfaces ErrQueueFull", func(t *testing.T) {
		siphon := make(chan domain.Order) // unbuffered, nobody reading
		submitter, err := NewSubmitter(siphon, slog.New(slog.NewTextHandler(io.Discard, nil)))
		require.NoError(t, err)

		order := domain.Order{
			OrderID: "o1", PaymentToken: "t", TotalAmount: 1, Currency: "EUR",
			Items: []domain.OrderItem{{SKU: "A", Quantity: 1}},
		}
		_, err = submitter.Submit(t.Context(), order)
		assert.ErrorIs(t, err, ErrQueueFull)
	})
}
