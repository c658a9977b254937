package intake

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/utpbw/order-integration-service/internal/domain"
)

const (
	// internalErrorDetail is the only detail a caller sees for failures
	// past validation.
	internalErrorDetail = "Internal server error while accepting order."

	// maxOrderBytes caps the request body size.
	maxOrderBytes = 1 << 20
)

// Handler exposes the intake HTTP surface: order submission and the
// health probe.
type Handler struct {
	submitter *Submitter
	logger    *slog.Logger
}

// NewHandler creates the intake HTTP handler over the given submitter.
func NewHandler(submitter *Submitter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default().WithGroup("intake.Handler")
	}
	return &Handler{submitter: submitter, logger: logger}
}

// SubmitOrder handles POST /v1/orders.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
		return
	}

	var order domain.Order
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOrderBytes))
	if err := decoder.Decode(&order); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "request body is not a valid order: " + err.Error()})
		return
	}

	receipt, err := h.submitter.Submit(r.Context(), order)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": validationErr.Error()})
			return
		}
		h.logger.Error("Failed to accept order", "order_id", order.OrderID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": internalErrorDetail})
		return
	}

	writeJSON(w, http.StatusAccepted, receipt)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
