// Package intake accepts new orders from the OMS, validates them, and
// hands them to the saga runner without waiting for the workflow.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utpbw/order-integration-service/internal/domain"
)

// ErrQueueFull is returned when the order siphon cannot accept another
// order without blocking the caller.
var ErrQueueFull = errors.New("order queue is full")

// ValidationError wraps an order's validation failure so transport code
// can map it to a client-visible rejection.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid order: %v", e.Err) }
func (e *ValidationError) Unwrap() error { return e.Err }

// Receipt is what the submitting OMS gets back: an acknowledgment that
// processing was accepted, nothing about its eventual outcome.
type Receipt struct {
	ProcessingID string `json:"processingId"`
	OrderID      string `json:"orderId"`
	Status       string `json:"status"`
}

// acceptedStatus is the body text promised to the OMS contract.
const acceptedStatus = "Processing accepted"

// Submitter validates orders and enqueues them for background execution.
// Submit never blocks on workflow completion.
type Submitter struct {
	siphon chan<- domain.Order
	logger *slog.Logger
}

// NewSubmitter creates a Submitter feeding the given order siphon.
func NewSubmitter(siphon chan<- domain.Order, logger *slog.Logger) (*Submitter, error) {
	if siphon == nil {
		return nil, fmt.Errorf("order siphon cannot be nil")
	}
	if logger == nil {
		logger = slog.Default().WithGroup("intake.Submitter")
	}
	return &Submitter{siphon: siphon, logger: logger}, nil
}

// Submit validates the order and schedules its saga. A validation failure
// has no side effect on any external system. The send is non-blocking: a
// full siphon surfaces as ErrQueueFull instead of stalling the caller.
func (s *Submitter) Submit(ctx context.Context, order domain.Order) (Receipt, error) {
	if err := order.Validate(); err != nil {
		return Receipt{}, &ValidationError{Err: err}
	}

	select {
	case s.siphon <- order:
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	default:
		s.logger.Error("Order rejected: siphon full", "order_id", order.OrderID)
		return Receipt{}, ErrQueueFull
	}

	receipt := Receipt{
		ProcessingID: "proc-" + order.OrderID,
		OrderID:      order.OrderID,
		Status:       acceptedStatus,
	}
	s.logger.Info("Order accepted for background processing",
		"order_id", order.OrderID, "processing_id", receipt.ProcessingID)
	return receipt, nil
}
