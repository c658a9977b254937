package inventory

import (
	"fmt"

	"google.golang.org/grpc/codes"
)

// Error is the structured failure the adapter reports to the orchestrator.
// It carries the gRPC status code so the caller can log the underlying
// cause without importing grpc.
type Error struct {
	Op      string
	OrderID string
	Code    codes.Code
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("inventory %s for order %s failed: %s (%s)", e.Op, e.OrderID, e.Detail, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }
