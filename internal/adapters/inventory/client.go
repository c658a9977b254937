// Package inventory adapts saga intent to the inventory service's gRPC
// contract: reserve stock for an order, and release it again as the
// compensating action.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/utpbw/order-integration-service/internal/adapters/inventory/inventorypb"
	"github.com/utpbw/order-integration-service/internal/domain"
)

// DefaultCallTimeout bounds each unary call to the inventory service.
const DefaultCallTimeout = 5 * time.Second

// Client holds one logical channel to the inventory service for its
// lifetime. It is cheap to construct per saga; Close releases the channel.
type Client struct {
	conn        *grpc.ClientConn
	stub        inventorypb.InventoryServiceClient
	callTimeout time.Duration
	logger      *slog.Logger
}

type Option func(*Client)

// WithCallTimeout overrides the per-call deadline.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.callTimeout = d
	}
}

// WithLogHandler sets a custom log handler for the Client instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Client) {
		c.logger = slog.New(handler).WithGroup("inventory.Client")
	}
}

// NewClient opens a channel to the inventory service at addr.
func NewClient(addr string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("inventory service address cannot be empty")
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory channel: %w", err)
	}

	c := &Client{
		conn:        conn,
		stub:        inventorypb.NewInventoryServiceClient(conn),
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default().WithGroup("inventory.Client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromConn wraps an existing connection-like value. The caller
// keeps ownership of the connection; Close on the returned Client is a no-op.
func NewClientFromConn(cc grpc.ClientConnInterface, opts ...Option) *Client {
	c := &Client{
		stub:        inventorypb.NewInventoryServiceClient(cc),
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default().WithGroup("inventory.Client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReserveItems asks the inventory service to hold stock for the order.
// Item ordering is preserved verbatim on the wire.
func (c *Client) ReserveItems(ctx context.Context, orderID string, items []domain.OrderItem) (domain.Reservation, error) {
	req := &inventorypb.ReserveItemsRequest{
		OrderId: orderID,
		Items:   make([]*inventorypb.Item, 0, len(items)),
	}
	for _, item := range items {
		req.Items = append(req.Items, &inventorypb.Item{Sku: item.SKU, Quantity: item.Quantity})
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	resp, err := c.stub.ReserveItems(ctx, req)
	if err != nil {
		st := status.Convert(err)
		c.logger.Error("ReserveItems RPC failed",
			"order_id", orderID, "code", st.Code().String(), "detail", st.Message())
		return domain.Reservation{}, &Error{
			Op:      "ReserveItems",
			OrderID: orderID,
			Code:    st.Code(),
			Detail:  st.Message(),
			Err:     err,
		}
	}

	return domain.Reservation{
		ID:     resp.GetReservationId(),
		Status: reservationStatus(resp.GetStatus()),
	}, nil
}

// ReleaseItems frees the order's reservation. A failure here means the
// system needs an operator; it is logged at the highest severity and
// returned to the caller rather than swallowed.
func (c *Client) ReleaseItems(ctx context.Context, orderID string) error {
	c.logger.Info("Compensation: releasing reservation", "order_id", orderID)

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	_, err := c.stub.ReleaseItems(ctx, &inventorypb.ReleaseItemsRequest{OrderId: orderID})
	if err != nil {
		st := status.Convert(err)
		c.logger.Error("COMPENSATION FAILED: reservation not released",
			"order_id", orderID,
			"code", st.Code().String(),
			"detail", st.Message(),
			"manual_action_required", true)
		return &Error{
			Op:      "ReleaseItems",
			OrderID: orderID,
			Code:    st.Code(),
			Detail:  st.Message(),
			Err:     err,
		}
	}
	return nil
}

// Close releases the channel. Safe to call on a Client built from an
// external connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func reservationStatus(s inventorypb.ReservationStatus) domain.ReservationStatus {
	switch s {
	case inventorypb.ReservationStatus_RESERVED:
		return domain.ReservationReserved
	case inventorypb.ReservationStatus_OUT_OF_STOCK:
		return domain.ReservationOutOfStock
	case inventorypb.ReservationStatus_ITEM_NOT_FOUND:
		return domain.ReservationItemNotFound
	default:
		return domain.ReservationUnknown
	}
}
