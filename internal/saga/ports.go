package saga

import (
	"context"

	"github.com/utpbw/order-integration-service/internal/domain"
)

// InventoryPort is what the coordinator needs from the inventory adapter.
type InventoryPort interface {
	ReserveItems(ctx context.Context, orderID string, items []domain.OrderItem) (domain.Reservation, error)
	ReleaseItems(ctx context.Context, orderID string) error
	Close() error
}

// PaymentPort is what the coordinator needs from the payment adapter.
type PaymentPort interface {
	CreateCharge(ctx context.Context, orderID, token string, amountCents int64, currency string) (domain.ChargeResult, error)
	Close()
}

// ShipmentPort is what the coordinator needs from the shipment adapter.
type ShipmentPort interface {
	SendShipment(ctx context.Context, orderID string, items []domain.OrderItem) error
	Close() error
}

// Adapters supplies fresh adapter instances to each saga. Each constructor
// is invoked once per order; the coordinator closes whatever it opened on
// every exit path.
type Adapters struct {
	NewInventory func() (InventoryPort, error)
	NewPayment   func() (PaymentPort, error)
	NewShipment  func() (ShipmentPort, error)
}
