package shipment

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/utpbw/order-integration-service/internal/domain"
)

// timestampLayout is UTC ISO-8601 with a literal Z, second precision.
const timestampLayout = "2006-01-02T15:04:05Z"

// Address is the shipping destination carried on a shipment instruction.
// The integration layer currently has no address source; the placeholder
// payload below stands in until the OMS contract provides one.
type Address struct {
	Name   string `json:"name"`
	Street string `json:"street"`
}

var placeholderAddress = Address{Name: "Max Mustermann", Street: "Testweg 1"}

// Instruction is the JSON message published to the WMS order queue.
type Instruction struct {
	InstructionID        string             `json:"instructionId"`
	OrderID              string             `json:"orderId"`
	InstructionTimestamp string             `json:"instructionTimestamp"`
	Items                []domain.OrderItem `json:"items"`
	ShippingAddress      Address            `json:"shippingAddress"`
}

// NewInstruction builds a shipment instruction with a fresh instruction ID.
// The ID identifies this publish, not the order; a retried publish gets a
// new one. Item ordering is preserved verbatim.
func NewInstruction(orderID string, items []domain.OrderItem, now time.Time) Instruction {
	return Instruction{
		InstructionID:        uuid.Must(uuid.NewV4()).String(),
		OrderID:              orderID,
		InstructionTimestamp: now.UTC().Format(timestampLayout),
		Items:                items,
		ShippingAddress:      placeholderAddress,
	}
}
