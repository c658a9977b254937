// Package inventorypb contains hand-maintained Go bindings for the
// inventory.v1 gRPC contract defined in protos/inventory.proto.
//
// The message types carry protobuf struct tags and satisfy the legacy
// message interface; the gRPC proto codec adapts them through protoadapt,
// deriving wire descriptors from the tags. Keep this file in sync with the
// .proto file when the contract changes.
package inventorypb

import "fmt"

// ReservationStatus mirrors inventory.v1.ReservationStatus.
type ReservationStatus int32

const (
	ReservationStatus_RESERVATION_STATUS_UNSPECIFIED ReservationStatus = 0
	ReservationStatus_RESERVED                       ReservationStatus = 1
	ReservationStatus_OUT_OF_STOCK                   ReservationStatus = 2
	ReservationStatus_ITEM_NOT_FOUND                 ReservationStatus = 3
)

var ReservationStatus_name = map[int32]string{
	0: "RESERVATION_STATUS_UNSPECIFIED",
	1: "RESERVED",
	2: "OUT_OF_STOCK",
	3: "ITEM_NOT_FOUND",
}

func (x ReservationStatus) String() string {
	if name, ok := ReservationStatus_name[int32(x)]; ok {
		return name
	}
	return fmt.Sprintf("ReservationStatus(%d)", int32(x))
}

// Item is a single order line on the wire.
type Item struct {
	Sku      string `protobuf:"bytes,1,opt,name=sku,proto3" json:"sku,omitempty"`
	Quantity int32  `protobuf:"varint,2,opt,name=quantity,proto3" json:"quantity,omitempty"`
}

func (x *Item) Reset()         { *x = Item{} }
func (x *Item) String() string { return fmt.Sprintf("sku:%q quantity:%d", x.Sku, x.Quantity) }
func (*Item) ProtoMessage()    {}

func (x *Item) GetSku() string {
	if x != nil {
		return x.Sku
	}
	return ""
}

func (x *Item) GetQuantity() int32 {
	if x != nil {
		return x.Quantity
	}
	return 0
}

type ReserveItemsRequest struct {
	OrderId string  `protobuf:"bytes,1,opt,name=order_id,json=orderId,proto3" json:"order_id,omitempty"`
	Items   []*Item `protobuf:"bytes,2,rep,name=items,proto3" json:"items,omitempty"`
}

func (x *ReserveItemsRequest) Reset() { *x = ReserveItemsRequest{} }
func (x *ReserveItemsRequest) String() string {
	return fmt.Sprintf("order_id:%q items:%d", x.OrderId, len(x.Items))
}
func (*ReserveItemsRequest) ProtoMessage() {}

func (x *ReserveItemsRequest) GetOrderId() string {
	if x != nil {
		return x.OrderId
	}
	return ""
}

func (x *ReserveItemsRequest) GetItems() []*Item {
	if x != nil {
		return x.Items
	}
	return nil
}

type ReserveItemsResponse struct {
	ReservationId string            `protobuf:"bytes,1,opt,name=reservation_id,json=reservationId,proto3" json:"reservation_id,omitempty"`
	Status        ReservationStatus `protobuf:"varint,2,opt,name=status,proto3,enum=inventory.v1.ReservationStatus" json:"status,omitempty"`
}

func (x *ReserveItemsResponse) Reset() { *x = ReserveItemsResponse{} }
func (x *ReserveItemsResponse) String() string {
	return fmt.Sprintf("reservation_id:%q status:%s", x.ReservationId, x.Status)
}
func (*ReserveItemsResponse) ProtoMessage() {}

func (x *ReserveItemsResponse) GetReservationId() string {
	if x != nil {
		return x.ReservationId
	}
	return ""
}

func (x *ReserveItemsResponse) GetStatus() ReservationStatus {
	if x != nil {
		return x.Status
	}
	return ReservationStatus_RESERVATION_STATUS_UNSPECIFIED
}

type ReleaseItemsRequest struct {
	OrderId string `protobuf:"bytes,1,opt,name=order_id,json=orderId,proto3" json:"order_id,omitempty"`
}

func (x *ReleaseItemsRequest) Reset()         { *x = ReleaseItemsRequest{} }
func (x *ReleaseItemsRequest) String() string { return fmt.Sprintf("order_id:%q", x.OrderId) }
func (*ReleaseItemsRequest) ProtoMessage()    {}

func (x *ReleaseItemsRequest) GetOrderId() string {
	if x != nil {
		return x.OrderId
	}
	return ""
}

type ReleaseItemsResponse struct {
	Success bool `protobuf:"varint,1,opt,name=success,proto3" json:"success,omitempty"`
}

func (x *ReleaseItemsResponse) Reset()         { *x = ReleaseItemsResponse{} }
func (x *ReleaseItemsResponse) String() string { return fmt.Sprintf("success:%v", x.Success) }
func (*ReleaseItemsResponse) ProtoMessage()    {}

func (x *ReleaseItemsResponse) GetSuccess() bool {
	if x != nil {
		return x.Success
	}
	return false
}
