package inventory

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/utpbw/order-integration-service/internal/adapters/inventory/inventorypb"
	"github.com/utpbw/order-integration-service/internal/domain"
)

// stubInventoryServer reproduces the mock inventory service's scenario
// triggers: SKUs containing OUT-OF-STOCK or NOT-FOUND select the matching
// non-success status.
type stubInventoryServer struct {
	inventorypb.UnimplementedInventoryServiceServer

	reserveCalls []string
	releaseCalls []string
	releaseErr   error
	block        time.Duration
}

func (s *stubInventoryServer) ReserveItems(ctx context.Context, req *inventorypb.ReserveItemsRequest) (*inventorypb.ReserveItemsResponse, error) {
	s.reserveCalls = append(s.reserveCalls, req.GetOrderId())
	if s.block > 0 {
		select {
		case <-time.After(s.block):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	for _, item := range req.GetItems() {
		if strings.Contains(item.GetSku(), "OUT-OF-STOCK") {
			return &inventorypb.ReserveItemsResponse{
				Status: inventorypb.ReservationStatus_OUT_OF_STOCK,
			}, nil
		}
		if strings.Contains(item.GetSku(), "NOT-FOUND") {
			return &inventorypb.ReserveItemsResponse{
				Status: inventorypb.ReservationStatus_ITEM_NOT_FOUND,
			}, nil
		}
	}
	return &inventorypb.ReserveItemsResponse{
		ReservationId: fmt.Sprintf("res-%s", req.GetOrderId()),
		Status:        inventorypb.ReservationStatus_RESERVED,
	}, nil
}

func (s *stubInventoryServer) ReleaseItems(ctx context.Context, req *inventorypb.ReleaseItemsRequest) (*inventorypb.ReleaseItemsResponse, error) {
	s.releaseCalls = append(s.releaseCalls, req.GetOrderId())
	if s.releaseErr != nil {
		return nil, s.releaseErr
	}
	return &inventorypb.ReleaseItemsResponse{Success: true}, nil
}

// newTestClient wires a Client to an in-process gRPC server over bufconn.
func newTestClient(t *testing.T, srv *stubInventoryServer, opts ...Option) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	grpcServer := grpc.NewServer()
	inventorypb.RegisterInventoryServiceServer(grpcServer, srv)

	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClientFromConn(conn, opts...)
}

func TestClientReserveItems(t *testing.T) {
	t.Parallel()

	items := []domain.OrderItem{{SKU: "A", Quantity: 2}, {SKU: "B", Quantity: 1}}

	t.Run("successful reservation", func(t *testing.T) {
		srv := &stubInventoryServer{}
		client := newTestClient(t, srv)

		res, err := client.ReserveItems(t.Context(), "o1", items)
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationReserved, res.Status)
		assert.Equal(t, "res-o1", res.ID)
		assert.Equal(t, []string{"o1"}, srv.reserveCalls)
	})

	t.Run("out of stock", func(t *testing.T) {
		srv := &stubInventoryServer{}
		client := newTestClient(t, srv)

		res, err := client.ReserveItems(t.Context(), "o2",
			[]domain.OrderItem{{SKU: "OUT-OF-STOCK-1", Quantity: 1}})
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationOutOfStock, res.Status)
	})

	t.Run("item not found", func(t *testing.T) {
		srv := &stubInventoryServer{}
		client := newTestClient(t, srv)

		res, err := client.ReserveItems(t.Context(), "o3",
			[]domain.OrderItem{{SKU: "SKU-NOT-FOUND", Quantity: 1}})
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationItemNotFound, res.Status)
	})

	t.Run("unknown status maps to unknown", func(t *testing.T) {
		assert.Equal(t, domain.ReservationUnknown,
			reservationStatus(inventorypb.ReservationStatus_RESERVATION_STATUS_UNSPECIFIED))
		assert.Equal(t, domain.ReservationUnknown, reservationStatus(99))
	})

	t.Run("deadline exceeded surfaces as adapter error", func(t *testing.T) {
		srv := &stubInventoryServer{block: 2 * time.Second}
		client := newTestClient(t, srv, WithCallTimeout(50*time.Millisecond))

		_, err := client.ReserveItems(t.Context(), "o4", items)
		require.Error(t, err)
		var advErr *Error
		require.ErrorAs(t, err, &advErr)
		assert.Equal(t, "ReserveItems", advErr.Op)
		assert.Equal(t, codes.DeadlineExceeded, advErr.Code)
	})
}

func TestClientReleaseItems(t *testing.T) {
	t.Parallel()

	t.Run("successful release", func(t *testing.T) {
		srv := &stubInventoryServer{}
		client := newTestClient(t, srv)

		require.NoError(t, client.ReleaseItems(t.Context(), "o1"))
		assert.Equal(t, []string{"o1"}, srv.releaseCalls)
	})

	t.Run("release failure is surfaced, not swallowed", func(t *testing.T) {
		srv := &stubInventoryServer{
			releaseErr: status.Error(codes.Unavailable, "inventory db down"),
		}
		client := newTestClient(t, srv)

		err := client.ReleaseItems(t.Context(), "o1")
		require.Error(t, err)
		var advErr *Error
		require.ErrorAs(t, err, &advErr)
		assert.Equal(t, "ReleaseItems", advErr.Op)
		assert.Equal(t, codes.Unavailable, advErr.Code)
		assert.Contains(t, advErr.Detail, "inventory db down")
	})
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("empty address rejected", func(t *testing.T) {
		_, err := NewClient("")
		assert.Error(t, err)
	})

	t.Run("lazy channel construction succeeds without server", func(t *testing.T) {
		client, err := NewClient("localhost:50051")
		require.NoError(t, err)
		assert.NoError(t, client.Close())
	})
}
