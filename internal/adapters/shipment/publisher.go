// Package shipment publishes durable shipment instructions to the WMS
// order queue over AMQP.
package shipment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/utpbw/order-integration-service/internal/domain"
)

const (
	// DefaultQueue is the WMS inbound order queue.
	DefaultQueue = "wms.orders.new"
	// DefaultHeartbeat keeps the broker connection alive across idle spans.
	DefaultHeartbeat = 60 * time.Second
)

// Publisher owns one broker connection and channel. If the connection is
// closed when a publish is requested, it reconnects on demand first.
// Channel use is serialized; brokers do not permit concurrent publishes
// on one channel.
type Publisher struct {
	url       string
	queue     string
	heartbeat time.Duration
	logger    *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel

	nowUTC func() time.Time
}

type Option func(*Publisher)

// WithQueue overrides the destination queue name.
func WithQueue(name string) Option {
	return func(p *Publisher) {
		p.queue = name
	}
}

// WithHeartbeat overrides the connection heartbeat interval.
func WithHeartbeat(d time.Duration) Option {
	return func(p *Publisher) {
		p.heartbeat = d
	}
}

// WithLogHandler sets a custom log handler for the Publisher instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(p *Publisher) {
		p.logger = slog.New(handler).WithGroup("shipment.Publisher")
	}
}

// NewPublisher connects to the broker at url and declares the queue.
func NewPublisher(url string, opts ...Option) (*Publisher, error) {
	p := &Publisher{
		url:       url,
		queue:     DefaultQueue,
		heartbeat: DefaultHeartbeat,
		logger:    slog.Default().WithGroup("shipment.Publisher"),
		nowUTC:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect dials the broker and declares the destination queue. Caller must
// hold p.mu or be the constructor.
func (p *Publisher) connect() error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Heartbeat: p.heartbeat})
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open broker channel: %w", err)
	}

	// Durable so instructions survive a broker restart, matching the
	// persistent delivery mode on each message.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to declare queue %s: %w", p.queue, err)
	}

	p.conn = conn
	p.ch = ch
	p.logger.Info("Connected to broker", "queue", p.queue)
	return nil
}

// SendShipment publishes a shipment instruction for the order. Failures
// are returned to the caller; the orchestrator decides what they mean.
func (p *Publisher) SendShipment(ctx context.Context, orderID string, items []domain.OrderItem) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		p.logger.Warn("Broker connection closed, reconnecting before publish", "order_id", orderID)
		if err := p.connect(); err != nil {
			return err
		}
	}

	instruction := NewInstruction(orderID, items, p.nowUTC())
	body, err := json.Marshal(instruction)
	if err != nil {
		return fmt.Errorf("failed to encode shipment instruction: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		p.logger.Error("Failed to publish shipment instruction",
			"order_id", orderID, "queue", p.queue, "error", err)
		return fmt.Errorf("failed to publish shipment instruction for order %s: %w", orderID, err)
	}

	p.logger.Info("Shipment instruction published",
		"order_id", orderID, "instruction_id", instruction.InstructionID)
	return nil
}

// Close releases the channel and connection. Safe to call more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	return p.conn.Close()
}
