// Package config loads the integrator's runtime configuration from an
// optional TOML file plus environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variable names honored as overrides. The file, when present,
// sets the base values; the environment wins.
const (
	EnvInventoryURL   = "INVENTORY_SERVICE_URL"
	EnvPaymentURL     = "PAYMENT_SERVICE_URL"
	EnvRabbitMQHost   = "RABBITMQ_HOST"
	EnvBrokerUsername = "RABBITMQ_USERNAME"
	EnvBrokerPassword = "RABBITMQ_PASSWORD"
	EnvIntakeListen   = "INTAKE_LISTEN_ADDR"
)

var ErrEmptyConfig = errors.New("configuration must not be empty")

// Inventory configures the gRPC inventory adapter.
type Inventory struct {
	// Addr is a host:port gRPC target.
	Addr string `toml:"addr"`
	// CallTimeout bounds each unary call.
	CallTimeout time.Duration `toml:"-"`
}

// Payment configures the HTTP payment adapter.
type Payment struct {
	BaseURL        string        `toml:"base_url"`
	ConnectTimeout time.Duration `toml:"-"`
	ReadTimeout    time.Duration `toml:"-"`
}

// Broker configures both AMQP surfaces: the shipment publisher and the
// status consumer.
type Broker struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	// Heartbeat applies to the publisher connection.
	Heartbeat time.Duration `toml:"-"`
	// ReconnectDelay is the status consumer's backoff after a broker loss.
	ReconnectDelay time.Duration `toml:"-"`
	ShipmentQueue  string        `toml:"shipment_queue"`
	StatusQueue    string        `toml:"status_queue"`
}

// Intake configures the HTTP intake listener.
type Intake struct {
	ListenAddr string `toml:"listen_addr"`
	// QueueDepth bounds the in-memory order siphon between the intake
	// port and the saga runner.
	QueueDepth int `toml:"queue_depth"`
}

// Config is the fully resolved runtime configuration.
type Config struct {
	Inventory Inventory `toml:"inventory"`
	Payment   Payment   `toml:"payment"`
	Broker    Broker    `toml:"broker"`
	Intake    Intake    `toml:"intake"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	return &Config{
		Inventory: Inventory{
			Addr:        "inventory_service:50051",
			CallTimeout: 5 * time.Second,
		},
		Payment: Payment{
			BaseURL:        "http://payment_service:8001",
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    8 * time.Second,
		},
		Broker: Broker{
			Host:           "localhost",
			Port:           5672,
			Username:       "shopag",
			Password:       "shopag",
			Heartbeat:      60 * time.Second,
			ReconnectDelay: 10 * time.Second,
			ShipmentQueue:  "wms.orders.new",
			StatusQueue:    "wms.status.updates",
		},
		Intake: Intake{
			ListenAddr: ":8000",
			QueueDepth: 64,
		},
	}
}

// Load resolves the configuration: defaults, then the TOML file at path
// (when non-empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if len(data) == 0 {
			return nil, ErrEmptyConfig
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvInventoryURL); v != "" {
		c.Inventory.Addr = v
	}
	if v := os.Getenv(EnvPaymentURL); v != "" {
		c.Payment.BaseURL = v
	}
	if v := os.Getenv(EnvRabbitMQHost); v != "" {
		c.Broker.Host = v
	}
	if v := os.Getenv(EnvBrokerUsername); v != "" {
		c.Broker.Username = v
	}
	if v := os.Getenv(EnvBrokerPassword); v != "" {
		c.Broker.Password = v
	}
	if v := os.Getenv(EnvIntakeListen); v != "" {
		c.Intake.ListenAddr = v
	}
}

// Validate reports configuration values the process cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Inventory.Addr == "" {
		errs = append(errs, errors.New("inventory addr must not be empty"))
	}
	if c.Inventory.CallTimeout <= 0 {
		errs = append(errs, errors.New("inventory call_timeout must be positive"))
	}
	if c.Payment.BaseURL == "" {
		errs = append(errs, errors.New("payment base_url must not be empty"))
	} else if _, err := url.Parse(c.Payment.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("payment base_url is not a valid URL: %w", err))
	}
	if c.Broker.Host == "" {
		errs = append(errs, errors.New("broker host must not be empty"))
	}
	if c.Broker.ShipmentQueue == "" || c.Broker.StatusQueue == "" {
		errs = append(errs, errors.New("broker queue names must not be empty"))
	}
	if c.Intake.QueueDepth <= 0 {
		errs = append(errs, errors.New("intake queue_depth must be positive"))
	}
	return errors.Join(errs...)
}

// AMQPURL builds the broker dial URL from host, port, and credentials.
func (c *Config) AMQPURL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.Broker.Username, c.Broker.Password),
		Host:   fmt.Sprintf("%s:%d", c.Broker.Host, c.Broker.Port),
		Path:   "/",
	}
	return u.String()
}
