package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/utpbw/order-integration-service/internal/domain"
	"github.com/utpbw/order-integration-service/internal/server/finitestate"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// Runner hosts the intake HTTP listener as a supervised runnable. It wraps
// the go-supervisor httpserver runnable with the intake routes.
type Runner struct {
	listenAddr string
	server     *httpserver.Runner
	logger     *slog.Logger
}

type RunnerOption func(*runnerSettings)

type runnerSettings struct {
	logger *slog.Logger
}

// WithRunnerLogHandler sets a custom log handler for the Runner instance.
func WithRunnerLogHandler(handler slog.Handler) RunnerOption {
	return func(s *runnerSettings) {
		s.logger = slog.New(handler).WithGroup("intake.Runner")
	}
}

// NewRunner creates the intake listener on listenAddr, feeding validated
// orders into siphon.
func NewRunner(listenAddr string, siphon chan<- domain.Order, opts ...RunnerOption) (*Runner, error) {
	if listenAddr == "" {
		return nil, fmt.Errorf("listen address cannot be empty")
	}

	settings := &runnerSettings{
		logger: slog.Default().WithGroup("intake.Runner"),
	}
	for _, opt := range opts {
		opt(settings)
	}

	submitter, err := NewSubmitter(siphon, settings.logger.WithGroup("submitter"))
	if err != nil {
		return nil, err
	}
	handler := NewHandler(submitter, settings.logger.WithGroup("handler"))

	ordersRoute, err := httpserver.NewRouteFromHandlerFunc("orders", "/v1/orders", handler.SubmitOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to create orders route: %w", err)
	}
	healthRoute, err := httpserver.NewRouteFromHandlerFunc("health", "/health", handler.Health)
	if err != nil {
		return nil, fmt.Errorf("failed to create health route: %w", err)
	}
	routes := httpserver.Routes{*ordersRoute, *healthRoute}

	configCallback := func() (*httpserver.Config, error) {
		return httpserver.NewConfig(listenAddr, routes)
	}
	server, err := httpserver.NewRunner(httpserver.WithConfigCallback(configCallback))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server runner: %w", err)
	}

	return &Runner{
		listenAddr: listenAddr,
		server:     server,
		logger:     settings.logger,
	}, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return fmt.Sprintf("intake.Runner[%s]", r.listenAddr)
}

// Run implements the supervisor.Runnable interface
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Starting intake listener", "address", r.listenAddr)
	return r.server.Run(ctx)
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Info("Stopping intake listener", "address", r.listenAddr)
	r.server.Stop()
}

// GetState implements the supervisor.Stateable interface
func (r *Runner) GetState() string {
	return r.server.GetState()
}

// GetStateChan implements the supervisor.Stateable interface
func (r *Runner) GetStateChan(ctx context.Context) <-chan string {
	return r.server.GetStateChan(ctx)
}

// IsRunning implements the supervisor.Stateable interface
func (r *Runner) IsRunning() bool {
	return r.server.GetState() == finitestate.StatusRunning
}
