package saga

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utpbw/order-integration-service/internal/domain"
	"github.com/utpbw/order-integration-service/internal/server/finitestate"
)

type runnerHarness struct {
	*harness
	runner *Runner
	siphon chan domain.Order

	mu       sync.Mutex
	outcomes []Outcome
}

func newRunnerHarness(t *testing.T) *runnerHarness {
	t.Helper()

	rh := &runnerHarness{
		harness: newHarness(t),
		siphon:  make(chan domain.Order, 8),
	}
	runner, err := NewRunner(rh.c, rh.siphon,
		WithRunnerLogHandler(slog.NewTextHandler(io.Discard, nil)),
		WithOutcomeObserver(func(o Outcome) {
			rh.mu.Lock()
			defer rh.mu.Unlock()
			rh.outcomes = append(rh.outcomes, o)
		}),
	)
	require.NoError(t, err)
	rh.runner = runner
	return rh
}

func (rh *runnerHarness) outcomeCount() int {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	return len(rh.outcomes)
}

func TestNewRunnerValidation(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	_, err := NewRunner(nil, make(chan domain.Order))
	assert.Error(t, err)

	_, err = NewRunner(h.c, nil)
	assert.Error(t, err)
}

func TestRunnerString(t *testing.T) {
	t.Parallel()
	rh := newRunnerHarness(t)
	assert.Equal(t, "saga.Runner", rh.runner.String())
}

func TestRunnerProcessesOrders(t *testing.T) {
	t.Parallel()
	rh := newRunnerHarness(t)

	errCh := make(chan error, 1)
	go func() {
		errCh <- rh.runner.Run(t.Context())
	}()

	assert.Eventually(t, rh.runner.IsRunning, time.Second, 10*time.Millisecond)

	rh.siphon <- testOrder()
	rh.siphon <- testOrder()

	assert.Eventually(t, func() bool {
		return rh.outcomeCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	rh.runner.Stop()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for runner to stop")
	}
	assert.Equal(t, finitestate.StatusStopped, rh.runner.GetState())
}

func TestRunnerConcurrentSagas(t *testing.T) {
	t.Parallel()
	rh := newRunnerHarness(t)

	go func() {
		_ = rh.runner.Run(t.Context())
	}()
	assert.Eventually(t, rh.runner.IsRunning, time.Second, 10*time.Millisecond)

	for i := range 10 {
		order := testOrder()
		order.OrderID = string(rune('a' + i))
		rh.siphon <- order
	}

	assert.Eventually(t, func() bool {
		return rh.outcomeCount() == 10
	}, 2*time.Second, 10*time.Millisecond)

	rh.runner.Stop()
}
