package sweeper_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/order"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/errs"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/commands"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/sweeper"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCommands only answers ExpireDue; the sweeper never calls anything
// else.
type stubCommands struct {
	calls atomic.Int64
	err   error
	tick  chan struct{}
}

func (s *stubCommands) ExpireDue(context.Context) (int, error) {
	s.calls.Add(1)
	select {
	case s.tick <- struct{}{}:
	default:
	}
	if s.err != nil {
		return 0, s.err
	}
	return 1, nil
}

func (s *stubCommands) Reserve(context.Context, commands.ReserveParams, uuid.UUID) (*commands.ReserveResult, error) {
	panic("not used")
}

func (s *stubCommands) Pay(context.Context, int64, int64) (*order.Order, error) {
	panic("not used")
}

func (s *stubCommands) SchedulePickup(context.Context, int64, int64, time.Time) (*order.Order, error) {
	panic("not used")
}

func (s *stubCommands) ConfirmPickup(context.Context, int64, int64) (*order.Order, error) {
	panic("not used")
}

func (s *stubCommands) DeliverToLocker(context.Context, int64) (*order.Order, error) {
	panic("not used")
}

func (s *stubCommands) VerifyPin(context.Context, int64, int64, string) (*order.Order, error) {
	panic("not used")
}

func (s *stubCommands) Cancel(context.Context, int64, int64, string) (*order.Order, error) {
	panic("not used")
}

func waitForTicks(t *testing.T, tick <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-tick:
		case <-time.After(2 * time.Second):
			t.Fatalf("sweep %d never ran", i+1)
		}
	}
}

func TestSweeperRunsPeriodically(t *testing.T) {
	stub := &stubCommands{tick: make(chan struct{}, 16)}
	s := sweeper.New(stub, 5*time.Millisecond)

	go s.Run(context.Background())
	waitForTicks(t, stub.tick, 3)
	s.Stop()

	require.GreaterOrEqual(t, stub.calls.Load(), int64(3))
}

func TestSweeperStopsCleanly(t *testing.T) {
	stub := &stubCommands{tick: make(chan struct{}, 16)}
	s := sweeper.New(stub, 5*time.Millisecond)

	go s.Run(context.Background())
	waitForTicks(t, stub.tick, 1)
	s.Stop() // blocks until the loop exited

	settled := stub.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, stub.calls.Load())
}

func TestSweeperSurvivesSweepErrors(t *testing.T) {
	stub := &stubCommands{tick: make(chan struct{}, 16), err: errs.New("db down")}
	s := sweeper.New(stub, 5*time.Millisecond)

	go s.Run(context.Background())
	// keeps looping despite every pass failing
	waitForTicks(t, stub.tick, 3)
	s.Stop()
}

func TestSweeperHonorsContext(t *testing.T) {
	stub := &stubCommands{tick: make(chan struct{}, 16)}
	s := sweeper.New(stub, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	waitForTicks(t, stub.tick, 1)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not exit on context cancellation")
	}
}
