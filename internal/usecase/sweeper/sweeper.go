package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/commands"
)

// Sweeper converts elapsed wall-clock time into expire transitions. It is
// the only component that does so; request handlers never expire orders.
type Sweeper struct {
	orders   commands.OrderCommands
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func New(orders commands.OrderCommands, interval time.Duration) *Sweeper {
	return &Sweeper{
		orders:   orders,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run loops until Stop or context cancellation. Each pass is independent;
// an error aborts the pass, not the loop.
func (s *Sweeper) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.orders.ExpireDue(ctx)
	if err != nil {
		slog.Error("expiry sweep failed", "expired", expired, "error", err.Error())
		return
	}
	if expired > 0 {
		slog.Info("expiry sweep released overdue reservations", "expired", expired)
	}
}
