package components

import (
	"context"

	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/config"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/commands"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/sweeper"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(runSweeper),
)

func NewSweeper(cmds commands.OrderCommands, cfg config.EngineConfig) *sweeper.Sweeper {
	return sweeper.New(cmds, cfg.SweepInterval)
}

func runSweeper(lc fx.Lifecycle, s *sweeper.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Not the fx start context; the sweeper outlives startup and is
			// shut down through Stop.
			go s.Run(context.Background())
			return nil
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
}
