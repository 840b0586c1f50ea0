package bootstrap

import (
	"github.com/YongHui-X/ecoplate-sub000/cmd/bootstrap/components"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/config"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/jwt"

	"go.uber.org/fx"
)

// Module assembles the whole application graph. Small providers live
// inline; anything with lifecycle hooks gets its own file.
var Module = fx.Options(
	fx.Provide(
		config.LoadConfig,
		// commands only need the engine constants, not the whole config
		func(cfg config.Config) config.EngineConfig { return cfg.Engine },
		func(cfg config.Config) *jwt.Service {
			return jwt.NewService(cfg.JWT.Secret, cfg.JWT.Duration)
		},
	),
	DBModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
	components.WorkerModule,
)
