package bootstrap

import (
	"context"

	"github.com/YongHui-X/ecoplate-sub000/internal/infra/db"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(newPool),
)

// newPool opens the pgx pool eagerly so a bad DSN fails the app at
// startup rather than on the first request.
func newPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			cleanup()
			return nil
		},
	})
	return pool, nil
}
