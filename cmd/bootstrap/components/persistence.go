package components

import (
	"github.com/YongHui-X/ecoplate-sub000/internal/infra/readstore"
	"github.com/YongHui-X/ecoplate-sub000/internal/infra/repository"
	"github.com/YongHui-X/ecoplate-sub000/internal/infra/uow"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/queries"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork owns the write-side repositories; they bind to the
		// transaction inside Within.
		uow.NewPostgresUoW,
		// Notifications are written outside the order transaction by the
		// dispatcher, so the repository binds to the pool directly.
		fx.Annotate(
			repository.NewNotificationRepository,
			fx.As(new(shared.NotificationRepository)),
		),
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
		fx.Annotate(
			readstore.NewLockerReadStore,
			fx.As(new(queries.LockerReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) repository.DBTX {
	return pool
}
