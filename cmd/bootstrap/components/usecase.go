package components

import (
	"github.com/YongHui-X/ecoplate-sub000/internal/infra/extern"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/clock"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/commands"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/notify"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/queries"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	extern.NewLogPushTransport,
	extern.NewLocalGamificationService,
	notify.NewDispatcher,
	func(d *notify.Dispatcher) shared.TransitionNotifier { return d },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewOrderCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewLockerQueries,
		queries.NewNotificationQueries,
	),
)
