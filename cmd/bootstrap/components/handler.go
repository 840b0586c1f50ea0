package components

import (
	"github.com/YongHui-X/ecoplate-sub000/internal/handler"
	"github.com/YongHui-X/ecoplate-sub000/internal/handler/api"
	"github.com/YongHui-X/ecoplate-sub000/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewLockerHandler,
		api.NewNotificationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
