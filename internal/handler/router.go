package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/YongHui-X/ecoplate-sub000/internal/handler/api"
	"github.com/YongHui-X/ecoplate-sub000/internal/handler/middleware"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	orderHandler *api.OrderHandler,
	lockerHandler *api.LockerHandler,
	notificationHandler *api.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, orderHandler, lockerHandler, notificationHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	orderHandler *api.OrderHandler,
	lockerHandler *api.LockerHandler,
	notificationHandler *api.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		orders := apiGroup.Group("/orders")
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: orderHandler.Reserve},
				{Method: http.MethodGet, Path: "", Handler: orderHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: orderHandler.Get},
				{Method: http.MethodPost, Path: "/:id/pay", Handler: orderHandler.Pay},
				{Method: http.MethodPost, Path: "/:id/schedule", Handler: orderHandler.Schedule},
				{Method: http.MethodPost, Path: "/:id/confirm-pickup", Handler: orderHandler.ConfirmPickup},
				{Method: http.MethodPost, Path: "/:id/deliver", Handler: orderHandler.Deliver},
				{Method: http.MethodPost, Path: "/:id/verify-pin", Handler: orderHandler.VerifyPin},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: orderHandler.Cancel},
			})
		}

		lockers := apiGroup.Group("/lockers")
		{
			addRoutes(lockers, []route{
				{Method: http.MethodGet, Path: "", Handler: lockerHandler.List},
				{Method: http.MethodGet, Path: "/nearby", Handler: lockerHandler.ListNearby},
			})
		}

		notifications := apiGroup.Group("/notifications")
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: notificationHandler.List},
				{Method: http.MethodPatch, Path: "/:id/read", Handler: notificationHandler.MarkRead},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, r.Handler)
		case http.MethodPost:
			g.POST(r.Path, r.Handler)
		case http.MethodPut:
			g.PUT(r.Path, r.Handler)
		case http.MethodPatch:
			g.PATCH(r.Path, r.Handler)
		case http.MethodDelete:
			g.DELETE(r.Path, r.Handler)
		default:
			g.Any(r.Path, r.Handler)
		}
	}
}
