package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storagemanager/internal/core/apperror"
	"storagemanager/internal/infrastructure/http/v1/handlers"
	"storagemanager/internal/infrastructure/http/v1/middleware"
	"storagemanager/internal/infrastructure/metrics"
	"storagemanager/internal/services"
	"storagemanager/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Services are the wired domain services
	Services *services.Services

	// DB is pinged by the readiness check; nil for in-memory storage
	DB handlers.Pinger

	// Logger for request logging
	Logger *logger.Logger

	// Metrics enables request metrics and /metrics when set
	Metrics *metrics.Metrics
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(middleware.Trace())
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler(cfg.Logger))

	healthHandler := handlers.NewHealthHandler(cfg.DB)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		registerCatalogRoutes(v1, cfg.Services)
		registerDocumentRoutes(v1, cfg.Services)
		registerRegisterRoutes(v1, cfg.Services)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": apperror.CodeNotFound, "message": "route not found"})
	})

	return router
}

// registerCatalogRoutes registers reference data endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, svc *services.Services) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	RegisterCatalogRoutes(catalogs.Group("/resources"), handlers.NewResourceHandler(baseHandler, svc.Resources))
	RegisterCatalogRoutes(catalogs.Group("/measures"), handlers.NewMeasureHandler(baseHandler, svc.Measures))
	RegisterCatalogRoutes(catalogs.Group("/clients"), handlers.NewClientHandler(baseHandler, svc.Clients))
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, svc *services.Services) {
	docs := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	RegisterDocumentRoutes(docs.Group("/receipts"), handlers.NewReceiptHandler(baseHandler, svc.Receipts))
	RegisterDocumentRoutes(docs.Group("/shipments"), handlers.NewShipmentHandler(baseHandler, svc.Shipments))
}

// registerRegisterRoutes registers balance register endpoints.
func registerRegisterRoutes(rg *gin.RouterGroup, svc *services.Services) {
	registers := rg.Group("/registers")
	balanceHandler := handlers.NewBalanceHandler(handlers.NewBaseHandler(), svc.Balances)

	registers.GET("/balances", balanceHandler.List)
	registers.GET("/balances/export", balanceHandler.Export)
}
