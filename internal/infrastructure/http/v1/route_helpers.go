// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	ListActive(c *gin.Context)
	ListArchived(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	ToggleState(c *gin.Context)
	Delete(c *gin.Context)
}

// DocumentRouteHandler defines the interface for document handlers.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Numbers(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes registers standard routes for a catalog.
//
// Usage:
//
//	handler := handlers.NewMeasureHandler(baseHandler, svc.Measures)
//	RegisterCatalogRoutes(catalogs.Group("/measures"), handler)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.POST("", handler.Create)
	group.GET("/active", handler.ListActive)
	group.GET("/archived", handler.ListArchived)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.POST("/:id/state", handler.ToggleState)
	group.DELETE("/:id", handler.Delete)
}

// RegisterDocumentRoutes registers standard routes for a document type.
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/numbers", handler.Numbers)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}
