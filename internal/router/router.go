// Package router assembles the gin engine: middleware chain, HTML renderer
// and the route table.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"rakitin/internal/handlers"
	"rakitin/internal/logging"
	"rakitin/internal/middleware"
	"rakitin/internal/session"
	"rakitin/internal/view"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Pages   *handlers.PageHandler
	Stock   *handlers.StockHandler
	Tools   *handlers.ToolHandler
	Designs *handlers.DesignHandler
	Orders  *handlers.OrderHandler
	Reports *handlers.ReportHandler
}

func New(h Handlers, sessions *session.Manager, renderer *view.Renderer, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.HTMLRender = renderer

	router.Use(logging.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(sessions.Middleware())

	router.NoRoute(middleware.NotFound)

	router.GET("/health", handlers.HealthHandler)

	router.GET("/", h.Auth.Index)
	router.GET("/login", h.Auth.LoginPage)
	router.POST("/login", h.Auth.Login)
	router.GET("/register", h.Auth.RegisterPage)
	router.POST("/register", h.Auth.Register)
	router.GET("/logout", h.Auth.Logout)

	for _, page := range handlers.Pages() {
		router.GET("/"+page, h.Pages.View(page))
	}
	router.GET("/laporan/export", h.Reports.Export)

	api := router.Group("/api")
	api.POST("/tambah_stok", h.Stock.Create)
	api.POST("/edit_stok", h.Stock.Update)
	api.POST("/tambah_alat", h.Tools.Create)
	api.POST("/edit_alat", h.Tools.Update)
	api.POST("/tambah_desain", h.Designs.Create)
	api.POST("/edit_desain", h.Designs.Update)
	api.POST("/update_status_desain", h.Designs.UpdateStatus)
	api.POST("/update_status", h.Orders.UpdateStatus)

	return router
}
