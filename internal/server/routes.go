package server

import (
	"net/http"

	"household-ledger/internal/handlers"
	"household-ledger/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeHandlers struct {
	auth         *handlers.AuthHandler
	members      *handlers.MemberHandler
	categories   *handlers.CategoryHandler
	transactions *handlers.TransactionHandler
	reports      *handlers.ReportHandler
	health       *handlers.HealthCheckHandler
	requireAuth  echo.MiddlewareFunc
}

func registerRoutes(e *echo.Echo, h routeHandlers) {
	e.GET("/health", h.health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	api.GET("/setup", h.auth.SetupStatus)
	api.POST("/setup", h.auth.Setup)
	api.POST("/auth/login", h.auth.Login)
	// Logout succeeds even for tokens that no longer authenticate.
	api.POST("/auth/logout", h.auth.Logout)

	authed := api.Group("", h.requireAuth)
	authed.GET("/auth/session", h.auth.Session)
	authed.GET("/categories", h.categories.ListCategories)

	authed.GET("/transactions", h.transactions.ListTransactions)
	authed.POST("/transactions", h.transactions.CreateTransaction)
	authed.DELETE("/transactions/:id", h.transactions.DeleteTransaction)

	authed.GET("/dashboard", h.reports.Dashboard)
	authed.GET("/reports/overview", h.reports.Overview)
	authed.GET("/reports/export", h.reports.Export)

	members := authed.Group("/members", middleware.RequireAdmin())
	members.GET("", h.members.ListMembers)
	members.POST("", h.members.CreateMember)
	members.PUT("/:id/password", h.members.ResetPassword)
	members.DELETE("/:id", h.members.DeleteMember)
}

func corsMiddleware(origins []string) echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.TraceIDHeader},
		ExposeHeaders: []string{
			middleware.TraceIDHeader,
			echo.HeaderContentDisposition,
		},
	})
}
