// Package http assembles the gin router and the server lifecycle.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/medequity/pharmarisk/internal/application/analysis"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/prometheus"
	"github.com/medequity/pharmarisk/internal/interfaces/http/handlers"
	"github.com/medequity/pharmarisk/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Service analysis.Service
	Metrics *prometheus.Metrics
	Logger  logging.Logger
	Pingers map[string]handlers.Pinger
	Mode    string
}

// NewRouter builds the gin engine with all routes and middleware mounted.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	health := handlers.NewHealthHandler(deps.Pingers)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	ah := handlers.NewAnalysisHandler(deps.Service)
	v1 := r.Group("/api/v1")
	{
		companies := v1.Group("/companies/:ticker")
		companies.GET("/risk", ah.GetRisk)
		companies.GET("/approvals", ah.GetApprovals)
		companies.GET("/patent-cliffs", ah.GetPatentCliffs)
		companies.GET("/impact", ah.GetImpact)
		companies.GET("/alerts", ah.GetAlerts)
		companies.GET("/dashboard", ah.GetDashboard)
	}
	return r
}
