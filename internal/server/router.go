package server

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"benefitflow-backend/internal/intake"
	"benefitflow-backend/internal/query"
	"benefitflow-backend/internal/services/health"
	"benefitflow-backend/internal/shared/config"
	"benefitflow-backend/internal/shared/metrics"
	"benefitflow-backend/internal/shared/server/middleware"
	"benefitflow-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config        config.Config
	DB            *sql.DB
	IntakeHandler *intake.Handler
	QueryHandler  *query.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		metrics.HTTP(),
	)

	healthSvc := health.NewService(deps.DB)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	deps.IntakeHandler.RegisterRoutes(api)
	deps.QueryHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
