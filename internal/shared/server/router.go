package server

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvai-core/internal/analyses"
	"cvai-core/internal/cvs"
	"cvai-core/internal/profile"
	"cvai-core/internal/services/health"
	"cvai-core/internal/shared/config"
	"cvai-core/internal/shared/metrics"
	"cvai-core/internal/shared/server/middleware"
	"cvai-core/internal/shared/server/respond"
)

// RouterDeps holds the handlers mounted under /api/v1.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	CVHandler       *cvs.Handler
	ProfileHandler  *profile.Handler
	AnalysisHandler *analyses.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		st := deps.Health.Check(c.Request.Context())
		if !st.OK {
			respond.JSON(c, http.StatusServiceUnavailable, st)
			return
		}
		respond.OK(c, st)
	})
	if deps.CVHandler != nil {
		deps.CVHandler.RegisterRoutes(api)
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}

	return r
}

// Addr joins the bind host and port into a listen address.
func Addr(host, port string) string {
	port = strings.TrimPrefix(strings.TrimSpace(port), ":")
	if port == "" {
		port = "8080"
	}
	return net.JoinHostPort(strings.TrimSpace(host), port)
}
