package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growth-intel/internal/actionlog"
	"growth-intel/internal/orgintel"
	"growth-intel/internal/shared/config"
	"growth-intel/internal/shared/metrics"
	"growth-intel/internal/shared/server/middleware"
	"growth-intel/internal/shared/server/respond"
	"growth-intel/internal/styleprofile"
)

// modelRateGroup names the bucket shared by every route that calls the model.
const modelRateGroup = "MODEL"

// RouterDeps carries the handlers wired by bootstrap. Nil handlers are skipped.
type RouterDeps struct {
	Config        config.Config
	OrgIntel      *orgintel.Handler
	StyleProfile  *styleprofile.Handler
	Actions       *actionlog.Handler
	RateLimiter   *middleware.RateLimiter
	HealthChecker func() error
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
	api.GET("/health", healthHandler(deps.HealthChecker))

	authed := api.Group("")
	authed.Use(middleware.Auth(deps.Config.Env))
	authed.GET("/me", meHandler)

	modelLimit := middleware.RateLimit(deps.RateLimiter, modelRateGroup, middleware.RateLimitRule{
		Rate:  deps.Config.ModelRateLimitRPS,
		Burst: deps.Config.ModelRateLimitBurst,
	})
	if deps.OrgIntel != nil {
		deps.OrgIntel.RegisterRoutes(authed, modelLimit)
	}
	if deps.StyleProfile != nil {
		deps.StyleProfile.RegisterRoutes(authed, modelLimit)
	}
	if deps.Actions != nil {
		deps.Actions.RegisterRoutes(authed)
	}

	return r
}

func healthHandler(check func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(); err != nil {
				respond.Error(c, http.StatusServiceUnavailable, "unhealthy", err.Error(), nil)
				return
			}
		}
		respond.OK(c, gin.H{"ok": true})
	}
}

func meHandler(c *gin.Context) {
	response := gin.H{"userId": middleware.UserIDFromContext(c)}
	if email := middleware.UserEmailFromContext(c); email != "" {
		response["email"] = email
	}
	respond.OK(c, response)
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
