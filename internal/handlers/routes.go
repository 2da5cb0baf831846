package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobboard-web/internal/auth"
)

// RouterConfig carries what NewRouter needs besides the API.
type RouterConfig struct {
	Slots        auth.SlotFactory
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration
	CORSOrigins  []string

	// WorkspaceLimit and WorkspaceIdle bound the per-browser lists kept in
	// memory. Zero means the package defaults.
	WorkspaceLimit int
	WorkspaceIdle  time.Duration
}

// NewRouter builds the web server's routes.
func NewRouter(api API, cfg RouterConfig) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true // For development only
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", HealthCheck)

	workspaces := NewWorkspaces(api, cfg.WorkspaceLimit, cfg.WorkspaceIdle)
	authHandler := NewAuthHandler(api, workspaces)
	jobHandler := NewJobHandler(api, workspaces)

	web := r.Group("/", Session(cfg.Slots, cfg.CookieName, cfg.SessionTTL, cfg.CookieSecure))
	{
		web.GET("/me", authHandler.Me)
		web.POST("/login", authHandler.Login)
		web.POST("/signup", authHandler.Signup)
		web.POST("/logout", authHandler.Logout)

		// Public pages
		web.GET("/", jobHandler.Home)
		web.GET("/directory", jobHandler.Directory)
		web.GET("/jobs", jobHandler.Jobs)
		web.POST("/jobs/:id/feedback", jobHandler.Feedback)

		user := web.Group("/", RequireSession(false))
		user.POST("/add", jobHandler.CreateJob)

		admin := web.Group("/", RequireSession(true))
		admin.GET("/review", jobHandler.PendingJobs)
		admin.POST("/review/:id/decision", jobHandler.Decide)
		admin.POST("/review/:id/analyze", jobHandler.Reanalyze)
		admin.GET("/rejected", jobHandler.RejectedJobs)
		admin.POST("/rejected/:id/restore", jobHandler.Restore)
		admin.GET("/admin/companies", jobHandler.Companies)
		admin.POST("/admin/companies", jobHandler.CreateCompany)
		admin.DELETE("/admin/companies", jobHandler.DeleteCompany)
	}
	return r
}
