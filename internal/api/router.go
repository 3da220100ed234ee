package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/lpr/internal/api/handlers"
	"github.com/your-org/lpr/internal/api/ws"
	"github.com/your-org/lpr/internal/audit"
	"github.com/your-org/lpr/internal/auth"
	"github.com/your-org/lpr/internal/cache"
	"github.com/your-org/lpr/internal/queue"
	"github.com/your-org/lpr/internal/search"
	"github.com/your-org/lpr/internal/storage"
	"github.com/your-org/lpr/internal/verify"
)

type RouterConfig struct {
	Issuer    *auth.TokenIssuer
	DB        *storage.PostgresStore
	MinIO     *storage.MinIOStore
	Producer  *queue.Producer
	Cache     *cache.Partitions
	Engine    *search.Engine
	Machine   *verify.Machine
	Formatter *search.Formatter
	Audit     *audit.Logger
	Hub       *ws.Hub
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth endpoints (no bearer token yet)
	authH := handlers.NewAuthHandler(cfg.DB, cfg.Issuer, cfg.Audit)
	r.POST("/v1/auth/signup", authH.Signup)
	r.POST("/v1/auth/login", authH.Login)
	r.POST("/v1/auth/refresh", authH.Refresh)

	// WebSocket (browsers can't set Authorization on upgrade requests)
	r.GET("/v1/ws", cfg.Hub.HandleWS)

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.RequireAuth(cfg.Issuer))

	v1.POST("/auth/logout", authH.Logout)
	v1.GET("/auth/me", authH.Me)
	v1.PATCH("/auth/role", auth.RequireAdmin(), authH.UpdateRole)

	// Plates
	plateH := handlers.NewPlateHandler(cfg.DB, cfg.Cache, cfg.Engine, cfg.Machine, cfg.Formatter, cfg.Audit)
	v1.GET("/plates", plateH.List)
	v1.GET("/plates/:plate", plateH.GetByNumber)
	v1.POST("/plates", plateH.Add)
	v1.PATCH("/plates/:plate", plateH.Edit)
	v1.DELETE("/plates/:plate", auth.RequireAdmin(), plateH.Delete)
	v1.POST("/search", plateH.Search)

	// Candidates (operator review)
	candH := handlers.NewCandidateHandler(cfg.DB, cfg.Machine, cfg.Formatter)
	v1.GET("/candidates", auth.RequireAdmin(), candH.List)
	v1.GET("/candidates/:id", candH.Get)
	v1.PATCH("/candidates/:id", candH.Edit)
	v1.POST("/candidates/:id/verify", candH.Verify)
	v1.POST("/candidates/:id/reject", candH.Reject)

	// Evidence images
	imageH := handlers.NewImageHandler(cfg.DB, cfg.MinIO)
	v1.POST("/candidates/:id/images", imageH.Upload)
	v1.GET("/images/:id", imageH.Get)
	v1.DELETE("/images/:id", auth.RequireAdmin(), imageH.Delete)

	// Cameras
	cameraH := handlers.NewCameraHandler(cfg.DB, cfg.Cache, cfg.Audit)
	v1.GET("/cameras", cameraH.List)
	v1.POST("/cameras", auth.RequireAdmin(), cameraH.Create)

	// Watchlist & alerts
	watchH := handlers.NewWatchlistHandler(cfg.DB, cfg.Cache, cfg.Audit)
	v1.GET("/watchlist", watchH.List)
	v1.POST("/watchlist", watchH.Add)
	v1.DELETE("/watchlist/:id", watchH.Delete)
	v1.GET("/alerts", watchH.ListAlerts)

	// Activity log (admin)
	activityH := handlers.NewActivityHandler(cfg.DB)
	v1.GET("/activity", auth.RequireAdmin(), activityH.List)

	return r
}
