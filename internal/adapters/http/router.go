package http

import (
	"context"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/healbridge/consult/internal/adapters/signal"
	"github.com/healbridge/consult/internal/app"
	"github.com/healbridge/consult/internal/config"
	"github.com/healbridge/consult/internal/store"
)

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator, mirror store.PresenceMirror, st store.ConsultationStore) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	sessionStore := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ConsultSessions", sessionStore))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	limiter := signal.NewRequestRateLimiter(5, time.Minute)
	ctrl := signal.NewSignalWSController(orch, limiter, cfg)
	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	rest := &API{Orch: orch, Mirror: mirror, Store: st, STUNURLs: cfg.STUNURLs}
	api.GET("/rtc/config", rest.handleRTCConfig)
	api.GET("/consultation/availability", rest.handleAvailability)
	api.POST("/consultation/schedule", rest.handleSchedule)
	api.GET("/consultation/notifications/:seekerId", rest.handleNotifications)
	api.GET("/rooms", rest.handleRooms)

	return r
}
