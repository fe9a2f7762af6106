package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/wzray/Mockview/internal/adapters/signal"
	"github.com/wzray/Mockview/internal/app"
	"github.com/wzray/Mockview/internal/auth"
	"github.com/wzray/Mockview/internal/config"
	"github.com/wzray/Mockview/internal/store"
)

// AuthRequired validates the bearer token and stashes the claims.
func AuthRequired(authm *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		claims, err := authm.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "invalid token"})
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	return c.MustGet("claims").(*auth.Claims)
}

// SetupRouter wires HTTP routes (REST + WS) with the relay, store and auth.
func SetupRouter(ctx context.Context, cfg *config.Config, relay *app.Relay, st *store.Store, authm *auth.Manager) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	h := &Handlers{Store: st, Auth: authm, Cfg: cfg}

	api := r.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	authed := api.Group("")
	authed.Use(AuthRequired(authm))
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)
	authed.POST("/rooms/create", h.CreateRoom)
	authed.POST("/rooms/join", h.JoinRoom)
	authed.GET("/rooms/:roomId", h.GetRoom)
	authed.GET("/webrtc/config", h.WebRTCConfig)

	ctrl := signal.NewController(relay, authm, cfg)
	api.GET("/ws/signal", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})

	return r
}
