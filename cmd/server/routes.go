package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/config"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/db"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/api"
	adminapi "github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/api/admin/endpoints"
	playerapi "github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/api/player/endpoints"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/redis"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, resolver playerapi.ScheduleResolver, cache *redis.CandidateCache) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"X-Request-ID",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"Retry-After",
			"X-Request-ID",
		},
		AllowCredentials: false,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var invalidator adminapi.CandidateInvalidator
	if cache != nil {
		invalidator = cache
	}

	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api/admin",
		Middleware: []gin.HandlerFunc{middleware.AdminJWTMiddleware(cfg.JWTSecret)},
	},
		adminapi.ScheduleModule(store, invalidator),
	)

	playerOpts := playerapi.Options{
		Timeout:    cfg.ResolveTimeout,
		RetryAfter: cfg.PlayerPollInterval / 2,
	}
	playerAuth := []gin.HandlerFunc{middleware.PlayerJWTMiddleware(cfg.JWTSecret)}

	// players poll the bare path; /api/player mirrors it for clients that namespace everything
	for _, prefix := range []string{"", "/api/player"} {
		api.MountGroup(r, api.GroupConfig{
			Prefix:     prefix,
			Middleware: playerAuth,
		},
			playerapi.ScheduleModule(resolver, store, store, playerOpts),
		)
	}
}
