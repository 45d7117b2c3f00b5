package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/config"
	"github.com/Nixie-Tech-LLC/zonecast/internal/content"
	"github.com/Nixie-Tech-LLC/zonecast/internal/db"
	"github.com/Nixie-Tech-LLC/zonecast/internal/http/api"
	adminapi "github.com/Nixie-Tech-LLC/zonecast/internal/http/api/admin/endpoints"
	displayapi "github.com/Nixie-Tech-LLC/zonecast/internal/http/api/display/endpoints"
	"github.com/Nixie-Tech-LLC/zonecast/internal/hub"
	"github.com/Nixie-Tech-LLC/zonecast/internal/metrics"
	"github.com/Nixie-Tech-LLC/zonecast/internal/schedule"
)

// Services is everything the routes need, built once in main.
type Services struct {
	Store    db.Store
	Hub      *hub.Hub
	Content  *content.Manager
	Schedule *schedule.Manager
	Events   http.Handler
	Presence displayapi.Presence
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Server, s Services) {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"Cache-Control",
		},
		AllowCredentials: false,
	}))
	r.Use(metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// reads, the display boundary and the dashboard stream are open
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		displayapi.ZoneModule(s.Store, s.Hub, s.Schedule),
		displayapi.SocketModule(s.Hub, s.Presence),
		displayapi.DisplaysModule(s.Hub, s.Presence),
		adminapi.ContentModule(s.Content),
		adminapi.ScheduleModule(s.Schedule),
		adminapi.LogModule(s.Store),
		adminapi.EventsModule(s.Events),
	)

	mutations := api.GroupConfig{Prefix: "/api"}
	if cfg.JWTSecret != "" {
		mutations.Auth = true
		mutations.SecretKey = cfg.JWTSecret
	} else {
		log.Warn().Msg("JWT_SECRET is not set; content and schedule mutations are unauthenticated")
	}
	api.MountGroup(r, mutations,
		adminapi.ContentAdminModule(s.Content),
		adminapi.ScheduleAdminModule(s.Schedule),
	)
}
