package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/curriculab/studio/internal/config"
	"github.com/curriculab/studio/internal/db"
	"github.com/curriculab/studio/internal/engine"
	"github.com/curriculab/studio/internal/http/api"
	authapi "github.com/curriculab/studio/internal/http/api/auth/endpoints"
	classroomapi "github.com/curriculab/studio/internal/http/api/googleclassroom/endpoints"
	lmsapi "github.com/curriculab/studio/internal/http/api/lms/endpoints"
	googlelms "github.com/curriculab/studio/internal/lms/google"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	store db.Store,
	publisher *engine.Publisher,
	fetcher *engine.Fetcher,
	copier *engine.Copier,
	tokens googlelms.TokenStore,
) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
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
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/v1",
		Auth:   false,
	},
		authapi.AuthPublicModule(cfg.JWTSecret, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/v1",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Store:     store,
	},
		authapi.AuthSessionModule(cfg.JWTSecret, store),
		lmsapi.SettingsModule(store),
		lmsapi.CanvasModule(publisher, fetcher),
		lmsapi.MoodleModule(publisher, fetcher),
		classroomapi.ClassroomModule(copier, tokens),
	)
}
