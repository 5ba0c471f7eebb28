package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/curriculab/studio/internal/config"
	"github.com/curriculab/studio/internal/content"
	"github.com/curriculab/studio/internal/db"
	"github.com/curriculab/studio/internal/engine"
	googlelms "github.com/curriculab/studio/internal/lms/google"
	"github.com/curriculab/studio/internal/redis"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// initialize PostgreSQL
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("db init: %v", err)
	}

	// run pending migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	redis.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)

	store := db.NewStore()
	resolver := content.NewResolver(cfg.ContentBaseURL)
	tokens := googlelms.NewRedisTokenStore(redis.Rdb)

	publisher := engine.NewPublisher(store, resolver, adapterFactory)
	fetcher := engine.NewFetcher(store, adapterFactory)
	copier := engine.NewCopier(store, resolver, classroomFactory(tokens))

	r := gin.Default()
	RegisterRoutes(r, cfg, store, publisher, fetcher, copier, tokens)

	log.Printf("listening on %s", cfg.ServerAddress)
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
