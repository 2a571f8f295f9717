package main

import (
	"log"

	"github.com/edulink-app/edulink-api/internal/bootstrap"
	"github.com/edulink-app/edulink-api/internal/config"
	"github.com/edulink-app/edulink-api/internal/jobs"
	"github.com/edulink-app/edulink-api/internal/repository"
	"github.com/edulink-app/edulink-api/internal/server"
	"github.com/edulink-app/edulink-api/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedTeacherUser(db); err != nil {
			log.Fatalf("failed to seed teacher account: %v", err)
		}
	}

	redisClient := newRedisClient(cfg.RedisURL)

	maintenance := jobs.NewMaintenance(
		repository.NewNotificationRepository(db),
		repository.NewPlannerRepository(db),
	)
	if err := maintenance.Start(); err != nil {
		log.Fatalf("failed to start maintenance jobs: %v", err)
	}
	defer maintenance.Stop()

	srv := server.NewServer(cfg, db, redisClient)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// newRedisClient returns nil when REDIS_URL is unset or malformed. A nil
// client disables rate limiting and live notification streaming but the API
// stays functional.
func newRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, running without redis")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, running without redis: %v", err)
		return nil
	}

	return redis.NewClient(opts)
}
