package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/user-auth-service/internal/auth"
	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/database"
	"github.com/iliyamo/user-auth-service/internal/handler"
	"github.com/iliyamo/user-auth-service/internal/queue"
	"github.com/iliyamo/user-auth-service/internal/repository"
	"github.com/iliyamo/user-auth-service/internal/router"
	queue_publisher "github.com/iliyamo/user-auth-service/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable, response cache disabled")
	}

	users := repository.NewUserRepo(db)
	events := queue_publisher.New()
	svc := auth.NewService(users, events,
		cfg.AccessSecret, cfg.RefreshSecret,
		time.Duration(cfg.AccessTTLSec)*time.Second,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour)

	e := echo.New()
	router.Register(e, cfg,
		handler.NewAuthHandler(svc),
		handler.NewUserHandler(users, events, cfg.BcryptCost),
		users, rdb)

	// Background consumer turns audit events into logs/auth.log lines.
	go func() {
		if err := queue.StartAuthConsumer(); err != nil {
			log.Printf("auth-consumer: %v", err)
		}
	}()

	// Periodic sweep clears refresh sessions whose expiry has passed, so
	// stale hashes do not linger on user rows.
	go func() {
		interval := time.Duration(cfg.SweepInterval) * time.Minute
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := svc.SweepExpired(ctx); err != nil {
				log.Printf("sweeper: %v", err)
			}
			cancel()
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
