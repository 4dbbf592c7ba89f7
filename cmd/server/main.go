package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"facilities-directory/internal/config"
	"facilities-directory/internal/database"
	"facilities-directory/internal/handler"
	"facilities-directory/internal/queue"
	"facilities-directory/internal/repository"
	"facilities-directory/internal/router"
	"facilities-directory/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and rate limiter; nil means both
	// degrade to pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	facilityRepo := repository.NewFacilityRepo(db)
	facilities := service.NewFacilityService(facilityRepo)

	public := handler.NewPublicHandler(repository.NewCityRepo(db), repository.NewMetaRepo(db), facilities)
	admin := handler.NewAdminHandler(db)
	auth := handler.NewAuthHandler(cfg)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth)
	router.RegisterPublic(e, public, rdb)
	router.RegisterAdmin(e, admin, cfg.JWTSecret)

	// The change consumer runs for the life of the process and keeps
	// the public response cache honest after admin edits.
	go func() {
		if err := queue.StartChangeConsumer(rdb, config.LoadCacheConfig().Prefix); err != nil {
			log.Printf("change consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
