package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/anvule/columbarium-reservation/internal/config"
	"github.com/anvule/columbarium-reservation/internal/database"
	"github.com/anvule/columbarium-reservation/internal/handler"
	"github.com/anvule/columbarium-reservation/internal/middleware"
	"github.com/anvule/columbarium-reservation/internal/queue"
	"github.com/anvule/columbarium-reservation/internal/repository"
	"github.com/anvule/columbarium-reservation/internal/router"
	"github.com/anvule/columbarium-reservation/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache, the rate limiter and the cart.
	// A nil client disables all three; the core reservation flow keeps
	// working against MySQL alone.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: cache, rate limiting and cart disabled")
	}

	buildingRepo := repository.NewBuildingRepo(db)
	nicheRepo := repository.NewNicheRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicH := &handler.PublicHandler{BuildingRepo: buildingRepo, NicheRepo: nicheRepo}
	customerH := handler.NewCustomerHandler(buildingRepo, nicheRepo, reservationRepo, userRepo)
	staffH := handler.NewStaffHandler(nicheRepo, reservationRepo)
	cartH := handler.NewCartHandler(store.NewCartStore(rdb))

	// background consumer appends confirmed reservations to logs/reservation.log
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cache)
	router.RegisterCustomer(e, customerH, cfg.JWTSecret, limiter)
	router.RegisterStaff(e, staffH, cfg.JWTSecret)
	router.RegisterCart(e, cartH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
