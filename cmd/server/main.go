package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/booking"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/config"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/database"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/handler"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/middleware"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/queue"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/repository"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/router"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/service"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.Load() // Load environment config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Printf("schema up to date")
	}

	// Redis is optional: without it drafts stay in process and search is
	// neither cached nor rate limited.
	rdb := config.NewRedisClient()
	var drafts booking.Store
	if rdb != nil {
		defer rdb.Close()
		drafts = booking.NewRedisStore(rdb, cfg.DraftTTL, "skylink:booking")
	} else {
		log.Printf("redis unavailable; booking drafts kept in memory")
		drafts = booking.NewMemoryStore(cfg.DraftTTL)
	}

	var pub service.Publisher = service.NopPublisher{}
	if cfg.AuditQueue {
		pub = service.NewAMQPPublisher(cfg.RabbitMQURL)
		go func() {
			if err := queue.StartBookingConsumer(ctx, cfg.RabbitMQURL, cfg.AuditLogPath); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("booking-consumer: stopped: %v", err)
			}
		}()
	}

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	catalog := repository.NewCatalogRepo(db)
	flights := repository.NewFlightRepo(db)
	reservations := repository.NewReservationRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, handler.Health(db, rdb))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPassenger(e, router.PassengerHandlers{
		Locations: handler.NewLocationHandler(cfg, catalog),
		Search:    handler.NewSearchHandler(cfg, repository.NewFlightSearchRepo(db)),
		Bookings: handler.NewBookingHandler(cfg, drafts, flights, repository.NewSeatRepo(db),
			repository.NewSeatHoldRepo(db), reservations, pub),
		Reservations: handler.NewReservationHandler(cfg, reservations, pub),
	}, cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)
	router.RegisterAdmin(e, handler.NewAdminHandler(cfg, handler.AdminDeps{
		Flights:      flights,
		Templates:    repository.NewTemplateRepo(db),
		Discounts:    repository.NewDiscountRepo(db),
		Users:        users,
		Reservations: reservations,
		Analytics:    repository.NewAnalyticsRepo(db),
		Catalog:      catalog,
	}), cfg.JWTSecret)

	go sweep(ctx, tokens, repository.NewSeatHoldRepo(db), cfg.SweepEvery)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// sweep deletes dead refresh tokens and lapsed seat holds every interval
// until ctx ends.  A non-positive interval disables it.
func sweep(ctx context.Context, tokens *repository.TokenRepo, holds *repository.SeatHoldRepo, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		sctx, cancel := context.WithTimeout(ctx, time.Minute)
		if n, err := tokens.PurgeDead(sctx, time.Now().UTC()); err != nil {
			log.Printf("sweep refresh tokens: %v", err)
		} else if n > 0 {
			log.Printf("sweep: removed %d refresh tokens", n)
		}
		if n, err := holds.PurgeExpired(sctx); err != nil {
			log.Printf("sweep seat holds: %v", err)
		} else if n > 0 {
			log.Printf("sweep: removed %d seat holds", n)
		}
		cancel()
	}
}
