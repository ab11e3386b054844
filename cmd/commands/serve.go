package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"pos-service/internal/api"
	"pos-service/internal/cache"
	"pos-service/internal/config"
	"pos-service/internal/publisher"
	"pos-service/internal/repository"
	"pos-service/internal/service"
	"pos-service/migrations"
)

var autoMigrate bool

// serveCmd runs the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Run migrations before serving")
}

func runServe(ctx context.Context) error {
	db, err := repository.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if autoMigrate {
		if err := migrations.AutoMigrate(ctx, db, 5); err != nil {
			return err
		}
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msgf("Redis at %s unreachable", cfg.Redis.Addr)
		}
	} else {
		log.Info().Msg("Redis not configured, product cache and idempotency disabled")
	}

	var pub publisher.Publisher = publisher.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = publisher.NewKafkaPublisher(config.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), cfg.Kafka.PublishTimeout)
	} else {
		log.Info().Msg("Kafka not configured, events are not published")
	}
	defer pub.Close()

	handler := newHandler(repository.NewStore(db), rdb, pub, cfg)

	e := newServer(cfg.Server)
	handler.Register(e)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("pos-service listening on :%s", cfg.Server.Port)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newHandler(store *repository.Store, rdb *redis.Client, pub publisher.Publisher, cfg *config.Config) *api.Handler {
	db := store.DB()
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	productCache := cache.NewProductCache(rdb, cfg.Redis.ProductTTL)
	guard := cache.NewIdempotencyGuard(rdb, cfg.Redis.IdempotencyTTL)

	return api.NewHandler(
		service.NewProductService(productRepo, productCache, pub),
		service.NewSaleService(store, productRepo, orderRepo, productCache, guard, pub, cfg.Sale),
		service.NewUserService(repository.NewUserRepository(db), cfg.Sale.BcryptCost),
		service.NewSupplierService(repository.NewSupplierRepository(db)),
		service.NewCustomerService(repository.NewCustomerRepository(db)),
		service.NewDashboardService(productRepo, orderRepo, cfg.Sale.LowStockThreshold),
	)
}

func newServer(s config.Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	rateLimiter := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(s.RateLimit),
				Burst:     s.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]interface{}{"success": false, "error": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]interface{}{"success": false, "error": "rate limit exceeded"})
		},
	}

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Error().Err(v.Error)
			}
			event.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(rateLimiter))

	return e
}
