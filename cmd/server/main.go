package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcart "github.com/storefront/cart/internal/application/cart"
	"github.com/storefront/cart/internal/domain/cart"
	"github.com/storefront/cart/internal/domain/shared"
	"github.com/storefront/cart/internal/infrastructure/auth"
	"github.com/storefront/cart/internal/infrastructure/config"
	"github.com/storefront/cart/internal/infrastructure/event"
	"github.com/storefront/cart/internal/infrastructure/gateway"
	"github.com/storefront/cart/internal/infrastructure/kvstore"
	"github.com/storefront/cart/internal/infrastructure/logger"
	"github.com/storefront/cart/internal/infrastructure/persistence"
	"github.com/storefront/cart/internal/infrastructure/signal"
	"github.com/storefront/cart/internal/infrastructure/telemetry"
	"github.com/storefront/cart/internal/interfaces/http/handler"
	"github.com/storefront/cart/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Telemetry providers are no-ops unless telemetry.enabled is set
	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log := lp.Bridge(baseLog, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles {
		tp.EnableSpanProfiles()
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront cart",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("storage", cfg.Storage.Backend),
	)

	// Key-value storage for the cart mirror and the credential slot
	var db *persistence.Database
	factoryOpts := []kvstore.FactoryOption{kvstore.WithLogger(log), kvstore.WithS3(cfg.S3)}
	if cfg.Storage.Backend == config.StorageSQL {
		db, err = openDatabase(cfg, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		factoryOpts = append(factoryOpts, kvstore.WithDatabase(db.DB))
	}
	store, err := kvstore.NewFactory(cfg.Storage, cfg.Redis, factoryOpts...).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create key-value store", zap.Error(err))
	}

	// Identity signals fan out locally through the bus
	bus := event.NewInMemoryEventBus(log)
	mirror := persistence.NewCartMirror(store, cfg.Cart.MirrorKey, log)
	slot := persistence.NewCredentialSlot(store, cfg.Cart.CredentialKey, bus, log)

	redisClient := connectRedis(ctx, cfg, log)

	var revocations auth.RevocationList = auth.NewInMemoryRevocationList()
	if redisClient != nil {
		revocations = auth.NewRedisRevocationList(redisClient, cfg.Storage.KeyPrefix)
	}
	inspector := auth.NewTokenInspector(cfg.JWT, auth.WithRevocations(revocations))

	var remote cart.Gateway
	if cfg.Gateway.BaseURL != "" {
		gw, err := gateway.NewHTTPGateway(cfg.Gateway, slot, gateway.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create cart gateway", zap.Error(err))
		}
		remote = gw
		log.Info("Remote cart gateway configured", zap.String("base_url", cfg.Gateway.BaseURL))
	} else {
		log.Info("No remote cart gateway configured, carts stay local")
	}

	var recorder cart.Recorder
	if cartMetrics, err := telemetry.NewCartMetrics(mp.Meter(telemetry.TracerName)); err != nil {
		log.Warn("Cart metrics unavailable", zap.Error(err))
	} else {
		recorder = cartMetrics
	}

	cartStore := appcart.NewStore(appcart.Deps{
		Gateway:     remote,
		Mirror:      mirror,
		Credentials: slot,
		Resolver:    inspector,
		Logger:      log,
		Recorder:    recorder,
	},
		appcart.WithDedupWindow(cfg.Cart.DedupWindow),
		appcart.WithPrivilegedRoles(cfg.Cart.PrivilegedRoles...),
		appcart.WithPersistGuestCart(cfg.Cart.PersistGuestCart),
		appcart.WithSyncQueueSize(cfg.Cart.SyncQueueSize),
		appcart.WithSyncTimeout(cfg.Gateway.Timeout),
	)
	bus.Subscribe(appcart.NewIdentitySignalHandler(cartStore, log))

	var relay *signal.RedisChannel
	if cfg.Signal.Enabled && redisClient != nil {
		relay = signal.NewRedisChannel(redisClient, bus,
			signal.WithChannel(cfg.Signal.Channel),
			signal.WithLogger(log),
		)
		bus.Subscribe(relay)
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Identity signal relay exited", zap.Error(err))
			}
		}()
	}

	result := cartStore.Hydrate(ctx)
	log.Info("Cart hydrated",
		zap.String("source", result.Source),
		zap.Int("count", result.Count),
		zap.Int("dropped", result.Dropped),
		zap.NamedError("remote_error", result.RemoteErr),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	var engineOpts []router.EngineOption
	if profiler.IsEnabled() {
		engineOpts = append(engineOpts, router.WithProfilingLabels())
	}
	engine, err := router.NewEngine(cfg.HTTP, cfg.Telemetry.ServiceName, log, engineOpts...)
	if err != nil {
		log.Fatal("Failed to configure HTTP engine", zap.Error(err))
	}

	router.RegisterSwagger(engine, cfg.Swagger, inspector)
	if cfg.Swagger.Enabled {
		log.Info("API documentation served at /swagger/index.html",
			zap.Bool("require_auth", cfg.Swagger.RequireAuth),
			zap.Strings("allowed_ips", cfg.Swagger.AllowedIPs),
		)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewCartHandler(cartStore)).
		Register(handler.NewSessionHandler(slot, inspector, inspector, cartStore.Identity)).
		Register(handler.NewSystemHandler(cfg.App.Name, version, cartStore))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	ossignal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Pending remote writes are flushed before the stores go away
	if err := cartStore.Close(shutdownCtx); err != nil {
		log.Warn("Cart sync queue not drained", zap.Error(err))
	}
	if relay != nil {
		_ = relay.Close()
	}
	stop()
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}
	closeStore(store, log)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}

	if err := profiler.Stop(); err != nil {
		baseLog.Warn("Profiler stop failed", zap.Error(err))
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"meter":  mp.Shutdown,
		"tracer": tp.Shutdown,
		"logger": lp.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			baseLog.Warn("Telemetry provider shutdown failed", zap.String("provider", name), zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// openDatabase opens the sql backend with the zap-backed GORM logger and,
// when telemetry is on, query tracing
func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(cfg.Storage, &cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		return nil, err
	}
	if cfg.Telemetry.Enabled {
		dbSystem := cfg.Storage.SQLDriver
		if dbSystem == "" {
			dbSystem = config.DriverSQLite
		}
		if err := telemetry.RegisterDBTracing(db.DB, dbSystem, log); err != nil {
			log.Warn("Database tracing unavailable", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Storage.SQLDriver))
	return db, nil
}

// connectRedis returns a client for the signal relay and the revocation list,
// or nil when neither redis storage nor the signal channel is configured or
// the server cannot be reached
func connectRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) *redis.Client {
	if cfg.Storage.Backend != config.StorageRedis && !cfg.Signal.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable, identity signals stay in-process", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

func closeStore(store shared.KeyValueStore, log *zap.Logger) {
	if err := store.Close(); err != nil {
		log.Error("Error closing key-value store", zap.Error(err))
	}
}
