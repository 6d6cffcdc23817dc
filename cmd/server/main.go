package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/fekuna/omnipos-picking-service/config"
	"github.com/fekuna/omnipos-picking-service/internal/bin"
	"github.com/fekuna/omnipos-picking-service/internal/health"
	"github.com/fekuna/omnipos-picking-service/internal/intake"
	"github.com/fekuna/omnipos-picking-service/internal/picking"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/migration"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/search"
	"github.com/fekuna/omnipos-picking-service/internal/platform"
	"github.com/fekuna/omnipos-picking-service/internal/server"

	binH "github.com/fekuna/omnipos-picking-service/internal/bin/handler"
	binRepoPkg "github.com/fekuna/omnipos-picking-service/internal/bin/repository"
	binUCPkg "github.com/fekuna/omnipos-picking-service/internal/bin/usecase"

	catalogH "github.com/fekuna/omnipos-picking-service/internal/catalog/handler"
	catalogUCPkg "github.com/fekuna/omnipos-picking-service/internal/catalog/usecase"

	orderH "github.com/fekuna/omnipos-picking-service/internal/order/handler"
	orderUCPkg "github.com/fekuna/omnipos-picking-service/internal/order/usecase"

	pickingH "github.com/fekuna/omnipos-picking-service/internal/picking/handler"
	pickingUCPkg "github.com/fekuna/omnipos-picking-service/internal/picking/usecase"

	intakeH "github.com/fekuna/omnipos-picking-service/internal/intake/handler"
	intakeListenerPkg "github.com/fekuna/omnipos-picking-service/internal/intake/listener"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Migration.AutoMigrate {
		m, err := migration.New(db.DB, cfg.Migration.Path, appLogger)
		if err != nil {
			appLogger.Fatal("Could not prepare migrations", zap.Error(err))
		}
		if err := m.Up(); err != nil {
			appLogger.Fatal("Could not apply migrations", zap.Error(err))
		}
	}

	// 4. Platform client
	platformClient, err := platform.NewClient(&platform.Config{
		APIVersion:     cfg.Platform.APIVersion,
		AccessToken:    cfg.Platform.AccessToken,
		ShopTokens:     cfg.Platform.ShopTokens,
		BaseURL:        cfg.Platform.BaseURL,
		TimeoutSeconds: cfg.Platform.TimeoutSeconds,
	})
	if err != nil {
		appLogger.Fatal("Could not configure platform client", zap.Error(err))
	}
	appLogger.Info("Platform client configured", zap.Int("shop_tokens", len(cfg.Platform.ShopTokens)))

	// 5. Redis (optional, webhook dedup)
	var dedup intake.Deduper
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, intake runs without dedup", zap.Error(err))
		} else {
			defer redisClient.Close()
			dedup = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 6. Elasticsearch (optional, bin search)
	var binIndex bin.SearchIndex
	if len(cfg.Elastic.Addresses) > 0 {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, bin search uses Postgres", zap.Error(err))
		} else {
			binIndex = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Initialize UseCases
	binRepo := binRepoPkg.NewPGRepository(db)
	binUC := binUCPkg.NewBinUseCase(binRepo, binIndex, appLogger)
	catalogUC := catalogUCPkg.NewCatalogUseCase(platformClient, binUC, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(platformClient, appLogger)
	statusUC := pickingUCPkg.NewStatusUseCase(platformClient, appLogger)

	sessionStore := picking.NewSessionStore(cfg.Session.IdleTTL, appLogger)
	sessionUC := pickingUCPkg.NewSessionUseCase(sessionStore, orderUC, statusUC, appLogger)

	processor := intake.NewProcessor(statusUC, dedup, appLogger)

	// 8. Background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sessionStore.Run(ctx, cfg.Session.SweepInterval)

	checker := health.NewChecker(db, "postgresql", appLogger)
	go checker.Watch(ctx, cfg.Server.HealthInterval)

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		orderListener := intakeListenerPkg.NewOrderListener(kafkaConsumer, processor, appLogger)
		go orderListener.Start(ctx)
	}

	// 9. HTTP server
	router := server.NewRouter(server.Routes{
		API: []server.Registrar{
			binH.NewBinHandler(binUC, appLogger),
			catalogH.NewCatalogHandler(catalogUC, appLogger),
			orderH.NewOrderHandler(orderUC, appLogger),
			pickingH.NewPickingHandler(statusUC, sessionUC, appLogger),
		},
		Webhooks: intakeH.NewWebhookHandler(processor, appLogger),
		Health:   checker,
	}, appLogger)

	srv := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 10. gRPC health server
	grpcPort := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, checker.GRPCServer())
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func normalizePort(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
