package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/swapdeck/swapdeck/pkg/catalog"
	"github.com/swapdeck/swapdeck/pkg/config"
	"github.com/swapdeck/swapdeck/pkg/handlers"
	"github.com/swapdeck/swapdeck/pkg/metrics"
	"github.com/swapdeck/swapdeck/pkg/notifications"
	"github.com/swapdeck/swapdeck/pkg/storage"
	"github.com/swapdeck/swapdeck/pkg/storage/dynamo"
	"github.com/swapdeck/swapdeck/pkg/storage/kv"
	"github.com/swapdeck/swapdeck/pkg/storage/memory"
	"github.com/swapdeck/swapdeck/pkg/storage/redisgw"
	"github.com/swapdeck/swapdeck/pkg/swipes"
	"github.com/swapdeck/swapdeck/pkg/trades"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway, err := newGateway(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize storage gateway", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("storage gateway ready", slog.String("backend", string(cfg.StorageBackend)))

	store := kv.New(gateway)

	dispatcher := notifications.NewDispatcher(store)
	tradeEngine := trades.NewEngine(store, dispatcher, logger)
	swipeEngine := swipes.NewEngine(store)

	// The catalog is an external collaborator; the built-in static catalog is
	// enough for local development and tests.
	cat := catalog.NewStatic()

	cacheTTL, err := time.ParseDuration(cfg.RankingCacheTTL)
	if err != nil {
		cacheTTL = time.Minute
	}
	ranking := swipes.NewCachedContext(cat.HasActiveBoost, cat.SellerLevel, cacheTTL)

	h := handlers.NewApiHandler(tradeEngine, dispatcher, swipeEngine, cat, ranking, logger)
	router := handlers.NewRouter(h, logger)
	router.Handle("/metrics", metrics.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", slog.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// newGateway builds the persistence gateway selected by configuration.
func newGateway(ctx context.Context, cfg config.Config) (storage.Gateway, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return redisgw.New(client), nil

	case config.BackendDynamoDB:
		awsCfg, err := aws_config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		return dynamo.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTableName), nil

	default:
		return memory.New(), nil
	}
}
