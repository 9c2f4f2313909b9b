package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/order-service/internal/adapter/handler"
	"github.com/rl1809/order-service/internal/adapter/messaging"
	"github.com/rl1809/order-service/internal/adapter/storage"
	"github.com/rl1809/order-service/internal/config"
	"github.com/rl1809/order-service/internal/core/service"
	"github.com/rl1809/order-service/internal/logger"
	"github.com/rl1809/order-service/internal/observability"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Production: cfg.IsProduction()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.MySQLMaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQLMaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}
	store := storage.NewMySQLAdapter(db)
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	log.Info("connected to mysql")

	guard := service.NewStockGuard(store, cfg.StockReserveAttempts, log)
	opts := []service.Option{
		service.WithLogger(log),
		service.WithStrictTransitions(cfg.StrictStatusTransitions),
	}

	// Initialize Redis
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 100})
		defer rdb.Close()

		cache := storage.NewRedisAdapter(rdb, cfg.IdempotencyTTL)
		if err := cache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		opts = append(opts, service.WithIdempotency(cache))
		log.Info("idempotency enabled", zap.String("redis_addr", cfg.RedisAddr))
	}

	// Initialize Kafka
	if len(cfg.KafkaBrokers) > 0 {
		producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()

		opts = append(opts, service.WithEvents(producer))
		log.Info("order events enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	orderService := service.NewOrderService(store, store, store, guard, opts...)
	customerService := service.NewCustomerService(store)
	productService := service.NewProductService(store)

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(handler.LoggingInterceptor(log)))
	handler.RegisterOrderServiceServer(grpcServer, handler.NewGRPCHandler(orderService))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewHTTPHandler(orderService, customerService, productService, log, cfg.RequestTimeout).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		log.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(ctx)
		grpcServer.GracefulStop()
		return err
	})

	return g.Wait()
}
