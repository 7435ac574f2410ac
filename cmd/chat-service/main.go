package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cwrk-planet/chat-service/config"
	"github.com/cwrk-planet/chat-service/internal/identity"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/internal/repository/postgres"
	"github.com/cwrk-planet/chat-service/internal/repository/sqlitestore"
	"github.com/cwrk-planet/chat-service/internal/security"
	"github.com/cwrk-planet/chat-service/internal/service"
	grpcx "github.com/cwrk-planet/chat-service/internal/transport/grpc"
	httpx "github.com/cwrk-planet/chat-service/internal/transport/http"
	"github.com/cwrk-planet/chat-service/pkg/logger"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
)

func main() {
	// --- config ---
	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.ParseEnv(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		Level:     logger.ParseLevel(cfg.Logging.Level),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting chat-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version, "storage", cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- storage ---
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	// --- security ---
	signer, err := newSigner(cfg.Security.JWT)
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}
	policy := security.PasswordPolicy{
		Cost:      cfg.Security.Password.BcryptCost,
		MinLength: cfg.Security.Password.MinLength,
	}

	// --- services ---
	limits := service.Limits{
		MaxRoomNameLength: cfg.Chat.MaxRoomNameLength,
		MaxMessageLength:  cfg.Chat.MaxMessageLength,
	}
	accounts := identity.NewService(store, signer, policy, nil)
	roomSvc := service.NewRoomService(store, limits)
	messageSvc := service.NewMessageService(store, limits, nil)

	// --- HTTP ---
	handler := httpx.NewHandler(accounts, roomSvc, messageSvc)
	router := httpx.NewRouter(httpx.RouterConfig{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
	}, handler, store)
	httpSrv := httpx.NewServer(httpx.ServerConfig{
		Addr:            cfg.HTTP.Addr,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, router)

	// --- run ---
	httpDone := make(chan error, 1)
	go func() {
		httpDone <- httpSrv.Run(ctx)
	}()

	grpcErr := make(chan error, 1)
	var grpcServer *grpc.Server
	if cfg.GRPC.Enabled {
		grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(
			grpcx.UnaryServerInterceptor(cfg.GRPC.DefaultTimeout),
			grpcx.AuthInterceptor(accounts),
		))
		grpcx.Register(grpcServer, grpcx.NewServer(roomSvc, messageSvc))

		go func() {
			lis, err := net.Listen("tcp", cfg.GRPC.Addr)
			if err != nil {
				grpcErr <- err
				return
			}
			slog.Info("grpc listen", "addr", cfg.GRPC.Addr)
			if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				grpcErr <- err
			}
		}()
	}

	// --- graceful shutdown ---
	httpStopped := false
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal")
	case err := <-httpDone:
		httpStopped = true
		if err != nil {
			slog.Error("http server error", "err", err)
		}
	case err := <-grpcErr:
		slog.Error("grpc server error", "err", err)
	}
	stop()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if !httpStopped {
		if err := <-httpDone; err != nil {
			slog.Error("http shutdown", "err", err)
		}
	}
	slog.Info("stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, postgres.Config{
			DSN:               cfg.Postgres.DSN,
			MaxConns:          cfg.Postgres.MaxConns,
			MinConns:          cfg.Postgres.MinConns,
			MaxConnLifetime:   cfg.Postgres.MaxConnLifetime,
			MaxConnIdleTime:   cfg.Postgres.MaxConnIdleTime,
			HealthCheckPeriod: cfg.Postgres.HealthCheckPeriod,
			ApplicationName:   cfg.Postgres.ApplicationName,
			ConnectTimeout:    cfg.Postgres.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return postgres.NewStore(pool), nil

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "" && cfg.SQLite.Path != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		pool, err := sqlitestore.Open(ctx, sqlitestore.Config{
			Path:     cfg.SQLite.Path,
			PoolSize: cfg.SQLite.PoolSize,
			Logger:   logger.L(),
		})
		if err != nil {
			return nil, err
		}
		return sqlitestore.NewStore(pool), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func newSigner(c config.JWT) (*security.JWTSigner, error) {
	switch c.Alg {
	case config.AlgRS256:
		priv, err := security.LoadRSAPrivateKeyFromPEM(c.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		pub, err := security.LoadRSAPublicKeyFromPEM(c.PublicKeyPath)
		if err != nil {
			return nil, err
		}
		return security.NewRS256Signer(priv, pub, c.Issuer, c.Audience, c.AccessTTL, c.ClockSkew), nil
	default:
		return security.NewHS256Signer([]byte(c.Secret), c.Issuer, c.Audience, c.AccessTTL, c.ClockSkew), nil
	}
}
