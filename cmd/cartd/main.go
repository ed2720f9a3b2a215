package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/foodcart/internal/auth"
	"github.com/nikolayk812/foodcart/internal/cart"
	"github.com/nikolayk812/foodcart/internal/checkout"
	"github.com/nikolayk812/foodcart/internal/config"
	"github.com/nikolayk812/foodcart/internal/httpapi"
	"github.com/nikolayk812/foodcart/internal/localstore"
	"github.com/nikolayk812/foodcart/internal/port"
	"github.com/nikolayk812/foodcart/internal/repository"
	"github.com/nikolayk812/foodcart/internal/telemetry"
	"github.com/sirupsen/logrus"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config.Load: %v\n", err)
		os.Exit(1)
	}

	log, err := telemetry.NewLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry.NewLogger: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := issueToken(cfg, os.Args[2:]); err != nil {
			log.WithError(err).Fatal("failed to issue token")
		}
		return
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("cartd stopped")
	}
}

// issueToken prints a signed token: cartd token <user_id> [role] [restaurant]
func issueToken(cfg config.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: cartd token <user_id> [role] [restaurant]")
	}

	role, restaurant := "", ""
	if len(args) > 1 {
		role = args[1]
	}
	if len(args) > 2 {
		restaurant = args[2]
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return fmt.Errorf("auth.NewIssuer: %w", err)
	}

	token, err := issuer.Issue(args[0], role, restaurant)
	if err != nil {
		return fmt.Errorf("issuer.Issue: %w", err)
	}

	fmt.Println(token)
	return nil
}

func run(cfg config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, version)
	if err != nil {
		return fmt.Errorf("telemetry.InitTracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.WithError(err).Warn("tracer provider shutdown failed")
		}
	}()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool.Ping: %w", err)
	}

	local, closeLocal, err := openLocalStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLocal()

	menu := repository.NewMenu(pool)
	registry := cart.NewRegistry(local, repository.NewCartDocuments(pool), cfg.LocalCartKey, log,
		cart.WithIdleTimeout(cfg.SessionIdleTimeout),
		cart.WithMaxSessions(cfg.MaxSessions),
	)

	app := httpapi.NewApp(httpapi.Deps{
		Registry:  registry,
		Checkout:  checkout.NewService(menu, cfg.Currency, log),
		Menu:      menu,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
		Checks: map[string]httpapi.HealthCheck{
			"postgres": pool.Ping,
			"local": func(ctx context.Context) error {
				if !local.Ping(ctx) {
					return errors.New("ping failed")
				}
				return nil
			},
		},
	})

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("cartd listening")
		serveErr <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("app.Listen: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown failed")
	}

	// pending cart writes must reach the stores before the pools close
	if err := registry.Close(shutdownCtx); err != nil {
		return fmt.Errorf("registry.Close: %w", err)
	}

	return nil
}

type pingableStore interface {
	port.LocalStore
	Ping(ctx context.Context) bool
}

// openLocalStore uses redis when REDIS_ADDR is set and an in-process map otherwise.
func openLocalStore(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (pingableStore, func(), error) {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR is not set, carts are kept in process memory")
		return localstore.NewMemory(), func() {}, nil
	}

	store, err := localstore.NewRedis(cfg.RedisAddr, log)
	if err != nil {
		return nil, nil, fmt.Errorf("localstore.NewRedis: %w", err)
	}

	if err := store.Connect(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("redis.Connect: %w", err)
	}

	return store, func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("redis close failed")
		}
	}, nil
}
