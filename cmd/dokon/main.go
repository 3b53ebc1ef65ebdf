package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dokon-erp/dokon/cmd/dokon/cli"
	"github.com/dokon-erp/dokon/internal/app"
	"github.com/dokon-erp/dokon/internal/auth"
	"github.com/dokon-erp/dokon/internal/clients"
	"github.com/dokon-erp/dokon/internal/dashboard"
	"github.com/dokon-erp/dokon/internal/expenses"
	"github.com/dokon-erp/dokon/internal/inventory"
	"github.com/dokon-erp/dokon/internal/ledger"
	"github.com/dokon-erp/dokon/internal/observability"
	"github.com/dokon-erp/dokon/internal/platform/cache"
	"github.com/dokon-erp/dokon/internal/platform/db"
	"github.com/dokon-erp/dokon/internal/platform/httpx"
	"github.com/dokon-erp/dokon/internal/profits"
	"github.com/dokon-erp/dokon/migrations"
)

const usage = `usage: dokon [serve | migrate up|down|version | seed-users -name N -telegram T -password P]`

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	args := os.Args[1:]
	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		err = serve(ctx, cfg, logger)
	case "migrate":
		err = migrate(cfg, args)
	case "seed-users":
		err = seedUsers(ctx, cfg, logger, args)
	default:
		err = fmt.Errorf("%w: unknown command %q", cli.ErrUsage, command)
	}
	if err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, usage)
		}
		logger.Error(command+" failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func migrate(cfg *app.Config, args []string) error {
	m, err := db.NewMigrator(migrations.Files, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer m.Close()
	return cli.RunMigrate(m, args, os.Stdout)
}

func seedUsers(ctx context.Context, cfg *app.Config, logger *slog.Logger, args []string) error {
	pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: 2})
	if err != nil {
		return err
	}
	defer pool.Close()
	users := auth.NewService(auth.NewRepository(pool), nil, logger)
	return cli.RunSeedUsers(ctx, users, args, os.Stdout)
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	if err := cfg.ValidateServe(); err != nil {
		return err
	}
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	if cfg.MigrateOnStart {
		if err := migrate(cfg, []string{"up"}); err != nil {
			return fmt.Errorf("migrate on start: %w", err)
		}
	}

	pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{
		MaxConns:        cfg.PGMaxConns,
		MaxConnLifetime: cfg.PGMaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	router := buildRouter(cfg, logger, pool, redisClient)

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func buildRouter(cfg *app.Config, logger *slog.Logger, pool *pgxpool.Pool, redisClient *redis.Client) http.Handler {
	respond := httpx.NewResponder(logger, !cfg.IsProduction())
	metrics := observability.NewMetrics()

	tokens := auth.NewTokenStore(redisClient, cfg.TokenSecret, cfg.TokenTTL)
	authService := auth.NewService(auth.NewRepository(pool), tokens, logger)

	clientService := clients.NewService(clients.NewRepository(pool), logger)
	debtService := ledger.NewService(ledger.Debt, ledger.NewRepository(pool, ledger.Debt), logger)
	paymentService := ledger.NewService(ledger.Payment, ledger.NewRepository(pool, ledger.Payment), logger)
	inventoryService := inventory.NewService(inventory.NewRepository(pool), logger, metrics)
	expenseService := expenses.NewService(expenses.NewRepository(pool), logger)
	profitService := profits.NewService(profits.NewRepository(pool), logger)
	dashboardService := dashboard.NewService(dashboard.Sources{
		Clients:  clientService,
		Debts:    debtService,
		Payments: paymentService,
		Products: inventoryService,
		Expenses: expenseService,
		Profits:  profitService,
	}, logger)

	return app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Respond:          respond,
		Metrics:          metrics,
		AuthService:      authService,
		AuthHandler:      auth.NewHandler(logger, authService, respond),
		ClientsHandler:   clients.NewHandler(logger, clientService, respond),
		DebtsHandler:     ledger.NewHandler(logger, debtService, respond),
		PaymentsHandler:  ledger.NewHandler(logger, paymentService, respond),
		ProductsHandler:  inventory.NewHandler(logger, inventoryService, respond),
		ExpensesHandler:  expenses.NewHandler(logger, expenseService, respond),
		ProfitsHandler:   profits.NewHandler(logger, profitService, respond),
		DashboardHandler: dashboard.NewHandler(logger, dashboardService, respond),
		HealthChecks: map[string]app.HealthCheck{
			"postgres": pool.Ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	})
}
