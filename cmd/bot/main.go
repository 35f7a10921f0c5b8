package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"github.com/remfix/repairbot/internal/bot"
	"github.com/remfix/repairbot/internal/config"
	"github.com/remfix/repairbot/internal/domain/catalog"
	"github.com/remfix/repairbot/internal/domain/orders"
	"github.com/remfix/repairbot/internal/domain/settings"
	"github.com/remfix/repairbot/internal/infra/db"
	httpx "github.com/remfix/repairbot/internal/infra/http"
	"github.com/remfix/repairbot/internal/infra/logger"
	"github.com/remfix/repairbot/internal/session"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	catalogRepo := catalog.NewRepo(pool)
	cache := catalog.NewCache(catalogRepo, log)
	if err := cache.Refresh(ctx); err != nil {
		log.Error("initial catalog load failed", "err", err)
		return
	}

	settingsSvc := settings.NewService(settings.NewRepo(pool), log)
	settingsSvc.Load(ctx, cfg.Telegram.AdminIDs)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	b := bot.New(api, log, cache, catalogRepo, orders.NewRepo(pool), settingsSvc,
		session.NewStore(), cfg.Telegram.AdminIDs)

	go func() {
		if err := b.Run(ctx, cfg.Telegram.PollTimeoutSec); err != nil && ctx.Err() == nil {
			log.Error("bot stopped", "err", err)
			stop()
		}
	}()
	log.Info("bot started", "admins", len(cfg.Telegram.AdminIDs))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
