package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/livefire2015/ez-rental/src/config"
	"github.com/livefire2015/ez-rental/src/logger"
	"github.com/livefire2015/ez-rental/src/services"
	"github.com/livefire2015/ez-rental/src/store"
	"go.uber.org/zap"
)

// app holds the services shared by every subcommand
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *store.Catalog
	db      *sql.DB
	redis   *redis.Client

	checker  *services.PasswordChecker
	session  *services.Session
	search   *services.SearchService
	billing  *services.BillingService
	listings *services.ListingService
	exporter *services.BillExporter
}

func (a *app) open(ctx context.Context, envFile string) error {
	cfg, err := config.NewConfig(envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "ez-rental")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = log

	a.catalog = store.NewMemoryCatalog()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		a.db = db
		rooms := store.NewPostgresRoomStore(db, log)
		if err := rooms.CreateTables(ctx); err != nil {
			return err
		}
		a.catalog.Rooms = rooms
		log.Info("rooms stored in postgres")
	}

	seed, err := store.LoadFixtures(ctx, cfg.FixturesPath, a.catalog)
	if err != nil {
		return err
	}
	log.Debug("catalog seeded",
		zap.String("path", cfg.FixturesPath),
		zap.Int("rooms", seed.Rooms),
		zap.Int("users", seed.Users),
		zap.Int("bills", seed.Bills),
	)

	a.checker = services.NewPasswordChecker(a.catalog.Users, 0)
	for userID, password := range seed.Passwords {
		if err := a.checker.SetPassword(userID, password); err != nil {
			return err
		}
	}

	sessions, err := a.sessionStore()
	if err != nil {
		return err
	}
	a.session = services.NewSession(ctx, a.checker, sessions, log)
	a.search = services.NewSearchService(a.catalog.Rooms, log)
	a.billing = services.NewBillingService(a.catalog, log)
	a.listings = services.NewListingService(a.catalog, log)
	a.exporter = services.NewBillExporter(log)
	return nil
}

func (a *app) sessionStore() (services.SessionStore, error) {
	switch a.cfg.Session.Backend {
	case config.SessionBackendRedis:
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		return services.NewRedisSessionStore(a.redis, a.cfg.Redis.Key, a.cfg.Session.TTL), nil
	case config.SessionBackendMemory:
		return services.NewMemorySessionStore(), nil
	case config.SessionBackendFile:
		return services.NewFileSessionStore(a.cfg.Session.File), nil
	}
	return nil, fmt.Errorf("unknown session backend %q", a.cfg.Session.Backend)
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
		a.redis = nil
	}
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
