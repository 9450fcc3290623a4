package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"pharmaduty-go/internal/auth"
	"pharmaduty-go/internal/cache"
	"pharmaduty-go/internal/config"
	"pharmaduty-go/internal/db"
	auditdomain "pharmaduty-go/internal/domain/audit"
	"pharmaduty-go/internal/domain/moderation"
	neighborhooddomain "pharmaduty-go/internal/domain/neighborhood"
	pharmacydomain "pharmaduty-go/internal/domain/pharmacy"
	registrationdomain "pharmaduty-go/internal/domain/registration"
	scheduledomain "pharmaduty-go/internal/domain/schedule"
	statisticsdomain "pharmaduty-go/internal/domain/statistics"
	userdomain "pharmaduty-go/internal/domain/user"
	"pharmaduty-go/internal/report"
	"pharmaduty-go/internal/repository/inmemory"
	auditrepo "pharmaduty-go/internal/repository/postgres/audit"
	neighborhoodrepo "pharmaduty-go/internal/repository/postgres/neighborhood"
	pharmacyrepo "pharmaduty-go/internal/repository/postgres/pharmacy"
	registrationrepo "pharmaduty-go/internal/repository/postgres/registration"
	schedulerepo "pharmaduty-go/internal/repository/postgres/schedule"
	statisticsrepo "pharmaduty-go/internal/repository/postgres/statistics"
	userrepo "pharmaduty-go/internal/repository/postgres/user"
	redisstore "pharmaduty-go/internal/repository/redis"
	"pharmaduty-go/internal/transport/httpserver"
	"pharmaduty-go/internal/transport/httpserver/handler"
	"pharmaduty-go/internal/transport/httpserver/handler/admin"
	authhandler "pharmaduty-go/internal/transport/httpserver/handler/auth"
	"pharmaduty-go/internal/transport/httpserver/handler/common"
	"pharmaduty-go/internal/transport/httpserver/handler/pharmacist"
	"pharmaduty-go/internal/transport/httpserver/handler/public"
	"pharmaduty-go/migrations"
	"pharmaduty-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	db         *gorm.DB
	redis      *goredis.Client
	watcher    *moderation.Watcher
	httpServer *http.Server

	neighborhoods *neighborhooddomain.Service
	users         *userdomain.Service
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log, db: dbConn}
	if err := a.build(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build() error {
	cfg, log := a.cfg, a.log

	log.Info("app: initializing cache")
	store, err := a.newStore()
	if err != nil {
		return err
	}

	log.Info("app: initializing moderation rules")
	gate, err := a.newGate()
	if err != nil {
		return err
	}

	loc := cfg.Location()
	ttl := cfg.Cache.TTL

	auditService := auditdomain.NewService(auditrepo.NewPostgres(a.db), log)
	neighborhoodService := neighborhooddomain.NewService(neighborhoodrepo.NewPostgres(a.db), store, ttl, log)
	pharmacyRepo := pharmacyrepo.NewPostgres(a.db)
	pharmacyService := pharmacydomain.NewService(pharmacyRepo, gate, neighborhoodService, auditService, store, log)
	scheduleService := scheduledomain.NewService(schedulerepo.NewPostgres(a.db), pharmacyRepo, gate,
		scheduledomain.WithLocation(loc),
		scheduledomain.WithAudit(auditService),
		scheduledomain.WithCache(store),
		scheduledomain.WithLogger(log),
	)
	hasher := userdomain.NewHasher(cfg.Auth.BcryptCost)
	userService := userdomain.NewService(userrepo.NewPostgres(a.db), hasher, gate, auditService)
	registrationService := registrationdomain.NewService(registrationrepo.NewPostgres(a.db), gate, neighborhoodService, hasher, store, log)
	statisticsService := statisticsdomain.NewService(statisticsrepo.NewPostgres(a.db), store, ttl, loc, log)
	tokens := auth.NewTokens(cfg.Auth, store)

	a.neighborhoods = neighborhoodService
	a.users = userService

	log.Info("app: initializing router")
	handlers := handler.New(
		common.New(db.NewChecker(a.db), log),
		public.New(pharmacyService, scheduleService, neighborhoodService, statisticsService, log),
		authhandler.New(registrationService, userService, pharmacyService, tokens, log),
		pharmacist.New(pharmacyService, userService, scheduleService, log),
		admin.New(pharmacyService, scheduleService, userService, auditService, report.Schedules, log),
	)
	router := httpserver.NewRouter(cfg, handlers, tokens, userService, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)
	return nil
}

// newStore uses redis when REDIS_ADDR is set and a process-local map otherwise.
func (a *App) newStore() (cache.Store, error) {
	if a.cfg.Redis.Addr == "" {
		a.log.Info("cache: using in-memory store")
		return inmemory.NewStore(), nil
	}

	client := redisstore.NewClient(a.cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisstore.Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	a.redis = client
	a.log.Info("cache: using redis", "addr", a.cfg.Redis.Addr)
	return redisstore.NewStore(client, a.cfg.Cache.Prefix), nil
}

func (a *App) newGate() (*moderation.Gate, error) {
	path := a.cfg.Moderation.RulesPath
	if path == "" {
		return moderation.NewGate(moderation.DefaultRules())
	}

	rules, err := moderation.LoadRules(path)
	if err != nil {
		return nil, fmt.Errorf("load moderation rules: %w", err)
	}
	gate, err := moderation.NewGate(rules)
	if err != nil {
		return nil, err
	}
	if a.cfg.Moderation.Watch {
		watcher, err := moderation.NewWatcher(gate, path, a.log)
		if err != nil {
			return nil, fmt.Errorf("moderation watcher: %w", err)
		}
		a.watcher = watcher
	}
	return gate, nil
}

func (a *App) Config() config.Config {
	return a.cfg
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// Start runs background components that live as long as ctx.
func (a *App) Start(ctx context.Context) error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Start(ctx)
}

func (a *App) Migrate() (int, error) {
	applied, err := db.Migrate(a.db, migrations.Files, a.log)
	if err != nil {
		return applied, fmt.Errorf("migrate: %w", err)
	}
	a.log.Info("db.migrate: done", "applied", applied)
	return applied, nil
}

// Seed inserts the reference neighborhoods and, when configured, the bootstrap admin.
func (a *App) Seed(ctx context.Context) error {
	inserted, err := a.neighborhoods.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed neighborhoods: %w", err)
	}
	a.log.Info("seed: neighborhoods", "inserted", inserted)

	seed := a.cfg.Seed
	if seed.AdminEmail == "" || seed.AdminPassword == "" {
		a.log.Info("seed: admin account not configured, skipping")
		return nil
	}
	created, err := a.users.EnsureAdmin(ctx, seed.AdminName, seed.AdminEmail, seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	a.log.Info("seed: admin account", "email", seed.AdminEmail, "created", created)
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Stop())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, db.Close(a.db))
	return errors.Join(errs...)
}
