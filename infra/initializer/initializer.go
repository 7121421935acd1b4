// Package initializer wires the application dependency graph: database,
// Redis, repositories, cache, queue, and services.
package initializer

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ksoliman/banksim/infra/cache"
	"github.com/ksoliman/banksim/infra/database"
	infraqueue "github.com/ksoliman/banksim/infra/queue"
	infrarepo "github.com/ksoliman/banksim/infra/repository"
	pkgcache "github.com/ksoliman/banksim/pkg/cache"
	"github.com/ksoliman/banksim/pkg/config"
	"github.com/ksoliman/banksim/pkg/money"
	"github.com/ksoliman/banksim/pkg/queue"
	"github.com/ksoliman/banksim/pkg/repository"
	"github.com/ksoliman/banksim/pkg/service/auth"
	"github.com/ksoliman/banksim/pkg/service/history"
	"github.com/ksoliman/banksim/pkg/service/ledger"
	"github.com/ksoliman/banksim/pkg/service/user"
)

// Deps is the wired dependency graph shared by the server and the worker.
type Deps struct {
	Cfg    *config.App
	Logger *slog.Logger

	Uow   repository.UnitOfWork
	Cache pkgcache.HistoryCache
	Queue *infraqueue.RedisQueue

	Ledger  *ledger.Service
	History *history.Service
	Users   *user.Service
	Auth    *auth.Service
}

// Initialize connects to Postgres and Redis and builds every service.
func Initialize(cfg *config.App) (*Deps, error) {
	logger := SetupLogger(cfg.Log)

	db, err := database.Connect(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(infrarepo.Models()...); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	redisOpt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	redisOpt.DialTimeout = cfg.Redis.DialTimeout
	redisOpt.ReadTimeout = cfg.Redis.ReadTimeout
	redisOpt.WriteTimeout = cfg.Redis.WriteTimeout
	redisClient := redis.NewClient(redisOpt)

	uow := infrarepo.NewUoW(db)
	historyCache := cache.NewRedisHistoryCache(redisClient, cfg.HistoryCache.Prefix, logger)
	txQueue := infraqueue.NewRedisQueue(redisClient, cfg.Queue, logger)

	ceiling := money.FromCents(cfg.Ledger.CeilingCents)

	deps := &Deps{
		Cfg:     cfg,
		Logger:  logger,
		Uow:     uow,
		Cache:   historyCache,
		Queue:   txQueue,
		Ledger:  ledger.New(uow, historyCache, txQueue, ceiling, logger),
		History: history.New(uow, historyCache, cfg.HistoryCache.TTL, logger),
		Users:   user.New(uow, logger),
		Auth:    auth.New(uow, cfg.Jwt, logger),
	}
	logger.Info("dependencies initialized",
		"env", cfg.Env, "ceiling", ceiling, "history_ttl", cfg.HistoryCache.TTL)
	return deps, nil
}

// Enqueuer exposes the queue under its contract type.
func (d *Deps) Enqueuer() queue.Queue { return d.Queue }

// Consumer exposes the queue's consuming side.
func (d *Deps) Consumer() queue.Consumer { return d.Queue }
