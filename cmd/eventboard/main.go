package main

import (
	"context"
	"log"
	"net/http"

	"github.com/xlab/closer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eventboardhq/eventboard-backend/internal/api"
	"github.com/eventboardhq/eventboard-backend/internal/calendar"
	"github.com/eventboardhq/eventboard-backend/internal/config"
	"github.com/eventboardhq/eventboard-backend/internal/database"
	"github.com/eventboardhq/eventboard-backend/internal/database/calendars"
	"github.com/eventboardhq/eventboard-backend/internal/database/memory"
	"github.com/eventboardhq/eventboard-backend/internal/dispatch"
	"github.com/eventboardhq/eventboard-backend/internal/notify"
	"github.com/eventboardhq/eventboard-backend/internal/pkg/jwt"
	"github.com/eventboardhq/eventboard-backend/internal/redis"
	"github.com/eventboardhq/eventboard-backend/internal/scheduler"
	"github.com/eventboardhq/eventboard-backend/internal/templates"
)

func main() {
	ctx := context.Background()

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}

	if path := config.TemplatesPath(); path != "" {
		if err := templates.Load(path); err != nil {
			logger.Fatalw("unable to load templates", "path", path, "err", err)
		}
	}

	jwts := jwt.NewManager()

	sink := newSink(logger)
	store := newStore(ctx, logger)

	registry := calendar.NewRegistry(store, sink, logger)
	if err := registry.LoadAll(ctx); err != nil {
		logger.Fatalw("unable to load calendars", "err", err)
	}
	closer.Bind(func() {
		if err := registry.SaveAll(context.Background()); err != nil {
			logger.Errorw("final save failed", "err", err)
		}
	})

	dispatcher := dispatch.New(registry, logger)

	sched := scheduler.New(registry, config.SweepInterval(), config.SaveInterval(), logger)
	sched.Start()

	api, err := api.NewApi(
		logger,
		jwts,
		registry,
		dispatcher,
	)
	if err != nil {
		logger.Fatalw("error initiating api", "err", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		logger.Fatalw("error initiating server logger", "err", err)
	}

	server := &http.Server{
		Addr:     ":" + config.Port(),
		Handler:  api,
		ErrorLog: errLogger,
	}

	logger.Infow("Started server", "port", config.Port())
	logger.Fatalw("server error", "err", server.ListenAndServe())
}

func newSink(logger *zap.SugaredLogger) notify.Sink {
	switch config.Platform() {
	case "memory":
		return notify.NewMemorySink()
	default:
		logger.Fatalw("unknown platform", "platform", config.Platform())
		return nil
	}
}

func newStore(ctx context.Context, logger *zap.SugaredLogger) calendar.Store {
	switch config.Storage() {
	case "postgres":
		db, err := database.NewPGX(ctx)
		if err != nil {
			logger.Fatalw("unable to initialize db", "err", err)
		}
		store, err := calendars.NewStore(ctx, db)
		if err != nil {
			logger.Fatalw("unable to initialize calendar store", "err", err)
		}
		return store
	case "redis":
		return redis.NewCalendarStore(redis.NewRedisPool(logger))
	case "memory":
		return memory.NewStore()
	default:
		logger.Fatalw("unknown storage backend", "storage", config.Storage())
		return nil
	}
}

func initLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if config.Production() {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
