package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialimpact/internal/cache"
	"socialimpact/internal/config"
	"socialimpact/internal/logger"
	"socialimpact/internal/repository"
	"socialimpact/internal/scoring"
)

const pingTimeout = 5 * time.Second

// App holds the stores and the scoring core shared by the commands
type App struct {
	Config       *config.Config
	Log          *logger.Logger
	SessionCache cache.SessionCache
	Archive      repository.AssessmentRepo
	ModelStore   *scoring.FileModelStore
	Predictor    *scoring.Predictor

	closers []func()
}

// New connects the configured backing stores. Redis and Mongo are both
// optional: without REDIS_URI sessions live in memory, without MONGO_URI
// nothing is archived.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Log:    log,
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		a.closers = append(a.closers, func() { rdb.Close() })

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		log.Info("connected to Redis", "addr", cfg.RedisAddr)
		a.SessionCache = cache.NewSessionCache(rdb, cfg.SessionTTL)
	} else {
		log.Warn("REDIS_URI not set, keeping sessions in memory")
		a.SessionCache = cache.NewMemorySessionCache(cfg.SessionTTL)
	}

	if cfg.MongoURI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, func() { client.Disconnect(context.Background()) })

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = client.Ping(pingCtx, nil)
		cancel()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		log.Info("connected to MongoDB", "database", cfg.MongoDatabase)
		a.Archive = repository.NewAssessmentRepo(client, cfg.MongoDatabase)
	} else {
		log.Info("MONGO_URI not set, assessment archive disabled")
		a.Archive = repository.NewNopAssessmentRepo()
	}

	// Model is loaded on the first scoring request
	a.ModelStore = scoring.NewFileModelStore(cfg.ModelPath, log)
	a.Predictor = scoring.NewPredictor(a.ModelStore)

	return a, nil
}

// Close releases the store connections in reverse order
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
