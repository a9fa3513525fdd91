package storekit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/storekit/pkg/config"
	"github.com/dmitrymomot/storekit/pkg/logger"
	"github.com/dmitrymomot/storekit/pkg/source"
)

// Source kinds accepted by Config.Source.
const (
	SourceMemory   = "memory"
	SourceFile     = "file"
	SourceRedis    = "redis"
	SourcePostgres = "postgres"
	SourceMongo    = "mongo"
	SourceS3       = "s3"
)

// Config selects the product source and sizes the in-memory caches.
// Connection settings for the chosen backend are read separately from its
// own environment config (REDIS_URL, PG_CONN_URL, MONGODB_URL, S3_BUCKET
// and friends).
type Config struct {
	Source           string        `env:"STOREKIT_SOURCE" envDefault:"memory"`          // Source selects the backend: memory, file, redis, postgres, mongo or s3.
	ProductDir       string        `env:"STOREKIT_PRODUCT_DIR" envDefault:"./products"` // ProductDir is the catalog directory for the file source.
	ProductCacheSize int           `env:"STOREKIT_PRODUCT_CACHE_SIZE" envDefault:"128"` // ProductCacheSize caps the number of cached product documents.
	ProductCacheTTL  time.Duration `env:"STOREKIT_PRODUCT_CACHE_TTL" envDefault:"5m"`   // ProductCacheTTL bounds how stale a cached product may get.
	DecodeCacheSize  int           `env:"STOREKIT_DECODE_CACHE_SIZE" envDefault:"256"`  // DecodeCacheSize caps the number of cached decoded availability sets.
	LogLevel         slog.Level    `env:"STOREKIT_LOG_LEVEL" envDefault:"info"`         // LogLevel is one of debug, info, warn or error.
	LogFormat        string        `env:"STOREKIT_LOG_FORMAT" envDefault:"json"`        // LogFormat is json or text.
}

// FromEnv builds a client entirely from environment variables: Config picks
// and sizes everything, the chosen source's own config supplies connection
// details. Extra options override what the environment decided.
func FromEnv(ctx context.Context, opts ...Option) (*Client, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return FromConfig(ctx, cfg, opts...)
}

// FromConfig builds a client from an explicit Config, connecting to the
// backend the config names.
func FromConfig(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	log := logger.New(
		logger.WithLevel(cfg.LogLevel),
		logger.WithFormat(logFormat(cfg.LogFormat)),
		logger.WithService("storekit"),
	)

	src, err := openSource(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithLogger(log),
		WithDecodeCacheCapacity(cfg.DecodeCacheSize),
		WithProductCache(cfg.ProductCacheSize, cfg.ProductCacheTTL),
	}
	return New(src, append(base, opts...)...)
}

// openSource connects the backend named by cfg.Source, loading that
// backend's connection settings from the environment.
func openSource(ctx context.Context, cfg Config, log *slog.Logger) (source.Source, error) {
	switch cfg.Source {
	case SourceMemory:
		return source.NewMemorySource()
	case SourceFile:
		return source.NewFileSource(cfg.ProductDir)
	case SourceRedis:
		var rcfg source.RedisConfig
		if err := config.Load(&rcfg); err != nil {
			return nil, err
		}
		client, err := source.ConnectRedis(ctx, rcfg)
		if err != nil {
			return nil, err
		}
		return source.NewRedisSource(client), nil
	case SourcePostgres:
		var pcfg source.PostgresConfig
		if err := config.Load(&pcfg); err != nil {
			return nil, err
		}
		pool, err := source.ConnectPostgres(ctx, pcfg)
		if err != nil {
			return nil, err
		}
		if err := source.MigratePostgres(ctx, pool, pcfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		return source.NewPostgresSource(pool), nil
	case SourceMongo:
		var mcfg source.MongoConfig
		if err := config.Load(&mcfg); err != nil {
			return nil, err
		}
		client, err := source.ConnectMongo(ctx, mcfg)
		if err != nil {
			return nil, err
		}
		return source.NewMongoSource(client, mcfg.Database), nil
	case SourceS3:
		var scfg source.S3Config
		if err := config.Load(&scfg); err != nil {
			return nil, err
		}
		client, err := source.ConnectS3(ctx, scfg)
		if err != nil {
			return nil, err
		}
		return source.NewS3Source(client, scfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

// logFormat maps the config string onto a logger format, defaulting to JSON
// for anything unrecognized.
func logFormat(s string) logger.Format {
	if logger.Format(s) == logger.FormatText {
		return logger.FormatText
	}
	return logger.FormatJSON
}
