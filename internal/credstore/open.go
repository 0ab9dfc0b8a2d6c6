package credstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/config"
	"github.com/uecsr/portal/internal/db"
	"github.com/uecsr/portal/internal/logger"
)

// StaleRetention is how long unused postgres credentials are kept.
const StaleRetention = 30 * 24 * time.Hour

// Open builds the store selected by options, wrapped in a Fallback. The
// returned close function releases backend connections. The postgres
// store also starts a cleaner for stale profiles that runs until ctx is
// done.
func Open(ctx context.Context, options *config.Options, log *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch options.Store {
	case config.StoreMemory:
		return NewMemoryStore(), noop, nil

	case config.StoreFile, "":
		fs := NewFileStore(options.StorePath)
		logger.OrNop(log).Debug("using file credential store", zap.String("path", fs.Path()))
		return NewFallback(fs, log), noop, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: options.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewFallback(NewRedisStore(rdb, "portal:"+options.Profile), log), rdb.Close, nil

	case config.StorePostgres:
		conn, err := db.InitPostgres(ctx, options.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		db.StartStaleCredentialCleaner(ctx, conn, time.Hour, StaleRetention, log)
		return NewFallback(NewPostgresStore(conn, options.Profile), log), conn.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown credential store %q", options.Store)
}
