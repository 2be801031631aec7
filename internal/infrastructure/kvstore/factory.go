package kvstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storefront/cart/internal/domain/shared"
	"github.com/storefront/cart/internal/infrastructure/config"
)

// Factory creates the key-value store selected by configuration
type Factory struct {
	storage config.StorageConfig
	redis   config.RedisConfig
	s3      config.S3Config
	db      *gorm.DB
	logger  *zap.Logger
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithDatabase supplies the GORM handle used by the sql backend
func WithDatabase(db *gorm.DB) FactoryOption {
	return func(f *Factory) {
		f.db = db
	}
}

// WithS3 supplies the bucket settings used by the s3 backend
func WithS3(cfg config.S3Config) FactoryOption {
	return func(f *Factory) {
		f.s3 = cfg
	}
}

// NewFactory creates a new factory
func NewFactory(storage config.StorageConfig, redis config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		storage: storage,
		redis:   redis,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore builds the configured backend. A redis backend that cannot be
// reached falls back to memory when storage.allow_fallback is set.
func (f *Factory) CreateStore(ctx context.Context) (shared.KeyValueStore, error) {
	switch f.storage.Backend {
	case config.StorageMemory, "":
		f.logger.Info("using in-memory key-value store")
		return NewMemoryStore(), nil

	case config.StorageRedis:
		store, err := NewRedisStore(f.redis, f.storage.KeyPrefix)
		if err == nil {
			f.logger.Info("using Redis key-value store", zap.String("addr", f.redis.Addr()))
			return store, nil
		}
		if !f.storage.AllowFallback {
			return nil, fmt.Errorf("Redis required for key-value storage but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory key-value store. "+
			"Carts will not survive a restart or be shared across instances.",
			zap.Error(err),
		)
		return NewMemoryStore(), nil

	case config.StorageSQL:
		if f.db == nil {
			return nil, fmt.Errorf("sql key-value store requires a database connection")
		}
		store := NewSQLStore(f.db, f.storage.KeyPrefix)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		f.logger.Info("using SQL key-value store", zap.String("driver", f.storage.SQLDriver))
		return store, nil

	case config.StorageS3:
		store, err := NewS3Store(ctx, f.s3, f.storage.KeyPrefix, f.logger)
		if err != nil {
			return nil, err
		}
		if f.s3.CreateBucket {
			if err := store.EnsureBucket(ctx); err != nil {
				return nil, err
			}
		}
		f.logger.Info("using S3 key-value store", zap.String("bucket", f.s3.Bucket))
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", f.storage.Backend)
	}
}
