package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront-cart", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, StorageMemory, cfg.Storage.Backend)
		assert.Equal(t, DriverSQLite, cfg.Storage.SQLDriver)
		assert.True(t, cfg.Storage.AllowFallback)
		assert.Equal(t, 300*time.Millisecond, cfg.Cart.DedupWindow)
		assert.Equal(t, "storefront:cart", cfg.Cart.MirrorKey)
		assert.Equal(t, "storefront:auth_token", cfg.Cart.CredentialKey)
		assert.True(t, cfg.Cart.PersistGuestCart)
		assert.Equal(t, []string{"admin"}, cfg.Cart.PrivilegedRoles)
		assert.Equal(t, 64, cfg.Cart.SyncQueueSize)
		assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout)
		assert.True(t, cfg.Signal.Enabled)
		assert.Equal(t, "storefront:identity", cfg.Signal.Channel)
		assert.Equal(t, "storefront-cart", cfg.Telemetry.ServiceName)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.False(t, cfg.Telemetry.LogsEnabled)
		assert.True(t, cfg.Swagger.Enabled)
		assert.False(t, cfg.Swagger.RequireAuth)
	})

	t.Run("loads values from environment variables with CART prefix", func(t *testing.T) {
		t.Setenv("CART_APP_PORT", "9000")
		t.Setenv("CART_STORAGE_BACKEND", "SQL")
		t.Setenv("CART_STORAGE_SQL_DRIVER", "postgres")
		t.Setenv("CART_CART_DEDUP_WINDOW", "500ms")
		t.Setenv("CART_CART_PERSIST_GUEST_CART", "false")
		t.Setenv("CART_CART_PRIVILEGED_ROLES", "admin staff")
		t.Setenv("CART_GATEWAY_BASE_URL", "https://api.example.com/v1")
		t.Setenv("CART_REDIS_HOST", "cache.local")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, StorageSQL, cfg.Storage.Backend)
		assert.Equal(t, DriverPostgres, cfg.Storage.SQLDriver)
		assert.Equal(t, 500*time.Millisecond, cfg.Cart.DedupWindow)
		assert.False(t, cfg.Cart.PersistGuestCart)
		assert.Equal(t, []string{"admin", "staff"}, cfg.Cart.PrivilegedRoles)
		assert.Equal(t, "https://api.example.com/v1", cfg.Gateway.BaseURL)
		assert.Equal(t, "cache.local:6379", cfg.Redis.Addr())
	})

	t.Run("rejects unknown storage backend", func(t *testing.T) {
		t.Setenv("CART_STORAGE_BACKEND", "etcd")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.backend")
	})

	t.Run("rejects unknown sql driver", func(t *testing.T) {
		t.Setenv("CART_STORAGE_BACKEND", "sql")
		t.Setenv("CART_STORAGE_SQL_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.sql_driver")
	})

	t.Run("rejects relative gateway url", func(t *testing.T) {
		t.Setenv("CART_GATEWAY_BASE_URL", "/api")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gateway.base_url")
	})

	t.Run("rejects shared mirror and credential keys", func(t *testing.T) {
		t.Setenv("CART_CART_MIRROR_KEY", "same")
		t.Setenv("CART_CART_CREDENTIAL_KEY", "same")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must differ")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		t.Setenv("CART_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("s3 backend requires bucket and keys", func(t *testing.T) {
		t.Setenv("CART_STORAGE_BACKEND", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3.bucket")

		t.Setenv("CART_S3_BUCKET", "carts")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3.access_key")

		t.Setenv("CART_S3_ACCESS_KEY", "key")
		t.Setenv("CART_S3_SECRET_KEY", "secret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, StorageS3, cfg.Storage.Backend)
		assert.Equal(t, "us-east-1", cfg.S3.Region)
		assert.True(t, cfg.S3.UsePathStyle)
	})

	t.Run("profiling requires a server address", func(t *testing.T) {
		t.Setenv("CART_PROFILING_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiling.server_address")

		t.Setenv("CART_PROFILING_SERVER_ADDRESS", "http://pyroscope:4040")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, cfg.App.Name, cfg.Profiling.ApplicationName)
		assert.Contains(t, cfg.Profiling.ProfileTypes, "cpu")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("CART_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("CART_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	t.Run("requires jwt.secret in production", func(t *testing.T) {
		t.Setenv("CART_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires long jwt.secret in production", func(t *testing.T) {
		t.Setenv("CART_APP_ENV", "production")
		t.Setenv("CART_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("rejects plaintext postgres in production", func(t *testing.T) {
		t.Setenv("CART_APP_ENV", "production")
		t.Setenv("CART_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("CART_STORAGE_BACKEND", "sql")
		t.Setenv("CART_STORAGE_SQL_DRIVER", "postgres")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("rejects unprotected swagger in production", func(t *testing.T) {
		t.Setenv("CART_APP_ENV", "production")
		t.Setenv("CART_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger endpoint must be disabled")

		t.Setenv("CART_SWAGGER_ALLOWED_IPS", "10.0.0.0/8")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Swagger.AllowedIPs)
	})

	t.Run("accepts valid production config", func(t *testing.T) {
		t.Setenv("CART_APP_ENV", "production")
		t.Setenv("CART_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("CART_STORAGE_BACKEND", "redis")
		t.Setenv("CART_SWAGGER_REQUIRE_AUTH", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "cart", Password: "secret", DBName: "storefront", SSLMode: "require"}

	assert.Equal(t, "postgres://cart:secret@db:5432/storefront?sslmode=require", d.DSN())
}
