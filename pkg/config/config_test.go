package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.App.StoreDriver)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.DB.Migrate)
	assert.EqualValues(t, 25, cfg.DB.MaxConns)
	assert.False(t, cfg.Storage.Enabled())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("JWT_JWKS_URL", "https://auth.example.com/.well-known/jwks.json")
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("HTTP_PORT", "9090")
	v.Set("DB_MIGRATE", "true")
	v.Set("MINIO_ENDPOINT", "minio:9000")
	v.Set("MINIO_ACCESS_KEY", "ak")
	v.Set("MINIO_SECRET_KEY", "sk")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.App.StoreDriver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.DB.Migrate)
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, "stock-receipts", cfg.Storage.Bucket)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]string
	}{
		{"sin credenciales JWT", map[string]string{}},
		{"driver desconocido", map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "sqlite"}},
		{"minio sin claves", map[string]string{"JWT_SECRET": "x", "MINIO_ENDPOINT": "minio:9000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/stock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestDecode_SinValidar(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/stock")

	cfg := decode(v)
	assert.Equal(t, "postgres://u:p@db:5432/stock", cfg.DB.ConnectionString())
	assert.Error(t, cfg.Validate(), "sin JWT la API no arranca")
}
