package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("should load bundled config", func(t *testing.T) {
		req := require.New(t)
		cfg, err := Load("config.yaml")
		req.NoError(err)
		req.Equal(":8080", cfg.HTTP.Addr)
		req.Equal(DriverSQLite, cfg.Storage.Driver)
		req.Equal(time.Hour, cfg.Security.JWT.AccessTTL)
		req.Equal(4000, cfg.Chat.MaxMessageLength)
	})

	t.Run("should fill defaults", func(t *testing.T) {
		req := require.New(t)
		cfg, err := Load(writeConfig(t, `
http:
  addr: ":1"
security:
  jwt:
    secret: "0123456789abcdef"
`))
		req.NoError(err)
		req.Equal(DriverSQLite, cfg.Storage.Driver)
		req.Equal("./data/chat.db", cfg.SQLite.Path)
		req.Equal(AlgHS256, cfg.Security.JWT.Alg)
		req.Equal("chat-service", cfg.Security.JWT.Issuer)
		req.Equal(6, cfg.Security.Password.MinLength)
		req.Equal(100, cfg.Chat.MaxRoomNameLength)
		req.Equal(30*time.Second, cfg.HTTP.RequestTimeout)
	})

	t.Run("should apply env overrides", func(t *testing.T) {
		req := require.New(t)
		t.Setenv("CHAT_HTTP_ADDR", ":2")
		t.Setenv("CHAT_STORAGE_DRIVER", "postgres")
		t.Setenv("CHAT_POSTGRES_DSN", "postgres://x")
		t.Setenv("CHAT_JWT_SECRET", "from-env-secret-value")

		cfg, err := Load(writeConfig(t, `
http:
  addr: ":1"
`))
		req.NoError(err)
		req.Equal(":2", cfg.HTTP.Addr)
		req.Equal(DriverPostgres, cfg.Storage.Driver)
		req.Equal("postgres://x", cfg.Postgres.DSN)
		req.Equal("from-env-secret-value", cfg.Security.JWT.Secret)
	})

	t.Run("should reject invalid settings", func(t *testing.T) {
		cases := map[string]string{
			"missing addr":   "security:\n  jwt:\n    secret: \"0123456789abcdef\"\n",
			"short secret":   "http:\n  addr: \":1\"\nsecurity:\n  jwt:\n    secret: short\n",
			"rs256 no keys":  "http:\n  addr: \":1\"\nsecurity:\n  jwt:\n    alg: RS256\n",
			"unknown driver": "http:\n  addr: \":1\"\nstorage:\n  driver: mongo\nsecurity:\n  jwt:\n    secret: \"0123456789abcdef\"\n",
			"pg without dsn": "http:\n  addr: \":1\"\nstorage:\n  driver: postgres\nsecurity:\n  jwt:\n    secret: \"0123456789abcdef\"\n",
		}
		for name, body := range cases {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err, name)
		}
	})
}
