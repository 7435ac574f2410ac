package sqlitestore

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

//go:embed schema.sql
var schema string

type Config struct {
	// Path к файлу базы; файл создаётся при отсутствии. ":memory:" допустим только с PoolSize=1.
	Path     string
	PoolSize int
	Logger   *slog.Logger
}

// Open открывает пул соединений и применяет схему.
func Open(ctx context.Context, cfg Config) (*sqlitex.Pool, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	size := cfg.PoolSize
	if size <= 0 {
		size = max(runtime.NumCPU(), 4)
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    size,
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", cfg.Path, err)
	}

	if err := migrate(ctx, pool); err != nil {
		_ = pool.Close()
		return nil, err
	}

	log.Info("sqlite pool opened", "path", cfg.Path, "pool_size", size)
	return pool, nil
}

func migrate(ctx context.Context, pool *sqlitex.Pool) error {
	conn, err := pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	defer pool.Put(conn)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	return nil
}

// prepareConn выполняется один раз на соединение. foreign_keys обязателен:
// каскады членств и сообщений держатся на внешних ключах.
func prepareConn(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, p, nil); err != nil {
			return fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	return nil
}
