package sqlitestore

import (
	"context"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// conner выдаёт соединение: из пула на время одного запроса либо соединение открытой транзакции.
type conner interface {
	take(ctx context.Context) (*sqlite.Conn, func(), error)
}

type poolConn struct {
	pool *sqlitex.Pool
}

func (p poolConn) take(ctx context.Context) (*sqlite.Conn, func(), error) {
	conn, err := p.pool.Take(ctx)
	if err != nil {
		return nil, nil, err
	}
	return conn, func() { p.pool.Put(conn) }, nil
}

type txConn struct {
	conn *sqlite.Conn
}

func (t txConn) take(context.Context) (*sqlite.Conn, func(), error) {
	return t.conn, func() {}, nil
}

// run выполняет запрос, вызывая fn на каждую строку результата, и возвращает число изменённых строк.
func run(ctx context.Context, c conner, query string, args []any, fn func(stmt *sqlite.Stmt) error) (int, error) {
	conn, done, err := c.take(ctx)
	if err != nil {
		return 0, err
	}
	defer done()

	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args:       args,
		ResultFunc: fn,
	})
	if err != nil {
		return 0, err
	}

	return conn.Changes(), nil
}

// Время хранится в микросекундах UTC, как и точность timestamptz в postgres.
func toUnixMicro(t time.Time) int64 { return t.UTC().UnixMicro() }

func fromUnixMicro(v int64) time.Time { return time.UnixMicro(v).UTC() }
