// Package sqlitestore реализует repository.Store поверх встроенной SQLite (zombiezen.com/go/sqlite).
// Используется для локального запуска без postgres и в тестах сервисов.
package sqlitestore

import (
	"context"
	"log/slog"

	"github.com/cwrk-planet/chat-service/internal/repository"

	"zombiezen.com/go/sqlite/sqlitex"
)

type repos struct {
	rooms    *RoomRepo
	members  *MembershipRepo
	messages *MessageRepo
	users    *UserRepo
}

func newRepos(c conner) repos {
	return repos{
		rooms:    &RoomRepo{c: c},
		members:  &MembershipRepo{c: c},
		messages: &MessageRepo{c: c},
		users:    &UserRepo{c: c},
	}
}

func (r repos) Rooms() repository.RoomRepository         { return r.rooms }
func (r repos) Members() repository.MembershipRepository { return r.members }
func (r repos) Messages() repository.MessageRepository   { return r.messages }
func (r repos) Users() repository.UserRepository         { return r.users }

type Store struct {
	repos
	pool *sqlitex.Pool
}

var _ repository.Store = (*Store)(nil)

func NewStore(pool *sqlitex.Pool) *Store {
	return &Store{repos: newRepos(poolConn{pool: pool}), pool: pool}
}

// InTx открывает BEGIN IMMEDIATE: транзакции-писатели выстраиваются в очередь сразу, а не на первом INSERT.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.Repositories) error) (err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return storageError(ctx, "tx.begin", err)
	}
	defer s.pool.Put(conn)

	end, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return storageError(ctx, "tx.begin", err)
	}
	defer end(&err)

	return fn(newRepos(txConn{conn: conn}))
}

func (s *Store) Ping(ctx context.Context) error {
	if _, err := run(ctx, poolConn{pool: s.pool}, `SELECT 1`, nil, nil); err != nil {
		return storageError(ctx, "ping", err)
	}
	return nil
}

func (s *Store) Close() {
	if err := s.pool.Close(); err != nil {
		slog.Error("sqlite pool close failed", slog.Any("err", err))
	}
}
