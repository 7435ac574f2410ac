// Package postgres реализует repository.Store поверх pgx.
package postgres

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repos struct {
	rooms    *RoomRepo
	members  *MembershipRepo
	messages *MessageRepo
	users    *UserRepo
}

func newRepos(q querier) repos {
	return repos{
		rooms:    NewRoomRepo(q),
		members:  NewMembershipRepo(q),
		messages: NewMessageRepo(q),
		users:    NewUserRepo(q),
	}
}

func (r repos) Rooms() repository.RoomRepository         { return r.rooms }
func (r repos) Members() repository.MembershipRepository { return r.members }
func (r repos) Messages() repository.MessageRepository   { return r.messages }
func (r repos) Users() repository.UserRepository         { return r.users }

type Store struct {
	repos
	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{repos: newRepos(pool), pool: pool}
}

func (s *Store) InTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.NewStorageError("tx.begin", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapPgError("tx.commit", err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ping(ctx, s.pool); err != nil {
		return domain.NewStorageError("ping", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}
