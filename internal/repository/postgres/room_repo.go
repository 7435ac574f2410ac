package postgres

import (
	"context"
	"errors"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository/postgres/queries"

	"github.com/jackc/pgx/v5"
)

type RoomRepo struct {
	q querier
}

func NewRoomRepo(q querier) *RoomRepo {
	return &RoomRepo{q: q}
}

func (r *RoomRepo) Create(ctx context.Context, name string) (*domain.Room, error) {
	return r.scanOne(ctx, "rooms.create", queries.QueryCreateRoom, name)
}

func (r *RoomRepo) Get(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return r.scanOne(ctx, "rooms.get", queries.QueryGetRoom, int64(id))
}

func (r *RoomRepo) GetForShare(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return r.scanOne(ctx, "rooms.get_for_share", queries.QueryGetRoomForShare, int64(id))
}

func (r *RoomRepo) GetForUpdate(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return r.scanOne(ctx, "rooms.get_for_update", queries.QueryGetRoomForUpdate, int64(id))
}

func (r *RoomRepo) ListByMember(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	rows, err := r.q.Query(ctx, queries.QueryListRoomsByMember, string(userID))
	if err != nil {
		return nil, mapPgError("rooms.list_by_member", err)
	}
	defer rows.Close()

	out := make([]domain.Room, 0, 8)
	for rows.Next() {
		var (
			rm domain.Room
			id int64
		)
		if err := rows.Scan(&id, &rm.Name, &rm.CreatedAt); err != nil {
			return nil, mapPgError("rooms.list_by_member", err)
		}
		rm.ID = domain.RoomID(id)
		rm.CreatedAt = rm.CreatedAt.UTC()
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("rooms.list_by_member", err)
	}

	return out, nil
}

func (r *RoomRepo) Rename(ctx context.Context, id domain.RoomID, name string) (*domain.Room, error) {
	return r.scanOne(ctx, "rooms.rename", queries.QueryRenameRoom, int64(id), name)
}

func (r *RoomRepo) Delete(ctx context.Context, id domain.RoomID) error {
	tag, err := r.q.Exec(ctx, queries.QueryDeleteRoom, int64(id))
	if err != nil {
		return mapPgError("rooms.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}

	return nil
}

func (r *RoomRepo) DeleteOrphaned(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, queries.QueryDeleteOrphanedRoom)
	if err != nil {
		return 0, mapPgError("rooms.delete_orphaned", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RoomRepo) scanOne(ctx context.Context, op, sql string, args ...any) (*domain.Room, error) {
	var (
		rm domain.Room
		id int64
	)
	err := r.q.QueryRow(ctx, sql, args...).Scan(&id, &rm.Name, &rm.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, mapPgError(op, err)
	}
	rm.ID = domain.RoomID(id)
	rm.CreatedAt = rm.CreatedAt.UTC()

	return &rm, nil
}
