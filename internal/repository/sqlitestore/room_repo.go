package sqlitestore

import (
	"context"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"zombiezen.com/go/sqlite"
)

const roomColumns = `id, name, created_at`

type RoomRepo struct {
	c conner
}

func (r *RoomRepo) Create(ctx context.Context, name string) (*domain.Room, error) {
	return r.one(ctx, "rooms.create",
		`INSERT INTO chat_rooms (name, created_at) VALUES (?, ?) RETURNING `+roomColumns,
		name, toUnixMicro(time.Now()))
}

func (r *RoomRepo) Get(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return r.one(ctx, "rooms.get", `SELECT `+roomColumns+` FROM chat_rooms WHERE id = ?`, int64(id))
}

// GetForShare и GetForUpdate совпадают с Get: транзакции открываются через BEGIN IMMEDIATE,
// поэтому запись уже сериализована на уровне базы.
func (r *RoomRepo) GetForShare(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return r.Get(ctx, id)
}

func (r *RoomRepo) GetForUpdate(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return r.Get(ctx, id)
}

func (r *RoomRepo) ListByMember(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	out := make([]domain.Room, 0, 8)
	_, err := run(ctx, r.c, `
		SELECT r.id, r.name, r.created_at
		FROM chat_rooms AS r
		JOIN room_members AS m ON m.room_id = r.id
		WHERE m.user_id = ?
		ORDER BY r.id ASC`,
		[]any{string(userID)},
		func(stmt *sqlite.Stmt) error {
			out = append(out, scanRoom(stmt))
			return nil
		})
	if err != nil {
		return nil, mapError(ctx, "rooms.list_by_member", err, nil)
	}
	return out, nil
}

func (r *RoomRepo) Rename(ctx context.Context, id domain.RoomID, name string) (*domain.Room, error) {
	return r.one(ctx, "rooms.rename",
		`UPDATE chat_rooms SET name = ? WHERE id = ? RETURNING `+roomColumns,
		name, int64(id))
}

func (r *RoomRepo) Delete(ctx context.Context, id domain.RoomID) error {
	n, err := run(ctx, r.c, `DELETE FROM chat_rooms WHERE id = ?`, []any{int64(id)}, nil)
	if err != nil {
		return mapError(ctx, "rooms.delete", err, nil)
	}
	if n == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepo) DeleteOrphaned(ctx context.Context) (int64, error) {
	n, err := run(ctx, r.c, `
		DELETE FROM chat_rooms
		WHERE NOT EXISTS (SELECT 1 FROM room_members AS m WHERE m.room_id = chat_rooms.id)`,
		nil, nil)
	if err != nil {
		return 0, mapError(ctx, "rooms.delete_orphaned", err, nil)
	}
	return int64(n), nil
}

func (r *RoomRepo) one(ctx context.Context, op, query string, args ...any) (*domain.Room, error) {
	var room *domain.Room
	_, err := run(ctx, r.c, query, args, func(stmt *sqlite.Stmt) error {
		rm := scanRoom(stmt)
		room = &rm
		return nil
	})
	if err != nil {
		return nil, mapError(ctx, op, err, nil)
	}
	if room == nil {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func scanRoom(stmt *sqlite.Stmt) domain.Room {
	return domain.Room{
		ID:        domain.RoomID(stmt.ColumnInt64(0)),
		Name:      stmt.ColumnText(1),
		CreatedAt: fromUnixMicro(stmt.ColumnInt64(2)),
	}
}
