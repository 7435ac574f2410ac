package sqlitestore

import (
	"context"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"zombiezen.com/go/sqlite"
)

type MembershipRepo struct {
	c conner
}

func (r *MembershipRepo) IsMember(ctx context.Context, userID domain.UserID, roomID domain.RoomID) (bool, error) {
	var found bool
	_, err := run(ctx, r.c,
		`SELECT 1 FROM room_members WHERE user_id = ? AND room_id = ?`,
		[]any{string(userID), int64(roomID)},
		func(*sqlite.Stmt) error {
			found = true
			return nil
		})
	if err != nil {
		return false, mapError(ctx, "members.is_member", err, nil)
	}
	return found, nil
}

// Add идемпотентен. sqlite не сообщает, какой внешний ключ нарушен: если комнаты нет,
// возвращаем ErrRoomNotFound, иначе ErrUserNotFound.
func (r *MembershipRepo) Add(ctx context.Context, userID domain.UserID, roomID domain.RoomID) error {
	_, err := run(ctx, r.c,
		`INSERT INTO room_members (user_id, room_id, joined_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		[]any{string(userID), int64(roomID), toUnixMicro(time.Now())},
		nil)
	if err == nil {
		return nil
	}

	fkErr := domain.ErrUserNotFound
	if _, getErr := (&RoomRepo{c: r.c}).Get(ctx, roomID); getErr != nil {
		fkErr = domain.ErrRoomNotFound
	}
	return mapError(ctx, "members.add", err, fkErr)
}

func (r *MembershipRepo) RemoveAllForRoom(ctx context.Context, roomID domain.RoomID) (int64, error) {
	n, err := run(ctx, r.c, `DELETE FROM room_members WHERE room_id = ?`, []any{int64(roomID)}, nil)
	if err != nil {
		return 0, mapError(ctx, "members.remove_all_for_room", err, nil)
	}
	return int64(n), nil
}
