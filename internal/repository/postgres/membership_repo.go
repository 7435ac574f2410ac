package postgres

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository/postgres/queries"
)

type MembershipRepo struct {
	q querier
}

func NewMembershipRepo(q querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

func (r *MembershipRepo) IsMember(ctx context.Context, userID domain.UserID, roomID domain.RoomID) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, queries.QueryIsMember, string(userID), int64(roomID)).Scan(&exists); err != nil {
		return false, mapPgError("members.is_member", err)
	}
	return exists, nil
}

// Add идемпотентен: повторное добавление той же пары не ошибка.
func (r *MembershipRepo) Add(ctx context.Context, userID domain.UserID, roomID domain.RoomID) error {
	if _, err := r.q.Exec(ctx, queries.QueryAddMember, string(userID), int64(roomID)); err != nil {
		return mapPgError("members.add", err)
	}
	return nil
}

func (r *MembershipRepo) RemoveAllForRoom(ctx context.Context, roomID domain.RoomID) (int64, error) {
	tag, err := r.q.Exec(ctx, queries.QueryRemoveRoomMembers, int64(roomID))
	if err != nil {
		return 0, mapPgError("members.remove_all_for_room", err)
	}
	return tag.RowsAffected(), nil
}
