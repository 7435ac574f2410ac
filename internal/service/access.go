package service

import (
	"context"
	"log/slog"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/pkg/logger"
)

// Limits ограничивают длину пользовательского текста; 0 снимает ограничение.
type Limits struct {
	MaxRoomNameLength int
	MaxMessageLength  int
}

// requireMember пускает к комнате только её участников. Любой участник равноправен:
// переименовать или удалить комнату может не только создатель.
func requireMember(ctx context.Context, repos repository.Repositories, userID domain.UserID, roomID domain.RoomID) error {
	ok, err := repos.Members().IsMember(ctx, userID, roomID)
	if err != nil {
		return err
	}
	if !ok {
		logger.FromContext(ctx).Warn("access denied: not a member",
			slog.String("user_id", userID.String()),
			slog.String("room_id", roomID.String()))
		return domain.ErrNotMember
	}
	return nil
}

// requireSender: менять и удалять сообщение может только автор, членство в комнате не даёт этого права.
func requireSender(ctx context.Context, m *domain.Message, userID domain.UserID) error {
	if m.SenderID != userID {
		logger.FromContext(ctx).Warn("access denied: not the sender",
			slog.String("user_id", userID.String()),
			slog.String("message_id", m.ID.String()))
		return domain.ErrNotSender
	}
	return nil
}
