package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/pkg/logger"
)

type RoomService struct {
	store  repository.Store
	limits Limits
}

func NewRoomService(store repository.Store, limits Limits) *RoomService {
	return &RoomService{store: store, limits: limits}
}

// CreateRoom создаёт комнату и членство создателя в одной транзакции.
func (s *RoomService) CreateRoom(ctx context.Context, userID domain.UserID, name string) (*domain.Room, error) {
	name, err := domain.NormalizeRoomName(name, s.limits.MaxRoomNameLength)
	if err != nil {
		return nil, err
	}

	var room *domain.Room
	err = s.store.InTx(ctx, func(tx repository.Repositories) error {
		r, err := tx.Rooms().Create(ctx, name)
		if err != nil {
			return err
		}
		if err := tx.Members().Add(ctx, userID, r.ID); err != nil {
			return err
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	logger.FromContext(ctx).Info("room created",
		slog.String("room_id", room.ID.String()),
		slog.String("user_id", userID.String()))
	return room, nil
}

// ListRoomsForUser возвращает комнаты пользователя по возрастанию id.
func (s *RoomService) ListRoomsForUser(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	rooms, err := s.store.Rooms().ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// RenameRoom: при одновременных переименованиях побеждает последняя запись.
func (s *RoomService) RenameRoom(ctx context.Context, userID domain.UserID, roomID domain.RoomID, newName string) (*domain.Room, error) {
	name, err := domain.NormalizeRoomName(newName, s.limits.MaxRoomNameLength)
	if err != nil {
		return nil, err
	}

	var room *domain.Room
	err = s.store.InTx(ctx, func(tx repository.Repositories) error {
		if _, err := tx.Rooms().GetForUpdate(ctx, roomID); err != nil {
			return err
		}
		if err := requireMember(ctx, tx, userID, roomID); err != nil {
			return err
		}
		r, err := tx.Rooms().Rename(ctx, roomID, name)
		if err != nil {
			return err
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rename room: %w", err)
	}

	logger.FromContext(ctx).Info("room renamed",
		slog.String("room_id", roomID.String()),
		slog.String("user_id", userID.String()))
	return room, nil
}

// DeleteRoom удаляет членства и саму комнату; сообщения уходят каскадом по внешнему ключу.
// Блокировка строки комнаты упорядочивает удаление с параллельной отправкой сообщений.
func (s *RoomService) DeleteRoom(ctx context.Context, userID domain.UserID, roomID domain.RoomID) error {
	var removed int64
	err := s.store.InTx(ctx, func(tx repository.Repositories) error {
		if _, err := tx.Rooms().GetForUpdate(ctx, roomID); err != nil {
			return err
		}
		if err := requireMember(ctx, tx, userID, roomID); err != nil {
			return err
		}
		n, err := tx.Members().RemoveAllForRoom(ctx, roomID)
		if err != nil {
			return err
		}
		removed = n
		return tx.Rooms().Delete(ctx, roomID)
	})
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	logger.FromContext(ctx).Info("room deleted",
		slog.String("room_id", roomID.String()),
		slog.String("user_id", userID.String()),
		slog.Int64("members_removed", removed))
	return nil
}
