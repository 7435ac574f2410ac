package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/pkg/logger"
)

type MessageService struct {
	store  repository.Store
	limits Limits
	now    func() time.Time
}

func NewMessageService(store repository.Store, limits Limits, now func() time.Time) *MessageService {
	if now == nil {
		now = time.Now
	}
	return &MessageService{store: store, limits: limits, now: now}
}

// ListMessagesInRoom: история комнаты по (SentAt, ID) по возрастанию, только для участников.
func (s *MessageService) ListMessagesInRoom(ctx context.Context, userID domain.UserID, roomID domain.RoomID) ([]domain.Message, error) {
	if _, err := s.store.Rooms().Get(ctx, roomID); err != nil {
		return nil, fmt.Errorf("list room messages: %w", err)
	}
	if err := requireMember(ctx, s.store, userID, roomID); err != nil {
		return nil, fmt.Errorf("list room messages: %w", err)
	}

	msgs, err := s.store.Messages().ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list room messages: %w", err)
	}
	return msgs, nil
}

// ListMessagesBySender: сообщения пользователя во всех комнатах, новые первыми.
func (s *MessageService) ListMessagesBySender(ctx context.Context, userID domain.UserID) ([]domain.Message, error) {
	msgs, err := s.store.Messages().ListBySender(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list my messages: %w", err)
	}
	return msgs, nil
}

// CreateMessage проверяет членство и вставляет сообщение в одной транзакции, держа разделяемую
// блокировку комнаты. SentAt ставится здесь, в момент приёма.
func (s *MessageService) CreateMessage(ctx context.Context, userID domain.UserID, roomID domain.RoomID, content string) (*domain.Message, error) {
	content, err := domain.NormalizeContent(content, s.limits.MaxMessageLength)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		Content:  content,
		SenderID: userID,
		RoomID:   roomID,
	}
	err = s.store.InTx(ctx, func(tx repository.Repositories) error {
		if _, err := tx.Rooms().GetForShare(ctx, roomID); err != nil {
			return err
		}
		if err := requireMember(ctx, tx, userID, roomID); err != nil {
			return err
		}

		msg.SentAt = s.now().UTC().Truncate(time.Microsecond)
		if err := tx.Messages().Create(ctx, msg); err != nil {
			return err
		}

		u, err := tx.Users().GetByID(ctx, userID)
		switch {
		case err == nil:
			msg.SenderName = u.Username
		case !errors.Is(err, domain.ErrUserNotFound):
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	logger.FromContext(ctx).Info("message sent",
		slog.String("message_id", msg.ID.String()),
		slog.String("room_id", roomID.String()),
		slog.String("user_id", userID.String()))
	return msg, nil
}

// EditMessage меняет только Content; SentAt, отправитель и комната остаются прежними.
func (s *MessageService) EditMessage(ctx context.Context, userID domain.UserID, messageID domain.MessageID, newContent string) (*domain.Message, error) {
	content, err := domain.NormalizeContent(newContent, s.limits.MaxMessageLength)
	if err != nil {
		return nil, err
	}

	var msg *domain.Message
	err = s.store.InTx(ctx, func(tx repository.Repositories) error {
		m, err := tx.Messages().GetForUpdate(ctx, messageID)
		if err != nil {
			return err
		}
		if err := requireSender(ctx, m, userID); err != nil {
			return err
		}
		if err := tx.Messages().UpdateContent(ctx, messageID, content); err != nil {
			return err
		}
		m.Content = content
		msg = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("edit message: %w", err)
	}

	logger.FromContext(ctx).Info("message edited",
		slog.String("message_id", messageID.String()),
		slog.String("user_id", userID.String()))
	return msg, nil
}

func (s *MessageService) DeleteMessage(ctx context.Context, userID domain.UserID, messageID domain.MessageID) error {
	err := s.store.InTx(ctx, func(tx repository.Repositories) error {
		m, err := tx.Messages().GetForUpdate(ctx, messageID)
		if err != nil {
			return err
		}
		if err := requireSender(ctx, m, userID); err != nil {
			return err
		}
		return tx.Messages().Delete(ctx, messageID)
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	logger.FromContext(ctx).Info("message deleted",
		slog.String("message_id", messageID.String()),
		slog.String("user_id", userID.String()))
	return nil
}
