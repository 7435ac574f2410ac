package sqlitestore

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"zombiezen.com/go/sqlite"
)

const messageSelect = `
	SELECT m.id, m.content, m.sent_at, m.sender_id, m.room_id, COALESCE(u.username, '')
	FROM messages AS m
	LEFT JOIN users AS u ON u.id = m.sender_id`

type MessageRepo struct {
	c conner
}

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	_, err := run(ctx, r.c,
		`INSERT INTO messages (content, sent_at, sender_id, room_id) VALUES (?, ?, ?, ?) RETURNING id`,
		[]any{m.Content, toUnixMicro(m.SentAt), string(m.SenderID), int64(m.RoomID)},
		func(stmt *sqlite.Stmt) error {
			m.ID = domain.MessageID(stmt.ColumnInt64(0))
			return nil
		})
	if err != nil {
		return mapError(ctx, "messages.create", err, domain.ErrRoomNotFound)
	}
	return nil
}

func (r *MessageRepo) Get(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	var msg *domain.Message
	_, err := run(ctx, r.c, messageSelect+` WHERE m.id = ?`, []any{int64(id)},
		func(stmt *sqlite.Stmt) error {
			m := scanMessage(stmt)
			msg = &m
			return nil
		})
	if err != nil {
		return nil, mapError(ctx, "messages.get", err, nil)
	}
	if msg == nil {
		return nil, domain.ErrMessageNotFound
	}
	return msg, nil
}

func (r *MessageRepo) GetForUpdate(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	return r.Get(ctx, id)
}

func (r *MessageRepo) ListByRoom(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error) {
	return r.list(ctx, "messages.list_by_room",
		messageSelect+` WHERE m.room_id = ? ORDER BY m.sent_at ASC, m.id ASC`, int64(roomID))
}

func (r *MessageRepo) ListBySender(ctx context.Context, senderID domain.UserID) ([]domain.Message, error) {
	return r.list(ctx, "messages.list_by_sender",
		messageSelect+` WHERE m.sender_id = ? ORDER BY m.sent_at DESC, m.id DESC`, string(senderID))
}

func (r *MessageRepo) UpdateContent(ctx context.Context, id domain.MessageID, content string) error {
	n, err := run(ctx, r.c, `UPDATE messages SET content = ? WHERE id = ?`, []any{content, int64(id)}, nil)
	if err != nil {
		return mapError(ctx, "messages.update_content", err, nil)
	}
	if n == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepo) Delete(ctx context.Context, id domain.MessageID) error {
	n, err := run(ctx, r.c, `DELETE FROM messages WHERE id = ?`, []any{int64(id)}, nil)
	if err != nil {
		return mapError(ctx, "messages.delete", err, nil)
	}
	if n == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepo) list(ctx context.Context, op, query string, arg any) ([]domain.Message, error) {
	out := make([]domain.Message, 0, 32)
	_, err := run(ctx, r.c, query, []any{arg}, func(stmt *sqlite.Stmt) error {
		out = append(out, scanMessage(stmt))
		return nil
	})
	if err != nil {
		return nil, mapError(ctx, op, err, nil)
	}
	return out, nil
}

func scanMessage(stmt *sqlite.Stmt) domain.Message {
	return domain.Message{
		ID:         domain.MessageID(stmt.ColumnInt64(0)),
		Content:    stmt.ColumnText(1),
		SentAt:     fromUnixMicro(stmt.ColumnInt64(2)),
		SenderID:   domain.UserID(stmt.ColumnText(3)),
		RoomID:     domain.RoomID(stmt.ColumnInt64(4)),
		SenderName: stmt.ColumnText(5),
	}
}
