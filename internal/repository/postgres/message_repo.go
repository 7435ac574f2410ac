package postgres

import (
	"context"
	"errors"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository/postgres/queries"

	"github.com/jackc/pgx/v5"
)

type MessageRepo struct {
	q querier
}

func NewMessageRepo(q querier) *MessageRepo {
	return &MessageRepo{q: q}
}

// Create заполняет m.ID. SentAt выставляет сервис.
func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	var id int64
	err := r.q.QueryRow(ctx, queries.QueryCreateMessage,
		m.Content,
		m.SentAt,
		string(m.SenderID),
		int64(m.RoomID),
	).Scan(&id)
	if err != nil {
		return mapPgError("messages.create", err)
	}
	m.ID = domain.MessageID(id)

	return nil
}

func (r *MessageRepo) Get(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	return r.getOne(ctx, "messages.get", queries.QueryGetMessage, id)
}

func (r *MessageRepo) GetForUpdate(ctx context.Context, id domain.MessageID) (*domain.Message, error) {
	return r.getOne(ctx, "messages.get_for_update", queries.QueryGetMessageForUpdate, id)
}

func (r *MessageRepo) ListByRoom(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error) {
	return r.list(ctx, "messages.list_by_room", queries.QueryListMessagesByRoom, int64(roomID))
}

func (r *MessageRepo) ListBySender(ctx context.Context, senderID domain.UserID) ([]domain.Message, error) {
	return r.list(ctx, "messages.list_by_sender", queries.QueryListMessagesBySender, string(senderID))
}

func (r *MessageRepo) UpdateContent(ctx context.Context, id domain.MessageID, content string) error {
	tag, err := r.q.Exec(ctx, queries.QueryUpdateMessageContent, int64(id), content)
	if err != nil {
		return mapPgError("messages.update_content", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}

	return nil
}

func (r *MessageRepo) Delete(ctx context.Context, id domain.MessageID) error {
	tag, err := r.q.Exec(ctx, queries.QueryDeleteMessage, int64(id))
	if err != nil {
		return mapPgError("messages.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}

	return nil
}

func (r *MessageRepo) getOne(ctx context.Context, op, sql string, id domain.MessageID) (*domain.Message, error) {
	m, err := scanMessage(r.q.QueryRow(ctx, sql, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, mapPgError(op, err)
	}

	return m, nil
}

func (r *MessageRepo) list(ctx context.Context, op, sql string, arg any) ([]domain.Message, error) {
	rows, err := r.q.Query(ctx, sql, arg)
	if err != nil {
		return nil, mapPgError(op, err)
	}
	defer rows.Close()

	out := make([]domain.Message, 0, 32)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, mapPgError(op, err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(op, err)
	}

	return out, nil
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var (
		m        domain.Message
		id       int64
		senderID string
		roomID   int64
	)
	if err := row.Scan(&id, &m.Content, &m.SentAt, &senderID, &roomID, &m.SenderName); err != nil {
		return nil, err
	}
	m.ID = domain.MessageID(id)
	m.SenderID = domain.UserID(senderID)
	m.RoomID = domain.RoomID(roomID)
	m.SentAt = m.SentAt.UTC()

	return &m, nil
}
