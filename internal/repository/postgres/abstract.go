package postgres

import (
	"context"
	"errors"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

/*
абстрактный слой над *pgxpool.Pool / pgx.Tx,
одни и те же репозитории работают и в пуле, и внутри транзакции
*/
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Имена ограничений из schema.sql.
const (
	constraintUsersEmail    = "users_email_key"
	constraintUsersUsername = "users_username_key"
	constraintMembersUser   = "room_members_user_id_fkey"
	constraintMembersRoom   = "room_members_room_id_fkey"
	constraintMessagesRoom  = "messages_room_id_fkey"
)

func mapPgError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			switch pgErr.ConstraintName {
			case constraintUsersEmail:
				return domain.ErrEmailTaken
			case constraintUsersUsername:
				return domain.ErrUsernameTaken
			default:
				return domain.ErrConflict
			}
		case codeForeignKeyViolation:
			switch pgErr.ConstraintName {
			case constraintMembersUser:
				return domain.ErrUserNotFound
			case constraintMembersRoom, constraintMessagesRoom:
				// комната удалена параллельной транзакцией
				return domain.ErrRoomNotFound
			}
		}
	}

	return domain.NewStorageError(op, err)
}
