package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"zombiezen.com/go/sqlite"
)

// mapError переводит ошибку sqlite в доменную. fkErr возвращается при нарушении внешнего ключа:
// sqlite не сообщает, какой именно ключ нарушен, поэтому его выбирает вызывающий.
func mapError(ctx context.Context, op string, err error, fkErr error) error {
	if err == nil {
		return nil
	}

	code := sqlite.ErrCode(err)
	if code.ToPrimary() == sqlite.ResultConstraint {
		msg := err.Error()
		switch {
		case code == sqlite.ResultConstraintForeignKey || strings.Contains(msg, "FOREIGN KEY"):
			if fkErr != nil {
				return fkErr
			}
		case code == sqlite.ResultConstraintUnique || code == sqlite.ResultConstraintPrimaryKey ||
			strings.Contains(msg, "UNIQUE"):
			switch {
			case strings.Contains(msg, "users.email"):
				return domain.ErrEmailTaken
			case strings.Contains(msg, "users.username"):
				return domain.ErrUsernameTaken
			default:
				return domain.ErrConflict
			}
		}
	}

	return storageError(ctx, op, err)
}

// storageError оборачивает отказ. Пул прерывает соединение по отмене ctx (SQLITE_INTERRUPT),
// тогда в цепочку добавляется ctx.Err().
func storageError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	return domain.NewStorageError(op, err)
}
