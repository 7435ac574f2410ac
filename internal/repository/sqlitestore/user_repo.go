package sqlitestore

import (
	"context"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"zombiezen.com/go/sqlite"
)

const userSelect = `
	SELECT id, email, username, password_hash, token_generation, created_at, updated_at
	FROM users`

type UserRepo struct {
	c conner
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := run(ctx, r.c, `
		INSERT INTO users (id, email, username, password_hash, token_generation, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		[]any{
			string(u.ID),
			u.Email,
			u.Username,
			u.PasswordHash,
			u.TokenGeneration,
			toUnixMicro(u.CreatedAt),
			toUnixMicro(u.UpdatedAt),
		}, nil)
	if err != nil {
		return mapError(ctx, "users.create", err, nil)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.one(ctx, "users.get_by_id", userSelect+` WHERE id = ?`, string(id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.one(ctx, "users.get_by_email", userSelect+` WHERE email = ?`, email)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	_, err := run(ctx, r.c, userSelect+` ORDER BY username ASC`, nil, func(stmt *sqlite.Stmt) error {
		out = append(out, scanUser(stmt))
		return nil
	})
	if err != nil {
		return nil, mapError(ctx, "users.list", err, nil)
	}
	return out, nil
}

func (r *UserRepo) UpdateUsername(ctx context.Context, id domain.UserID, username string) error {
	return r.bump(ctx, "users.update_username", `username = ?`, username, id)
}

func (r *UserRepo) UpdateEmail(ctx context.Context, id domain.UserID, email string) error {
	return r.bump(ctx, "users.update_email", `email = ?`, email, id)
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id domain.UserID, hash string) error {
	return r.bump(ctx, "users.update_password_hash", `password_hash = ?`, hash, id)
}

// Delete каскадно удаляет членства, сообщения пользователя остаются.
func (r *UserRepo) Delete(ctx context.Context, id domain.UserID) error {
	n, err := run(ctx, r.c, `DELETE FROM users WHERE id = ?`, []any{string(id)}, nil)
	if err != nil {
		return mapError(ctx, "users.delete", err, nil)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// bump обновляет одно поле учётных данных и увеличивает token_generation.
func (r *UserRepo) bump(ctx context.Context, op, set string, value any, id domain.UserID) error {
	n, err := run(ctx, r.c, `
		UPDATE users
		SET `+set+`, token_generation = token_generation + 1, updated_at = ?
		WHERE id = ?`,
		[]any{value, toUnixMicro(time.Now()), string(id)}, nil)
	if err != nil {
		return mapError(ctx, op, err, nil)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) one(ctx context.Context, op, query string, arg any) (*domain.User, error) {
	var user *domain.User
	_, err := run(ctx, r.c, query, []any{arg}, func(stmt *sqlite.Stmt) error {
		u := scanUser(stmt)
		user = &u
		return nil
	})
	if err != nil {
		return nil, mapError(ctx, op, err, nil)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func scanUser(stmt *sqlite.Stmt) domain.User {
	return domain.User{
		ID:              domain.UserID(stmt.ColumnText(0)),
		Email:           stmt.ColumnText(1),
		Username:        stmt.ColumnText(2),
		PasswordHash:    stmt.ColumnText(3),
		TokenGeneration: stmt.ColumnInt64(4),
		CreatedAt:       fromUnixMicro(stmt.ColumnInt64(5)),
		UpdatedAt:       fromUnixMicro(stmt.ColumnInt64(6)),
	}
}
