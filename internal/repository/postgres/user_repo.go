package postgres

import (
	"context"
	"errors"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository/postgres/queries"

	"github.com/jackc/pgx/v5"
)

type UserRepo struct {
	q querier
}

func NewUserRepo(q querier) *UserRepo {
	return &UserRepo{q: q}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.q.Exec(ctx, queries.QueryCreateUser,
		string(u.ID),
		u.Email,
		u.Username,
		u.PasswordHash,
		u.TokenGeneration,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return mapPgError("users.create", err)
	}

	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.getOne(ctx, "users.get_by_id", queries.QueryGetUserByID, string(id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "users.get_by_email", queries.QueryGetUserByEmail, email)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.Query(ctx, queries.QueryListUsers)
	if err != nil {
		return nil, mapPgError("users.list", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapPgError("users.list", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("users.list", err)
	}

	return out, nil
}

func (r *UserRepo) UpdateUsername(ctx context.Context, id domain.UserID, username string) error {
	return r.exec(ctx, "users.update_username", queries.QueryUpdateUsername, string(id), username)
}

func (r *UserRepo) UpdateEmail(ctx context.Context, id domain.UserID, email string) error {
	return r.exec(ctx, "users.update_email", queries.QueryUpdateEmail, string(id), email)
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id domain.UserID, hash string) error {
	return r.exec(ctx, "users.update_password_hash", queries.QueryUpdatePasswordHash, string(id), hash)
}

// Delete каскадно удаляет членства (FK), сообщения пользователя остаются.
func (r *UserRepo) Delete(ctx context.Context, id domain.UserID) error {
	return r.exec(ctx, "users.delete", queries.QueryDeleteUser, string(id))
}

func (r *UserRepo) exec(ctx context.Context, op, sql string, args ...any) error {
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return mapPgError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepo) getOne(ctx context.Context, op, sql string, arg any) (*domain.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, mapPgError(op, err)
	}

	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u  domain.User
		id string
	)
	err := row.Scan(
		&id,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.TokenGeneration,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.ID = domain.UserID(id)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()

	return &u, nil
}
