// Package identity регистрирует и аутентифицирует пользователей и превращает bearer-токен в domain.UserID.
// Остальные пакеты видят только Resolve; клеймы токена наружу не выходят.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/internal/security"
	"github.com/cwrk-planet/chat-service/pkg/logger"
)

type AuthResult struct {
	User        *domain.User
	AccessToken string
	ExpiresAt   time.Time
}

type Service struct {
	store     repository.Store
	jwt       *security.JWTSigner
	policy    security.PasswordPolicy
	now       func() time.Time
	compare   func(hash, plain string) error
	dummyHash func() string
}

func NewService(store repository.Store, jwt *security.JWTSigner, policy security.PasswordPolicy, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{
		store:   store,
		jwt:     jwt,
		policy:  policy,
		now:     now,
		compare: security.ComparePassword,
		dummyHash: sync.OnceValue(func() string {
			hash, err := security.DummyHash(policy)
			if err != nil {
				slog.Error("identity: dummy hash generation failed", slog.Any("err", err))
			}
			return hash
		}),
	}
}

func (s *Service) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	hash, err := security.HashPassword(password, s.policy)
	if err != nil {
		return nil, err
	}

	u, err := domain.NewUser(email, username, hash, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.store.Users().Create(ctx, u); err != nil {
		log.Warn("identity.register.create failed", slog.Any("err", err))
		return nil, err
	}

	log.Info("user registered", slog.String("user_id", u.ID.String()))
	return u, nil
}

// Authenticate проверяет email и пароль и выпускает access-токен.
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContext(ctx)

	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = s.compare(s.dummyHash(), password)
			log.Warn("identity.authenticate: unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.compare(u.PasswordHash, password); err != nil {
		log.Warn("identity.authenticate: password mismatch", slog.String("user_id", u.ID.String()))
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.jwt.SignAccessToken(u, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &AuthResult{User: u, AccessToken: token, ExpiresAt: exp}, nil
}

// Resolve возвращает владельца токена. Токен отклоняется, если пользователь удалён
// или его учётные данные менялись после выпуска токена.
func (s *Service) Resolve(ctx context.Context, token string) (domain.UserID, error) {
	claims, err := s.jwt.ParseAndValidate(token, s.now())
	if err != nil {
		logger.FromContext(ctx).Debug("identity.resolve: token rejected", slog.Any("err", err))
		return "", domain.ErrInvalidToken
	}

	u, err := s.store.Users().GetByID(ctx, domain.UserID(claims.Subject))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", err
	}
	if u.TokenGeneration != claims.Generation {
		return "", domain.ErrInvalidToken
	}

	return u.ID, nil
}

func (s *Service) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.Users().List(ctx)
}

// UpdateUsername: пустое или неизменное имя не ошибка, пользователь возвращается как есть.
func (s *Service) UpdateUsername(ctx context.Context, id domain.UserID, username string) (*domain.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	username, err = domain.NormalizeUsername(username)
	if err != nil || username == u.Username {
		return u, nil
	}

	if err := s.store.Users().UpdateUsername(ctx, id, username); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("username changed", slog.String("user_id", id.String()))
	return s.store.Users().GetByID(ctx, id)
}

// UpdateEmail: пустой или неизменный email не ошибка; некорректный отклоняется.
func (s *Service) UpdateEmail(ctx context.Context, id domain.UserID, email string) (*domain.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(email) == "" {
		return u, nil
	}
	email, err = domain.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if email == u.Email {
		return u, nil
	}

	if err := s.store.Users().UpdateEmail(ctx, id, email); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("email changed", slog.String("user_id", id.String()))
	return s.store.Users().GetByID(ctx, id)
}

func (s *Service) ChangePassword(ctx context.Context, id domain.UserID, current, next string) error {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.compare(u.PasswordHash, current); err != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := security.HashPassword(next, s.policy)
	if err != nil {
		return err
	}
	if err := s.store.Users().UpdatePasswordHash(ctx, id, hash); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("password changed", slog.String("user_id", id.String()))
	return nil
}

// DeleteAccount удаляет пользователя вместе с членствами. Его сообщения остаются в комнатах;
// комнаты, оставшиеся без участников, удаляются целиком.
func (s *Service) DeleteAccount(ctx context.Context, id domain.UserID) error {
	var orphaned int64
	err := s.store.InTx(ctx, func(tx repository.Repositories) error {
		if err := tx.Users().Delete(ctx, id); err != nil {
			return err
		}

		n, err := tx.Rooms().DeleteOrphaned(ctx)
		if err != nil {
			return err
		}
		orphaned = n
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("account deleted",
		slog.String("user_id", id.String()),
		slog.Int64("rooms_removed", orphaned))
	return nil
}
