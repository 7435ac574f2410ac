package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserID string

func (id UserID) String() string { return string(id) }

func NewUserID() UserID { return UserID(uuid.NewString()) }

// User принадлежит identity-слою. Ядро чата знает только ID и отображаемое имя.
type User struct {
	ID           UserID
	Email        string
	Username     string
	PasswordHash string
	// TokenGeneration растёт при смене учётных данных; токены со старым значением отклоняются.
	TokenGeneration int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) DisplayName() string { return u.Username }

// NewUser ожидает уже посчитанный хеш пароля.
func NewUser(email, username, passwordHash string, now time.Time) (*User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	username, err = NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, kindError(ErrValidation, "empty password hash")
	}

	return &User{
		ID:           NewUserID(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func NormalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", ErrInvalidEmail
	}
	if addr, err := mail.ParseAddress(s); err != nil || addr.Address != s {
		return "", ErrInvalidEmail
	}
	return s, nil
}

func NormalizeUsername(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyUsername
	}
	return s, nil
}
