package security

import (
	"crypto/rand"
	"errors"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type PasswordPolicy struct {
	Cost      int // по умолчанию bcrypt.DefaultCost
	MinLength int // по умолчанию 6
}

func (p PasswordPolicy) cost() int {
	if p.Cost > 0 {
		return p.Cost
	}
	return bcrypt.DefaultCost
}

func HashPassword(plain string, p PasswordPolicy) (string, error) {
	minLen := 6
	if p.MinLength > 0 {
		minLen = p.MinLength
	}

	if len(plain) < minLen {
		return "", domain.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), p.cost())
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// ComparePassword возвращает domain.ErrInvalidCredentials при несовпадении.
func ComparePassword(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredentials
	}
	return err
}

// DummyHash возвращает хеш случайного пароля с той же стоимостью, что и у настоящих.
// С ним сравнивается пароль, когда пользователь не найден: логин отвечает за то же время.
func DummyHash(p PasswordPolicy) (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword(secret, p.cost())
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
