package security

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testUser() *domain.User {
	return &domain.User{ID: domain.UserID("6f1c0c5e-2b59-4a55-9b7c-1b9a7d0e8a11"), Username: "alice", TokenGeneration: 3}
}

func TestJWTSigner_HS256(t *testing.T) {
	now := time.Now()
	s := NewHS256Signer([]byte("secret-secret-secret"), "chat-service", "chat-clients", 15*time.Minute, 30*time.Second)

	t.Run("should round-trip claims", func(t *testing.T) {
		req := require.New(t)

		tok, exp, err := s.SignAccessToken(testUser(), now)
		req.NoError(err)
		req.Equal(now.Add(15*time.Minute), exp)

		claims, err := s.ParseAndValidate(tok, now.Add(time.Minute))
		req.NoError(err)
		req.Equal("6f1c0c5e-2b59-4a55-9b7c-1b9a7d0e8a11", claims.Subject)
		req.Equal(int64(3), claims.Generation)
		req.Equal("alice", claims.Username)
	})

	t.Run("should reject expired token outside clock skew", func(t *testing.T) {
		tok, _, err := s.SignAccessToken(testUser(), now)
		require.NoError(t, err)

		_, err = s.ParseAndValidate(tok, now.Add(15*time.Minute+10*time.Second))
		require.NoError(t, err)

		_, err = s.ParseAndValidate(tok, now.Add(16*time.Minute))
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("should reject token signed with another secret", func(t *testing.T) {
		other := NewHS256Signer([]byte("another-secret"), "chat-service", "chat-clients", time.Minute, 0)
		tok, _, err := other.SignAccessToken(testUser(), now)
		require.NoError(t, err)

		_, err = s.ParseAndValidate(tok, now)
		require.Error(t, err)
	})

	t.Run("should reject foreign issuer and audience", func(t *testing.T) {
		req := require.New(t)

		wrongIss := NewHS256Signer([]byte("secret-secret-secret"), "someone-else", "chat-clients", time.Minute, 0)
		tok, _, _ := wrongIss.SignAccessToken(testUser(), now)
		_, err := s.ParseAndValidate(tok, now)
		req.ErrorIs(err, ErrInvalidIssuer)

		wrongAud := NewHS256Signer([]byte("secret-secret-secret"), "chat-service", "admins", time.Minute, 0)
		tok, _, _ = wrongAud.SignAccessToken(testUser(), now)
		_, err = s.ParseAndValidate(tok, now)
		req.ErrorIs(err, ErrInvalidAudience)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := s.ParseAndValidate("not.a.token", now)
		require.Error(t, err)
	})
}

func TestJWTSigner_RS256(t *testing.T) {
	req := require.New(t)
	now := time.Now()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	req.NoError(err)
	s := NewRS256Signer(key, &key.PublicKey, "chat-service", "", time.Hour, 0)

	tok, _, err := s.SignAccessToken(testUser(), now)
	req.NoError(err)

	claims, err := s.ParseAndValidate(tok, now)
	req.NoError(err)
	req.Equal("6f1c0c5e-2b59-4a55-9b7c-1b9a7d0e8a11", claims.Subject)

	// HS256 токен не должен пройти проверку RS256-подписанта
	hs := NewHS256Signer([]byte("secret"), "chat-service", "", time.Hour, 0)
	hsTok, _, err := hs.SignAccessToken(testUser(), now)
	req.NoError(err)
	_, err = s.ParseAndValidate(hsTok, now)
	req.Error(err)
}

func TestPassword(t *testing.T) {
	policy := PasswordPolicy{Cost: 4, MinLength: 8}

	t.Run("should hash and compare", func(t *testing.T) {
		req := require.New(t)
		hash, err := HashPassword("correct horse", policy)
		req.NoError(err)
		req.NotEqual("correct horse", hash)

		req.NoError(ComparePassword(hash, "correct horse"))
		req.ErrorIs(ComparePassword(hash, "wrong horse"), domain.ErrInvalidCredentials)
	})

	t.Run("should enforce minimum length", func(t *testing.T) {
		_, err := HashPassword("short", policy)
		require.ErrorIs(t, err, domain.ErrPasswordTooShort)
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("should build dummy hash with policy cost that matches nothing", func(t *testing.T) {
		req := require.New(t)
		hash, err := DummyHash(policy)
		req.NoError(err)

		cost, err := bcrypt.Cost([]byte(hash))
		req.NoError(err)
		req.Equal(policy.Cost, cost)
		req.ErrorIs(ComparePassword(hash, "correct horse"), domain.ErrInvalidCredentials)

		other, err := DummyHash(policy)
		req.NoError(err)
		req.NotEqual(hash, other)
	})
}
