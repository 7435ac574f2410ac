package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	req := require.New(t)

	req.ErrorIs(ErrEmptyRoomName, ErrValidation)
	req.ErrorIs(ErrRoomNotFound, ErrNotFound)
	req.ErrorIs(ErrNotMember, ErrForbidden)
	req.ErrorIs(ErrNotSender, ErrForbidden)
	req.ErrorIs(ErrInvalidToken, ErrUnauthenticated)
	req.ErrorIs(ErrEmailTaken, ErrConflict)
	req.NotErrorIs(ErrNotMember, ErrNotFound)

	wrapped := fmt.Errorf("room.delete: %w", ErrRoomNotFound)
	req.ErrorIs(wrapped, ErrRoomNotFound)
	req.ErrorIs(wrapped, ErrNotFound)
}

func TestStorageError(t *testing.T) {
	req := require.New(t)
	cause := errors.New("connection reset")

	err := NewStorageError("rooms.create", cause)
	req.ErrorIs(err, ErrStorage)
	req.ErrorIs(err, cause)
	req.Equal("storage: rooms.create: connection reset", err.Error())

	var se *StorageError
	req.ErrorAs(fmt.Errorf("wrap: %w", err), &se)
	req.Equal("rooms.create", se.Op)

	req.NoError(NewStorageError("noop", nil))
}

func TestNormalizeRoomName(t *testing.T) {
	t.Run("should trim and accept", func(t *testing.T) {
		name, err := NormalizeRoomName("  general ", 10)
		require.NoError(t, err)
		require.Equal(t, "general", name)
	})

	t.Run("should reject whitespace only", func(t *testing.T) {
		_, err := NormalizeRoomName(" \t\n", 10)
		require.ErrorIs(t, err, ErrEmptyRoomName)
	})

	t.Run("should count runes not bytes", func(t *testing.T) {
		_, err := NormalizeRoomName("привет", 6)
		require.NoError(t, err)

		_, err = NormalizeRoomName("привет!", 6)
		require.ErrorIs(t, err, ErrRoomNameTooLong)
	})
}

func TestNormalizeContent(t *testing.T) {
	req := require.New(t)

	_, err := NormalizeContent("   ", 0)
	req.ErrorIs(err, ErrEmptyContent)

	content, err := NormalizeContent("  hi  ", 0)
	req.NoError(err)
	req.Equal("  hi  ", content)

	_, err = NormalizeContent(strings.Repeat("a", 5), 4)
	req.ErrorIs(err, ErrContentTooLong)
}

func TestParseIDs(t *testing.T) {
	req := require.New(t)

	id, err := ParseRoomID("42")
	req.NoError(err)
	req.Equal(RoomID(42), id)

	_, err = ParseRoomID("abc")
	req.ErrorIs(err, ErrValidation)

	_, err = ParseMessageID("0")
	req.ErrorIs(err, ErrValidation)
}

func TestNewUser(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("should normalize email and username", func(t *testing.T) {
		req := require.New(t)
		u, err := NewUser(" Alice@Example.COM ", " alice ", "hash", now)
		req.NoError(err)
		req.NotEmpty(u.ID)
		req.Equal("alice@example.com", u.Email)
		req.Equal("alice", u.DisplayName())
		req.Equal(int64(0), u.TokenGeneration)
		req.Equal(now, u.CreatedAt)
	})

	t.Run("should reject malformed email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "bob", "hash", now)
		require.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("should reject empty username", func(t *testing.T) {
		_, err := NewUser("bob@example.com", "  ", "hash", now)
		require.ErrorIs(t, err, ErrEmptyUsername)
	})
}
