package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestToMessageItem(t *testing.T) {
	sent := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("should carry sender name", func(t *testing.T) {
		req := require.New(t)
		item := toMessageItem(domain.Message{ID: 3, Content: "hey", SentAt: sent, SenderID: "u1", RoomID: 9, SenderName: "alice"})
		req.Equal(MessageItem{ID: 3, Content: "hey", SentDate: sent, SenderID: "u1", SenderUserName: "alice", RoomID: 9}, item)
	})

	t.Run("should show unknown for deleted sender", func(t *testing.T) {
		req := require.New(t)
		item := toMessageItem(domain.Message{ID: 3, SenderID: "gone"})
		req.Equal(unknownSender, item.SenderUserName)
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domain.ErrEmptyContent:                       http.StatusBadRequest,
		domain.ErrInvalidToken:                       http.StatusUnauthorized,
		domain.ErrNotMember:                          http.StatusForbidden,
		domain.ErrNotSender:                          http.StatusForbidden,
		domain.ErrRoomNotFound:                       http.StatusNotFound,
		domain.ErrUsernameTaken:                      http.StatusConflict,
		errors.New("boom"):                           http.StatusInternalServerError,
		domain.NewStorageError("x", errors.New("y")): http.StatusInternalServerError,
		domain.NewStorageError("tx.begin", fmt.Errorf("%w: interrupted", context.DeadlineExceeded)): http.StatusGatewayTimeout,
		domain.NewStorageError("tx.begin", fmt.Errorf("%w: interrupted", context.Canceled)):         statusClientClosedRequest,
	}
	for err, want := range cases {
		require.Equal(t, want, statusFor(fmt.Errorf("op: %w", err)), err.Error())
	}
}

func TestPublicMessage(t *testing.T) {
	err := fmt.Errorf("send message: %w", domain.ErrNotMember)
	require.Equal(t, domain.ErrNotMember.Error(), publicMessage(err))
}
