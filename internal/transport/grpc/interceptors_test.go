package grpcx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapErr(t *testing.T) {
	t.Run("should map domain kinds", func(t *testing.T) {
		cases := map[error]codes.Code{
			domain.ErrEmptyRoomName: codes.InvalidArgument,
			domain.ErrInvalidToken:  codes.Unauthenticated,
			domain.ErrNotSender:     codes.PermissionDenied,
			domain.ErrRoomNotFound:  codes.NotFound,
			domain.ErrEmailTaken:    codes.AlreadyExists,
			errors.New("boom"):      codes.Internal,
		}
		for err, want := range cases {
			require.Equal(t, want, status.Code(mapErr(fmt.Errorf("op: %w", err))), err.Error())
		}
	})

	t.Run("should map context errors wrapped in storage failures", func(t *testing.T) {
		deadline := domain.NewStorageError("tx.begin", fmt.Errorf("%w: interrupted", context.DeadlineExceeded))
		require.Equal(t, codes.DeadlineExceeded, status.Code(mapErr(fmt.Errorf("create room: %w", deadline))))

		canceled := domain.NewStorageError("tx.begin", fmt.Errorf("%w: interrupted", context.Canceled))
		require.Equal(t, codes.Canceled, status.Code(mapErr(canceled)))

		plain := domain.NewStorageError("tx.begin", errors.New("disk I/O error"))
		require.Equal(t, codes.Internal, status.Code(mapErr(plain)))
	})

	t.Run("should pass status errors through", func(t *testing.T) {
		err := status.Error(codes.Unavailable, "down")
		require.Equal(t, codes.Unavailable, status.Code(mapErr(err)))
	})
}
