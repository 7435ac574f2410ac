package grpcx

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/pkg/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const mdAuthorization = "authorization"

type TokenResolver interface {
	Resolve(ctx context.Context, token string) (domain.UserID, error)
}

type ctxKey int

const userIDKey ctxKey = iota

// UnaryServerInterceptor: логирование, recovery и deadline по умолчанию, если клиент его не задал.
func UnaryServerInterceptor(defaultTimeout time.Duration) grpc.UnaryServerInterceptor {
	if defaultTimeout <= 0 {
		defaultTimeout = 10 * time.Second
	}
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp any, err error) {
		start := time.Now()
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
			defer cancel()
		}
		ctx = logger.WithContext(ctx, logger.L().With(slog.String("grpc_method", info.FullMethod)))

		defer func() {
			l := logger.FromContext(ctx)
			if r := recover(); r != nil {
				l.Error("grpc unary panic",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
				err = status.Error(codes.Internal, "internal server error")
			}
			level := slog.LevelInfo
			if code := status.Code(err); code == codes.Internal || code == codes.Unknown {
				level = slog.LevelError
			}
			l.LogAttrs(ctx, level, "grpc unary",
				slog.Int64("dur_ms", time.Since(start).Milliseconds()),
				slog.String("code", status.Code(err).String()),
				slog.String("err", errString(err)))
		}()

		return handler(ctx, req)
	}
}

// AuthInterceptor разрешает bearer-токен из metadata в UserID для каждого вызова.
func AuthInterceptor(resolver TokenResolver) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		token, err := bearerFromMD(ctx)
		if err != nil {
			return nil, err
		}
		uid, err := resolver.Resolve(ctx, token)
		if err != nil {
			return nil, mapErr(err)
		}

		ctx = context.WithValue(ctx, userIDKey, uid)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(slog.String("user_id", uid.String())))
		return handler(ctx, req)
	}
}

func bearerFromMD(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}
	auth := first(md.Get(mdAuthorization))
	if auth == "" {
		return "", status.Error(codes.Unauthenticated, "missing authorization")
	}
	scheme, token, found := strings.Cut(auth, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", status.Error(codes.Unauthenticated, "invalid authorization")
	}
	return token, nil
}

func userFromCtx(ctx context.Context) (domain.UserID, error) {
	uid, ok := ctx.Value(userIDKey).(domain.UserID)
	if !ok || uid == "" {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return uid, nil
}

// mapErr переводит доменные ошибки в gRPC-коды; всё неизвестное прячется за Internal.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
