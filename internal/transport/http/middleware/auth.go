package httpmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/pkg/httputil"
	"github.com/cwrk-planet/chat-service/pkg/logger"
)

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

type TokenResolver interface {
	Resolve(ctx context.Context, token string) (domain.UserID, error)
}

// Auth разрешает bearer-токен в UserID один раз на запрос и кладёт его в контекст.
func Auth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "missing or invalid Authorization header", nil)
				return
			}

			uid, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					httputil.Error(w, http.StatusUnauthorized, err.Error(), nil)
					return
				}
				logger.FromContext(r.Context()).Error("resolve token", slog.Any("err", err))
				httputil.Error(w, http.StatusInternalServerError, "internal error", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, uid)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(slog.String("user_id", uid.String())))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken достаёт токен из значения заголовка Authorization.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func UserIDFromCtx(ctx context.Context) (domain.UserID, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(domain.UserID)
	return id, ok && id != ""
}
