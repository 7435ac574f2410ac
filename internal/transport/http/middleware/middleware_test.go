package httpmw

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/pkg/logger"

	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context, token string) (domain.UserID, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (domain.UserID, error) {
	return f(ctx, token)
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		token, ok := BearerToken(c.header)
		require.Equal(t, c.ok, ok, c.header)
		require.Equal(t, c.token, token, c.header)
	}
}

func TestAuth(t *testing.T) {
	resolver := resolverFunc(func(_ context.Context, token string) (domain.UserID, error) {
		switch token {
		case "good":
			return "u1", nil
		case "broken":
			return "", domain.NewStorageError("users.get", errors.New("down"))
		default:
			return "", domain.ErrInvalidToken
		}
	})

	var seen domain.UserID
	h := Auth(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(header string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	t.Run("should put user id into context", func(t *testing.T) {
		req := require.New(t)
		req.Equal(http.StatusNoContent, serve("Bearer good"))
		req.Equal(domain.UserID("u1"), seen)
	})

	t.Run("should reject missing and invalid tokens", func(t *testing.T) {
		req := require.New(t)
		req.Equal(http.StatusUnauthorized, serve(""))
		req.Equal(http.StatusUnauthorized, serve("Bearer nope"))
	})

	t.Run("should answer 500 when resolver fails", func(t *testing.T) {
		require.Equal(t, http.StatusInternalServerError, serve("Bearer broken"))
	})
}

func TestRequestLogger(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	logger.Init(logger.Config{Backend: logger.BackendStd, Level: slog.LevelDebug, Output: &buf})

	h := WithRequestLogger(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusNotFound)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/rooms", nil))

	out := buf.String()
	req.Contains(out, "msg=inside")
	req.Contains(out, "path=/api/rooms")
	req.Contains(out, "msg=http_request")
	req.Contains(out, "level="+slog.LevelWarn.String())
	req.Contains(out, "status=404")
}
