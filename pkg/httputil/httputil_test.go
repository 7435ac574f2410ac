package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMiddlewareRequestID(t *testing.T) {
	var seen string
	h := MiddlewareRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = RequestIDFromContext(r.Context())
	}))

	t.Run("should keep incoming id", func(t *testing.T) {
		req := require.New(t)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(HeaderRequestID, "abc")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		req.Equal("abc", seen)
		req.Equal("abc", w.Header().Get(HeaderRequestID))
	})

	t.Run("should generate id when missing", func(t *testing.T) {
		req := require.New(t)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		req.NotEmpty(seen)
		req.Equal(seen, w.Header().Get(HeaderRequestID))
	})
}

func TestError(t *testing.T) {
	req := require.New(t)
	w := httptest.NewRecorder()
	Error(w, http.StatusForbidden, "nope", map[string]any{"reason": "x"})

	req.Equal(http.StatusForbidden, w.Code)
	var body struct {
		Error struct {
			Message string         `json:"message"`
			Meta    map[string]any `json:"meta"`
		} `json:"error"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.Equal("nope", body.Error.Message)
	req.Equal("x", body.Error.Meta["reason"])
}
