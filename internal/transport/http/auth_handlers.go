package http

import (
	"net/http"

	"github.com/cwrk-planet/chat-service/pkg/httputil"
)

// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in RegisterRequest
	if !h.decode(w, r, &in) {
		return
	}

	u, err := h.accounts.Register(r.Context(), in.Email, in.UserName, in.Password)
	if err != nil {
		writeError(w, r, "register", err)
		return
	}

	httputil.Created(w, "/api/users/"+u.ID.String(), toUserItem(*u))
}

// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginRequest
	if !h.decode(w, r, &in) {
		return
	}

	res, err := h.accounts.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, "login", err)
		return
	}

	httputil.OK(w, LoginResponse{
		Token:      res.AccessToken,
		Expiration: res.ExpiresAt,
		User:       toUserItem(*res.User),
	})
}
