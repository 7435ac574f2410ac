package http

import (
	"net/http"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

// GET /api/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, "list users", err)
		return
	}
	httputil.OK(w, toUserItems(users))
}

// GET /api/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.accounts.GetUser(r.Context(), domain.UserID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, "get user", err)
		return
	}
	httputil.OK(w, toUserItem(*u))
}

// GET /api/users/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	u, err := h.accounts.GetUser(r.Context(), uid)
	if err != nil {
		writeError(w, r, "get me", err)
		return
	}
	httputil.OK(w, toUserItem(*u))
}

// PUT /api/users/me/username
func (h *Handler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in UpdateUsernameRequest
	if !h.decode(w, r, &in) {
		return
	}

	if _, err := h.accounts.UpdateUsername(r.Context(), uid, in.NewUserName); err != nil {
		writeError(w, r, "update username", err)
		return
	}
	httputil.OK(w, ResultResponse{Success: true})
}

// PUT /api/users/me/email
func (h *Handler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in UpdateEmailRequest
	if !h.decode(w, r, &in) {
		return
	}

	if _, err := h.accounts.UpdateEmail(r.Context(), uid, in.NewEmail); err != nil {
		writeError(w, r, "update email", err)
		return
	}
	httputil.OK(w, ResultResponse{Success: true})
}

// POST /api/users/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in ChangePasswordRequest
	if !h.decode(w, r, &in) {
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), uid, in.CurrentPassword, in.NewPassword); err != nil {
		writeError(w, r, "change password", err)
		return
	}
	httputil.OK(w, ResultResponse{Success: true})
}

// DELETE /api/users/me
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.accounts.DeleteAccount(r.Context(), uid); err != nil {
		writeError(w, r, "delete account", err)
		return
	}
	httputil.OK(w, ResultResponse{Success: true})
}
