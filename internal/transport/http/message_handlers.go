package http

import (
	"net/http"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

func messageIDParam(w http.ResponseWriter, r *http.Request) (domain.MessageID, bool) {
	id, err := domain.ParseMessageID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid message id", nil)
		return 0, false
	}
	return id, true
}

// GET /api/messages/room/{roomId}
func (h *Handler) ListRoomMessages(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(w, r, "roomId")
	if !ok {
		return
	}

	msgs, err := h.messages.ListMessagesInRoom(r.Context(), uid, roomID)
	if err != nil {
		writeError(w, r, "list room messages", err)
		return
	}
	httputil.OK(w, toMessageItems(msgs))
}

// GET /api/messages/me
func (h *Handler) ListMyMessages(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}

	msgs, err := h.messages.ListMessagesBySender(r.Context(), uid)
	if err != nil {
		writeError(w, r, "list my messages", err)
		return
	}
	httputil.OK(w, toMessageItems(msgs))
}

// POST /api/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in CreateMessageRequest
	if !h.decode(w, r, &in) {
		return
	}

	msg, err := h.messages.CreateMessage(r.Context(), uid, domain.RoomID(in.RoomID), in.Content)
	if err != nil {
		writeError(w, r, "send message", err)
		return
	}
	httputil.Created(w, "/api/messages/"+msg.ID.String(), toMessageItem(*msg))
}

// PUT /api/messages/{id}
func (h *Handler) EditMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := messageIDParam(w, r)
	if !ok {
		return
	}
	var in UpdateMessageRequest
	if !h.decode(w, r, &in) {
		return
	}

	msg, err := h.messages.EditMessage(r.Context(), uid, id, in.NewContent)
	if err != nil {
		writeError(w, r, "edit message", err)
		return
	}
	httputil.OK(w, toMessageItem(*msg))
}

// DELETE /api/messages/{id}
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := messageIDParam(w, r)
	if !ok {
		return
	}

	if err := h.messages.DeleteMessage(r.Context(), uid, id); err != nil {
		writeError(w, r, "delete message", err)
		return
	}
	httputil.NoContent(w)
}
