package http

import (
	"net/http"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

// roomIDParam разбирает {name} из пути; при ошибке ответ уже записан.
func roomIDParam(w http.ResponseWriter, r *http.Request, name string) (domain.RoomID, bool) {
	id, err := domain.ParseRoomID(chi.URLParam(r, name))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid room id", nil)
		return 0, false
	}
	return id, true
}

// POST /api/rooms
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in RoomRequest
	if !h.decode(w, r, &in) {
		return
	}

	room, err := h.rooms.CreateRoom(r.Context(), uid, in.ChatRoomName)
	if err != nil {
		writeError(w, r, "create room", err)
		return
	}
	httputil.Created(w, "/api/rooms/"+room.ID.String(), toRoomItem(*room))
}

// GET /api/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}

	rooms, err := h.rooms.ListRoomsForUser(r.Context(), uid)
	if err != nil {
		writeError(w, r, "list rooms", err)
		return
	}
	httputil.OK(w, toRoomItems(rooms))
}

// PUT /api/rooms/{id}
func (h *Handler) RenameRoom(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(w, r, "id")
	if !ok {
		return
	}
	var in RoomRequest
	if !h.decode(w, r, &in) {
		return
	}

	room, err := h.rooms.RenameRoom(r.Context(), uid, roomID, in.ChatRoomName)
	if err != nil {
		writeError(w, r, "rename room", err)
		return
	}
	httputil.OK(w, toRoomItem(*room))
}

// DELETE /api/rooms/{id}
func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.rooms.DeleteRoom(r.Context(), uid, roomID); err != nil {
		writeError(w, r, "delete room", err)
		return
	}
	httputil.NoContent(w)
}
