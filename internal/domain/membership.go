package domain

import "time"

// Membership связывает пользователя и комнату, ключ составной (UserID, RoomID).
type Membership struct {
	UserID   UserID
	RoomID   RoomID
	JoinedAt time.Time
}
