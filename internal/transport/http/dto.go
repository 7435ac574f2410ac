package http

import (
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/samber/lo"
)

// unknownSender показывается вместо имени автора, удалившего аккаунт.
const unknownSender = "unknown"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	UserName string `json:"userName" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	User       UserItem  `json:"user"`
}

type UserItem struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

type UpdateUsernameRequest struct {
	NewUserName string `json:"newUserName" validate:"max=64"`
}

type UpdateEmailRequest struct {
	NewEmail string `json:"newEmail" validate:"max=254"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,max=72"`
}

type ResultResponse struct {
	Success bool `json:"success"`
}

type RoomRequest struct {
	ChatRoomName string `json:"chatRoomName" validate:"required"`
}

type RoomItem struct {
	ID           int64     `json:"id"`
	ChatRoomName string    `json:"chatRoomName"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateMessageRequest struct {
	RoomID  int64  `json:"roomId" validate:"required,gt=0"`
	Content string `json:"content" validate:"required"`
}

type UpdateMessageRequest struct {
	NewContent string `json:"newContent" validate:"required"`
}

type MessageItem struct {
	ID             int64     `json:"id"`
	Content        string    `json:"content"`
	SentDate       time.Time `json:"sentDate"`
	SenderID       string    `json:"senderId"`
	SenderUserName string    `json:"senderUserName"`
	RoomID         int64     `json:"roomId"`
}

func toUserItem(u domain.User) UserItem {
	return UserItem{ID: u.ID.String(), UserName: u.DisplayName(), Email: u.Email}
}

func toRoomItem(r domain.Room) RoomItem {
	return RoomItem{ID: int64(r.ID), ChatRoomName: r.Name, CreatedAt: r.CreatedAt}
}

func toMessageItem(m domain.Message) MessageItem {
	return MessageItem{
		ID:             int64(m.ID),
		Content:        m.Content,
		SentDate:       m.SentAt,
		SenderID:       m.SenderID.String(),
		SenderUserName: lo.Ternary(m.SenderName == "", unknownSender, m.SenderName),
		RoomID:         int64(m.RoomID),
	}
}

func toUserItems(us []domain.User) []UserItem {
	return lo.Map(us, func(u domain.User, _ int) UserItem { return toUserItem(u) })
}

func toRoomItems(rs []domain.Room) []RoomItem {
	return lo.Map(rs, func(r domain.Room, _ int) RoomItem { return toRoomItem(r) })
}

func toMessageItems(ms []domain.Message) []MessageItem {
	return lo.Map(ms, func(m domain.Message, _ int) MessageItem { return toMessageItem(m) })
}
