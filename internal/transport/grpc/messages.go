package grpcx

import "time"

type Empty struct{}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type RenameRoomRequest struct {
	RoomID int64  `json:"roomId"`
	Name   string `json:"name"`
}

type RoomRequest struct {
	RoomID int64 `json:"roomId"`
}

type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type RoomList struct {
	Rooms []Room `json:"rooms"`
}

type SendMessageRequest struct {
	RoomID  int64  `json:"roomId"`
	Content string `json:"content"`
}

type EditMessageRequest struct {
	MessageID int64  `json:"messageId"`
	Content   string `json:"content"`
}

type MessageRequest struct {
	MessageID int64 `json:"messageId"`
}

type Message struct {
	ID             int64     `json:"id"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sentAt"`
	SenderID       string    `json:"senderId"`
	SenderUserName string    `json:"senderUserName"`
	RoomID         int64     `json:"roomId"`
}

type MessageList struct {
	Messages []Message `json:"messages"`
}
