package grpcx

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/samber/lo"
)

type RoomService interface {
	CreateRoom(ctx context.Context, userID domain.UserID, name string) (*domain.Room, error)
	ListRoomsForUser(ctx context.Context, userID domain.UserID) ([]domain.Room, error)
	RenameRoom(ctx context.Context, userID domain.UserID, roomID domain.RoomID, newName string) (*domain.Room, error)
	DeleteRoom(ctx context.Context, userID domain.UserID, roomID domain.RoomID) error
}

type MessageService interface {
	ListMessagesInRoom(ctx context.Context, userID domain.UserID, roomID domain.RoomID) ([]domain.Message, error)
	ListMessagesBySender(ctx context.Context, userID domain.UserID) ([]domain.Message, error)
	CreateMessage(ctx context.Context, userID domain.UserID, roomID domain.RoomID, content string) (*domain.Message, error)
	EditMessage(ctx context.Context, userID domain.UserID, messageID domain.MessageID, newContent string) (*domain.Message, error)
	DeleteMessage(ctx context.Context, userID domain.UserID, messageID domain.MessageID) error
}

type Server struct {
	rooms    RoomService
	messages MessageService
}

func NewServer(rooms RoomService, messages MessageService) *Server {
	return &Server{rooms: rooms, messages: messages}
}

var _ ChatServiceServer = (*Server)(nil)

func (s *Server) CreateRoom(ctx context.Context, in *CreateRoomRequest) (*Room, error) {
	uid, err := userFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.rooms.CreateRoom(ctx, uid, in.Name)
	if err != nil {
		return nil, mapErr(err)
	}
	return lo.ToPtr(mapRoom(*r)), nil
}

func (s *Server) ListRooms(ctx context.Context, _ *Empty) (*RoomList, error) {
	uid, err := userFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListRoomsForUser(ctx, uid)
	if err != nil {
		return nil, mapErr(err)
	}
	return &RoomList{Rooms: lo.Map(rooms, func(r domain.Room, _ int) Room { return mapRoom(r) })}, nil
}

func (s *Server) RenameRoom(ctx context.Context, in *RenameRoomRequest) (*Room, error) {
	uid, err := userFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.rooms.RenameRoom(ctx, uid, domain.RoomID(in.RoomID), in.Name)
	if err != nil {
		return nil, mapErr(err)
	}
	return lo.ToPtr(mapRoom(*r)), nil
}

func (s *Server) DeleteRoom(ctx context.Context, in *RoomRequest) (*Empty, error) {
	uid, err := userFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.DeleteRoom(ctx, uid, domain.RoomID(in.RoomID)); err != nil {
		return nil, mapErr(err)
	}
	return &Empty{}, nil
}

func (s *Server) ListRoomMessages(ctx context.Context, in *RoomRequest) (*MessageList, error) {
	uid, err := userFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListMessagesInRoom(ctx, uid, domain.RoomID(in.RoomID))
	if err != nil {
		return nil, mapErr(err)
	}
	return mapMessages(msgs), nil
}

func (s *Server) ListMyMessages(ctx context.Context, _ *Empty) (*MessageList, error) {
	uid, err := userFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListMessagesBySender(ctx, uid)
	if err != nil {
		return nil, mapErr(err)
	}
	return mapMessages(msgs), nil
}

func (s *Server) SendMessage(ctx context.Context, in *SendMessageRequest) (*Message, error) {
	uid, err := userFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := s.messages.CreateMessage(ctx, uid, domain.RoomID(in.RoomID), in.Content)
	if err != nil {
		return nil, mapErr(err)
	}
	return lo.ToPtr(mapMessage(*m)), nil
}

func (s *Server) EditMessage(ctx context.Context, in *EditMessageRequest) (*Message, error) {
	uid, err := userFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	m, err := s.messages.EditMessage(ctx, uid, domain.MessageID(in.MessageID), in.Content)
	if err != nil {
		return nil, mapErr(err)
	}
	return lo.ToPtr(mapMessage(*m)), nil
}

func (s *Server) DeleteMessage(ctx context.Context, in *MessageRequest) (*Empty, error) {
	uid, err := userFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.messages.DeleteMessage(ctx, uid, domain.MessageID(in.MessageID)); err != nil {
		return nil, mapErr(err)
	}
	return &Empty{}, nil
}

func mapRoom(r domain.Room) Room {
	return Room{ID: int64(r.ID), Name: r.Name, CreatedAt: r.CreatedAt}
}

func mapMessage(m domain.Message) Message {
	return Message{
		ID:             int64(m.ID),
		Content:        m.Content,
		SentAt:         m.SentAt,
		SenderID:       m.SenderID.String(),
		SenderUserName: lo.Ternary(m.SenderName == "", "unknown", m.SenderName),
		RoomID:         int64(m.RoomID),
	}
}

func mapMessages(ms []domain.Message) *MessageList {
	return &MessageList{Messages: lo.Map(ms, func(m domain.Message, _ int) Message { return mapMessage(m) })}
}
