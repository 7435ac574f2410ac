package grpcx

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "chat.v1.ChatService"

type ChatServiceServer interface {
	CreateRoom(ctx context.Context, in *CreateRoomRequest) (*Room, error)
	ListRooms(ctx context.Context, in *Empty) (*RoomList, error)
	RenameRoom(ctx context.Context, in *RenameRoomRequest) (*Room, error)
	DeleteRoom(ctx context.Context, in *RoomRequest) (*Empty, error)
	ListRoomMessages(ctx context.Context, in *RoomRequest) (*MessageList, error)
	ListMyMessages(ctx context.Context, in *Empty) (*MessageList, error)
	SendMessage(ctx context.Context, in *SendMessageRequest) (*Message, error)
	EditMessage(ctx context.Context, in *EditMessageRequest) (*Message, error)
	DeleteMessage(ctx context.Context, in *MessageRequest) (*Empty, error)
}

// ServiceDesc описывает ChatService так же, как это сделал бы protoc-gen-go-grpc.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateRoom", ChatServiceServer.CreateRoom),
		unary("ListRooms", ChatServiceServer.ListRooms),
		unary("RenameRoom", ChatServiceServer.RenameRoom),
		unary("DeleteRoom", ChatServiceServer.DeleteRoom),
		unary("ListRoomMessages", ChatServiceServer.ListRoomMessages),
		unary("ListMyMessages", ChatServiceServer.ListMyMessages),
		unary("SendMessage", ChatServiceServer.SendMessage),
		unary("EditMessage", ChatServiceServer.EditMessage),
		unary("DeleteMessage", ChatServiceServer.DeleteMessage),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chat/v1/chat.proto",
}

func Register(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(ChatServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(ChatServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}
