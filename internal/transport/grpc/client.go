package grpcx

import (
	"context"

	"google.golang.org/grpc"
)

// Client: клиент ChatService поверх любого grpc.ClientConnInterface.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRoom(ctx context.Context, in *CreateRoomRequest, opts ...grpc.CallOption) (*Room, error) {
	return invoke[Room](ctx, c, "CreateRoom", in, opts...)
}

func (c *Client) ListRooms(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*RoomList, error) {
	return invoke[RoomList](ctx, c, "ListRooms", in, opts...)
}

func (c *Client) RenameRoom(ctx context.Context, in *RenameRoomRequest, opts ...grpc.CallOption) (*Room, error) {
	return invoke[Room](ctx, c, "RenameRoom", in, opts...)
}

func (c *Client) DeleteRoom(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "DeleteRoom", in, opts...)
}

func (c *Client) ListRoomMessages(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*MessageList, error) {
	return invoke[MessageList](ctx, c, "ListRoomMessages", in, opts...)
}

func (c *Client) ListMyMessages(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*MessageList, error) {
	return invoke[MessageList](ctx, c, "ListMyMessages", in, opts...)
}

func (c *Client) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*Message, error) {
	return invoke[Message](ctx, c, "SendMessage", in, opts...)
}

func (c *Client) EditMessage(ctx context.Context, in *EditMessageRequest, opts ...grpc.CallOption) (*Message, error) {
	return invoke[Message](ctx, c, "EditMessage", in, opts...)
}

func (c *Client) DeleteMessage(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, "DeleteMessage", in, opts...)
}
