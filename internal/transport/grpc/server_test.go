package grpcx

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwrk-planet/chat-service/internal/identity"
	"github.com/cwrk-planet/chat-service/internal/repository/sqlitestore"
	"github.com/cwrk-planet/chat-service/internal/security"
	"github.com/cwrk-planet/chat-service/internal/service"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type testEnv struct {
	client   *Client
	accounts *identity.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	pool, err := sqlitestore.Open(context.Background(), sqlitestore.Config{
		Path:     filepath.Join(t.TempDir(), "grpc.db"),
		PoolSize: 2,
	})
	require.NoError(t, err)
	store := sqlitestore.NewStore(pool)
	t.Cleanup(store.Close)

	signer := security.NewHS256Signer([]byte("grpc-secret"), "chat-service", "", time.Hour, 0)
	accounts := identity.NewService(store, signer, security.PasswordPolicy{Cost: 4, MinLength: 6}, nil)
	limits := service.Limits{MaxRoomNameLength: 64, MaxMessageLength: 200}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		UnaryServerInterceptor(5*time.Second),
		AuthInterceptor(accounts),
	))
	Register(srv, NewServer(service.NewRoomService(store, limits), service.NewMessageService(store, limits, nil)))

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testEnv{client: NewClient(conn), accounts: accounts}
}

// as регистрирует пользователя и возвращает контекст с его access-токеном.
func (e *testEnv) as(t *testing.T, email, username string) context.Context {
	t.Helper()
	ctx := context.Background()
	_, err := e.accounts.Register(ctx, email, username, "secret-pw")
	require.NoError(t, err)
	res, err := e.accounts.Authenticate(ctx, email, "secret-pw")
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(ctx, mdAuthorization, "Bearer "+res.AccessToken)
}

func requireCode(t *testing.T, want codes.Code, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, status.Code(err), err.Error())
}

func TestChatService_Scenario(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	a := env.as(t, "a@example.com", "alice")
	b := env.as(t, "b@example.com", "bob")

	room, err := env.client.CreateRoom(a, &CreateRoomRequest{Name: "general"})
	req.NoError(err)
	req.Equal(int64(1), room.ID)

	_, err = env.client.SendMessage(b, &SendMessageRequest{RoomID: room.ID, Content: "hi"})
	requireCode(t, codes.PermissionDenied, err)

	msg, err := env.client.SendMessage(a, &SendMessageRequest{RoomID: room.ID, Content: "hello"})
	req.NoError(err)
	req.Equal(int64(1), msg.ID)
	req.Equal(room.ID, msg.RoomID)
	req.Equal("alice", msg.SenderUserName)

	_, err = env.client.EditMessage(b, &EditMessageRequest{MessageID: msg.ID, Content: "x"})
	requireCode(t, codes.PermissionDenied, err)

	edited, err := env.client.EditMessage(a, &EditMessageRequest{MessageID: msg.ID, Content: "hello!"})
	req.NoError(err)
	req.Equal("hello!", edited.Content)

	mine, err := env.client.ListMyMessages(a, &Empty{})
	req.NoError(err)
	req.Len(mine.Messages, 1)

	_, err = env.client.DeleteRoom(a, &RoomRequest{RoomID: room.ID})
	req.NoError(err)

	_, err = env.client.ListRoomMessages(a, &RoomRequest{RoomID: room.ID})
	requireCode(t, codes.NotFound, err)
}

func TestChatService_Errors(t *testing.T) {
	env := newTestEnv(t)
	a := env.as(t, "a@example.com", "alice")

	t.Run("should reject calls without token", func(t *testing.T) {
		_, err := env.client.ListRooms(context.Background(), &Empty{})
		requireCode(t, codes.Unauthenticated, err)

		bad := metadata.AppendToOutgoingContext(context.Background(), mdAuthorization, "Bearer nope")
		_, err = env.client.ListRooms(bad, &Empty{})
		requireCode(t, codes.Unauthenticated, err)
	})

	t.Run("should map validation and not found", func(t *testing.T) {
		_, err := env.client.CreateRoom(a, &CreateRoomRequest{Name: "  "})
		requireCode(t, codes.InvalidArgument, err)

		_, err = env.client.RenameRoom(a, &RenameRoomRequest{RoomID: 404, Name: "x"})
		requireCode(t, codes.NotFound, err)

		_, err = env.client.DeleteMessage(a, &MessageRequest{MessageID: 404})
		requireCode(t, codes.NotFound, err)
	})

	t.Run("should list rooms after rename", func(t *testing.T) {
		req := require.New(t)
		room, err := env.client.CreateRoom(a, &CreateRoomRequest{Name: "old"})
		req.NoError(err)
		_, err = env.client.RenameRoom(a, &RenameRoomRequest{RoomID: room.ID, Name: "new"})
		req.NoError(err)

		list, err := env.client.ListRooms(a, &Empty{})
		req.NoError(err)
		req.Len(list.Rooms, 1)
		req.Equal("new", list.Rooms[0].Name)
	})
}
