package sqlitestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	pool, err := Open(context.Background(), Config{
		Path:     filepath.Join(t.TempDir(), "chat.db"),
		PoolSize: 4,
	})
	require.NoError(t, err)

	s := NewStore(pool)
	t.Cleanup(s.Close)
	return s
}

func createUser(t *testing.T, s *Store, email, username string) *domain.User {
	t.Helper()

	u, err := domain.NewUser(email, username, "hash", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestRoomRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("should create, rename and delete", func(t *testing.T) {
		req := require.New(t)

		room, err := s.Rooms().Create(ctx, "general")
		req.NoError(err)
		req.Positive(int64(room.ID))
		req.Equal("general", room.Name)

		renamed, err := s.Rooms().Rename(ctx, room.ID, "random")
		req.NoError(err)
		req.Equal("random", renamed.Name)

		req.NoError(s.Rooms().Delete(ctx, room.ID))

		_, err = s.Rooms().Get(ctx, room.ID)
		req.ErrorIs(err, domain.ErrRoomNotFound)
		req.ErrorIs(s.Rooms().Delete(ctx, room.ID), domain.ErrRoomNotFound)
		_, err = s.Rooms().Rename(ctx, room.ID, "x")
		req.ErrorIs(err, domain.ErrRoomNotFound)
	})

	t.Run("should never reuse ids", func(t *testing.T) {
		req := require.New(t)

		a, err := s.Rooms().Create(ctx, "a")
		req.NoError(err)
		req.NoError(s.Rooms().Delete(ctx, a.ID))

		b, err := s.Rooms().Create(ctx, "b")
		req.NoError(err)
		req.Greater(int64(b.ID), int64(a.ID))
	})

	t.Run("should list only rooms of the member ordered by id", func(t *testing.T) {
		req := require.New(t)
		alice := createUser(t, s, "alice@example.com", "alice")
		bob := createUser(t, s, "bob@example.com", "bob")

		r1, _ := s.Rooms().Create(ctx, "one")
		r2, _ := s.Rooms().Create(ctx, "two")
		r3, _ := s.Rooms().Create(ctx, "three")
		req.NoError(s.Members().Add(ctx, alice.ID, r3.ID))
		req.NoError(s.Members().Add(ctx, alice.ID, r1.ID))
		req.NoError(s.Members().Add(ctx, bob.ID, r2.ID))

		rooms, err := s.Rooms().ListByMember(ctx, alice.ID)
		req.NoError(err)
		req.Len(rooms, 2)
		req.Equal(r1.ID, rooms[0].ID)
		req.Equal(r3.ID, rooms[1].ID)
	})
}

func TestMembershipRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := createUser(t, s, "alice@example.com", "alice")
	room, err := s.Rooms().Create(ctx, "general")
	require.NoError(t, err)

	t.Run("should add idempotently", func(t *testing.T) {
		req := require.New(t)
		req.NoError(s.Members().Add(ctx, alice.ID, room.ID))
		req.NoError(s.Members().Add(ctx, alice.ID, room.ID))

		ok, err := s.Members().IsMember(ctx, alice.ID, room.ID)
		req.NoError(err)
		req.True(ok)
	})

	t.Run("should reject unknown room and unknown user", func(t *testing.T) {
		req := require.New(t)
		req.ErrorIs(s.Members().Add(ctx, alice.ID, domain.RoomID(9999)), domain.ErrRoomNotFound)
		req.ErrorIs(s.Members().Add(ctx, domain.NewUserID(), room.ID), domain.ErrUserNotFound)
	})

	t.Run("should remove all members of a room", func(t *testing.T) {
		req := require.New(t)
		n, err := s.Members().RemoveAllForRoom(ctx, room.ID)
		req.NoError(err)
		req.Equal(int64(1), n)

		ok, err := s.Members().IsMember(ctx, alice.ID, room.ID)
		req.NoError(err)
		req.False(ok)
	})
}

func TestMessageRepo_Ordering(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	s := newTestStore(t)
	alice := createUser(t, s, "alice@example.com", "alice")
	room, err := s.Rooms().Create(ctx, "general")
	req.NoError(err)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	send := func(content string, at time.Time) *domain.Message {
		m := &domain.Message{Content: content, SentAt: at, SenderID: alice.ID, RoomID: room.ID}
		req.NoError(s.Messages().Create(ctx, m))
		return m
	}

	late := send("late", base.Add(time.Minute))
	tieA := send("tie-a", base)
	tieB := send("tie-b", base)

	inRoom, err := s.Messages().ListByRoom(ctx, room.ID)
	req.NoError(err)
	req.Equal([]domain.MessageID{tieA.ID, tieB.ID, late.ID}, messageIDs(inRoom))
	req.Equal("alice", inRoom[0].SenderName)
	req.Equal(base, inRoom[0].SentAt)

	bySender, err := s.Messages().ListBySender(ctx, alice.ID)
	req.NoError(err)
	req.Equal([]domain.MessageID{late.ID, tieB.ID, tieA.ID}, messageIDs(bySender))
}

func TestMessageRepo_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	s := newTestStore(t)
	alice := createUser(t, s, "alice@example.com", "alice")
	room, _ := s.Rooms().Create(ctx, "general")

	m := &domain.Message{Content: "hello", SentAt: time.Now(), SenderID: alice.ID, RoomID: room.ID}
	req.NoError(s.Messages().Create(ctx, m))

	req.NoError(s.Messages().UpdateContent(ctx, m.ID, "hello, edited"))
	got, err := s.Messages().Get(ctx, m.ID)
	req.NoError(err)
	req.Equal("hello, edited", got.Content)
	req.Equal(m.SentAt.UTC().Truncate(time.Microsecond), got.SentAt)

	req.NoError(s.Messages().Delete(ctx, m.ID))
	_, err = s.Messages().Get(ctx, m.ID)
	req.ErrorIs(err, domain.ErrMessageNotFound)
	req.ErrorIs(s.Messages().Delete(ctx, m.ID), domain.ErrMessageNotFound)
	req.ErrorIs(s.Messages().UpdateContent(ctx, m.ID, "x"), domain.ErrMessageNotFound)
}

func TestMessageRepo_CreateInMissingRoom(t *testing.T) {
	s := newTestStore(t)

	err := s.Messages().Create(context.Background(), &domain.Message{
		Content:  "orphan",
		SentAt:   time.Now(),
		SenderID: domain.NewUserID(),
		RoomID:   domain.RoomID(42),
	})
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestCascades(t *testing.T) {
	ctx := context.Background()

	t.Run("should drop messages and memberships with the room", func(t *testing.T) {
		req := require.New(t)
		s := newTestStore(t)
		alice := createUser(t, s, "alice@example.com", "alice")
		room, _ := s.Rooms().Create(ctx, "general")
		req.NoError(s.Members().Add(ctx, alice.ID, room.ID))
		req.NoError(s.Messages().Create(ctx, &domain.Message{Content: "hi", SentAt: time.Now(), SenderID: alice.ID, RoomID: room.ID}))

		req.NoError(s.Rooms().Delete(ctx, room.ID))

		msgs, err := s.Messages().ListBySender(ctx, alice.ID)
		req.NoError(err)
		req.Empty(msgs)
		ok, err := s.Members().IsMember(ctx, alice.ID, room.ID)
		req.NoError(err)
		req.False(ok)
	})

	t.Run("should keep messages of a deleted user", func(t *testing.T) {
		req := require.New(t)
		s := newTestStore(t)
		alice := createUser(t, s, "alice@example.com", "alice")
		bob := createUser(t, s, "bob@example.com", "bob")
		room, _ := s.Rooms().Create(ctx, "general")
		req.NoError(s.Members().Add(ctx, alice.ID, room.ID))
		req.NoError(s.Members().Add(ctx, bob.ID, room.ID))
		req.NoError(s.Messages().Create(ctx, &domain.Message{Content: "bye", SentAt: time.Now(), SenderID: bob.ID, RoomID: room.ID}))

		req.NoError(s.Users().Delete(ctx, bob.ID))

		ok, err := s.Members().IsMember(ctx, bob.ID, room.ID)
		req.NoError(err)
		req.False(ok)

		msgs, err := s.Messages().ListByRoom(ctx, room.ID)
		req.NoError(err)
		req.Len(msgs, 1)
		req.Equal(bob.ID, msgs[0].SenderID)
		req.Empty(msgs[0].SenderName)

		n, err := s.Rooms().DeleteOrphaned(ctx)
		req.NoError(err)
		req.Zero(n)
	})
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := createUser(t, s, "alice@example.com", "alice")

	t.Run("should map unique violations", func(t *testing.T) {
		req := require.New(t)

		dupEmail, _ := domain.NewUser("alice@example.com", "alice2", "hash", time.Now())
		req.ErrorIs(s.Users().Create(ctx, dupEmail), domain.ErrEmailTaken)

		dupName, _ := domain.NewUser("other@example.com", "alice", "hash", time.Now())
		req.ErrorIs(s.Users().Create(ctx, dupName), domain.ErrUsernameTaken)
	})

	t.Run("should bump token generation on credential changes", func(t *testing.T) {
		req := require.New(t)

		req.NoError(s.Users().UpdateUsername(ctx, alice.ID, "alice-new"))
		req.NoError(s.Users().UpdateEmail(ctx, alice.ID, "alice-new@example.com"))
		req.NoError(s.Users().UpdatePasswordHash(ctx, alice.ID, "hash2"))

		got, err := s.Users().GetByEmail(ctx, "alice-new@example.com")
		req.NoError(err)
		req.Equal("alice-new", got.Username)
		req.Equal("hash2", got.PasswordHash)
		req.Equal(int64(3), got.TokenGeneration)
	})

	t.Run("should report missing users", func(t *testing.T) {
		req := require.New(t)
		_, err := s.Users().GetByID(ctx, domain.NewUserID())
		req.ErrorIs(err, domain.ErrUserNotFound)
		req.ErrorIs(s.Users().UpdateEmail(ctx, domain.NewUserID(), "x@example.com"), domain.ErrUserNotFound)
	})

	t.Run("should list users by username", func(t *testing.T) {
		createUser(t, s, "aaron@example.com", "aaron")
		users, err := s.Users().List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		require.Equal(t, "aaron", users[0].Username)
	})
}

func TestInTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("should roll back on error", func(t *testing.T) {
		req := require.New(t)
		boom := errors.New("boom")
		var created domain.RoomID

		err := s.InTx(ctx, func(tx repository.Repositories) error {
			room, err := tx.Rooms().Create(ctx, "temp")
			req.NoError(err)
			created = room.ID
			return boom
		})
		req.ErrorIs(err, boom)

		_, err = s.Rooms().Get(ctx, created)
		req.ErrorIs(err, domain.ErrRoomNotFound)
	})

	t.Run("should commit on success", func(t *testing.T) {
		req := require.New(t)
		var created domain.RoomID

		req.NoError(s.InTx(ctx, func(tx repository.Repositories) error {
			room, err := tx.Rooms().Create(ctx, "kept")
			created = room.ID
			return err
		}))

		_, err := s.Rooms().Get(ctx, created)
		req.NoError(err)
	})

	t.Run("should fail on cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := s.InTx(cctx, func(repository.Repositories) error { return nil })
		require.ErrorIs(t, err, domain.ErrStorage)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("should report expired deadline on plain queries", func(t *testing.T) {
		req := require.New(t)
		dctx, cancel := context.WithDeadline(ctx, time.Now().Add(-time.Second))
		defer cancel()

		_, err := s.Rooms().ListByMember(dctx, "someone")
		req.ErrorIs(err, domain.ErrStorage)
		req.ErrorIs(err, context.DeadlineExceeded)

		req.ErrorIs(s.Ping(dctx), context.DeadlineExceeded)
	})

	require.NoError(t, s.Ping(ctx))
}

func messageIDs(msgs []domain.Message) []domain.MessageID {
	ids := make([]domain.MessageID, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	return ids
}
