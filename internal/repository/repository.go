//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../mocks/mock_repository.go -package=mocks

// Package repository описывает контракты хранилища. Реализации: postgres (prod) и sqlite (embedded, тесты).
//
// Ошибки реализаций: отсутствующая сущность возвращается как domain.Err*NotFound,
// нарушение уникальности как domain.ErrConflict, всё прочее как *domain.StorageError.
package repository

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

type RoomRepository interface {
	Create(ctx context.Context, name string) (*domain.Room, error)
	Get(ctx context.Context, id domain.RoomID) (*domain.Room, error)
	// GetForShare блокирует строку комнаты от удаления до конца транзакции.
	GetForShare(ctx context.Context, id domain.RoomID) (*domain.Room, error)
	// GetForUpdate берёт эксклюзивную блокировку строки комнаты до конца транзакции.
	GetForUpdate(ctx context.Context, id domain.RoomID) (*domain.Room, error)
	ListByMember(ctx context.Context, userID domain.UserID) ([]domain.Room, error)
	Rename(ctx context.Context, id domain.RoomID, name string) (*domain.Room, error)
	Delete(ctx context.Context, id domain.RoomID) error
	// DeleteOrphaned удаляет комнаты без участников и возвращает их количество.
	DeleteOrphaned(ctx context.Context) (int64, error)
}

type MembershipRepository interface {
	IsMember(ctx context.Context, userID domain.UserID, roomID domain.RoomID) (bool, error)
	Add(ctx context.Context, userID domain.UserID, roomID domain.RoomID) error
	RemoveAllForRoom(ctx context.Context, roomID domain.RoomID) (int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	Get(ctx context.Context, id domain.MessageID) (*domain.Message, error)
	GetForUpdate(ctx context.Context, id domain.MessageID) (*domain.Message, error)
	// ListByRoom сортирует по (sent_at, id) по возрастанию.
	ListByRoom(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error)
	// ListBySender сортирует по (sent_at, id) по убыванию.
	ListBySender(ctx context.Context, senderID domain.UserID) ([]domain.Message, error)
	UpdateContent(ctx context.Context, id domain.MessageID, content string) error
	Delete(ctx context.Context, id domain.MessageID) error
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// UpdateUsername, UpdateEmail и UpdatePasswordHash увеличивают token_generation.
	UpdateUsername(ctx context.Context, id domain.UserID, username string) error
	UpdateEmail(ctx context.Context, id domain.UserID, email string) error
	UpdatePasswordHash(ctx context.Context, id domain.UserID, hash string) error
	Delete(ctx context.Context, id domain.UserID) error
}

// Repositories открывает репозитории поверх одного соединения: пула или транзакции.
type Repositories interface {
	Rooms() RoomRepository
	Members() MembershipRepository
	Messages() MessageRepository
	Users() UserRepository
}

type Store interface {
	Repositories
	// InTx выполняет fn в одной транзакции: commit, если fn вернула nil, иначе rollback.
	InTx(ctx context.Context, fn func(tx Repositories) error) error
	Ping(ctx context.Context) error
	Close()
}
