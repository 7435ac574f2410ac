package domain

import (
	"errors"
	"fmt"
)

// Виды ошибок. Транспорт сопоставляет их с кодами ответа через errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
	ErrStorage         = errors.New("storage failure")
)

var (
	ErrEmptyRoomName    = kindError(ErrValidation, "room name is required")
	ErrRoomNameTooLong  = kindError(ErrValidation, "room name is too long")
	ErrEmptyContent     = kindError(ErrValidation, "message content is required")
	ErrContentTooLong   = kindError(ErrValidation, "message is too long")
	ErrInvalidEmail     = kindError(ErrValidation, "invalid email")
	ErrEmptyUsername    = kindError(ErrValidation, "username is required")
	ErrPasswordTooShort = kindError(ErrValidation, "password too short")

	ErrRoomNotFound    = kindError(ErrNotFound, "room not found")
	ErrMessageNotFound = kindError(ErrNotFound, "message not found")
	ErrUserNotFound    = kindError(ErrNotFound, "user not found")

	ErrNotMember = kindError(ErrForbidden, "user is not a member of the room")
	ErrNotSender = kindError(ErrForbidden, "only the sender can modify the message")

	ErrInvalidCredentials = kindError(ErrUnauthenticated, "invalid credentials")
	ErrInvalidToken       = kindError(ErrUnauthenticated, "invalid token")

	ErrEmailTaken    = kindError(ErrConflict, "email already registered")
	ErrUsernameTaken = kindError(ErrConflict, "username already taken")
)

type sentinel struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &sentinel{kind: kind, msg: msg}
}

func (e *sentinel) Error() string { return e.msg }

func (e *sentinel) Unwrap() error { return e.kind }

// StorageError оборачивает отказ хранилища: сеть, пул, нарушения схемы, не сводимые к NotFound/Conflict.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
