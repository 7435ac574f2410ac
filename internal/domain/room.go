package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type RoomID int64

func (id RoomID) String() string { return strconv.FormatInt(int64(id), 10) }

func ParseRoomID(s string) (RoomID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, kindError(ErrValidation, "invalid room id")
	}
	return RoomID(n), nil
}

type Room struct {
	ID        RoomID
	Name      string
	CreatedAt time.Time
}

// NormalizeRoomName обрезает пробелы и проверяет длину; maxLen <= 0 отключает проверку длины.
func NormalizeRoomName(name string, maxLen int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyRoomName
	}
	if maxLen > 0 && utf8.RuneCountInString(name) > maxLen {
		return "", ErrRoomNameTooLong
	}
	return name, nil
}
