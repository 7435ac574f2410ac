package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type MessageID int64

func (id MessageID) String() string { return strconv.FormatInt(int64(id), 10) }

func ParseMessageID(s string) (MessageID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, kindError(ErrValidation, "invalid message id")
	}
	return MessageID(n), nil
}

// Message: SentAt, SenderID и RoomID не меняются после создания, редактируется только Content.
type Message struct {
	ID       MessageID
	Content  string
	SentAt   time.Time
	SenderID UserID
	RoomID   RoomID

	// SenderName заполняется при чтении; пусто, если отправитель удалил аккаунт.
	SenderName string
}

// NormalizeContent отклоняет пустой текст и текст длиннее maxLen символов (maxLen <= 0 без ограничения).
func NormalizeContent(content string, maxLen int) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	if maxLen > 0 && utf8.RuneCountInString(content) > maxLen {
		return "", ErrContentTooLong
	}
	return content, nil
}
