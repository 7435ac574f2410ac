package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/identity"
	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/chat-service/pkg/httputil"
	"github.com/cwrk-planet/chat-service/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type AccountService interface {
	Register(ctx context.Context, email, username, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*identity.AuthResult, error)
	Resolve(ctx context.Context, token string) (domain.UserID, error)
	GetUser(ctx context.Context, id domain.UserID) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUsername(ctx context.Context, id domain.UserID, username string) (*domain.User, error)
	UpdateEmail(ctx context.Context, id domain.UserID, email string) (*domain.User, error)
	ChangePassword(ctx context.Context, id domain.UserID, current, next string) error
	DeleteAccount(ctx context.Context, id domain.UserID) error
}

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

type Handler struct {
	accounts AccountService
	rooms    RoomService
	messages MessageService
	validate *validator.Validate
}

func NewHandler(accounts AccountService, rooms RoomService, messages MessageService) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		accounts: accounts,
		rooms:    rooms,
		messages: messages,
		validate: v,
	}
}

// decode читает JSON-тело в dst и проверяет его validate-тегами.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json", nil)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]any, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			httputil.Error(w, http.StatusBadRequest, "validation failed", map[string]any{"fields": fields})
			return false
		}
		httputil.Error(w, http.StatusBadRequest, err.Error(), nil)
		return false
	}
	return true
}

// currentUser достаёт UserID, положенный middleware Auth. Без него маршрут не должен был открыться.
func currentUser(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	uid, ok := httpmw.UserIDFromCtx(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthenticated", nil)
	}
	return uid, ok
}

// statusClientClosedRequest: клиент ушёл до ответа (код nginx).
const statusClientClosedRequest = 499

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError отвечает статусом по виду ошибки. Подробности отказов хранилища остаются в логе.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error(op, slog.Any("err", err))
		httputil.Error(w, status, fmt.Sprintf("%s failed", op), nil)
		return
	}
	httputil.Error(w, status, publicMessage(err), nil)
}

// publicMessage отрезает контекст обёрток ("send message: ...") и оставляет текст сентинела.
func publicMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
