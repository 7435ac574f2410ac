package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/chat-service/pkg/httputil"
	"github.com/cwrk-planet/chat-service/pkg/logger"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	RequestTimeout time.Duration
	CORSOrigins    []string
}

func NewRouter(cfg RouterConfig, h *Handler, store Pinger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middlewareChi.RealIP)
	r.Use(httputil.MiddlewareRequestID)
	r.Use(httpmw.WithRequestLogger)
	r.Use(httpmw.RequestLogger)
	r.Use(middlewareChi.Recoverer)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", httputil.HeaderRequestID},
			ExposedHeaders:   []string{"Location", httputil.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.OK(w, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).Warn("readiness check failed", slog.Any("err", err))
			httputil.Error(w, http.StatusServiceUnavailable, "storage unavailable", nil)
			return
		}
		httputil.OK(w, map[string]string{"status": "ready"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middlewareChi.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", h.Register)
			ar.Post("/login", h.Login)
		})

		// Всё остальное только с валидным access-токеном.
		api.Group(func(pr chi.Router) {
			pr.Use(httpmw.Auth(h.accounts))

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/", h.ListUsers)
				ur.Get("/me", h.Me)
				ur.Delete("/me", h.DeleteMe)
				ur.Put("/me/username", h.UpdateUsername)
				ur.Put("/me/email", h.UpdateEmail)
				ur.Post("/change-password", h.ChangePassword)
				ur.Get("/{id}", h.GetUser)
			})

			pr.Route("/rooms", func(rm chi.Router) {
				rm.Post("/", h.CreateRoom)
				rm.Get("/", h.ListRooms)
				rm.Put("/{id}", h.RenameRoom)
				rm.Delete("/{id}", h.DeleteRoom)
			})

			pr.Route("/messages", func(mr chi.Router) {
				mr.Get("/room/{roomId}", h.ListRoomMessages)
				mr.Get("/me", h.ListMyMessages)
				mr.Post("/", h.SendMessage)
				mr.Put("/{id}", h.EditMessage)
				mr.Delete("/{id}", h.DeleteMessage)
			})
		})
	})

	return r
}
