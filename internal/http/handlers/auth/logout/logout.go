// Package logout реализует HTTP-обработчик выхода из сессии: запись сессии
// удаляется целиком одной операцией, кука стирается.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
	"github.com/shmhost/client-portal/internal/session"
)

// Sessions операции над состоянием сессии.
type Sessions interface {
	Logout(ctx context.Context, sid string) error
}

// Handler управляет HTTP-запросами на выход.
type Handler struct {
	log        *slog.Logger
	sessions   Sessions
	cookieName string
}

// New создает новый Handler.
func New(log *slog.Logger, sessions Sessions, cookieName string) *Handler {
	return &Handler{
		log:        log,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// ServeHTTP godoc
// @Summary Выход из сессии
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := middlewarectx.SessionFromContext(r.Context())
	if sid != "" {
		if err := h.sessions.Logout(r.Context(), sid); err != nil {
			log.Warn("failed to drop session record", sl.Err(err))
		}
	}

	http.SetCookie(w, session.ClearCookie(h.cookieName))

	log.Info("user logged out")
	render.JSON(w, r, response.OK())
}
