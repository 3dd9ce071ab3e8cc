// Package middlewarectx содержит HTTP middleware портала: извлечение
// сессионного токена из куки со скользящим продлением, требование
// авторизации на защищённой группе маршрутов, ограничение частоты запросов
// и метрики.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
	"github.com/shmhost/client-portal/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionID ключ сессионного токена в контексте.
const SessionID Key = "session_id"

// SessionFromContext возвращает сессионный токен запроса, пустая строка —
// анонимный запрос.
func SessionFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(SessionID).(string)
	return sid
}

// SessionMiddleware читает сессионную куку. Если кука есть, токен кладётся в
// контекст, кука переиздаётся с новым сроком, а запись сессии продлевается —
// скользящее окно двигается на каждом запросе независимо от того, чем
// закончится сам запрос. Отсутствие куки не ошибка: запрос идёт дальше
// анонимным.
func SessionMiddleware(mgr *session.Manager, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := cookie.Value
			http.SetCookie(w, session.IssueCookie(cookieName, token, mgr.TTL()))
			if err := mgr.Touch(r.Context(), token); err != nil {
				log.Warn("failed to extend session record", sl.Err(err))
			}

			ctx := context.WithValue(r.Context(), SessionID, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession закрывает группу маршрутов от анонимных запросов.
func RequireSession(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireSession"

			if SessionFromContext(r.Context()) == "" {
				log.Info("anonymous request to protected route",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
				)
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
