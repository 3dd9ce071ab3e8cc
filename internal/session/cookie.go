package session

import (
	"net/http"
	"time"
)

// IssueCookie возвращает сессионную куку с новым сроком действия. Вызов на
// каждом запросе реализует скользящее окно.
func IssueCookie(name, token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie возвращает куку, удаляющую сессию в браузере.
func ClearCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
