// Package appconfig реализует публичный HTTP-обработчик конфигурации
// фронтенда: имя приложения и настройки входа через Telegram. Отдаётся без
// авторизации, до создания сессии.
package appconfig

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/shmhost/client-portal/internal/config"
	"github.com/shmhost/client-portal/internal/http/response"
)

// Settings публичная часть конфигурации портала.
type Settings struct {
	AppName                  string `json:"app_name"`
	TelegramBotName          string `json:"telegram_bot_name,omitempty"`
	TelegramBotAuthEnable    bool   `json:"telegram_bot_auth_enable"`
	TelegramWebAppAuthEnable bool   `json:"telegram_webapp_auth_enable"`
}

// Handler отдаёт публичную конфигурацию фронтенду.
type Handler struct {
	settings Settings
}

// New создает новый Handler. Конфигурация снимается один раз при старте.
func New(cfg *config.Config) *Handler {
	return &Handler{
		settings: Settings{
			AppName:                  cfg.AppName,
			TelegramBotName:          cfg.Telegram.BotName,
			TelegramBotAuthEnable:    cfg.Telegram.BotAuthEnable,
			TelegramWebAppAuthEnable: cfg.Telegram.WebAppAuthEnable,
		},
	}
}

// ServeHTTP godoc
// @Summary Публичная конфигурация портала
// @Tags Config
// @Produce json
// @Success 200 {object} response.Response
// @Router /config [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(h.settings))
}
