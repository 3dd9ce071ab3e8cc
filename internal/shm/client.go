// Package shm реализует типизированный клиент биллингового API SHM.
// Клиент — единственная точка обращения к бэкенду: на каждый запрос
// прикрепляется сессионный токен, ответы разворачиваются из конверта
// {"data": ...}. Бизнес-логики здесь нет, только тонкие пары запрос/ответ.
package shm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shmhost/client-portal/internal/models"
)

// CookieName имя куки, в которой SHM ожидает сессионный токен.
const CookieName = "session-id"

// ErrUnauthorized бэкенд отверг сессионный токен.
var ErrUnauthorized = errors.New("shm: unauthorized")

// APIError ошибка уровня API с сообщением из конверта ответа. Сообщение
// показывается пользователю как есть (например, при неверном промокоде).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shm: status %d: %s", e.StatusCode, e.Message)
}

// Client клиент SHM API.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт клиент SHM с базовым адресом API и таймаутом запросов.
func NewClient(apiURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// envelope конверт ответа SHM: data может быть как объектом, так и массивом.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
	Msg   string          `json:"msg,omitempty"`
}

func (c *Client) newRequest(ctx context.Context, method, path, sessionID string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: sessionID})
	}
	return req, nil
}

// do выполняет запрос и возвращает конверт ответа. Любой не-2xx статус
// превращается в ошибку: 401 — в ErrUnauthorized, остальные — в APIError
// с сообщением бэкенда, если оно есть.
func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if len(raw) > 0 {
		// Тело может быть и не-JSON (например, прокси вернул текст),
		// тогда конверт остаётся пустым.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if msg == "" {
			msg = env.Msg
		}
		if msg == "" {
			msg = resp.Status
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &env, nil
}

// decodeOne разбирает data как одиночный объект. Бэкенд местами заворачивает
// одиночные ответы в массив из одного элемента, это тоже принимается.
func decodeOne(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return errors.New("shm: empty response data")
	}
	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		if len(items) == 0 {
			return errors.New("shm: empty response data")
		}
		raw = items[0]
	}
	return json.Unmarshal(raw, v)
}

// decodeList разбирает data как список. Одиночный объект принимается как
// список из одного элемента, null — как пустой список.
func decodeList(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] != '[' {
		wrapped := make([]byte, 0, len(raw)+2)
		wrapped = append(wrapped, '[')
		wrapped = append(wrapped, raw...)
		wrapped = append(wrapped, ']')
		raw = wrapped
	}
	return json.Unmarshal(raw, v)
}

// Login аутентифицирует пользователя и возвращает сессионный токен.
func (c *Client) Login(ctx context.Context, login, password string) (string, error) {
	const op = "shm.Login"
	req, err := c.newRequest(ctx, http.MethodPost, "/user/auth", "", map[string]string{
		"login":    login,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	env, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	var res struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeOne(env.Data, &res); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if res.SessionID == "" {
		return "", fmt.Errorf("%s: no session in response", op)
	}
	return res.SessionID, nil
}

// Register регистрирует нового пользователя. Сессия при этом не создаётся,
// пользователь затем входит обычным способом.
func (c *Client) Register(ctx context.Context, login, password string) error {
	const op = "shm.Register"
	req, err := c.newRequest(ctx, http.MethodPut, "/user", "", map[string]string{
		"login":    login,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TelegramWidgetAuth пересылает подписанные данные Telegram Login Widget
// бэкенду для проверки подписи и возвращает сессионный токен.
func (c *Client) TelegramWidgetAuth(ctx context.Context, payload models.TelegramWidgetAuth) (string, error) {
	const op = "shm.TelegramWidgetAuth"
	req, err := c.newRequest(ctx, http.MethodPost, "/telegram/widget/auth", "", payload)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	env, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	var res struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeOne(env.Data, &res); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if res.SessionID == "" {
		return "", fmt.Errorf("%s: no session in response", op)
	}
	return res.SessionID, nil
}

// CurrentUser возвращает профиль владельца сессии.
func (c *Client) CurrentUser(ctx context.Context, sessionID string) (*models.User, error) {
	const op = "shm.CurrentUser"
	req, err := c.newRequest(ctx, http.MethodGet, "/user", sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	env, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var user models.User
	if err := decodeOne(env.Data, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// UpdateProfile обновляет изменяемые поля профиля.
func (c *Client) UpdateProfile(ctx context.Context, sessionID, fullName, phone string) error {
	const op = "shm.UpdateProfile"
	req, err := c.newRequest(ctx, http.MethodPost, "/user", sessionID, map[string]string{
		"full_name": fullName,
		"phone":     phone,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ChangePassword устанавливает новый пароль владельца сессии.
func (c *Client) ChangePassword(ctx context.Context, sessionID, password string) error {
	const op = "shm.ChangePassword"
	req, err := c.newRequest(ctx, http.MethodPost, "/user/passwd", sessionID, map[string]string{
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListOrderable возвращает каталог услуг, доступных для заказа.
func (c *Client) ListOrderable(ctx context.Context, sessionID string) ([]models.OrderableService, error) {
	const op = "shm.ListOrderable"
	req, err := c.newRequest(ctx, http.MethodGet, "/user/service/order", sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	env, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var services []models.OrderableService
	if err := decodeList(env.Data, &services); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return services, nil
}

// Order заказывает услугу. Оплата с баланса или доплата через платёжную
// систему происходит на стороне бэкенда.
func (c *Client) Order(ctx context.Context, sessionID string, serviceID int) error {
	const op = "shm.Order"
	req, err := c.newRequest(ctx, http.MethodPut, "/user/service/order", sessionID, map[string]int{
		"service_id": serviceID,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListOwned возвращает услуги пользователя плоским списком, включая дочерние.
func (c *Client) ListOwned(ctx context.Context, sessionID string) ([]models.UserService, error) {
	const op = "shm.ListOwned"
	req, err := c.newRequest(ctx, http.MethodGet, "/user/service", sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	env, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var services []models.UserService
	if err := decodeList(env.Data, &services); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return services, nil
}

// StopService останавливает активную услугу.
func (c *Client) StopService(ctx context.Context, sessionID string, userServiceID int) error {
	const op = "shm.StopService"
	req, err := c.newRequest(ctx, http.MethodPost, "/user/service/stop", sessionID, map[string]int{
		"user_service_id": userServiceID,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteService удаляет услугу пользователя.
func (c *Client) DeleteService(ctx context.Context, sessionID string, userServiceID int) error {
	const op = "shm.DeleteService"
	path := fmt.Sprintf("/user/service?user_service_id=%d", userServiceID)
	req, err := c.newRequest(ctx, http.MethodDelete, path, sessionID, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PaySystems возвращает доступные платёжные системы и сохранённые способы
// автоплатежа.
func (c *Client) PaySystems(ctx context.Context, sessionID string) ([]models.PaySystem, error) {
	const op = "shm.PaySystems"
	req, err := c.newRequest(ctx, http.MethodGet, "/user/pay/paysystems", sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	env, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var systems []models.PaySystem
	if err := decodeList(env.Data, &systems); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return systems, nil
}

// DeleteAutopay удаляет сохранённый способ автоплатежа.
func (c *Client) DeleteAutopay(ctx context.Context, sessionID, name string) error {
	const op = "shm.DeleteAutopay"
	req, err := c.newRequest(ctx, http.MethodDelete, "/user/autopayment", sessionID, map[string]string{
		"name": name,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ApplyPromo применяет промокод. Сообщение об ошибке бэкенда доходит до
// вызывающего через APIError.
func (c *Client) ApplyPromo(ctx context.Context, sessionID, code string) error {
	const op = "shm.ApplyPromo"
	req, err := c.newRequest(ctx, http.MethodPut, "/user/promo", sessionID, map[string]string{
		"promo": code,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Forecast возвращает прогноз предстоящих списаний.
func (c *Client) Forecast(ctx context.Context, sessionID string) (*models.Forecast, error) {
	const op = "shm.Forecast"
	req, err := c.newRequest(ctx, http.MethodGet, "/user/pay/forecast", sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	env, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var forecast models.Forecast
	if err := decodeOne(env.Data, &forecast); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &forecast, nil
}

// Payments возвращает историю платежей.
func (c *Client) Payments(ctx context.Context, sessionID string) ([]models.Payment, error) {
	const op = "shm.Payments"
	req, err := c.newRequest(ctx, http.MethodGet, "/user/pay", sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	env, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var payments []models.Payment
	if err := decodeList(env.Data, &payments); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}

// Withdrawals возвращает историю списаний.
func (c *Client) Withdrawals(ctx context.Context, sessionID string) ([]models.Withdraw, error) {
	const op = "shm.Withdrawals"
	req, err := c.newRequest(ctx, http.MethodGet, "/user/withdraw", sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	env, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var withdrawals []models.Withdraw
	if err := decodeList(env.Data, &withdrawals); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return withdrawals, nil
}

// TelegramSettings возвращает привязку аккаунта к Telegram.
func (c *Client) TelegramSettings(ctx context.Context, sessionID string) (*models.TelegramSettings, error) {
	const op = "shm.TelegramSettings"
	req, err := c.newRequest(ctx, http.MethodGet, "/user/telegram", sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	env, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var settings models.TelegramSettings
	if err := decodeOne(env.Data, &settings); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &settings, nil
}

// UpdateTelegramSettings сохраняет привязку аккаунта к Telegram.
func (c *Client) UpdateTelegramSettings(ctx context.Context, sessionID string, settings models.TelegramSettings) error {
	const op = "shm.UpdateTelegramSettings"
	req, err := c.newRequest(ctx, http.MethodPost, "/user/telegram", sessionID, settings)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
