// Package session управляет состоянием сессии портала. Сессионным токеном
// служит session-id биллинга, зеркалируемый в куку браузера со скользящим
// трёхдневным окном. Запись сессии в redis хранит снимок пользователя и
// фото Telegram; время жизни записи совпадает с окном куки и продлевается
// на каждом запросе.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/shmhost/client-portal/internal/models"
)

// Cache хранилище записей сессий.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Extend(ctx context.Context, key string, expiration time.Duration) error
}

// Data запись сессии. Авторизованность выводится из наличия снимка
// пользователя и нигде не хранится отдельным флагом.
type Data struct {
	User          *models.User `json:"user,omitempty"`
	TelegramPhoto string       `json:"telegram_photo,omitempty"`
}

// Manager единая точка изменения состояния сессий.
type Manager struct {
	cache    Cache
	ttl      time.Duration
	adminGID int
}

// NewManager создает Manager с заданным окном жизни сессии и gid группы
// администраторов.
func NewManager(cache Cache, ttl time.Duration, adminGID int) *Manager {
	return &Manager{
		cache:    cache,
		ttl:      ttl,
		adminGID: adminGID,
	}
}

// TTL возвращает окно жизни сессии, оно же срок действия куки.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func sessionKey(sid string) string {
	return "session:" + sid
}

// Get возвращает запись сессии и признак её существования.
func (m *Manager) Get(ctx context.Context, sid string) (*Data, bool, error) {
	const op = "session.Get"
	var data Data
	found, err := m.cache.Get(ctx, sessionKey(sid), &data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, false, nil
	}
	return &data, true, nil
}

// SetUser сохраняет снимок пользователя в записи сессии, остальные поля
// записи не трогаются.
func (m *Manager) SetUser(ctx context.Context, sid string, user *models.User) error {
	const op = "session.SetUser"
	data, _, err := m.Get(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if data == nil {
		data = &Data{}
	}
	data.User = user
	if err := m.cache.Set(ctx, sessionKey(sid), data, m.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetTelegramPhoto зеркалирует ссылку на фото Telegram в записи сессии.
// Пустая строка удаляет значение; повторное удаление ничего не меняет.
func (m *Manager) SetTelegramPhoto(ctx context.Context, sid, photoURL string) error {
	const op = "session.SetTelegramPhoto"
	data, found, err := m.Get(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		if photoURL == "" {
			return nil
		}
		data = &Data{}
	}
	if data.TelegramPhoto == photoURL {
		return nil
	}
	data.TelegramPhoto = photoURL
	if err := m.cache.Set(ctx, sessionKey(sid), data, m.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Logout удаляет запись сессии целиком одной операцией: пользователь, фото
// и всё остальное исчезают атомарно, промежуточное состояние снаружи не
// наблюдается.
func (m *Manager) Logout(ctx context.Context, sid string) error {
	const op = "session.Logout"
	if err := m.cache.Invalidate(ctx, sessionKey(sid)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Touch продлевает время жизни записи сессии на полное окно. Вызывается на
// каждом запросе с кукой независимо от исхода запроса.
func (m *Manager) Touch(ctx context.Context, sid string) error {
	const op = "session.Touch"
	if err := m.cache.Extend(ctx, sessionKey(sid), m.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsAdmin сообщает, входит ли пользователь в группу администраторов.
func (m *Manager) IsAdmin(user *models.User) bool {
	return user != nil && user.GID == m.adminGID
}
