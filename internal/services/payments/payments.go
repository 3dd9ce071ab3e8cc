// Package payments реализует логику пополнения баланса: список платёжных
// систем с кэшем на сессию, сборку ссылки на оплату и удаление сохранённых
// способов автоплатежа.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/shmhost/client-portal/internal/models"
)

// ErrPaySystemNotFound выбранной платёжной системы нет в списке доступных.
var ErrPaySystemNotFound = errors.New("pay system not found")

// paySystemsTTL время жизни кэша платёжных систем. Список грузится лениво,
// один раз на сессию-окно, и сбрасывается только явной инвалидацией после
// изменяющих действий.
const paySystemsTTL = 15 * time.Minute

// Upstream операции биллинга, нужные пополнению баланса.
type Upstream interface {
	PaySystems(ctx context.Context, sessionID string) ([]models.PaySystem, error)
	DeleteAutopay(ctx context.Context, sessionID, name string) error
}

// Cache кэш списка платёжных систем.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service бизнес-логика пополнения баланса.
type Service struct {
	api   Upstream
	cache Cache
	log   *slog.Logger
}

// New создает Service.
func New(api Upstream, cache Cache, log *slog.Logger) *Service {
	return &Service{
		api:   api,
		cache: cache,
		log:   log,
	}
}

func paySystemsKey(sid string) string {
	return "paysystems:" + sid
}

// PaySystems возвращает платёжные системы пользователя. Список берётся из
// кэша сессии; при промахе загружается из биллинга и дедуплицируется по
// имени — первое вхождение побеждает.
func (s *Service) PaySystems(ctx context.Context, sid string) ([]models.PaySystem, error) {
	const op = "payments.PaySystems"

	var cached []models.PaySystem
	found, err := s.cache.Get(ctx, paySystemsKey(sid), &cached)
	if err != nil {
		// Кэш не критичен: при сбое redis идём напрямую в биллинг.
		s.log.Warn("pay systems cache read failed", slog.String("op", op), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	systems, err := s.api.PaySystems(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	systems = dedupe(systems)

	if err := s.cache.Set(ctx, paySystemsKey(sid), systems, paySystemsTTL); err != nil {
		s.log.Warn("pay systems cache write failed", slog.String("op", op), slog.Any("err", err))
	}
	return systems, nil
}

// dedupe убирает дубли платёжных систем по имени, сохраняя порядок и первое
// вхождение.
func dedupe(systems []models.PaySystem) []models.PaySystem {
	seen := make(map[string]struct{}, len(systems))
	result := make([]models.PaySystem, 0, len(systems))
	for _, ps := range systems {
		if _, ok := seen[ps.Name]; ok {
			continue
		}
		seen[ps.Name] = struct{}{}
		result = append(result, ps)
	}
	return result
}

// PayURL собирает ссылку на оплату: шаблон платёжной системы плюс сумма.
// Сумма кодируется, чтобы десятичная запись не ломала URL.
func PayURL(ps models.PaySystem, amount float64) string {
	return ps.ShmURL + url.QueryEscape(strconv.FormatFloat(amount, 'f', -1, 64))
}

// Resolve находит платёжную систему по имени среди доступных пользователю.
func (s *Service) Resolve(ctx context.Context, sid, name string) (*models.PaySystem, error) {
	const op = "payments.Resolve"
	systems, err := s.PaySystems(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range systems {
		if systems[i].Name == name {
			return &systems[i], nil
		}
	}
	return nil, ErrPaySystemNotFound
}

// TopUp возвращает ссылку на оплату выбранной платёжной системой. Завершение
// платежа приходит вебхуком в биллинг, портал его не ждёт.
func (s *Service) TopUp(ctx context.Context, sid, name string, amount float64) (string, error) {
	const op = "payments.TopUp"
	ps, err := s.Resolve(ctx, sid, name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return PayURL(*ps, amount), nil
}

// DeleteAutopay удаляет сохранённый способ автоплатежа и сбрасывает кэш
// платёжных систем: после изменения список перечитывается из биллинга, а не
// правится локально.
func (s *Service) DeleteAutopay(ctx context.Context, sid, name string) error {
	const op = "payments.DeleteAutopay"
	if err := s.api.DeleteAutopay(ctx, sid, name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, paySystemsKey(sid)); err != nil {
		s.log.Warn("pay systems cache invalidate failed", slog.String("op", op), slog.Any("err", err))
	}
	return nil
}
