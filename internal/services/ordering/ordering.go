// Package ordering реализует сценарий заказа услуги: каталог с группировкой
// по категориям, расчёт недостающей суммы и сам заказ, при необходимости со
// ссылкой на доплату через платёжную систему.
package ordering

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/shmhost/client-portal/internal/lib/category"
	"github.com/shmhost/client-portal/internal/models"
	"github.com/shmhost/client-portal/internal/services/payments"
)

// Upstream операции биллинга, нужные заказу услуг.
type Upstream interface {
	ListOrderable(ctx context.Context, sessionID string) ([]models.OrderableService, error)
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
	Order(ctx context.Context, sessionID string, serviceID int) error
}

// PaySource доступ к платёжным системам для сценария «заказать и оплатить».
type PaySource interface {
	Resolve(ctx context.Context, sid, name string) (*models.PaySystem, error)
}

// Entry позиция каталога с посчитанной недостающей суммой.
type Entry struct {
	models.OrderableService
	Shortfall float64 `json:"shortfall"`
}

// Group группа каталога по нормализованной категории, отсортирована по
// возрастанию стоимости.
type Group struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Services []Entry `json:"services"`
}

// Catalog каталог услуг вместе с текущим балансом пользователя.
type Catalog struct {
	Balance float64 `json:"balance"`
	Groups  []Group `json:"groups"`
}

// OrderResult итог заказа. PaymentURL заполнен только в сценарии
// «заказать и оплатить».
type OrderResult struct {
	ServiceID  int    `json:"service_id"`
	PaymentURL string `json:"payment_url,omitempty"`
}

// Service бизнес-логика заказа услуг.
type Service struct {
	api Upstream
	pay PaySource
	log *slog.Logger
}

// New создает Service.
func New(api Upstream, pay PaySource, log *slog.Logger) *Service {
	return &Service{
		api: api,
		pay: pay,
		log: log,
	}
}

// Shortfall недостающая для заказа сумма: округлённая вверх до копеек
// разница между стоимостью и балансом, не меньше нуля.
func Shortfall(cost, balance float64) float64 {
	return math.Max(0, math.Ceil((cost-balance)*100)/100)
}

// Catalog возвращает каталог заказываемых услуг, сгруппированный по
// категориям, вместе с балансом. Каталог и баланс грузятся параллельно,
// порядок завершения не важен: каждый пишет своё поле. Ошибка загрузки
// баланса не срывает показ каталога — баланс считается нулевым.
func (s *Service) Catalog(ctx context.Context, sid string) (*Catalog, error) {
	const op = "ordering.Catalog"

	var (
		wg       sync.WaitGroup
		services []models.OrderableService
		svcErr   error
		balance  float64
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		services, svcErr = s.api.ListOrderable(ctx, sid)
	}()
	go func() {
		defer wg.Done()
		user, err := s.api.CurrentUser(ctx, sid)
		if err != nil {
			s.log.Warn("failed to fetch balance for catalog", slog.String("op", op), slog.Any("err", err))
			return
		}
		balance = user.Balance
	}()
	wg.Wait()

	if svcErr != nil {
		return nil, fmt.Errorf("%s: %w", op, svcErr)
	}

	return &Catalog{
		Balance: balance,
		Groups:  groupCatalog(services, balance),
	}, nil
}

// groupCatalog раскладывает позиции по нормализованным категориям и
// сортирует каждую группу по возрастанию стоимости. Порядок групп
// фиксированный.
func groupCatalog(services []models.OrderableService, balance float64) []Group {
	byCategory := make(map[string][]Entry)
	for _, svc := range services {
		cat := category.Normalize(svc.Category)
		byCategory[cat] = append(byCategory[cat], Entry{
			OrderableService: svc,
			Shortfall:        Shortfall(svc.Cost, balance),
		})
	}

	groups := make([]Group, 0, len(byCategory))
	for _, cat := range category.Order {
		entries, ok := byCategory[cat]
		if !ok {
			continue
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Cost < entries[j].Cost
		})
		groups = append(groups, Group{
			Category: cat,
			Label:    category.Label(cat),
			Services: entries,
		})
	}
	return groups
}

// Order заказывает услугу с оплатой с баланса.
func (s *Service) Order(ctx context.Context, sid string, serviceID int) (*OrderResult, error) {
	const op = "ordering.Order"
	if err := s.api.Order(ctx, sid, serviceID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &OrderResult{ServiceID: serviceID}, nil
}

// OrderAndPay заказывает услугу и возвращает ссылку на доплату выбранной
// платёжной системой. Сумма по умолчанию — недостающая до стоимости услуги.
// Заказ и сборка ссылки последовательны и не транзакционны: успешный заказ
// остаётся в силе, даже если оплату так и не открыли, — расхождение сводит
// биллинг после прихода платежа.
func (s *Service) OrderAndPay(ctx context.Context, sid string, serviceID int, paySystem string, amount float64) (*OrderResult, error) {
	const op = "ordering.OrderAndPay"

	ps, err := s.pay.Resolve(ctx, sid, paySystem)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if amount <= 0 {
		amount, err = s.shortfallFor(ctx, sid, serviceID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.api.Order(ctx, sid, serviceID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &OrderResult{
		ServiceID:  serviceID,
		PaymentURL: payments.PayURL(*ps, amount),
	}, nil
}

// shortfallFor считает недостающую сумму для конкретной услуги по свежим
// данным биллинга.
func (s *Service) shortfallFor(ctx context.Context, sid string, serviceID int) (float64, error) {
	services, err := s.api.ListOrderable(ctx, sid)
	if err != nil {
		return 0, err
	}
	user, err := s.api.CurrentUser(ctx, sid)
	if err != nil {
		return 0, err
	}
	for _, svc := range services {
		if svc.ServiceID == serviceID {
			return Shortfall(svc.Cost, user.Balance), nil
		}
	}
	return 0, fmt.Errorf("service %d not found in catalog", serviceID)
}
