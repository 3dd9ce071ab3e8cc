// Package userservices реализует работу с заказанными услугами пользователя:
// сборку одноуровневого дерева родитель-потомки, группировку по категориям и
// остановку/удаление услуг.
package userservices

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shmhost/client-portal/internal/lib/category"
	"github.com/shmhost/client-portal/internal/models"
)

// Upstream операции биллинга над услугами пользователя.
type Upstream interface {
	ListOwned(ctx context.Context, sessionID string) ([]models.UserService, error)
	StopService(ctx context.Context, sessionID string, userServiceID int) error
	DeleteService(ctx context.Context, sessionID string, userServiceID int) error
}

// Group группа услуг одной категории.
type Group struct {
	Category string               `json:"category"`
	Label    string               `json:"label"`
	Count    int                  `json:"count"`
	Services []models.UserService `json:"services"`
}

// Service бизнес-логика услуг пользователя.
type Service struct {
	api Upstream
	log *slog.Logger
}

// New создает Service.
func New(api Upstream, log *slog.Logger) *Service {
	return &Service{
		api: api,
		log: log,
	}
}

// List возвращает услуги пользователя деревом, сгруппированным по
// нормализованным категориям.
func (s *Service) List(ctx context.Context, sid string) ([]Group, error) {
	const op = "userservices.List"
	services, err := s.api.ListOwned(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return GroupByCategory(BuildTree(services)), nil
}

// BuildTree собирает одноуровневое дерево: потомок цепляется к услуге, чей
// user_service_id равен его parent. Услуга с parent, которого нет в
// выборке, считается корневой — терпимый запасной вариант, не ошибка.
// Глубже одного уровня дерево не строится.
func BuildTree(services []models.UserService) []models.UserService {
	index := make(map[int]*models.UserService, len(services))
	for i := range services {
		svc := services[i]
		svc.Children = nil
		index[svc.UserServiceID] = &svc
	}

	roots := make([]*models.UserService, 0, len(services))
	for _, svc := range services {
		node := index[svc.UserServiceID]
		if svc.Parent != 0 {
			if parent, ok := index[svc.Parent]; ok {
				parent.Children = append(parent.Children, *node)
				continue
			}
		}
		roots = append(roots, node)
	}

	result := make([]models.UserService, 0, len(roots))
	for _, root := range roots {
		result = append(result, *root)
	}
	return result
}

// GroupByCategory раскладывает корневые услуги по нормализованным
// категориям в фиксированном порядке.
func GroupByCategory(roots []models.UserService) []Group {
	byCategory := make(map[string][]models.UserService)
	for _, svc := range roots {
		cat := category.Normalize(svc.Service.Category)
		byCategory[cat] = append(byCategory[cat], svc)
	}

	groups := make([]Group, 0, len(byCategory))
	for _, cat := range category.Order {
		services, ok := byCategory[cat]
		if !ok {
			continue
		}
		groups = append(groups, Group{
			Category: cat,
			Label:    category.Label(cat),
			Count:    len(services),
			Services: services,
		})
	}
	return groups
}

// Stop останавливает активную услугу.
func (s *Service) Stop(ctx context.Context, sid string, userServiceID int) error {
	const op = "userservices.Stop"
	if err := s.api.StopService(ctx, sid, userServiceID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет услугу пользователя.
func (s *Service) Delete(ctx context.Context, sid string, userServiceID int) error {
	const op = "userservices.Delete"
	if err := s.api.DeleteService(ctx, sid, userServiceID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
