package userservices

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shmhost/client-portal/internal/models"
)

type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) ListOwned(ctx context.Context, sessionID string) ([]models.UserService, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]models.UserService), args.Error(1)
}

func (m *MockUpstream) StopService(ctx context.Context, sessionID string, userServiceID int) error {
	args := m.Called(ctx, sessionID, userServiceID)
	return args.Error(0)
}

func (m *MockUpstream) DeleteService(ctx context.Context, sessionID string, userServiceID int) error {
	args := m.Called(ctx, sessionID, userServiceID)
	return args.Error(0)
}

func TestBuildTree(t *testing.T) {
	services := []models.UserService{
		{UserServiceID: 1, Service: models.ServiceInfo{Category: "vpn"}},
		{UserServiceID: 2, Parent: 1, Service: models.ServiceInfo{Category: "vpn"}},
		{UserServiceID: 3, Parent: 1, Service: models.ServiceInfo{Category: "vpn"}},
		{UserServiceID: 4, Service: models.ServiceInfo{Category: "web"}},
		{UserServiceID: 5, Parent: 99, Service: models.ServiceInfo{Category: "web"}},
		{UserServiceID: 6, Service: models.ServiceInfo{Category: "mysql"}},
	}

	roots := BuildTree(services)

	require.Len(t, roots, 4)
	assert.Equal(t, 1, roots[0].UserServiceID)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, 2, roots[0].Children[0].UserServiceID)
	assert.Equal(t, 3, roots[0].Children[1].UserServiceID)

	// Услуга с отсутствующим в выборке родителем становится корневой.
	var ids []int
	for _, r := range roots {
		ids = append(ids, r.UserServiceID)
	}
	assert.Contains(t, ids, 5)
}

func TestBuildTree_Empty(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
}

func TestGroupByCategory(t *testing.T) {
	roots := []models.UserService{
		{UserServiceID: 1, Service: models.ServiceInfo{Category: "wg"}},
		{UserServiceID: 2, Service: models.ServiceInfo{Category: "remnawave"}},
		{UserServiceID: 3, Service: models.ServiceInfo{Category: "web"}},
		{UserServiceID: 4, Service: models.ServiceInfo{Category: "unknown"}},
	}

	groups := GroupByCategory(roots)

	require.Len(t, groups, 4)
	assert.Equal(t, "vpn", groups[0].Category)
	assert.Equal(t, "proxy", groups[1].Category)
	assert.Equal(t, "web", groups[2].Category)
	assert.Equal(t, "other", groups[3].Category)
	assert.Equal(t, 1, groups[0].Count)
}

func TestList(t *testing.T) {
	api := new(MockUpstream)
	api.On("ListOwned", mock.Anything, "tok").Return([]models.UserService{
		{UserServiceID: 1, Status: models.StatusActive, Service: models.ServiceInfo{Category: "vpn", Name: "VPN"}},
		{UserServiceID: 2, Parent: 1, Status: models.StatusActive, Service: models.ServiceInfo{Category: "vpn", Name: "IP"}},
	}, nil)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := New(api, logger)

	groups, err := svc.List(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Services, 1)
	assert.Len(t, groups[0].Services[0].Children, 1)
}
