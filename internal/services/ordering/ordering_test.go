package ordering

import (
	"context"
	"errors"
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

func (m *MockUpstream) ListOrderable(ctx context.Context, sessionID string) ([]models.OrderableService, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]models.OrderableService), args.Error(1)
}

func (m *MockUpstream) CurrentUser(ctx context.Context, sessionID string) (*models.User, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUpstream) Order(ctx context.Context, sessionID string, serviceID int) error {
	args := m.Called(ctx, sessionID, serviceID)
	return args.Error(0)
}

type MockPaySource struct {
	mock.Mock
}

func (m *MockPaySource) Resolve(ctx context.Context, sid, name string) (*models.PaySystem, error) {
	args := m.Called(ctx, sid, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaySystem), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestShortfall(t *testing.T) {
	tests := []struct {
		name          string
		cost, balance float64
		expected      float64
	}{
		{"баланса хватает", 100, 150, 0},
		{"баланс равен стоимости", 100, 100, 0},
		{"не хватает целой суммы", 100, 40, 60},
		{"округление вверх до копеек", 100.555, 40, 60.56},
		{"отрицательный баланс", 100, -10, 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Shortfall(tt.cost, tt.balance), 0.0001)
		})
	}
}

func TestCatalog_GroupsAndSorts(t *testing.T) {
	api := new(MockUpstream)
	api.On("ListOrderable", mock.Anything, "tok").Return([]models.OrderableService{
		{ServiceID: 1, Name: "VPN Pro", Category: "vpn", Cost: 300},
		{ServiceID: 2, Name: "VPN Basic", Category: "wg", Cost: 100},
		{ServiceID: 3, Name: "Marzban", Category: "marzban", Cost: 200},
		{ServiceID: 4, Name: "SSL", Category: "ssl", Cost: 50},
	}, nil)
	api.On("CurrentUser", mock.Anything, "tok").Return(&models.User{Balance: 150}, nil)

	svc := New(api, new(MockPaySource), testLogger())

	catalog, err := svc.Catalog(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 150.0, catalog.Balance)

	require.Len(t, catalog.Groups, 3)
	assert.Equal(t, "vpn", catalog.Groups[0].Category)
	assert.Equal(t, "proxy", catalog.Groups[1].Category)
	assert.Equal(t, "other", catalog.Groups[2].Category)

	// Внутри группы сортировка по возрастанию стоимости.
	vpn := catalog.Groups[0].Services
	require.Len(t, vpn, 2)
	assert.Equal(t, "VPN Basic", vpn[0].Name)
	assert.Equal(t, "VPN Pro", vpn[1].Name)

	// Недостающая сумма посчитана по балансу.
	assert.Equal(t, 0.0, vpn[0].Shortfall)
	assert.Equal(t, 150.0, vpn[1].Shortfall)
}

func TestCatalog_BalanceFailureTolerated(t *testing.T) {
	api := new(MockUpstream)
	api.On("ListOrderable", mock.Anything, "tok").Return([]models.OrderableService{
		{ServiceID: 1, Name: "VPN", Category: "vpn", Cost: 100},
	}, nil)
	api.On("CurrentUser", mock.Anything, "tok").Return(nil, errors.New("backend down"))

	svc := New(api, new(MockPaySource), testLogger())

	catalog, err := svc.Catalog(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 0.0, catalog.Balance)
	assert.Equal(t, 100.0, catalog.Groups[0].Services[0].Shortfall)
}

func TestOrder_WithinBalance(t *testing.T) {
	api := new(MockUpstream)
	api.On("Order", mock.Anything, "tok", 5).Return(nil)

	svc := New(api, new(MockPaySource), testLogger())

	res, err := svc.Order(context.Background(), "tok", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, res.ServiceID)
	assert.Empty(t, res.PaymentURL)
	api.AssertExpectations(t)
}

func TestOrder_UpstreamFailure(t *testing.T) {
	api := new(MockUpstream)
	api.On("Order", mock.Anything, "tok", 5).Return(errors.New("insufficient funds"))

	svc := New(api, new(MockPaySource), testLogger())

	_, err := svc.Order(context.Background(), "tok", 5)
	assert.Error(t, err)
}

func TestOrderAndPay(t *testing.T) {
	api := new(MockUpstream)
	api.On("Order", mock.Anything, "tok", 5).Return(nil)

	pay := new(MockPaySource)
	pay.On("Resolve", mock.Anything, "tok", "YooKassa").Return(&models.PaySystem{
		Name:   "YooKassa",
		ShmURL: "https://pay.example.com/yk?amount=",
	}, nil)

	svc := New(api, pay, testLogger())

	res, err := svc.OrderAndPay(context.Background(), "tok", 5, "YooKassa", 60)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/yk?amount=60", res.PaymentURL)
	api.AssertExpectations(t)
}

func TestOrderAndPay_DefaultAmountIsShortfall(t *testing.T) {
	api := new(MockUpstream)
	api.On("ListOrderable", mock.Anything, "tok").Return([]models.OrderableService{
		{ServiceID: 5, Name: "VPN", Category: "vpn", Cost: 100},
	}, nil)
	api.On("CurrentUser", mock.Anything, "tok").Return(&models.User{Balance: 40}, nil)
	api.On("Order", mock.Anything, "tok", 5).Return(nil)

	pay := new(MockPaySource)
	pay.On("Resolve", mock.Anything, "tok", "A").Return(&models.PaySystem{
		Name:   "A",
		ShmURL: "https://pay.example.com/a?amount=",
	}, nil)

	svc := New(api, pay, testLogger())

	res, err := svc.OrderAndPay(context.Background(), "tok", 5, "A", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/a?amount=60", res.PaymentURL)
}

func TestOrderAndPay_UnknownPaySystemNoOrder(t *testing.T) {
	api := new(MockUpstream)

	pay := new(MockPaySource)
	pay.On("Resolve", mock.Anything, "tok", "NoSuch").Return(nil, errors.New("pay system not found"))

	svc := New(api, pay, testLogger())

	_, err := svc.OrderAndPay(context.Background(), "tok", 5, "NoSuch", 60)
	assert.Error(t, err)
	// Заказ не отправляется, если платёжная система не выбрана корректно.
	api.AssertNotCalled(t, "Order", mock.Anything, mock.Anything, mock.Anything)
}
