package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"deliciousbites/internal/config"
	"deliciousbites/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_SQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "data", "bites.db")

	a, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	items, err := a.Menu.AllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 14)

	_, err = a.Engine.Process(ctx, "s1", "add 3")
	require.NoError(t, err)
	order, err := a.Orders.PlaceOrder(ctx, "s1", service.Customer{Name: "Ann", Address: "1 Main St", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, 14.99, order.TotalAmount)

	rec := httptest.NewRecorder()
	a.API.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	a.Close()

	// повторный запуск на той же базе не дублирует меню и видит заказ
	b, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer b.Close()

	items, err = b.Menu.AllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 14)
	orders, err := b.Orders.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.OrderID, orders[0].OrderID)
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = "mysql"

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unknown db driver")
}
