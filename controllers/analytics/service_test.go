package analyticsControllers

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/orderstack/checkout-api/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	))
	return db
}

func seedBase(t *testing.T, db *gorm.DB) (userID, addressID string) {
	t.Helper()
	userID = uuid.NewString()
	addressID = uuid.NewString()
	require.NoError(t, db.Create(&models.User{ID: userID, Email: userID + "@example.com"}).Error)
	require.NoError(t, db.Create(&models.Address{ID: addressID, UserID: userID}).Error)
	return userID, addressID
}

func seedOrder(t *testing.T, db *gorm.DB, userID, addressID string, status models.OrderStatus, total string, age time.Duration) string {
	t.Helper()
	order := models.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    status,
		Total:     decimal.RequireFromString(total),
		AddressID: addressID,
		CreatedAt: time.Now().UTC().Add(-age),
	}
	require.NoError(t, db.Create(&order).Error)
	return order.ID
}

func day(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

func TestDashboardEmptyDataset(t *testing.T) {
	svc := NewService(openTestDB(t))

	report, err := svc.Dashboard(context.Background(), 30, 10)
	require.NoError(t, err)

	assert.True(t, report.Revenue.Current.IsZero())
	assert.True(t, report.Revenue.Previous.IsZero())
	assert.Zero(t, report.Revenue.ChangePct)
	assert.Zero(t, report.Orders.Current)
	assert.Zero(t, report.Orders.Previous)
	assert.Zero(t, report.Orders.ChangePct)
	assert.True(t, report.AverageOrderValue.IsZero())
	assert.Empty(t, report.StatusCounts)
	assert.Empty(t, report.LowStock)
	assert.Empty(t, report.TopProducts)
}

func TestDashboardGrowthFromEmptyBaseline(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	userID, addressID := seedBase(t, db)

	// Activity only in the current window; previous window is empty.
	seedOrder(t, db, userID, addressID, models.OrderStatusDelivered, "40.00", day(5))
	seedOrder(t, db, userID, addressID, models.OrderStatusDelivered, "20.00", day(10))

	report, err := svc.Dashboard(context.Background(), 30, 10)
	require.NoError(t, err)

	assert.True(t, report.Revenue.Current.Equal(decimal.RequireFromString("60.00")),
		"got %s", report.Revenue.Current)
	assert.True(t, report.Revenue.Previous.IsZero())
	// 100, not NaN/Inf, when the previous window is empty.
	assert.Equal(t, float64(100), report.Revenue.ChangePct)
	assert.Equal(t, float64(100), report.Orders.ChangePct)
	assert.True(t, report.AverageOrderValue.Equal(decimal.RequireFromString("30.00")),
		"got %s", report.AverageOrderValue)
}

func TestDashboardWindowComparison(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	userID, addressID := seedBase(t, db)

	// Current window: one delivered order of 50. Previous: one of 100.
	seedOrder(t, db, userID, addressID, models.OrderStatusDelivered, "50.00", day(3))
	seedOrder(t, db, userID, addressID, models.OrderStatusDelivered, "100.00", day(45))
	// Pending orders count toward order totals, not revenue.
	seedOrder(t, db, userID, addressID, models.OrderStatusPending, "999.00", day(2))
	// Outside both windows entirely.
	seedOrder(t, db, userID, addressID, models.OrderStatusDelivered, "777.00", day(90))

	report, err := svc.Dashboard(context.Background(), 30, 10)
	require.NoError(t, err)

	assert.True(t, report.Revenue.Current.Equal(decimal.RequireFromString("50.00")),
		"got %s", report.Revenue.Current)
	assert.True(t, report.Revenue.Previous.Equal(decimal.RequireFromString("100.00")),
		"got %s", report.Revenue.Previous)
	assert.Equal(t, float64(-50), report.Revenue.ChangePct)

	assert.Equal(t, int64(2), report.Orders.Current)
	assert.Equal(t, int64(1), report.Orders.Previous)
	assert.Equal(t, float64(100), report.Orders.ChangePct)

	assert.Equal(t, int64(1), report.StatusCounts[models.OrderStatusDelivered])
	assert.Equal(t, int64(1), report.StatusCounts[models.OrderStatusPending])
}

func TestDashboardLowStock(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	for _, p := range []struct {
		id    string
		stock int
	}{
		{"p1", 25},
		{"p2", 3},
		{"p3", 10},
		{"p4", 0},
	} {
		require.NoError(t, db.Create(&models.Product{
			ID:    p.id,
			Name:  "Product " + p.id,
			Price: decimal.RequireFromString("10.00"),
			Stock: p.stock,
		}).Error)
	}

	report, err := svc.Dashboard(context.Background(), 30, 10)
	require.NoError(t, err)

	require.Len(t, report.LowStock, 3)
	assert.Equal(t, "p4", report.LowStock[0].ID)
	assert.Equal(t, "p2", report.LowStock[1].ID)
	assert.Equal(t, "p3", report.LowStock[2].ID)
}

func TestDashboardTopProducts(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	userID, addressID := seedBase(t, db)

	for _, id := range []string{"p1", "p2"} {
		require.NoError(t, db.Create(&models.Product{
			ID:    id,
			Name:  "Product " + id,
			Price: decimal.RequireFromString("10.00"),
			Stock: 100,
		}).Error)
	}
	orderA := seedOrder(t, db, userID, addressID, models.OrderStatusDelivered, "50.00", day(2))
	orderB := seedOrder(t, db, userID, addressID, models.OrderStatusDelivered, "90.00", day(4))
	for _, it := range []models.OrderItem{
		{OrderID: orderA, ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{OrderID: orderA, ProductID: "p2", Quantity: 3, Price: decimal.RequireFromString("10.00")},
		{OrderID: orderB, ProductID: "p2", Quantity: 6, Price: decimal.RequireFromString("10.00")},
	} {
		require.NoError(t, db.Create(&it).Error)
	}

	report, err := svc.Dashboard(context.Background(), 30, 10)
	require.NoError(t, err)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "p2", report.TopProducts[0].ProductID)
	assert.Equal(t, int64(9), report.TopProducts[0].TotalSold)
	assert.Equal(t, "p1", report.TopProducts[1].ProductID)
	assert.Equal(t, int64(2), report.TopProducts[1].TotalSold)
}

func TestDashboardDefaultsApplied(t *testing.T) {
	svc := NewService(openTestDB(t))

	report, err := svc.Dashboard(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultWindowDays, report.WindowDays)
}
