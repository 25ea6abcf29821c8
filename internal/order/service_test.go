package order

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minimart-io/minimart/internal/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedOrders(t *testing.T, db *gorm.DB) (alice, bob domain.User) {
	t.Helper()
	alice = domain.User{ID: 1, Name: "Alice", Email: "alice@example.com", CreatedAt: time.Now()}
	bob = domain.User{ID: 2, Name: "Bob", Email: "bob@example.com", CreatedAt: time.Now()}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	orders := []domain.Order{
		{ID: 10, UserID: alice.ID, Status: domain.OrderStatusPlaced, Total: 30, Items: []domain.OrderItem{
			{ID: 100, ProductID: 7, Name: "Mug", Image: "mug.png", Qty: 2, Price: 15},
		}},
		{ID: 11, UserID: alice.ID, Status: domain.OrderStatusPaid, Total: 50, Items: []domain.OrderItem{
			{ID: 101, ProductID: 8, Name: "Lamp", Image: "https://img.example.com/product-images/lamp.png", Qty: 1, Price: 50},
		}},
		{ID: 12, UserID: bob.ID, Status: domain.OrderStatusCancelled, Total: 99, Items: []domain.OrderItem{
			{ID: 102, ProductID: 9, Name: "Chair", Image: "chair.png", Qty: 1, Price: 99},
		}},
	}
	for i := range orders {
		require.NoError(t, db.Create(&orders[i]).Error)
	}
	return alice, bob
}

func TestAdminListFiltersStatuses(t *testing.T) {
	db := testDB(t)
	seedOrders(t, db)
	svc := NewService(db)

	orders, err := svc.AdminList(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	for _, o := range orders {
		assert.Contains(t, []string{domain.OrderStatusPlaced, domain.OrderStatusPaid}, o.Status)
		assert.NotEmpty(t, o.User.Name, "user must be joined")
		assert.NotEmpty(t, o.Items, "items must be preloaded")
	}
}

func TestAdminListNeverReturnsCancelled(t *testing.T) {
	db := testDB(t)
	seedOrders(t, db)
	svc := NewService(db)

	orders, err := svc.AdminList(context.Background())
	require.NoError(t, err)
	for _, o := range orders {
		assert.NotEqual(t, domain.OrderStatusCancelled, o.Status)
	}
}

func TestDetailsSplitsByStatus(t *testing.T) {
	db := testDB(t)
	alice, _ := seedOrders(t, db)
	svc := NewService(db)

	details, err := svc.Details(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", details.User.Name)
	require.Len(t, details.PaidOrders, 1)
	require.Len(t, details.PlacedOrders, 1)
	assert.Equal(t, int64(11), details.PaidOrders[0].ID)
	assert.Equal(t, int64(10), details.PlacedOrders[0].ID)
}

func TestDetailsUnknownUser(t *testing.T) {
	db := testDB(t)
	seedOrders(t, db)
	svc := NewService(db)

	_, err := svc.Details(context.Background(), 777)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetWithUser(t *testing.T) {
	db := testDB(t)
	seedOrders(t, db)
	svc := NewService(db)

	o, err := svc.GetWithUser(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "Alice", o.User.Name)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Lamp", o.Items[0].Name)

	_, err = svc.GetWithUser(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAllUsers(t *testing.T) {
	db := testDB(t)
	seedOrders(t, db)
	svc := NewService(db)

	users, err := svc.AllUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
