package repository

import (
	"testing"
	"time"

	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func TestOrderCreateAttachesItems(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)

	order := &models.Order{
		OrderNo:     "HM-CREATE-1",
		UserID:      701,
		Status:      constants.OrderStatusPending,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		OrderedAt:   time.Now(),
	}
	items := []models.OrderItem{
		{ProductID: 1, ProductName: "squash", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(10)), Quantity: 1, TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(10))},
		{ProductID: 2, ProductName: "corn", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(10)), Quantity: 2, TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(20))},
	}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	got, err := repo.GetByIDAndUser(order.ID, 701)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got == nil {
		t.Fatalf("order not found after create")
	}
	if len(got.Items) != 2 {
		t.Fatalf("order items len want 2 got %d", len(got.Items))
	}
	for _, item := range got.Items {
		if item.OrderID != order.ID {
			t.Fatalf("item order id want %d got %d", order.ID, item.OrderID)
		}
	}
}

func TestOrderGetByIDAndUserHidesOtherBuyers(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)

	order := &models.Order{OrderNo: "HM-SCOPE-1", UserID: 702, Status: constants.OrderStatusPending, OrderedAt: time.Now()}
	if err := repo.Create(order, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	got, err := repo.GetByIDAndUser(order.ID, 703)
	if err != nil {
		t.Fatalf("get order with wrong user failed: %v", err)
	}
	if got != nil {
		t.Fatalf("other buyer should not see the order")
	}
}

func TestOrderListByUserNewestFirst(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		order := &models.Order{
			OrderNo:   "HM-LIST-" + string(rune('A'+i)),
			UserID:    704,
			Status:    constants.OrderStatusPending,
			OrderedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(order, nil); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	orders, total, err := repo.ListByUser(OrderListFilter{Page: 1, PageSize: 10, UserID: 704})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}
	for i := 1; i < len(orders); i++ {
		if orders[i-1].OrderedAt.Before(orders[i].OrderedAt) {
			t.Fatalf("orders not sorted newest first")
		}
	}
}

func TestListSellerRowsFiltersAndGroupsBySeller(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)

	buyer := &models.User{Username: "seller-rows-buyer", Email: "seller-rows-buyer@example.com", PasswordHash: "x", Role: constants.RoleBuyer}
	if err := db.Create(buyer).Error; err != nil {
		t.Fatalf("create buyer failed: %v", err)
	}

	mine := &models.Product{SellerID: 705, Name: "seller-rows-mine", StockQuantity: 10, IsActive: true}
	others := &models.Product{SellerID: 706, Name: "seller-rows-others", StockQuantity: 10, IsActive: true}
	if err := db.Create(mine).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := db.Create(others).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	order := &models.Order{OrderNo: "HM-SELLER-1", UserID: buyer.ID, Status: constants.OrderStatusPending, OrderedAt: time.Now()}
	items := []models.OrderItem{
		{ProductID: mine.ID, ProductName: mine.Name, Quantity: 1},
		{ProductID: others.ID, ProductName: others.Name, Quantity: 4},
	}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	rows, err := repo.ListSellerRows(705)
	if err != nil {
		t.Fatalf("list seller rows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("seller rows len want 1 got %d", len(rows))
	}
	if rows[0].ProductID != mine.ID {
		t.Fatalf("seller row product want %d got %d", mine.ID, rows[0].ProductID)
	}
	if rows[0].BuyerName != buyer.Username {
		t.Fatalf("buyer name want %s got %s", buyer.Username, rows[0].BuyerName)
	}
	if rows[0].OrderID != order.ID {
		t.Fatalf("order id want %d got %d", order.ID, rows[0].OrderID)
	}
}

func TestOrderUpdateStatusWritesExtraColumns(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)

	order := &models.Order{OrderNo: "HM-STATUS-1", UserID: 707, Status: constants.OrderStatusPending, OrderedAt: time.Now()}
	if err := repo.Create(order, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	now := time.Now()
	if err := repo.UpdateStatus(order.ID, constants.OrderStatusCancelled, map[string]interface{}{"cancelled_at": &now}); err != nil {
		t.Fatalf("update status failed: %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", got.Status)
	}
	if got.CancelledAt == nil {
		t.Fatalf("cancelled_at should be set")
	}
}
