package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderService := NewOrderService(orderRepo, cartRepo, productRepo)
	cartService := NewCartService(cartRepo, productRepo)
	return orderService, cartService, db
}

func seedServiceUser(t *testing.T, db *gorm.DB, id uint, username, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func seedServiceProduct(t *testing.T, db *gorm.DB, sellerID uint, name string, price string, stock int) *models.Product {
	t.Helper()
	amount, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("bad price %q: %v", price, err)
	}
	product := &models.Product{
		SellerID:      sellerID,
		Name:          name,
		Price:         models.NewMoneyFromDecimal(amount),
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.StockQuantity
}

func TestCreateOrderSnapshotsAndClearsCart(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	buyer := seedServiceUser(t, db, 601, "order-buyer-601", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 602, "order-seller-602", constants.RoleSeller)
	apples := seedServiceProduct(t, db, seller.ID, "heirloom apples", "3.50", 10)
	honey := seedServiceProduct(t, db, seller.ID, "wildflower honey", "12.25", 5)

	if _, err := cartService.AddItem(buyer.ID, apples.ID, 4); err != nil {
		t.Fatalf("add apples failed: %v", err)
	}
	if _, err := cartService.AddItem(buyer.ID, honey.ID, 2); err != nil {
		t.Fatalf("add honey failed: %v", err)
	}

	order, err := orderService.CreateOrder(buyer.ID)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", order.Status)
	}
	// 3.50*4 + 12.25*2 = 38.50
	if got := order.TotalAmount.String(); got != "38.50" {
		t.Fatalf("total want 38.50 got %s", got)
	}
	if len(order.Items) != 2 {
		t.Fatalf("item count want 2 got %d", len(order.Items))
	}
	if order.Items[0].ProductName != "heirloom apples" || order.Items[0].UnitPrice.String() != "3.50" {
		t.Fatalf("unexpected snapshot: %+v", order.Items[0])
	}
	if order.OrderNo == "" {
		t.Fatalf("expected order number to be generated")
	}

	if got := productStock(t, db, apples.ID); got != 6 {
		t.Fatalf("apples stock want 6 got %d", got)
	}
	if got := productStock(t, db, honey.ID); got != 3 {
		t.Fatalf("honey stock want 3 got %d", got)
	}

	summary, err := cartService.ListItems(buyer.ID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(summary.Items) != 0 {
		t.Fatalf("cart should be empty after ordering, got %d items", len(summary.Items))
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	orderService, _, db := setupOrderServiceTest(t)
	buyer := seedServiceUser(t, db, 603, "order-buyer-603", constants.RoleBuyer)

	if _, err := orderService.CreateOrder(buyer.ID); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
}

func TestCreateOrderInsufficientStockWritesNothing(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	buyer := seedServiceUser(t, db, 604, "order-buyer-604", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 605, "order-seller-605", constants.RoleSeller)
	carrots := seedServiceProduct(t, db, seller.ID, "rainbow carrots", "2.00", 8)
	eggs := seedServiceProduct(t, db, seller.ID, "pastured eggs", "6.00", 3)

	if _, err := cartService.AddItem(buyer.ID, carrots.ID, 2); err != nil {
		t.Fatalf("add carrots failed: %v", err)
	}
	if _, err := cartService.AddItem(buyer.ID, eggs.ID, 3); err != nil {
		t.Fatalf("add eggs failed: %v", err)
	}
	// 库存被其他买家买走后购物车数量超过现存库存
	if err := db.Model(&models.Product{}).Where("id = ?", eggs.ID).Update("stock_quantity", 1).Error; err != nil {
		t.Fatalf("shrink stock failed: %v", err)
	}

	_, err := orderService.CreateOrder(buyer.ID)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}
	if name, ok := StockErrorDetail(err); !ok || name != "pastured eggs" {
		t.Fatalf("stock error detail want pastured eggs got %q ok=%v", name, ok)
	}

	// 整单失败不得产生任何写入
	if got := productStock(t, db, carrots.ID); got != 8 {
		t.Fatalf("carrots stock want 8 got %d", got)
	}
	summary, err := cartService.ListItems(buyer.ID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(summary.Items) != 2 {
		t.Fatalf("cart must be intact, got %d items", len(summary.Items))
	}
	var orderCount int64
	if err := db.Model(&models.Order{}).Where("user_id = ?", buyer.ID).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("no order may be created, got %d", orderCount)
	}
}

func TestCancelOrderRestoresStock(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	buyer := seedServiceUser(t, db, 606, "order-buyer-606", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 607, "order-seller-607", constants.RoleSeller)
	squash := seedServiceProduct(t, db, seller.ID, "butternut squash", "4.00", 9)

	if _, err := cartService.AddItem(buyer.ID, squash.ID, 4); err != nil {
		t.Fatalf("add squash failed: %v", err)
	}
	order, err := orderService.CreateOrder(buyer.ID)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if got := productStock(t, db, squash.ID); got != 5 {
		t.Fatalf("stock after order want 5 got %d", got)
	}

	cancelled, err := orderService.CancelOrder(order.ID, buyer.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("cancelled_at must be set")
	}
	if got := productStock(t, db, squash.ID); got != 9 {
		t.Fatalf("stock after cancel want 9 got %d", got)
	}

	// 已取消订单不能再次取消
	if _, err := orderService.CancelOrder(order.ID, buyer.ID); !errors.Is(err, ErrOrderCancelNotAllowed) {
		t.Fatalf("want ErrOrderCancelNotAllowed got %v", err)
	}
}

func TestCancelOrderScopedToOwner(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	buyer := seedServiceUser(t, db, 608, "order-buyer-608", constants.RoleBuyer)
	other := seedServiceUser(t, db, 609, "order-buyer-609", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 610, "order-seller-610", constants.RoleSeller)
	beets := seedServiceProduct(t, db, seller.ID, "golden beets", "3.00", 6)

	if _, err := cartService.AddItem(buyer.ID, beets.ID, 1); err != nil {
		t.Fatalf("add beets failed: %v", err)
	}
	order, err := orderService.CreateOrder(buyer.ID)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := orderService.CancelOrder(order.ID, other.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound for foreign order got %v", err)
	}
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	buyer := seedServiceUser(t, db, 611, "order-buyer-611", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 612, "order-seller-612", constants.RoleSeller)
	outsider := seedServiceUser(t, db, 613, "order-seller-613", constants.RoleSeller)
	admin := seedServiceUser(t, db, 614, "order-admin-614", constants.RoleAdmin)
	kale := seedServiceProduct(t, db, seller.ID, "lacinato kale", "2.50", 20)

	if _, err := cartService.AddItem(buyer.ID, kale.ID, 2); err != nil {
		t.Fatalf("add kale failed: %v", err)
	}
	order, err := orderService.CreateOrder(buyer.ID)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 与订单无关的卖家不能操作
	if _, err := orderService.UpdateOrderStatus(order.ID, outsider.ID, constants.RoleSeller, constants.OrderStatusProcessing); !errors.Is(err, ErrOrderNotRelated) {
		t.Fatalf("want ErrOrderNotRelated got %v", err)
	}

	updated, err := orderService.UpdateOrderStatus(order.ID, seller.ID, constants.RoleSeller, constants.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("pending->processing failed: %v", err)
	}
	if updated.Status != constants.OrderStatusProcessing {
		t.Fatalf("status want processing got %s", updated.Status)
	}

	// 回退与重复置位都是非法流转
	if _, err := orderService.UpdateOrderStatus(order.ID, seller.ID, constants.RoleSeller, constants.OrderStatusPending); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("processing->pending must fail, got %v", err)
	}
	if _, err := orderService.UpdateOrderStatus(order.ID, seller.ID, constants.RoleSeller, constants.OrderStatusProcessing); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("processing->processing must fail, got %v", err)
	}
	if _, err := orderService.UpdateOrderStatus(order.ID, seller.ID, constants.RoleSeller, "refunded"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("unknown status must fail, got %v", err)
	}

	if _, err := orderService.UpdateOrderStatus(order.ID, admin.ID, constants.RoleAdmin, constants.OrderStatusShipped); err != nil {
		t.Fatalf("processing->shipped failed: %v", err)
	}
	if _, err := orderService.UpdateOrderStatus(order.ID, admin.ID, constants.RoleAdmin, constants.OrderStatusDelivered); err != nil {
		t.Fatalf("shipped->delivered failed: %v", err)
	}

	// 终态不再流转
	if _, err := orderService.UpdateOrderStatus(order.ID, admin.ID, constants.RoleAdmin, constants.OrderStatusCancelled); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("delivered is terminal, got %v", err)
	}
}

func TestUpdateOrderStatusCancelRestoresStock(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	buyer := seedServiceUser(t, db, 615, "order-buyer-615", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 616, "order-seller-616", constants.RoleSeller)
	plums := seedServiceProduct(t, db, seller.ID, "santa rosa plums", "5.00", 12)

	if _, err := cartService.AddItem(buyer.ID, plums.ID, 5); err != nil {
		t.Fatalf("add plums failed: %v", err)
	}
	order, err := orderService.CreateOrder(buyer.ID)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	cancelled, err := orderService.UpdateOrderStatus(order.ID, 0, constants.RoleAdmin, constants.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if got := productStock(t, db, plums.ID); got != 12 {
		t.Fatalf("stock after admin cancel want 12 got %d", got)
	}
}

func TestSellerOrderViewsFilterItems(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	buyer := seedServiceUser(t, db, 617, "order-buyer-617", constants.RoleBuyer)
	sellerA := seedServiceUser(t, db, 618, "order-seller-618", constants.RoleSeller)
	sellerB := seedServiceUser(t, db, 619, "order-seller-619", constants.RoleSeller)
	corn := seedServiceProduct(t, db, sellerA.ID, "sweet corn", "1.50", 30)
	jam := seedServiceProduct(t, db, sellerB.ID, "strawberry jam", "8.00", 10)

	if _, err := cartService.AddItem(buyer.ID, corn.ID, 6); err != nil {
		t.Fatalf("add corn failed: %v", err)
	}
	if _, err := cartService.AddItem(buyer.ID, jam.ID, 1); err != nil {
		t.Fatalf("add jam failed: %v", err)
	}
	order, err := orderService.CreateOrder(buyer.ID)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	forA, err := orderService.GetOrderForSeller(order.ID, sellerA.ID)
	if err != nil {
		t.Fatalf("seller A detail failed: %v", err)
	}
	if len(forA.Items) != 1 || forA.Items[0].ProductID != corn.ID {
		t.Fatalf("seller A must only see corn, got %+v", forA.Items)
	}

	listA, err := orderService.ListSellerOrders(sellerA.ID)
	if err != nil {
		t.Fatalf("seller A list failed: %v", err)
	}
	found := false
	for _, so := range listA {
		if so.OrderID == order.ID {
			found = true
			if len(so.Items) != 1 || so.Items[0].ProductName != "sweet corn" {
				t.Fatalf("seller A list must only contain corn, got %+v", so.Items)
			}
			if so.BuyerName != buyer.Username {
				t.Fatalf("buyer name want %s got %s", buyer.Username, so.BuyerName)
			}
		}
	}
	if !found {
		t.Fatalf("order missing from seller A view")
	}

	// 与订单无关的卖家看不到详情
	outsider := seedServiceUser(t, db, 620, "order-seller-620", constants.RoleSeller)
	if _, err := orderService.GetOrderForSeller(order.ID, outsider.ID); !errors.Is(err, ErrOrderNotRelated) {
		t.Fatalf("want ErrOrderNotRelated got %v", err)
	}
}

func TestListOrdersByUserNewestFirst(t *testing.T) {
	orderService, cartService, db := setupOrderServiceTest(t)
	buyer := seedServiceUser(t, db, 621, "order-buyer-621", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 622, "order-seller-622", constants.RoleSeller)
	milk := seedServiceProduct(t, db, seller.ID, "raw milk", "4.50", 50)

	for i := 0; i < 3; i++ {
		if _, err := cartService.AddItem(buyer.ID, milk.ID, 1); err != nil {
			t.Fatalf("add milk failed: %v", err)
		}
		if _, err := orderService.CreateOrder(buyer.ID); err != nil {
			t.Fatalf("create order %d failed: %v", i, err)
		}
	}

	orders, total, err := orderService.ListOrdersByUser(repository.OrderListFilter{UserID: buyer.ID, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(orders) != 3 {
		t.Fatalf("want 3 orders got total=%d len=%d", total, len(orders))
	}
	for i := 1; i < len(orders); i++ {
		if orders[i-1].ID < orders[i].ID {
			t.Fatalf("orders not newest-first: %d before %d", orders[i-1].ID, orders[i].ID)
		}
	}
}

// raceProductRepo 在预检读取后直接扣走库存，模拟并发订单抢先成交
type raceProductRepo struct {
	repository.ProductRepository
	db    *gorm.DB
	drain map[uint]int
}

func (r *raceProductRepo) GetActiveByID(id uint) (*models.Product, error) {
	product, err := r.ProductRepository.GetActiveByID(id)
	if err != nil || product == nil {
		return product, err
	}
	if qty, ok := r.drain[id]; ok {
		delete(r.drain, id)
		err := r.db.Model(&models.Product{}).Where("id = ?", id).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty)).Error
		if err != nil {
			return nil, err
		}
	}
	return product, nil
}

func TestCreateOrderStockRaceLoserWritesNothing(t *testing.T) {
	_, cartService, db := setupOrderServiceTest(t)
	buyer := seedServiceUser(t, db, 623, "order-buyer-623", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 624, "order-seller-624", constants.RoleSeller)
	melons := seedServiceProduct(t, db, seller.ID, "charentais melons", "6.00", 1)

	if _, err := cartService.AddItem(buyer.ID, melons.ID, 1); err != nil {
		t.Fatalf("add melons failed: %v", err)
	}

	productRepo := &raceProductRepo{
		ProductRepository: repository.NewProductRepository(db),
		db:                db,
		drain:             map[uint]int{melons.ID: 1},
	}
	orderService := NewOrderService(repository.NewOrderRepository(db), repository.NewCartRepository(db), productRepo)

	// 预检看到库存 1，随后条件扣减受影响行数为 0，整单以冲突失败
	_, err := orderService.CreateOrder(buyer.ID)
	if !errors.Is(err, ErrStockConflict) {
		t.Fatalf("want ErrStockConflict got %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("losing order must not be created, got %d", orderCount)
	}
	var itemCount int64
	if err := db.Model(&models.OrderItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count order items failed: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("losing order must not write items, got %d", itemCount)
	}
	// 购物车保留，买家可以直接重试
	items, err := repository.NewCartRepository(db).ListByUser(buyer.ID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("cart must survive the failed order, got %d lines", len(items))
	}
	// 赢家已拿走最后一件，库存不为负
	if got := productStock(t, db, melons.ID); got != 0 {
		t.Fatalf("stock want 0 got %d", got)
	}
}
