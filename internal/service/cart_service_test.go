package service

import (
	"errors"
	"testing"

	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	return NewCartService(cartRepo, productRepo), db
}

func TestAddItemMergesQuantities(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	buyer := seedServiceUser(t, db, 501, "cart-buyer-501", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 502, "cart-seller-502", constants.RoleSeller)
	peaches := seedServiceProduct(t, db, seller.ID, "white peaches", "3.00", 10)

	first, err := svc.AddItem(buyer.ID, peaches.ID, 2)
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if first == nil || first.Quantity != 2 {
		t.Fatalf("first add line want quantity 2 got %+v", first)
	}
	merged, err := svc.AddItem(buyer.ID, peaches.ID, 3)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	// 返回的是合并后的购物车行，带单价与小计
	if merged == nil || merged.ItemID != first.ItemID {
		t.Fatalf("merged line should keep item id %d, got %+v", first.ItemID, merged)
	}
	if merged.Quantity != 5 {
		t.Fatalf("merged quantity want 5 got %d", merged.Quantity)
	}
	if merged.UnitPrice.String() != "3.00" {
		t.Fatalf("unit price want 3.00 got %s", merged.UnitPrice.String())
	}
	if merged.Subtotal.String() != "15.00" {
		t.Fatalf("subtotal want 15.00 got %s", merged.Subtotal.String())
	}

	summary, err := svc.ListItems(buyer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(summary.Items) != 1 {
		t.Fatalf("same product must merge into one line, got %d", len(summary.Items))
	}
	if summary.Items[0].Quantity != 5 {
		t.Fatalf("quantity want 5 got %d", summary.Items[0].Quantity)
	}
}

func TestAddItemRejectsOverStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	buyer := seedServiceUser(t, db, 503, "cart-buyer-503", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 504, "cart-seller-504", constants.RoleSeller)
	basil := seedServiceProduct(t, db, seller.ID, "genovese basil", "2.00", 4)

	if _, err := svc.AddItem(buyer.ID, basil.ID, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	// 合并后数量超过库存
	if _, err := svc.AddItem(buyer.ID, basil.ID, 2); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}
	if _, err := svc.AddItem(buyer.ID, basil.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity got %v", err)
	}
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	buyer := seedServiceUser(t, db, 505, "cart-buyer-505", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 506, "cart-seller-506", constants.RoleSeller)
	cider := seedServiceProduct(t, db, seller.ID, "apple cider", "7.00", 8)
	if err := db.Model(&models.Product{}).Where("id = ?", cider.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	if _, err := svc.AddItem(buyer.ID, cider.ID, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestListItemsComputesTotals(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	buyer := seedServiceUser(t, db, 507, "cart-buyer-507", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 508, "cart-seller-508", constants.RoleSeller)
	bread := seedServiceProduct(t, db, seller.ID, "sourdough bread", "5.25", 10)
	butter := seedServiceProduct(t, db, seller.ID, "cultured butter", "4.10", 10)

	if _, err := svc.AddItem(buyer.ID, bread.ID, 2); err != nil {
		t.Fatalf("add bread failed: %v", err)
	}
	if _, err := svc.AddItem(buyer.ID, butter.ID, 3); err != nil {
		t.Fatalf("add butter failed: %v", err)
	}

	summary, err := svc.ListItems(buyer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := summary.Items[0].Subtotal.String(); got != "10.50" {
		t.Fatalf("bread subtotal want 10.50 got %s", got)
	}
	if got := summary.Items[1].Subtotal.String(); got != "12.30" {
		t.Fatalf("butter subtotal want 12.30 got %s", got)
	}
	if got := summary.TotalAmount.String(); got != "22.80" {
		t.Fatalf("total want 22.80 got %s", got)
	}
	if summary.TotalQuantity != 5 {
		t.Fatalf("total quantity want 5 got %d", summary.TotalQuantity)
	}
}

func TestListItemsDropsInactiveLines(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	buyer := seedServiceUser(t, db, 509, "cart-buyer-509", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 510, "cart-seller-510", constants.RoleSeller)
	figs := seedServiceProduct(t, db, seller.ID, "black figs", "6.00", 10)

	if _, err := svc.AddItem(buyer.ID, figs.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", figs.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	summary, err := svc.ListItems(buyer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(summary.Items) != 0 {
		t.Fatalf("inactive product line must be dropped, got %d", len(summary.Items))
	}
	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("stale line must be removed from storage, got %d", count)
	}
}

func TestUpdateAndRemoveItemOwnership(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	buyer := seedServiceUser(t, db, 511, "cart-buyer-511", constants.RoleBuyer)
	other := seedServiceUser(t, db, 512, "cart-buyer-512", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 513, "cart-seller-513", constants.RoleSeller)
	leeks := seedServiceProduct(t, db, seller.ID, "winter leeks", "2.40", 10)

	if _, err := svc.AddItem(buyer.ID, leeks.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	summary, err := svc.ListItems(buyer.ID)
	if err != nil || len(summary.Items) != 1 {
		t.Fatalf("list failed: %v items=%d", err, len(summary.Items))
	}
	itemID := summary.Items[0].ItemID

	if _, err := svc.UpdateItem(other.ID, itemID, 2); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("foreign update want ErrCartItemNotFound got %v", err)
	}
	if _, err := svc.UpdateItem(buyer.ID, itemID, 99); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("over-stock update want ErrInsufficientStock got %v", err)
	}
	if _, err := svc.UpdateItem(buyer.ID, itemID, 4); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if err := svc.RemoveItem(other.ID, itemID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("foreign remove want ErrCartItemNotFound got %v", err)
	}
	if err := svc.RemoveItem(buyer.ID, itemID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := svc.RemoveItem(buyer.ID, itemID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("second remove want ErrCartItemNotFound got %v", err)
	}
}
