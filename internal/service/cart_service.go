package service

import (
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"
)

// CartLine 购物车行（用于响应）
type CartLine struct {
	ItemID    uint            `json:"item_id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	Subtotal  models.Money    `json:"subtotal"`
	Product   *models.Product `json:"product,omitempty"`
}

// CartSummary 购物车汇总
type CartSummary struct {
	Items         []CartLine   `json:"items"`
	TotalQuantity int          `json:"total_quantity"`
	TotalAmount   models.Money `json:"total_amount"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListItems 获取用户购物车；已下架或已删除的商品行自动清理
func (s *CartService) ListItems(userID uint) (*CartSummary, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Items: make([]CartLine, 0, len(items))}
	total := models.Money{}
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 || !product.IsActive {
			if _, err := s.cartRepo.DeleteByIDAndUser(item.ID, userID); err != nil {
				return nil, err
			}
			continue
		}
		subtotal := product.Price.MulInt(item.Quantity)
		summary.Items = append(summary.Items, CartLine{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
			Product:   product,
		})
		summary.TotalQuantity += item.Quantity
		total = total.AddMoney(subtotal)
	}
	summary.TotalAmount = total
	return summary, nil
}

// AddItem 加入购物车；同商品重复加入时数量合并，返回合并后的购物车行
func (s *CartService) AddItem(userID, productID uint, quantity int) (*CartLine, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetActiveByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}

	merged := quantity
	if existing != nil {
		merged += existing.Quantity
	}
	if merged > product.StockQuantity {
		return nil, newInsufficientStockError(product.ID, product.Name, merged, product.StockQuantity)
	}

	if existing != nil {
		if err := s.cartRepo.UpdateQuantity(existing.ID, merged); err != nil {
			return nil, err
		}
		return buildCartLine(existing.ID, product, merged), nil
	}
	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}
	return buildCartLine(item.ID, product, quantity), nil
}

// UpdateItem 修改购物车行数量，返回更新后的购物车行
func (s *CartService) UpdateItem(userID, itemID uint, quantity int) (*CartLine, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	item, err := s.cartRepo.GetByIDAndUser(itemID, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	product, err := s.productRepo.GetActiveByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if quantity > product.StockQuantity {
		return nil, newInsufficientStockError(product.ID, product.Name, quantity, product.StockQuantity)
	}
	if err := s.cartRepo.UpdateQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	return buildCartLine(item.ID, product, quantity), nil
}

// buildCartLine 组装带小计的购物车行
func buildCartLine(itemID uint, product *models.Product, quantity int) *CartLine {
	return &CartLine{
		ItemID:    itemID,
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.Price,
		Subtotal:  product.Price.MulInt(quantity),
		Product:   product,
	}
}

// RemoveItem 删除购物车行
func (s *CartService) RemoveItem(userID, itemID uint) error {
	affected, err := s.cartRepo.DeleteByIDAndUser(itemID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	return s.cartRepo.ClearByUser(userID)
}
