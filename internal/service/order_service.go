package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/logger"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"

	"gorm.io/gorm"
)

// allowedTransitions 订单状态流转表；不在表中的流转一律拒绝
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusShipped:    true,
		constants.OrderStatusDelivered:  true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusDelivered: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

// SellerOrderItem 卖家视角的订单行（仅含该卖家自己的商品）
type SellerOrderItem struct {
	ItemID      uint         `json:"item_id"`
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	UnitPrice   models.Money `json:"unit_price"`
	Quantity    int          `json:"quantity"`
	TotalPrice  models.Money `json:"total_price"`
}

// SellerOrder 卖家视角的订单
type SellerOrder struct {
	OrderID     uint              `json:"order_id"`
	OrderNo     string            `json:"order_no"`
	Status      string            `json:"status"`
	TotalAmount models.Money      `json:"total_amount"`
	OrderedAt   time.Time         `json:"ordered_at"`
	BuyerID     uint              `json:"buyer_id"`
	BuyerName   string            `json:"buyer_name"`
	BuyerEmail  string            `json:"buyer_email"`
	Items       []SellerOrderItem `json:"items"`
}

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CreateOrder 从购物车下单
// 先做一轮无写入的库存预检，预检失败整单拒绝；
// 随后在单个事务内扣减库存（条件更新，受影响行数为 0 视为并发冲突）、
// 写入订单与快照订单项并清空购物车。
func (s *OrderService) CreateOrder(userID uint) (*models.Order, error) {
	cartItems, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	// 预检：商品必须在售且库存充足，任何一行不满足则整单失败且不产生写入
	products := make(map[uint]*models.Product, len(cartItems))
	for _, item := range cartItems {
		product, err := s.productRepo.GetActiveByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if item.Quantity > product.StockQuantity {
			return nil, newInsufficientStockError(product.ID, product.Name, item.Quantity, product.StockQuantity)
		}
		products[item.ProductID] = product
	}

	now := time.Now()
	total := models.Money{}
	orderItems := make([]models.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		product := products[item.ProductID]
		lineTotal := product.Price.MulInt(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			TotalPrice:  lineTotal,
		})
		total = total.AddMoney(lineTotal)
	}

	order := &models.Order{
		OrderNo:     generateOrderNo(),
		UserID:      userID,
		Status:      constants.OrderStatusPending,
		TotalAmount: total,
		OrderedAt:   now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		for _, item := range orderItems {
			affected, err := productRepo.ReserveStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return newStockConflictError(item.ProductID, item.ProductName, item.Quantity)
			}
		}
		if err := orderRepo.Create(order, orderItems); err != nil {
			return err
		}
		return cartRepo.ClearByUser(userID)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", userID,
		"total_amount", order.TotalAmount.String(),
		"item_count", len(orderItems),
	)
	order.Items = orderItems
	return order, nil
}

// CancelOrder 买家取消订单；仅待处理订单可取消，取消时回补库存
func (s *OrderService) CancelOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderCancelNotAllowed
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.cancelInTx(tx, order, now)
	})
	if err != nil {
		return nil, err
	}

	order.Status = constants.OrderStatusCancelled
	order.CancelledAt = &now
	order.UpdatedAt = now
	logger.Infow("order_cancelled",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", userID,
	)
	return order, nil
}

// cancelInTx 在事务内置为已取消并逐项回补库存
func (s *OrderService) cancelInTx(tx *gorm.DB, order *models.Order, now time.Time) error {
	orderRepo := s.orderRepo.WithTx(tx)
	productRepo := s.productRepo.WithTx(tx)

	updates := map[string]interface{}{
		"cancelled_at": now,
		"updated_at":   now,
	}
	if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, updates); err != nil {
		return err
	}
	for _, item := range order.Items {
		if _, err := productRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// UpdateOrderStatus 卖家/管理员推进订单状态
// 管理员可操作任意订单；卖家仅当订单中至少包含一件其商品时可操作。
// 状态流转必须出现在流转表中，目标为已取消时回补库存。
func (s *OrderService) UpdateOrderStatus(orderID uint, actorID uint, actorRole, targetStatus string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if actorRole != constants.RoleAdmin {
		count, err := s.productRepo.CountSellerItemsInOrder(order.ID, actorID)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrOrderNotRelated
		}
	}

	target := strings.ToLower(strings.TrimSpace(targetStatus))
	if !isOrderStatus(target) {
		return nil, ErrOrderStatusInvalid
	}
	if !allowedTransitions[order.Status][target] {
		return nil, ErrOrderTransitionInvalid
	}

	now := time.Now()
	if target == constants.OrderStatusCancelled {
		err = models.DB.Transaction(func(tx *gorm.DB) error {
			return s.cancelInTx(tx, order, now)
		})
		if err != nil {
			return nil, err
		}
		order.CancelledAt = &now
	} else {
		updates := map[string]interface{}{"updated_at": now}
		if err := s.orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
			return nil, err
		}
	}

	previous := order.Status
	order.Status = target
	order.UpdatedAt = now
	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", previous,
		"to", target,
		"actor_id", actorID,
		"actor_role", actorRole,
	)
	return order, nil
}

// GetOrderForBuyer 买家查看自己的订单详情
func (s *OrderService) GetOrderForBuyer(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderForSeller 卖家查看订单详情；订单项过滤为该卖家自己的商品
func (s *OrderService) GetOrderForSeller(orderID, sellerID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	sellerProducts, err := s.sellerProductIDs(order.Items, sellerID)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if sellerProducts[item.ProductID] {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == 0 {
		return nil, ErrOrderNotRelated
	}
	order.Items = filtered
	return order, nil
}

// GetOrderForAdmin 管理员查看任意订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 买家订单列表，按下单时间倒序
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListOrdersForAdmin 管理员订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// ListSellerOrders 卖家订单列表；只包含含有该卖家商品的订单，
// 且每个订单内只展示该卖家自己的订单项
func (s *OrderService) ListSellerOrders(sellerID uint) ([]SellerOrder, error) {
	rows, err := s.orderRepo.ListSellerRows(sellerID)
	if err != nil {
		return nil, err
	}

	orders := make([]SellerOrder, 0)
	index := make(map[uint]int)
	for _, row := range rows {
		idx, ok := index[row.OrderID]
		if !ok {
			orders = append(orders, SellerOrder{
				OrderID:     row.OrderID,
				OrderNo:     row.OrderNo,
				Status:      row.Status,
				TotalAmount: row.TotalAmount,
				OrderedAt:   row.OrderedAt,
				BuyerID:     row.BuyerID,
				BuyerName:   row.BuyerName,
				BuyerEmail:  row.BuyerEmail,
			})
			idx = len(orders) - 1
			index[row.OrderID] = idx
		}
		orders[idx].Items = append(orders[idx].Items, SellerOrderItem{
			ItemID:      row.ItemID,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			UnitPrice:   row.UnitPrice,
			Quantity:    row.Quantity,
			TotalPrice:  row.TotalPrice,
		})
	}
	return orders, nil
}

func (s *OrderService) sellerProductIDs(items []models.OrderItem, sellerID uint) (map[uint]bool, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	owned := make(map[uint]bool, len(products))
	for _, product := range products {
		if product.SellerID == sellerID {
			owned[product.ID] = true
		}
	}
	return owned, nil
}

func isOrderStatus(status string) bool {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled:
		return true
	}
	return false
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("HM%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
