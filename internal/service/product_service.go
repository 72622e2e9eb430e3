package service

import (
	"strings"

	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID    *uint
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Images        []string
	IsActive      *bool
}

// ListPublic 获取公开商品列表，仅含在售商品
func (s *ProductService) ListPublic(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = true
	filter.WithCategory = true
	return s.productRepo.List(filter)
}

// GetPublicByID 获取公开商品详情
func (s *ProductService) GetPublicByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetActiveByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListBySeller 获取卖家自己的商品列表（含下架商品）
func (s *ProductService) ListBySeller(sellerID uint, page, pageSize int) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		SellerID:     sellerID,
		WithCategory: true,
	}
	return s.productRepo.List(filter)
}

// Create 卖家创建商品
func (s *ProductService) Create(sellerID uint, input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProductNameRequired
	}
	price := input.Price.Round(2)
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidPrice
	}
	if input.StockQuantity < 0 {
		return nil, ErrInvalidStock
	}
	if len(input.Images) > constants.ProductMaxImages {
		return nil, ErrTooManyImages
	}
	if err := s.checkCategory(input.CategoryID); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	product := &models.Product{
		SellerID:      sellerID,
		CategoryID:    input.CategoryID,
		Name:          name,
		Description:   input.Description,
		Price:         models.NewMoneyFromDecimal(price),
		StockQuantity: input.StockQuantity,
		Images:        input.Images,
		IsActive:      isActive,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 卖家更新商品；只能操作自己的商品
func (s *ProductService) Update(id, sellerID uint, input ProductInput) (*models.Product, error) {
	product, err := s.getOwned(id, sellerID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProductNameRequired
	}
	price := input.Price.Round(2)
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidPrice
	}
	if input.StockQuantity < 0 {
		return nil, ErrInvalidStock
	}
	if len(input.Images) > constants.ProductMaxImages {
		return nil, ErrTooManyImages
	}
	if err := s.checkCategory(input.CategoryID); err != nil {
		return nil, err
	}

	product.CategoryID = input.CategoryID
	product.Name = name
	product.Description = input.Description
	product.Price = models.NewMoneyFromDecimal(price)
	product.StockQuantity = input.StockQuantity
	product.Images = input.Images
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 卖家删除商品；只能操作自己的商品
func (s *ProductService) Delete(id, sellerID uint) error {
	product, err := s.getOwned(id, sellerID)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(product.ID)
}

func (s *ProductService) getOwned(id, sellerID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.SellerID != sellerID {
		return nil, ErrProductForbidden
	}
	return product, nil
}

func (s *ProductService) checkCategory(categoryID *uint) error {
	if categoryID == nil || *categoryID == 0 {
		return nil
	}
	category, err := s.categoryRepo.GetByID(*categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return nil
}
