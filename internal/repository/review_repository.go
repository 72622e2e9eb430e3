package repository

import (
	"errors"

	"github.com/harvestmart/harvestmart-api/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 商品评价数据访问接口
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id uint) (*models.Review, error)
	GetByUserAndProduct(userID, productID uint) (*models.Review, error)
	ListByProduct(productID uint) ([]models.Review, error)
	Delete(id uint) error
	DeleteByUser(userID uint) error
	WithTx(tx *gorm.DB) *GormReviewRepository
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReviewRepository) WithTx(tx *gorm.DB) *GormReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// GetByID 根据 ID 获取评价
func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// GetByUserAndProduct 获取用户对某商品的评价
func (r *GormReviewRepository) GetByUserAndProduct(userID, productID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// ListByProduct 获取商品的评价列表
func (r *GormReviewRepository) ListByProduct(productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Preload("User").Where("product_id = ?", productID).Order("created_at desc").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Delete 删除评价
func (r *GormReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}

// DeleteByUser 删除用户全部评价（账号注销时使用）
func (r *GormReviewRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Review{}).Error
}
