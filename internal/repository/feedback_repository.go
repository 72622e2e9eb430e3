package repository

import (
	"github.com/harvestmart/harvestmart-api/internal/models"

	"gorm.io/gorm"
)

// FeedbackRepository 站点反馈数据访问接口
type FeedbackRepository interface {
	Create(feedback *models.Feedback) error
	List(page, pageSize int) ([]models.Feedback, int64, error)
}

// GormFeedbackRepository GORM 实现
type GormFeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository 创建反馈仓库
func NewFeedbackRepository(db *gorm.DB) *GormFeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

// Create 创建反馈
func (r *GormFeedbackRepository) Create(feedback *models.Feedback) error {
	return r.db.Create(feedback).Error
}

// List 反馈列表
func (r *GormFeedbackRepository) List(page, pageSize int) ([]models.Feedback, int64, error) {
	query := r.db.Model(&models.Feedback{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var feedbacks []models.Feedback
	if err := query.Order("created_at desc").Find(&feedbacks).Error; err != nil {
		return nil, 0, err
	}
	return feedbacks, total, nil
}
