package repository

import (
	"errors"

	"github.com/harvestmart/harvestmart-api/internal/models"

	"gorm.io/gorm"
)

// ReportRepository 工单数据访问接口
type ReportRepository interface {
	Create(report *models.Report) error
	GetByID(id uint) (*models.Report, error)
	ListByUser(userID uint) ([]models.Report, error)
	ListBySeller(sellerID uint) ([]models.Report, error)
	List(filter ReportListFilter) ([]models.Report, int64, error)
	UpdateStatus(id uint, status string) error
	DeleteByUser(userID uint) error
	WithTx(tx *gorm.DB) *GormReportRepository
}

// GormReportRepository GORM 实现
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建工单仓库
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReportRepository) WithTx(tx *gorm.DB) *GormReportRepository {
	if tx == nil {
		return r
	}
	return &GormReportRepository{db: tx}
}

// Create 创建工单
func (r *GormReportRepository) Create(report *models.Report) error {
	return r.db.Create(report).Error
}

// GetByID 根据 ID 获取工单
func (r *GormReportRepository) GetByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.Preload("User").First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// ListByUser 获取用户提交的工单
func (r *GormReportRepository) ListByUser(userID uint) ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// ListBySeller 获取涉及某卖家订单的工单（按订单号关联，未填订单号的工单不在其中）
func (r *GormReportRepository) ListBySeller(sellerID uint) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.Raw(`
		SELECT DISTINCT rp.*
		FROM reports rp
		JOIN orders o ON o.order_no = rp.order_ref
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE p.seller_id = ? AND rp.deleted_at IS NULL
		ORDER BY rp.created_at DESC`, sellerID).
		Scan(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// List 管理端工单列表
func (r *GormReportRepository) List(filter ReportListFilter) ([]models.Report, int64, error) {
	query := r.db.Model(&models.Report{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var reports []models.Report
	if err := query.Preload("User").Order("created_at desc").Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// UpdateStatus 更新工单状态
func (r *GormReportRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Report{}).Where("id = ?", id).Update("status", status).Error
}

// DeleteByUser 删除用户全部工单（账号注销时使用）
func (r *GormReportRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Report{}).Error
}
