package service

import (
	"strings"

	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"
)

var validIssueTypes = map[string]bool{
	constants.ReportIssueOrder:    true,
	constants.ReportIssueProduct:  true,
	constants.ReportIssueDelivery: true,
	constants.ReportIssueOther:    true,
}

var validReportStatuses = map[string]bool{
	constants.ReportStatusOpen:     true,
	constants.ReportStatusResolved: true,
	constants.ReportStatusClosed:   true,
}

// ReportService 问题工单服务
type ReportService struct {
	repo repository.ReportRepository
}

// NewReportService 创建工单服务
func NewReportService(repo repository.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// ReportInput 提交工单输入
type ReportInput struct {
	OrderRef    string
	IssueType   string
	Subject     string
	Description string
}

// Create 提交工单
func (s *ReportService) Create(userID uint, input ReportInput) (*models.Report, error) {
	issueType := strings.ToLower(strings.TrimSpace(input.IssueType))
	if !validIssueTypes[issueType] {
		return nil, ErrInvalidIssueType
	}
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, ErrReportSubjectRequired
	}

	report := &models.Report{
		UserID:      userID,
		OrderRef:    strings.TrimSpace(input.OrderRef),
		IssueType:   issueType,
		Subject:     subject,
		Description: strings.TrimSpace(input.Description),
		Status:      constants.ReportStatusOpen,
	}
	if err := s.repo.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}

// ListByUser 用户自己的工单列表
func (s *ReportService) ListByUser(userID uint) ([]models.Report, error) {
	return s.repo.ListByUser(userID)
}

// ListBySeller 卖家相关的工单列表（工单关联的订单含该卖家商品）
func (s *ReportService) ListBySeller(sellerID uint) ([]models.Report, error) {
	return s.repo.ListBySeller(sellerID)
}

// ListForAdmin 管理员工单列表
func (s *ReportService) ListForAdmin(filter repository.ReportListFilter) ([]models.Report, int64, error) {
	return s.repo.List(filter)
}

// UpdateStatus 管理员更新工单状态
func (s *ReportService) UpdateStatus(reportID uint, status string) (*models.Report, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if !validReportStatuses[normalized] {
		return nil, ErrInvalidReportStatus
	}

	report, err := s.repo.GetByID(reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	if err := s.repo.UpdateStatus(report.ID, normalized); err != nil {
		return nil, err
	}
	report.Status = normalized
	return report, nil
}
