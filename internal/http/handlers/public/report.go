package public

import (
	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReportRequest 提交工单请求
type CreateReportRequest struct {
	OrderRef    string `json:"order_ref"`
	IssueType   string `json:"issue_type" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description"`
}

// CreateReport 提交问题工单
func (h *Handler) CreateReport(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	report, err := h.ReportService.Create(uid, service.ReportInput{
		OrderRef:    req.OrderRef,
		IssueType:   req.IssueType,
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err != nil {
		respondWithMappedError(c, err, reportErrorRules, response.CodeInternal, "error.report_save_failed")
		return
	}

	response.Success(c, gin.H{"report": report})
}

// ListMyReports 获取当前用户提交的工单
func (h *Handler) ListMyReports(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	reports, err := h.ReportService.ListByUser(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{"reports": reports})
}

// ListSellerReports 获取涉及当前卖家商品订单的工单
func (h *Handler) ListSellerReports(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	reports, err := h.ReportService.ListBySeller(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{"reports": reports})
}
