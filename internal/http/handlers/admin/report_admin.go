package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/repository"
	"github.com/harvestmart/harvestmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListReports 管理端工单列表
func (h *Handler) AdminListReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ReportListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.UserID = uint(parsed)
		}
	}

	reports, total, err := h.ReportService.ListForAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, reports, pagination)
}

// AdminUpdateReportStatusRequest 工单状态更新请求
type AdminUpdateReportStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminUpdateReportStatus 管理端更新工单状态
func (h *Handler) AdminUpdateReportStatus(c *gin.Context) {
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reportID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req AdminUpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	report, err := h.ReportService.UpdateStatus(uint(reportID), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReportNotFound):
			respondError(c, response.CodeNotFound, "error.report_not_found", nil)
		case errors.Is(err, service.ErrInvalidReportStatus):
			respondError(c, response.CodeBadRequest, "error.report_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.report_save_failed", err)
		}
		return
	}

	response.Success(c, gin.H{"report": report})
}
