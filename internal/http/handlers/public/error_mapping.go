package public

import (
	"errors"

	"github.com/harvestmart/harvestmart-api/internal/http/response"
	"github.com/harvestmart/harvestmart-api/internal/i18n"
	"github.com/harvestmart/harvestmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	// 库存类错误携带商品名，需要格式化文案
	if errors.Is(err, service.ErrInsufficientStock) {
		if name, ok := service.StockErrorDetail(err); ok {
			msg := i18n.Sprintf(i18n.ResolveLocale(c), "error.stock_insufficient", name)
			respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
			return
		}
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartCommonErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.stock_insufficient"},
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, key: "error.product_not_found"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.stock_insufficient"},
	{target: service.ErrStockConflict, code: response.CodeConflict, key: "error.stock_conflict"},
}

var orderAccessErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderNotRelated, code: response.CodeForbidden, key: "error.order_not_related"},
}

var orderStatusErrorRules = []mappedHandlerError{
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, key: "error.order_status_invalid"},
	{target: service.ErrOrderTransitionInvalid, code: response.CodeBadRequest, key: "error.order_transition_invalid"},
	{target: service.ErrOrderCancelNotAllowed, code: response.CodeBadRequest, key: "error.order_cancel_not_allowed"},
}

var productWriteErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductForbidden, code: response.CodeForbidden, key: "error.product_forbidden"},
	{target: service.ErrProductNameRequired, code: response.CodeBadRequest, key: "error.product_name_required"},
	{target: service.ErrInvalidPrice, code: response.CodeBadRequest, key: "error.price_invalid"},
	{target: service.ErrInvalidStock, code: response.CodeBadRequest, key: "error.stock_invalid"},
	{target: service.ErrTooManyImages, code: response.CodeBadRequest, key: "error.images_too_many"},
	{target: service.ErrCategoryNotFound, code: response.CodeBadRequest, key: "error.category_not_found"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrInvalidRating, code: response.CodeBadRequest, key: "error.rating_invalid"},
	{target: service.ErrReviewExists, code: response.CodeBadRequest, key: "error.review_exists"},
	{target: service.ErrReviewNotFound, code: response.CodeNotFound, key: "error.review_not_found"},
}

var reportErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidIssueType, code: response.CodeBadRequest, key: "error.issue_type_invalid"},
	{target: service.ErrReportSubjectRequired, code: response.CodeBadRequest, key: "error.report_subject_required"},
	{target: service.ErrReportNotFound, code: response.CodeNotFound, key: "error.report_not_found"},
}
