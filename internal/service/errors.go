package service

import "errors"

// 业务哨兵错误，由 handler 层统一映射为响应码与 i18n 文案
var (
	// 用户与认证
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUsernameExists     = errors.New("用户名已存在")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidEmail       = errors.New("邮箱格式不正确")
	ErrInvalidRole        = errors.New("不支持的角色")
	ErrWeakPassword       = errors.New("密码不符合安全要求")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrInvalidPassword    = errors.New("原密码不正确")
	ErrProfileEmpty       = errors.New("没有可更新的资料")

	// 分类与商品
	ErrCategoryNotFound     = errors.New("分类不存在")
	ErrCategoryExists       = errors.New("分类名称已存在")
	ErrCategoryNameRequired = errors.New("分类名称不能为空")
	ErrProductNotFound      = errors.New("商品不存在")
	ErrProductNameRequired  = errors.New("商品名称不能为空")
	ErrProductForbidden     = errors.New("无权操作该商品")
	ErrInvalidPrice         = errors.New("价格不合法")
	ErrInvalidStock         = errors.New("库存不合法")
	ErrTooManyImages        = errors.New("商品图片超过数量限制")

	// 购物车
	ErrInvalidQuantity  = errors.New("数量不合法")
	ErrCartItemNotFound = errors.New("购物车项不存在")
	ErrCartEmpty        = errors.New("购物车为空")

	// 订单
	ErrOrderNotFound          = errors.New("订单不存在")
	ErrOrderNotRelated        = errors.New("无权查看该订单")
	ErrOrderCancelNotAllowed  = errors.New("当前状态不允许取消订单")
	ErrOrderStatusInvalid     = errors.New("订单状态不合法")
	ErrOrderTransitionInvalid = errors.New("订单状态流转不合法")
	ErrInsufficientStock      = errors.New("商品库存不足")
	ErrStockConflict          = errors.New("库存并发冲突，请重试")

	// 评价与工单
	ErrReviewNotFound        = errors.New("评价不存在")
	ErrReviewExists          = errors.New("已评价过该商品")
	ErrInvalidRating         = errors.New("评分必须在 1-5 之间")
	ErrReportNotFound        = errors.New("工单不存在")
	ErrInvalidIssueType      = errors.New("问题类型不合法")
	ErrReportSubjectRequired = errors.New("工单标题不能为空")
	ErrInvalidReportStatus   = errors.New("工单状态不合法")

	// 上传
	ErrUploadTooLarge    = errors.New("文件大小超过限制")
	ErrUploadInvalidType = errors.New("文件类型不被允许")
)

// stockError 携带具体商品信息的库存错误
type stockError struct {
	sentinel    error
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *stockError) Error() string {
	return e.sentinel.Error()
}

func (e *stockError) Is(target error) bool {
	return target == e.sentinel
}

func newInsufficientStockError(productID uint, name string, requested, available int) error {
	return &stockError{
		sentinel:    ErrInsufficientStock,
		ProductID:   productID,
		ProductName: name,
		Requested:   requested,
		Available:   available,
	}
}

func newStockConflictError(productID uint, name string, requested int) error {
	return &stockError{
		sentinel:    ErrStockConflict,
		ProductID:   productID,
		ProductName: name,
		Requested:   requested,
	}
}

// StockErrorDetail 提取库存错误中的商品信息，用于响应提示
func StockErrorDetail(err error) (productName string, ok bool) {
	var se *stockError
	if errors.As(err, &se) {
		return se.ProductName, true
	}
	return "", false
}
