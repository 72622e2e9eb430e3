package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleEN = "en"
	LocaleZH = "zh"
)

const defaultLocale = LocaleEN

// ResolveLocale 从请求中解析语言;优先 query 参数,其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return defaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return normalizeLocale(lang)
	}
	return normalizeLocale(c.GetHeader("Accept-Language"))
}

// T 返回 key 对应的消息文案;未知 key 原样返回
func T(locale, key string) string {
	if messages, ok := catalog[normalizeLocale(locale)]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[defaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 返回带参数格式化的消息文案
func Sprintf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func normalizeLocale(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return defaultLocale
	}
	// Accept-Language 可能携带权重列表，只看第一段
	if idx := strings.IndexAny(raw, ",;"); idx >= 0 {
		raw = raw[:idx]
	}
	if strings.HasPrefix(raw, "zh") {
		return LocaleZH
	}
	return LocaleEN
}

var catalog = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":              "invalid request",
		"error.unauthorized":             "authentication required",
		"error.forbidden":                "permission denied",
		"error.user_id_invalid":          "invalid user identity",
		"error.user_id_type_invalid":     "invalid user identity",
		"error.not_found":                "resource not found",
		"error.internal":                 "internal server error",
		"error.rate_limited":             "too many requests, please retry in %d seconds",
		"error.auth_header_missing":      "missing authorization header",
		"error.auth_header_invalid":      "invalid authorization header",
		"error.token_invalid":            "invalid or expired token",
		"error.token_revoked":            "token has been revoked, please login again",
		"error.jwt_secret_missing":       "authentication is not configured",
		"error.rate_limit_unavailable":   "rate limiter unavailable, please retry later",
		"error.login_failed":             "incorrect username or password",
		"error.login_too_many":           "too many login attempts, please retry in %d seconds",
		"error.username_exists":          "username already registered",
		"error.email_exists":             "email already registered",
		"error.email_invalid":            "invalid email address",
		"error.role_invalid":             "role must be buyer or seller",
		"error.signup_failed":            "failed to create account",
		"error.profile_empty":            "nothing to update",
		"error.profile_update_failed":    "failed to update profile",
		"error.account_delete_failed":    "failed to delete account",
		"error.password_policy":          "password does not meet the security policy",
		"error.password_min_length":      "password must be at least %d characters",
		"error.password_require_upper":   "password must contain an uppercase letter",
		"error.password_require_lower":   "password must contain a lowercase letter",
		"error.password_require_number":  "password must contain a digit",
		"error.password_require_special": "password must contain a special character",
		"error.password_mismatch":        "current password is incorrect",
		"error.user_not_found":           "user not found",
		"error.category_not_found":       "category not found",
		"error.category_exists":          "category name already exists",
		"error.category_name_required":   "category name is required",
		"error.category_save_failed":     "failed to save category",
		"error.product_not_found":        "product not found",
		"error.product_forbidden":        "you do not own this product",
		"error.product_name_required":    "product name is required",
		"error.product_fetch_failed":     "failed to load products",
		"error.product_save_failed":      "failed to save product",
		"error.price_invalid":            "price must be greater than zero",
		"error.stock_invalid":            "stock must be zero or greater",
		"error.images_too_many":          "too many product images",
		"error.quantity_invalid":         "quantity must be greater than zero",
		"error.cart_item_not_found":      "cart item not found",
		"error.cart_empty":               "your cart is empty",
		"error.cart_update_failed":       "failed to update cart",
		"error.stock_insufficient":       "insufficient stock for %s",
		"error.stock_conflict":           "stock changed while placing the order, please retry",
		"error.order_not_found":          "order not found",
		"error.order_forbidden":          "you are not allowed to view this order",
		"error.order_not_related":        "order contains none of your products",
		"error.order_status_invalid":     "unknown order status",
		"error.order_transition_invalid": "order status transition not allowed",
		"error.order_cancel_not_allowed": "only pending orders can be cancelled",
		"error.order_create_failed":      "failed to place order",
		"error.order_fetch_failed":       "failed to load orders",
		"error.order_update_failed":      "failed to update order",
		"error.review_exists":            "you have already reviewed this product",
		"error.review_not_found":         "review not found",
		"error.rating_invalid":           "rating must be between 1 and 5",
		"error.report_not_found":         "report not found",
		"error.report_status_invalid":    "report status must be open, resolved or closed",
		"error.issue_type_invalid":       "unknown issue type",
		"error.report_subject_required":  "report subject is required",
		"error.report_save_failed":       "failed to save report",
		"error.review_save_failed":       "failed to save review",
		"error.feedback_save_failed":     "failed to save feedback",
		"error.upload_invalid":           "unsupported image type",
		"error.upload_too_large":         "image exceeds the size limit",
		"error.upload_failed":            "image upload failed",
	},
	LocaleZH: {
		"error.bad_request":              "请求参数无效",
		"error.unauthorized":             "请先登录",
		"error.forbidden":                "没有操作权限",
		"error.user_id_invalid":          "用户身份异常",
		"error.user_id_type_invalid":     "用户身份异常",
		"error.not_found":                "资源不存在",
		"error.internal":                 "服务器内部错误",
		"error.rate_limited":             "请求过于频繁，请 %d 秒后再试",
		"error.auth_header_missing":      "缺少认证头",
		"error.auth_header_invalid":      "认证头格式无效",
		"error.token_invalid":            "登录凭证无效或已过期",
		"error.token_revoked":            "登录凭证已失效，请重新登录",
		"error.jwt_secret_missing":       "认证配置缺失",
		"error.rate_limit_unavailable":   "限流服务不可用，请稍后再试",
		"error.login_failed":             "用户名或密码错误",
		"error.login_too_many":           "登录尝试过多，请 %d 秒后再试",
		"error.username_exists":          "用户名已被注册",
		"error.email_exists":             "邮箱已被注册",
		"error.email_invalid":            "邮箱格式无效",
		"error.role_invalid":             "角色只能是 buyer 或 seller",
		"error.signup_failed":            "注册失败",
		"error.profile_empty":            "没有需要更新的内容",
		"error.profile_update_failed":    "更新资料失败",
		"error.account_delete_failed":    "注销账号失败",
		"error.password_policy":          "密码不满足安全策略",
		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_require_upper":   "密码必须包含大写字母",
		"error.password_require_lower":   "密码必须包含小写字母",
		"error.password_require_number":  "密码必须包含数字",
		"error.password_require_special": "密码必须包含特殊字符",
		"error.password_mismatch":        "当前密码不正确",
		"error.user_not_found":           "用户不存在",
		"error.category_not_found":       "分类不存在",
		"error.category_exists":          "分类名称已存在",
		"error.category_name_required":   "分类名称不能为空",
		"error.category_save_failed":     "保存分类失败",
		"error.product_not_found":        "商品不存在",
		"error.product_forbidden":        "该商品不属于你",
		"error.product_name_required":    "商品名称不能为空",
		"error.product_fetch_failed":     "加载商品失败",
		"error.product_save_failed":      "保存商品失败",
		"error.price_invalid":            "价格必须大于零",
		"error.stock_invalid":            "库存不能为负数",
		"error.images_too_many":          "商品图片数量超出限制",
		"error.quantity_invalid":         "数量必须大于零",
		"error.cart_item_not_found":      "购物车条目不存在",
		"error.cart_empty":               "购物车是空的",
		"error.cart_update_failed":       "更新购物车失败",
		"error.stock_insufficient":       "%s 库存不足",
		"error.stock_conflict":           "下单时库存发生变化，请重试",
		"error.order_not_found":          "订单不存在",
		"error.order_forbidden":          "无权查看该订单",
		"error.order_not_related":        "订单中没有你的商品",
		"error.order_status_invalid":     "未知的订单状态",
		"error.order_transition_invalid": "订单状态流转不合法",
		"error.order_cancel_not_allowed": "只有待处理订单可以取消",
		"error.order_create_failed":      "下单失败",
		"error.order_fetch_failed":       "加载订单失败",
		"error.order_update_failed":      "更新订单失败",
		"error.review_exists":            "你已评价过该商品",
		"error.review_not_found":         "评价不存在",
		"error.rating_invalid":           "评分必须在 1 到 5 之间",
		"error.report_not_found":         "工单不存在",
		"error.report_status_invalid":    "工单状态只能是 open、resolved 或 closed",
		"error.issue_type_invalid":       "未知的工单类型",
		"error.report_subject_required":  "工单主题不能为空",
		"error.report_save_failed":       "保存工单失败",
		"error.review_save_failed":       "保存评价失败",
		"error.feedback_save_failed":     "保存反馈失败",
		"error.upload_invalid":           "不支持的图片类型",
		"error.upload_too_large":         "图片超出大小限制",
		"error.upload_failed":            "图片上传失败",
	},
}
