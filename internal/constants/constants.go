package constants

// 用户角色常量
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 工单状态常量
const (
	ReportStatusOpen     = "open"
	ReportStatusResolved = "resolved"
	ReportStatusClosed   = "closed"
)

// 工单问题类型常量
const (
	ReportIssueOrder    = "order_issue"
	ReportIssueProduct  = "product_issue"
	ReportIssueDelivery = "delivery_issue"
	ReportIssueOther    = "other"
)

// 评分上下限常量
const (
	RatingMin = 1
	RatingMax = 5
)

// 商品图片数量上限常量
const (
	ProductMaxImages = 3
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "hm"
)

// 上传存储提供方常量
const (
	StorageProviderLocal = "local"
	StorageProviderS3    = "s3"
)
