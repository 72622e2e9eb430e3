package router

import (
	"fmt"
	"strings"

	"github.com/harvestmart/harvestmart-api/internal/cache"
	"github.com/harvestmart/harvestmart-api/internal/config"
	adminhandlers "github.com/harvestmart/harvestmart-api/internal/http/handlers/admin"
	publichandlers "github.com/harvestmart/harvestmart-api/internal/http/handlers/public"
	"github.com/harvestmart/harvestmart-api/internal/logger"
	"github.com/harvestmart/harvestmart-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "hm"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的图片）- 必须放在最前面
	r.Static("/uploads", "./uploads")

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/products/:id/reviews", publicHandler.GetProductReviews)
		apiV1.GET("/categories", publicHandler.GetCategories)
		apiV1.GET("/categories/:id", publicHandler.GetCategory)
		apiV1.GET("/feedback", publicHandler.ListFeedback)

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", publicHandler.Signup)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), publicHandler.Login)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetMe)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)
			user.DELETE("/me", publicHandler.DeleteAccount)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart", publicHandler.AddCartItem)
			user.PUT("/cart/:id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/:id", publicHandler.RemoveCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)

			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders/my-orders", publicHandler.ListMyOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.DELETE("/orders/:id", publicHandler.CancelMyOrder)

			user.POST("/products/:id/reviews", publicHandler.CreateReview)
			user.DELETE("/reviews/:id", publicHandler.DeleteReview)

			user.POST("/reports", publicHandler.CreateReport)
			user.GET("/reports", publicHandler.ListMyReports)

			user.POST("/feedback", publicHandler.CreateFeedback)
		}

		// 卖家接口（需鉴权 + 角色授权）
		seller := apiV1.Group("")
		seller.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		seller.Use(RBACMiddleware(c.AuthzService))
		{
			seller.GET("/seller/products", publicHandler.ListMyProducts)
			seller.POST("/seller/products", publicHandler.CreateProduct)
			seller.PUT("/seller/products/:id", publicHandler.UpdateProduct)
			seller.DELETE("/seller/products/:id", publicHandler.DeleteProduct)

			seller.GET("/orders/seller/orders", publicHandler.ListSellerOrders)
			seller.PUT("/orders/:id/status", publicHandler.UpdateSellerOrderStatus)

			seller.GET("/seller/reports", publicHandler.ListSellerReports)

			seller.POST("/upload", publicHandler.UploadImage)
		}

		// 管理员接口（需鉴权 + 角色授权）
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		admin.Use(RBACMiddleware(c.AuthzService))
		{
			admin.GET("/users", adminHandler.AdminListUsers)

			admin.GET("/orders", adminHandler.AdminListOrders)
			admin.GET("/orders/:id", adminHandler.AdminGetOrder)
			admin.PUT("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)

			admin.POST("/categories", adminHandler.AdminCreateCategory)
			admin.PUT("/categories/:id", adminHandler.AdminUpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.AdminDeleteCategory)

			admin.GET("/reports", adminHandler.AdminListReports)
			admin.PUT("/reports/:id/status", adminHandler.AdminUpdateReportStatus)

			admin.GET("/feedback", adminHandler.AdminListFeedback)

			admin.GET("/authz/roles", adminHandler.AdminListRoles)
			admin.GET("/authz/roles/:role/policies", adminHandler.AdminGetRolePolicies)
			admin.POST("/authz/policies", adminHandler.AdminGrantRolePolicy)
			admin.DELETE("/authz/policies", adminHandler.AdminRevokeRolePolicy)
		}
	}

	return r
}
