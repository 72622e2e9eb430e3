package provider

import (
	"github.com/harvestmart/harvestmart-api/internal/authz"
	"github.com/harvestmart/harvestmart-api/internal/cache"
	"github.com/harvestmart/harvestmart-api/internal/config"
	"github.com/harvestmart/harvestmart-api/internal/logger"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"
	"github.com/harvestmart/harvestmart-api/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// Repositories
	UserRepo     repository.UserRepository
	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	CartRepo     repository.CartRepository
	OrderRepo    repository.OrderRepository
	ReviewRepo   repository.ReviewRepository
	ReportRepo   repository.ReportRepository
	FeedbackRepo repository.FeedbackRepository

	// Services
	AuthzService    *authz.Service
	UserAuthService *service.UserAuthService
	ProductService  *service.ProductService
	CategoryService *service.CategoryService
	CartService     *service.CartService
	OrderService    *service.OrderService
	ReviewService   *service.ReviewService
	ReportService   *service.ReportService
	FeedbackService *service.FeedbackService
	UploadService   *service.UploadService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{Config: cfg}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.ReportRepo = repository.NewReportRepository(db)
	c.FeedbackRepo = repository.NewFeedbackRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.CartRepo, c.ReviewRepo, c.ReportRepo, c.ProductRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.ProductRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
	c.ReportService = service.NewReportService(c.ReportRepo)
	c.FeedbackService = service.NewFeedbackService(c.FeedbackRepo, c.UserRepo)

	uploadService, err := service.NewUploadService(c.Config)
	if err != nil {
		logger.Errorw("provider_init_upload_failed", "error", err)
		panic(err)
	}
	c.UploadService = uploadService
}
