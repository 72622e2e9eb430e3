package main

import (
	"github.com/harvestmart/harvestmart-api/internal/config"
	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/logger"
	"github.com/harvestmart/harvestmart-api/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "Vegetables", Description: "Seasonal vegetables straight from local farms"},
		{Name: "Fruits", Description: "Orchard fruits and berries picked at peak ripeness"},
		{Name: "Dairy & Eggs", Description: "Small-batch dairy, cheese and pastured eggs"},
		{Name: "Pantry", Description: "Preserves, honey, grains and other farm pantry staples"},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("name = ?", cat.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Name, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Name)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Name)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Name] = cat.ID
	}

	// 添加示例卖家
	sellers := []models.User{
		{
			Username: "greenfield-farm",
			Email:    "hello@greenfield-farm.example",
			Phone:    "555-0101",
			Address:  "12 Orchard Lane, Maple Valley",
			Role:     constants.RoleSeller,
		},
		{
			Username: "hillside-dairy",
			Email:    "orders@hillside-dairy.example",
			Phone:    "555-0102",
			Address:  "88 Ridge Road, Cedar Falls",
			Role:     constants.RoleSeller,
		},
	}
	sellerIDs := map[string]uint{}
	for _, seller := range sellers {
		var existing models.User
		if err := models.DB.Where("username = ?", seller.Username).First(&existing).Error; err != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte("Harvest2024!"), bcrypt.DefaultCost)
			if err != nil {
				stdLog.Fatalf("Failed to hash seed password: %v", err)
			}
			seller.PasswordHash = string(hash)
			if err := models.DB.Create(&seller).Error; err != nil {
				stdLog.Printf("Failed to create seller %s: %v", seller.Username, err)
				continue
			}
			stdLog.Printf("Created seller: %s", seller.Username)
			sellerIDs[seller.Username] = seller.ID
		} else {
			stdLog.Printf("Seller already exists: %s", seller.Username)
			sellerIDs[seller.Username] = existing.ID
		}
	}

	greenfieldID := sellerIDs["greenfield-farm"]
	hillsideID := sellerIDs["hillside-dairy"]
	vegetablesID := categoryIDs["Vegetables"]
	fruitsID := categoryIDs["Fruits"]
	dairyID := categoryIDs["Dairy & Eggs"]
	pantryID := categoryIDs["Pantry"]

	// 添加商品
	products := []models.Product{
		{
			SellerID:      greenfieldID,
			CategoryID:    &vegetablesID,
			Name:          "Heirloom Tomatoes",
			Description:   "Mixed heirloom varieties grown without synthetic pesticides, sold by the pound.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(4.50)),
			StockQuantity: 120,
			Images:        models.StringArray{"/uploads/seed/heirloom-tomatoes.jpg"},
			IsActive:      true,
		},
		{
			SellerID:      greenfieldID,
			CategoryID:    &vegetablesID,
			Name:          "Lacinato Kale Bunch",
			Description:   "Dark leafy kale cut the same morning it ships.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(2.75)),
			StockQuantity: 80,
			Images:        models.StringArray{"/uploads/seed/lacinato-kale.jpg"},
			IsActive:      true,
		},
		{
			SellerID:      greenfieldID,
			CategoryID:    &fruitsID,
			Name:          "Honeycrisp Apples",
			Description:   "Crisp, sweet-tart apples from our east orchard, sold by the half peck.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(7.00)),
			StockQuantity: 60,
			Images:        models.StringArray{"/uploads/seed/honeycrisp-apples.jpg"},
			IsActive:      true,
		},
		{
			SellerID:      hillsideID,
			CategoryID:    &dairyID,
			Name:          "Pastured Eggs (Dozen)",
			Description:   "Free-range eggs from hens rotated on fresh pasture.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(6.25)),
			StockQuantity: 45,
			Images:        models.StringArray{"/uploads/seed/pastured-eggs.jpg"},
			IsActive:      true,
		},
		{
			SellerID:      hillsideID,
			CategoryID:    &dairyID,
			Name:          "Aged Farmhouse Cheddar",
			Description:   "Raw-milk cheddar aged twelve months in our cellar, 8 oz wedge.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(9.50)),
			StockQuantity: 30,
			Images:        models.StringArray{"/uploads/seed/farmhouse-cheddar.jpg"},
			IsActive:      true,
		},
		{
			SellerID:      hillsideID,
			CategoryID:    &pantryID,
			Name:          "Wildflower Honey",
			Description:   "Raw unfiltered honey from hives along the back meadow, 16 oz jar.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(12.00)),
			StockQuantity: 50,
			Images:        models.StringArray{"/uploads/seed/wildflower-honey.jpg"},
			IsActive:      true,
		},
	}
	for _, product := range products {
		if product.SellerID == 0 {
			stdLog.Printf("Skipping product %s: seller missing", product.Name)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("seller_id = ? AND name = ?", product.SellerID, product.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			} else {
				stdLog.Printf("Created product: %s", product.Name)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Name)
		}
	}

	stdLog.Printf("Seed finished")
}
