package service

import (
	"strings"

	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// ProductReviews 商品评价列表及均分
type ProductReviews struct {
	Reviews       []models.Review `json:"reviews"`
	ReviewCount   int             `json:"review_count"`
	AverageRating float64         `json:"average_rating"`
}

// Create 提交评价；同一用户对同一商品只能评价一次
func (s *ReviewService) Create(userID, productID uint, rating int, comment string) (*models.Review, error) {
	if rating < constants.RatingMin || rating > constants.RatingMax {
		return nil, ErrInvalidRating
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.reviewRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListByProduct 获取商品评价列表与平均评分
func (s *ReviewService) ListByProduct(productID uint) (*ProductReviews, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	reviews, err := s.reviewRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}

	result := &ProductReviews{
		Reviews:     reviews,
		ReviewCount: len(reviews),
	}
	if len(reviews) > 0 {
		sum := 0
		for _, review := range reviews {
			sum += review.Rating
		}
		result.AverageRating = float64(sum) / float64(len(reviews))
	}
	return result, nil
}

// Delete 删除评价；仅评价作者或管理员可删除
func (s *ReviewService) Delete(reviewID, actorID uint, actorRole string) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if review.UserID != actorID && actorRole != constants.RoleAdmin {
		return ErrReviewNotFound
	}
	return s.reviewRepo.Delete(review.ID)
}
