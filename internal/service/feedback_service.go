package service

import (
	"strings"

	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"
)

// FeedbackService 站点反馈服务
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	userRepo     repository.UserRepository
}

// NewFeedbackService 创建反馈服务
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, userRepo repository.UserRepository) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
	}
}

// Create 提交站点反馈；用户名与邮箱取自当前用户快照
func (s *FeedbackService) Create(userID uint, rating int, comments string) (*models.Feedback, error) {
	if rating < constants.RatingMin || rating > constants.RatingMax {
		return nil, ErrInvalidRating
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	feedback := &models.Feedback{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Rating:   rating,
		Comments: strings.TrimSpace(comments),
	}
	if err := s.feedbackRepo.Create(feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// List 管理员查看反馈列表
func (s *FeedbackService) List(page, pageSize int) ([]models.Feedback, int64, error) {
	return s.feedbackRepo.List(page, pageSize)
}
