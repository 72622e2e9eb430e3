package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/harvestmart/harvestmart-api/internal/cache"
	"github.com/harvestmart/harvestmart-api/internal/config"
	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	cartRepo    repository.CartRepository
	reviewRepo  repository.ReviewRepository
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, cartRepo repository.CartRepository, reviewRepo repository.ReviewRepository, reportRepo repository.ReportRepository, productRepo repository.ProductRepository) *UserAuthService {
	return &UserAuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		reviewRepo:  reviewRepo,
		reportRepo:  reportRepo,
		productRepo: productRepo,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// SignupInput 注册输入
type SignupInput struct {
	Username string
	Email    string
	Password string
	Role     string
	Phone    string
	Address  string
}

// UpdateProfileInput 资料更新输入（nil 表示不更新该字段）
type UpdateProfileInput struct {
	Email   *string
	Phone   *string
	Address *string
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// Signup 用户注册
func (s *UserAuthService) Signup(input SignupInput) (*models.User, string, time.Time, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role == "" {
		role = constants.RoleBuyer
	}
	if role != constants.RoleBuyer && role != constants.RoleSeller {
		return nil, "", time.Time{}, ErrInvalidRole
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	if exist, err := s.userRepo.GetByUsername(username); err != nil {
		return nil, "", time.Time{}, err
	} else if exist != nil {
		return nil, "", time.Time{}, ErrUsernameExists
	}
	if exist, err := s.userRepo.GetByEmail(normalized); err != nil {
		return nil, "", time.Time{}, err
	} else if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Login 用户登录；用户不存在与密码错误返回同一错误，避免枚举
func (s *UserAuthService) Login(username, password string) (*models.User, string, time.Time, error) {
	trimmed := strings.TrimSpace(username)
	user, err := s.userRepo.GetByUsername(trimmed)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil && strings.Contains(trimmed, "@") {
		user, err = s.userRepo.GetByEmail(strings.ToLower(trimmed))
		if err != nil {
			return nil, "", time.Time{}, err
		}
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// GetProfile 获取用户资料
func (s *UserAuthService) GetProfile(userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 更新用户资料
func (s *UserAuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	updated := false
	if input.Email != nil {
		normalized, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if normalized != user.Email {
			exist, err := s.userRepo.GetByEmail(normalized)
			if err != nil {
				return nil, err
			}
			if exist != nil && exist.ID != user.ID {
				return nil, ErrEmailExists
			}
			user.Email = normalized
			updated = true
		}
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
		updated = true
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
		updated = true
	}

	if !updated {
		return nil, ErrProfileEmpty
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword 登录态修改密码；修改成功后旧 Token 全部失效
func (s *UserAuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	now := time.Now()
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// DeleteAccount 注销账户，同事务内清理用户关联数据
// 卖家账户会同时下架其全部商品；历史订单与订单项保留
func (s *UserAuthService) DeleteAccount(userID uint) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	err = s.userRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		reviewRepo := s.reviewRepo.WithTx(tx)
		reportRepo := s.reportRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		if err := cartRepo.ClearByUser(user.ID); err != nil {
			return err
		}
		if err := reviewRepo.DeleteByUser(user.ID); err != nil {
			return err
		}
		if err := reportRepo.DeleteByUser(user.ID); err != nil {
			return err
		}
		if user.Role == constants.RoleSeller {
			if err := s.productRepo.WithTx(tx).DeleteBySeller(user.ID); err != nil {
				return err
			}
		}
		return userRepo.Delete(user.ID)
	})
	if err != nil {
		return err
	}

	_ = cache.DelUserAuthState(context.Background(), user.ID)
	return nil
}

// ListUsers 管理员查看用户列表
func (s *UserAuthService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}
