package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"KanbanGo/models"
)

// UserService 用户服务，负责注册、认证和资料维护
type UserService struct {
	db         *gorm.DB
	bcryptCost int
	logger     *zap.SugaredLogger
}

func NewUserService(db *gorm.DB, bcryptCost int, logger *zap.SugaredLogger) *UserService {
	return &UserService{db: db, bcryptCost: bcryptCost, logger: logger}
}

// Register 注册新用户，邮箱重复时返回ErrEmailExists
func (s *UserService) Register(req models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, newValidationError("%s", err.Error())
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	s.logger.Infow("用户注册成功", "userID", user.ID, "email", user.Email)
	return &user, nil
}

// Authenticate 校验邮箱和密码，成功后刷新最近登录时间
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID 按ID查询用户
func (s *UserService) GetByID(id int64) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 更新用户资料，只覆盖请求中出现的字段。
// 新邮箱被其他用户占用时返回ErrEmailExists
func (s *UserService) UpdateProfile(userID int64, req models.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("email = ? AND id <> ?", *req.Email, userID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailExists
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}

	s.logger.Infow("用户资料更新成功", "userID", user.ID)
	return &user, nil
}
