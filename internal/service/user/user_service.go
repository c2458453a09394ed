package user

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	apperrors "github.com/weiwangfds/cloudnotes/internal/errors"
	"github.com/weiwangfds/cloudnotes/internal/database"
	"github.com/weiwangfds/cloudnotes/internal/logger"
	"gorm.io/gorm"
)

// Service 用户服务接口，负责本地用户记录的管理
// 用户身份由托管身份服务验证，本地仅保存档案信息
type Service interface {
	// Register 注册时写入本地用户记录
	Register(externalID, email, firstName, lastName string) (*database.User, error)
	// EnsureUser 按邮箱查找用户，不存在时按需创建（首次登录JIT建档）
	// 建档时一并写入身份服务档案中的姓名属性
	EnsureUser(externalID, email, firstName, lastName string) (*database.User, error)
	// GetByID 按主键查找用户
	GetByID(id string) (*database.User, error)
}

type userService struct {
	db *gorm.DB
}

// NewService 创建用户服务实例
func NewService(db *gorm.DB) Service {
	return &userService{db: db}
}

// Register 注册时写入本地用户记录
// 邮箱已存在时返回已有记录，保证重复注册幂等
func (s *userService) Register(externalID, email, firstName, lastName string) (*database.User, error) {
	user := &database.User{
		ID:        uuid.NewString(),
		CognitoID: &externalID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := s.db.Create(user).Error; err != nil {
		var existing database.User
		if findErr := s.db.Where("email = ?", email).First(&existing).Error; findErr == nil {
			logger.Infof("[用户服务] 邮箱已注册，复用已有记录: %s", email)
			return &existing, nil
		}
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseInsert,
			fmt.Errorf("failed to create user: %w", err))
	}

	logger.Infof("[用户服务] 用户注册成功: %s", email)
	return user, nil
}

// EnsureUser 按邮箱查找用户，不存在时按需创建
// 并发首次登录可能同时创建同一邮箱，创建失败后按邮箱重读，
// 以唯一索引的结果为准
func (s *userService) EnsureUser(externalID, email, firstName, lastName string) (*database.User, error) {
	var user database.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		changed := false
		if user.CognitoID == nil && externalID != "" {
			user.CognitoID = &externalID
			changed = true
		}
		// 注册期遗留的空姓名用身份服务档案补齐
		if user.FirstName == "" && firstName != "" {
			user.FirstName = firstName
			changed = true
		}
		if user.LastName == "" && lastName != "" {
			user.LastName = lastName
			changed = true
		}
		if changed {
			if saveErr := s.db.Save(&user).Error; saveErr != nil {
				logger.Warnf("[用户服务] 回填用户档案失败: %v", saveErr)
			}
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseQuery,
			fmt.Errorf("failed to query user by email: %w", err))
	}

	user = database.User{
		ID:        uuid.NewString(),
		CognitoID: &externalID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
	if createErr := s.db.Create(&user).Error; createErr != nil {
		var existing database.User
		if findErr := s.db.Where("email = ?", email).First(&existing).Error; findErr == nil {
			return &existing, nil
		}
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseInsert,
			fmt.Errorf("failed to provision user: %w", createErr))
	}

	logger.Infof("[用户服务] 首次登录，已自动建档: %s", email)
	return &user, nil
}

// GetByID 按主键查找用户
func (s *userService) GetByID(id string) (*database.User, error) {
	var user database.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFoundError
		}
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseQuery,
			fmt.Errorf("failed to query user: %w", err))
	}
	return &user, nil
}
