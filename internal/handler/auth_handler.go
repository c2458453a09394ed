// Package handler 提供笔记与文件管理相关的HTTP处理器
// 认证委托给托管身份服务，本地只维护用户档案
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/cloudnotes/internal/database"
	apperrors "github.com/weiwangfds/cloudnotes/internal/errors"
	"github.com/weiwangfds/cloudnotes/internal/logger"
	"github.com/weiwangfds/cloudnotes/internal/middleware"
	"github.com/weiwangfds/cloudnotes/internal/response"
	"github.com/weiwangfds/cloudnotes/internal/service/identity"
	"github.com/weiwangfds/cloudnotes/internal/service/user"
	"gorm.io/gorm"
)

// RegisterRequest 注册请求参数
type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ConfirmRequest 账号确认请求参数
type ConfirmRequest struct {
	Email            string `json:"email" binding:"required"`
	ConfirmationCode string `json:"confirmationCode" binding:"required"`
}

// LoginRequest 登录请求参数
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest 忘记密码请求参数
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest 重置密码请求参数
type ResetPasswordRequest struct {
	Email            string `json:"email" binding:"required"`
	ConfirmationCode string `json:"confirmationCode" binding:"required"`
	NewPassword      string `json:"newPassword" binding:"required"`
}

// AuthHandler 认证处理器
// 将注册、确认、登录、密码重置转发到托管身份服务，
// 并在本地维护对应的用户记录
type AuthHandler struct {
	identity identity.Provider
	users    user.Service
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(provider identity.Provider, users user.Service) *AuthHandler {
	return &AuthHandler{
		identity: provider,
		users:    users,
	}
}

// Register 用户注册
// @Summary 注册新用户
// @Description 在托管身份服务中创建账号，同时写入本地用户记录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册请求"
// @Success 201 {object} response.MessageBody "注册成功，待确认"
// @Failure 400 {object} response.MessageBody "请求参数错误"
// @Failure 500 {object} response.MessageBody "服务器内部错误"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrInvalidParams), err)
		return
	}

	externalID, err := h.identity.SignUp(c.Request.Context(),
		req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		logger.Warnf("[认证处理器] 注册失败: %s, 错误: %v", req.Email, err)
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrIdentitySignupFailed), err)
		return
	}

	if _, err := h.users.Register(externalID, req.Email, req.FirstName, req.LastName); err != nil {
		logger.Errorf("[认证处理器] 本地建档失败: %s, 错误: %v", req.Email, err)
		response.InternalServerErrorWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrInternalServer), err)
		return
	}

	// userId返回身份服务分配的用户标识，便于客户端与身份服务对账
	response.Created(c, gin.H{
		"message": "注册成功，请查收确认邮件",
		"userId":  externalID,
	})
}

// Confirm 确认账号
// @Summary 确认注册账号
// @Description 使用邮件中的验证码在托管身份服务中确认账号
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ConfirmRequest true "确认请求"
// @Success 200 {object} response.MessageBody "确认成功"
// @Failure 400 {object} response.MessageBody "请求参数或验证码错误"
// @Router /auth/confirm [post]
func (h *AuthHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrInvalidParams), err)
		return
	}

	if err := h.identity.ConfirmSignUp(c.Request.Context(), req.Email, req.ConfirmationCode); err != nil {
		logger.Warnf("[认证处理器] 账号确认失败: %s, 错误: %v", req.Email, err)
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrIdentityConfirmFailed), err)
		return
	}

	response.Message(c, "账号确认成功")
}

// Login 用户登录
// @Summary 用户登录
// @Description 在托管身份服务中校验凭证，返回访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录请求"
// @Success 200 {object} map[string]interface{} "登录成功，含tokens和user"
// @Failure 400 {object} response.MessageBody "请求参数错误"
// @Failure 401 {object} response.MessageBody "凭证无效"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrInvalidParams), err)
		return
	}

	tokens, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warnf("[认证处理器] 登录失败: %s, 错误: %v", req.Email, err)
		response.Unauthorized(c,
			apperrors.GetErrorMessage(apperrors.ErrIdentityLoginFailed))
		return
	}

	localUser, err := h.ensureLocalUser(c.Request.Context(), tokens.AccessToken)
	if err != nil {
		logger.Errorf("[认证处理器] 登录后建档失败: %s, 错误: %v", req.Email, err)
		response.InternalServerErrorWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrInternalServer), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"tokens":  tokens,
		"user": gin.H{
			"id":        localUser.ID,
			"email":     localUser.Email,
			"firstName": localUser.FirstName,
			"lastName":  localUser.LastName,
		},
	})
}

// ensureLocalUser 登录成功后确保本地用户记录存在并返回
func (h *AuthHandler) ensureLocalUser(ctx context.Context, accessToken string) (*database.User, error) {
	profile, err := h.identity.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return h.users.EnsureUser(profile.ExternalID, profile.Email,
		profile.FirstName, profile.LastName)
}

// ForgotPassword 忘记密码
// @Summary 发起密码重置
// @Description 向用户邮箱发送密码重置验证码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "忘记密码请求"
// @Success 200 {object} response.MessageBody "验证码已发送"
// @Failure 400 {object} response.MessageBody "请求参数错误"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrInvalidParams), err)
		return
	}

	if err := h.identity.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		logger.Warnf("[认证处理器] 发起密码重置失败: %s, 错误: %v", req.Email, err)
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrIdentityResetFailed), err)
		return
	}

	response.Message(c, "密码重置验证码已发送")
}

// ResetPassword 重置密码
// @Summary 完成密码重置
// @Description 使用验证码设置新密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "重置密码请求"
// @Success 200 {object} response.MessageBody "重置成功"
// @Failure 400 {object} response.MessageBody "请求参数或验证码错误"
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrInvalidParams), err)
		return
	}

	if err := h.identity.ResetPassword(c.Request.Context(),
		req.Email, req.ConfirmationCode, req.NewPassword); err != nil {
		logger.Warnf("[认证处理器] 密码重置失败: %s, 错误: %v", req.Email, err)
		response.BadRequestWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrIdentityResetFailed), err)
		return
	}

	response.Message(c, "密码重置成功")
}

// Profile 获取当前用户档案
// @Summary 获取当前用户档案
// @Description 返回令牌对应的本地用户记录
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} database.User "用户档案"
// @Failure 401 {object} response.MessageBody "缺少令牌"
// @Failure 403 {object} response.MessageBody "令牌无效"
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	profile, err := h.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || apperrors.IsCode(err, apperrors.ErrUserNotFound) {
			response.NotFound(c, apperrors.GetErrorMessage(apperrors.ErrUserNotFound))
			return
		}
		response.InternalServerErrorWithError(c,
			apperrors.GetErrorMessage(apperrors.ErrInternalServer), err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
